package http

import (
	"bytes"
	"errors"
	"image/jpeg"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/media-album/internal/domain/captcha"
	"github.com/yanqian/media-album/internal/infra/config"
)

// CaptchaHandler serves the login challenge image and the standalone
// verification endpoint.
type CaptchaHandler struct {
	svc        captcha.Service
	cookieName string
	logger     *slog.Logger
}

// NewCaptchaHandler constructs the handler.
func NewCaptchaHandler(cfg *config.Config, svc captcha.Service, logger *slog.Logger) *CaptchaHandler {
	return &CaptchaHandler{
		svc:        svc,
		cookieName: cfg.Captcha.CookieName,
		logger:     logger.With("component", "http.captcha"),
	}
}

// Image renders a fresh challenge bound to the caller's session cookie and
// streams it as JPEG. A missing cookie gets a new session id.
func (h *CaptchaHandler) Image(c *gin.Context) {
	sessionID, err := c.Cookie(h.cookieName)
	if err != nil || sessionID == "" {
		sessionID = uuid.NewString()
		c.SetCookie(h.cookieName, sessionID, 0, "/", "", false, true)
	}

	_, img, err := h.svc.Generate(c.Request.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to generate challenge", "error", err)
		respondServerError(c, "server error, try again later")
		return
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		h.logger.Error("failed to encode challenge image", "error", err)
		respondServerError(c, "server error, try again later")
		return
	}

	headers := c.Writer.Header()
	headers.Set("Cache-Control", "no-store, no-cache, must-revalidate")
	headers.Set("Pragma", "no-cache")
	headers.Set("Expires", "0")
	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}

type verifyPayload struct {
	Captcha string `json:"captcha"`
}

// Verify consumes the live challenge and reports whether the answer
// matched. The challenge is gone afterwards either way.
func (h *CaptchaHandler) Verify(c *gin.Context) {
	var payload verifyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFail(c, "invalid request body")
		return
	}
	sessionID, _ := c.Cookie(h.cookieName)
	if sessionID == "" {
		respondFail(c, "session expired, refresh the page")
		return
	}
	err := h.svc.Verify(c.Request.Context(), sessionID, payload.Captcha)
	switch {
	case err == nil:
		respondOK(c, "captcha correct", nil)
	case errors.Is(err, captcha.ErrChallengeExpired):
		respondFail(c, "captcha expired, request a new one")
	case errors.Is(err, captcha.ErrChallengeMismatch):
		respondFail(c, "captcha incorrect, try again")
	default:
		h.logger.Error("failed to verify challenge", "error", err)
		respondServerError(c, "server error, try again later")
	}
}
