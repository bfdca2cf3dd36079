package http

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/media-album/internal/domain/auth"
	"github.com/yanqian/media-album/internal/infra/config"
)

// AuthHandler serves login, registration and profile endpoints.
type AuthHandler struct {
	svc        auth.Service
	cookieName string
	logger     *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(cfg *config.Config, svc auth.Service, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:        svc,
		cookieName: cfg.Captcha.CookieName,
		logger:     logger.With("component", "http.auth"),
	}
}

type loginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Captcha  string `json:"captcha"`
}

// Login checks the captcha bound to the session cookie, then the
// credentials, and returns a signed token on success.
func (h *AuthHandler) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFail(c, "invalid request body")
		return
	}
	sessionID, _ := c.Cookie(h.cookieName)
	result, err := h.svc.Login(c.Request.Context(), auth.LoginRequest{
		Username:  payload.Username,
		Password:  payload.Password,
		Captcha:   payload.Captcha,
		SessionID: sessionID,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "login successful", result)
}

// Register creates a new account.
func (h *AuthHandler) Register(c *gin.Context) {
	var payload auth.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFail(c, "invalid request body")
		return
	}
	if err := h.svc.Register(c.Request.Context(), payload); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "registration successful", nil)
}

// CurrentUser returns the profile of the authenticated caller.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		respondFail(c, "please log in first")
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), identity.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "success", userView(user))
}

// UserByID returns a public profile by id.
func (h *AuthHandler) UserByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		respondFail(c, "invalid user id")
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "success", userView(user))
}

// UpdateProfile rewrites the caller's editable profile fields.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		respondFail(c, "please log in first")
		return
	}
	var payload auth.ProfileUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFail(c, "invalid request body")
		return
	}
	if err := h.svc.UpdateProfile(c.Request.Context(), identity.UserID, payload); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "profile updated", nil)
}

// userView shapes a profile response with the nickname fallback and the
// shared avatar applied.
func userView(user auth.User) gin.H {
	nickname := user.Nickname
	if nickname == "" {
		nickname = user.UserName
	}
	return gin.H{
		"id":         user.ID,
		"userName":   user.UserName,
		"nickname":   nickname,
		"avatar":     auth.DefaultAvatar,
		"email":      user.Email,
		"phone":      user.Phone,
		"role":       user.Role,
		"status":     user.Status,
		"createTime": user.CreateTime,
	}
}
