package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yanqian/media-album/pkg/errors"
)

// The frontend contract keeps every response at HTTP 200 and signals the
// outcome in the body: code 1 on success, 0 on a business failure, 500 when
// the server itself broke.
const (
	codeOK     = 1
	codeFail   = 0
	codeServer = 500
)

type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, envelope{Code: codeOK, Message: message, Data: data})
}

func respondFail(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope{Code: codeFail, Message: message})
}

func respondServerError(c *gin.Context, message string) {
	c.JSON(http.StatusOK, envelope{Code: codeServer, Message: message})
}

// serverErrorCodes are failures the caller cannot fix; their wrapped details
// stay in the log and a generic message goes to the client.
var serverErrorCodes = map[string]bool{
	"auth_error":  true,
	"media_error": true,
	"tag_error":   true,
}

func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
		respondServerError(c, "server error, try again later")
		return
	}
	if serverErrorCodes[appErr.Code] {
		logger.Error("request failed", "code", appErr.Code, "path", c.Request.URL.Path, "error", appErr.Err)
		respondServerError(c, "server error, try again later")
		return
	}
	logger.Warn("request rejected", "code", appErr.Code, "path", c.Request.URL.Path, "message", appErr.Message)
	respondFail(c, appErr.Message)
}
