package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/media-album/internal/domain/auth"
	"github.com/yanqian/media-album/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, codec *auth.TokenCodec, authHandler *AuthHandler, captchaHandler *CaptchaHandler, mediaHandler *MediaHandler, adminHandler *AdminHandler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		recoveryMiddleware(authHandler.logger),
		requestLogger(authHandler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		authMiddleware(codec),
	)

	api := router.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/register", authHandler.Register)
		api.GET("/captcha", captchaHandler.Image)
		api.POST("/captcha/verify", captchaHandler.Verify)

		api.GET("/user/info", authHandler.CurrentUser)
		api.GET("/user/:userId", authHandler.UserByID)
		api.POST("/user/update", authHandler.UpdateProfile)

		api.POST("/media/upload", mediaHandler.Upload)
		api.GET("/media/my-media", mediaHandler.MyMedia)
		api.GET("/media/public-media", mediaHandler.PublicMedia)
		api.GET("/media/media-detail", mediaHandler.Detail)
		api.GET("/media/recent", mediaHandler.Recent)
		api.GET("/media/download-media", mediaHandler.Download)
		api.DELETE("/media/delete-media", mediaHandler.Delete)
		api.DELETE("/media/batch-delete-media", mediaHandler.BatchDelete)

		admin := api.Group("/admin")
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.DELETE("/delete-user", adminHandler.DeleteUser)
			admin.POST("/user/status/:userId", adminHandler.UpdateUserStatus)
			admin.POST("/user/role/:userId", adminHandler.UpdateUserRole)
			admin.GET("/tags", adminHandler.ListTags)
			admin.POST("/add-tag", adminHandler.AddTag)
			admin.DELETE("/delete-tag", adminHandler.DeleteTag)
			admin.POST("/update-media", adminHandler.UpdateMedia)
			admin.DELETE("/delete-media", adminHandler.DeleteMedia)
		}
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
