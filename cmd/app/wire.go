//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/media-album/internal/bootstrap"
	"github.com/yanqian/media-album/internal/domain/auth"
	"github.com/yanqian/media-album/internal/domain/captcha"
	"github.com/yanqian/media-album/internal/domain/media"
	"github.com/yanqian/media-album/internal/domain/tag"
	"github.com/yanqian/media-album/internal/infra/config"
	httpiface "github.com/yanqian/media-album/internal/interface/http"
	"github.com/yanqian/media-album/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideCaptchaConfig,
		provideTokenCodec,
		providePool,
		provideUserRepository,
		provideMediaRepository,
		provideTagRepository,
		provideChallengeStore,
		provideChallengeVerifier,
		provideObjectStorage,
		captcha.NewService,
		auth.NewService,
		tag.NewService,
		media.NewService,
		httpiface.NewAuthHandler,
		httpiface.NewCaptchaHandler,
		httpiface.NewMediaHandler,
		httpiface.NewAdminHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
