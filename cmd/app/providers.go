package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/media-album/internal/domain/auth"
	"github.com/yanqian/media-album/internal/domain/captcha"
	"github.com/yanqian/media-album/internal/domain/media"
	"github.com/yanqian/media-album/internal/domain/tag"
	"github.com/yanqian/media-album/internal/infra/config"
	"github.com/yanqian/media-album/internal/infra/mediarepo"
	"github.com/yanqian/media-album/internal/infra/mediastore"
	"github.com/yanqian/media-album/internal/infra/sessionstore"
	"github.com/yanqian/media-album/internal/infra/tagrepo"
	"github.com/yanqian/media-album/internal/infra/userrepo"
)

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Secret:         cfg.Auth.Secret,
		TokenTTL:       cfg.Auth.TokenTTL,
		PasswordScheme: cfg.Auth.PasswordScheme,
	}
}

func provideCaptchaConfig(cfg *config.Config) captcha.Config {
	return captcha.Config{TTL: cfg.Captcha.TTL}
}

func provideTokenCodec(cfg *config.Config) (*auth.TokenCodec, error) {
	return auth.NewTokenCodec(provideAuthConfig(cfg))
}

// providePool opens the shared Postgres pool, or returns nil when no DSN is
// configured so the repositories fall back to memory.
func providePool(cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	dsn := strings.TrimSpace(cfg.Database.DSN)
	if dsn == "" {
		logger.Info("database dsn not set, using memory repositories")
		return nil
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repositories", "error", err)
		return nil
	}
	if cfg.Database.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Database.MaxConns
	}
	if cfg.Database.MinConns > 0 {
		poolConfig.MinConns = cfg.Database.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repositories", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repositories", "error", err)
		pool.Close()
		return nil
	}
	logger.Info("postgres repositories enabled")
	return pool
}

func provideUserRepository(pool *pgxpool.Pool) auth.Repository {
	if pool == nil {
		return userrepo.NewMemoryRepository()
	}
	return userrepo.NewPostgresRepository(pool)
}

func provideMediaRepository(pool *pgxpool.Pool, users auth.Repository) media.Repository {
	if pool == nil {
		return mediarepo.NewMemoryRepository(func(userID int64) string {
			user, found, err := users.GetByID(context.Background(), userID)
			if err != nil || !found {
				return ""
			}
			return user.UserName
		})
	}
	return mediarepo.NewPostgresRepository(pool)
}

func provideTagRepository(pool *pgxpool.Pool) tag.Repository {
	if pool == nil {
		return tagrepo.NewMemoryRepository()
	}
	return tagrepo.NewPostgresRepository(pool)
}

func provideChallengeStore(cfg *config.Config, logger *slog.Logger) captcha.Store {
	if cfg.Session.ValkeyEnabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return sessionstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return sessionstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey challenge store enabled", "addr", cfg.Session.ValkeyAddr)
			return sessionstore.NewValkeyStore(client, "captcha")
		}
	}
	return sessionstore.NewMemoryStore()
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Session.ValkeyAddr, "://") {
		opt, err = valkey.ParseURL(cfg.Session.ValkeyAddr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Session.ValkeyAddr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}

func provideObjectStorage(cfg *config.Config, logger *slog.Logger) (media.ObjectStorage, error) {
	if cfg.Storage.Backend == "s3" {
		s3 := cfg.Storage.S3
		return mediastore.NewMinioStore(s3.Endpoint, s3.AccessKey, s3.SecretKey, s3.Bucket, s3.Region, logger)
	}
	return mediastore.NewFSStore(cfg.Storage.LocalPath)
}

func provideChallengeVerifier(svc captcha.Service) auth.ChallengeVerifier {
	return svc
}
