package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Auth     AuthConfig     `yaml:"auth"`
	Captcha  CaptchaConfig  `yaml:"captcha"`
	Database DatabaseConfig `yaml:"database"`
	Session  SessionConfig  `yaml:"session"`
	Storage  StorageConfig  `yaml:"storage"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string        `yaml:"address"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
	AllowedOrigins []string      `yaml:"allowedOrigins"`
}

// AuthConfig drives token issuance and password hashing.
type AuthConfig struct {
	Secret         string        `yaml:"secret"`
	TokenTTL       time.Duration `yaml:"tokenTtl"`
	PasswordScheme string        `yaml:"passwordScheme"`
}

// CaptchaConfig controls the login challenge.
type CaptchaConfig struct {
	TTL        time.Duration `yaml:"ttl"`
	CookieName string        `yaml:"cookieName"`
}

// DatabaseConfig contains DSN and pooling settings.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// SessionConfig points the challenge store at a Valkey instance.
type SessionConfig struct {
	ValkeyEnabled bool   `yaml:"valkeyEnabled"`
	ValkeyAddr    string `yaml:"valkeyAddr"`
}

// StorageConfig selects where uploaded media objects live.
type StorageConfig struct {
	Backend   string   `yaml:"backend"` // "local" or "s3"
	LocalPath string   `yaml:"localPath"`
	S3        S3Config `yaml:"s3"`
}

// S3Config contains the S3-compatible endpoint settings.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = parsed
		}
	}
	if v := os.Getenv("AUTH_PASSWORD_SCHEME"); v != "" {
		cfg.Auth.PasswordScheme = v
	}
	if v := os.Getenv("CAPTCHA_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Captcha.TTL = parsed
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("DATABASE_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Database.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("DATABASE_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Database.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("SESSION_VALKEY_ENABLED"); v != "" {
		cfg.Session.ValkeyEnabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SESSION_VALKEY_ADDR"); v != "" {
		cfg.Session.ValkeyAddr = v
	}
	if v := os.Getenv("STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("STORAGE_LOCAL_PATH"); v != "" {
		cfg.Storage.LocalPath = v
	}
	if v := os.Getenv("STORAGE_S3_ENDPOINT"); v != "" {
		cfg.Storage.S3.Endpoint = v
	}
	if v := os.Getenv("STORAGE_S3_ACCESS_KEY"); v != "" {
		cfg.Storage.S3.AccessKey = v
	}
	if v := os.Getenv("STORAGE_S3_SECRET_KEY"); v != "" {
		cfg.Storage.S3.SecretKey = v
	}
	if v := os.Getenv("STORAGE_S3_BUCKET"); v != "" {
		cfg.Storage.S3.Bucket = v
	}
	if v := os.Getenv("STORAGE_S3_REGION"); v != "" {
		cfg.Storage.S3.Region = v
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:5174",
			},
		},
		Auth: AuthConfig{
			TokenTTL:       24 * time.Hour,
			PasswordScheme: "md5",
		},
		Captcha: CaptchaConfig{
			TTL:        5 * time.Minute,
			CookieName: "album_session",
		},
		Database: DatabaseConfig{
			MaxConns: 4,
			MinConns: 0,
		},
		Session: SessionConfig{
			ValkeyEnabled: false,
		},
		Storage: StorageConfig{
			Backend:   "local",
			LocalPath: "data/media",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.tokenTtl must be positive")
	}
	switch c.Auth.PasswordScheme {
	case "md5", "bcrypt":
	default:
		return errors.New("auth.passwordScheme must be md5 or bcrypt")
	}
	if c.Captcha.TTL <= 0 {
		return errors.New("captcha.ttl must be positive")
	}
	if c.Captcha.CookieName == "" {
		return errors.New("captcha.cookieName cannot be empty")
	}
	if c.Session.ValkeyEnabled && strings.TrimSpace(c.Session.ValkeyAddr) == "" {
		return errors.New("session.valkeyAddr cannot be empty when valkey is enabled")
	}
	switch c.Storage.Backend {
	case "local":
		if c.Storage.LocalPath == "" {
			return errors.New("storage.localPath cannot be empty for the local backend")
		}
	case "s3":
		if c.Storage.S3.Endpoint == "" || c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3 endpoint and bucket are required for the s3 backend")
		}
	default:
		return errors.New("storage.backend must be local or s3")
	}
	return nil
}
