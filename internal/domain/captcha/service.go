package captcha

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math/big"
	"strings"
	"time"
)

const (
	codeLength = 4
	alphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// ErrChallengeExpired means no live challenge exists for the session.
var ErrChallengeExpired = errors.New("challenge expired")

// ErrChallengeMismatch means the answer did not match. The challenge is
// consumed either way.
var ErrChallengeMismatch = errors.New("challenge mismatch")

// Config controls challenge lifetime.
type Config struct {
	TTL time.Duration
}

// Service generates and verifies single-use login challenges.
type Service interface {
	Generate(ctx context.Context, sessionID string) (string, image.Image, error)
	Verify(ctx context.Context, sessionID, input string) error
}

type service struct {
	cfg    Config
	store  Store
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		store:  store,
		logger: logger.With("component", "captcha.service"),
	}
}

// Generate renders a fresh challenge and binds its lowercase text to the
// session, replacing any prior live challenge.
func (s *service) Generate(ctx context.Context, sessionID string) (string, image.Image, error) {
	text, err := randomText(codeLength)
	if err != nil {
		return "", nil, fmt.Errorf("generate challenge text: %w", err)
	}
	img := render(text)
	if err := s.store.Set(ctx, sessionID, strings.ToLower(text), s.cfg.TTL); err != nil {
		return "", nil, fmt.Errorf("store challenge: %w", err)
	}
	s.logger.Debug("challenge generated", "session", sessionID)
	return text, img, nil
}

// Verify compares the answer case-insensitively. The stored challenge is
// removed regardless of the outcome: one attempt per challenge.
func (s *service) Verify(ctx context.Context, sessionID, input string) error {
	stored, found, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("load challenge: %w", err)
	}
	if !found {
		return ErrChallengeExpired
	}
	if err := s.store.Remove(ctx, sessionID); err != nil {
		s.logger.Warn("failed to consume challenge", "session", sessionID, "error", err)
	}
	if stored != strings.ToLower(input) {
		return ErrChallengeMismatch
	}
	return nil
}

// randomText picks each character uniformly from the 62-symbol alphabet.
func randomText(n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = alphabet[idx.Int64()]
	}
	return string(buf), nil
}
