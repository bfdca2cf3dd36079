package sessionstore

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/media-album/internal/domain/captcha"
)

// ValkeyStore keeps per-session challenge answers in a Valkey-compatible
// database so they survive restarts and can be shared between instances.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "captcha"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	result := s.client.Do(ctx, s.client.B().Get().Key(s.key(sessionID)).Build())
	value, err := result.ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *ValkeyStore) Set(ctx context.Context, sessionID, text string, ttl time.Duration) error {
	builder := s.client.B().Set().Key(s.key(sessionID)).Value(text)
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Remove(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Do(ctx, s.client.B().Del().Key(s.key(sessionID)).Build()).Error()
}

func (s *ValkeyStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.prefix, sessionID)
}

var _ captcha.Store = (*ValkeyStore)(nil)
