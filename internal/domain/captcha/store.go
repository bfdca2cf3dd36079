package captcha

import (
	"context"
	"time"
)

// Store is the session side-channel holding the live challenge text. One
// text per session id; Set overwrites any prior value.
type Store interface {
	Get(ctx context.Context, sessionID string) (string, bool, error)
	Set(ctx context.Context, sessionID, text string, ttl time.Duration) error
	Remove(ctx context.Context, sessionID string) error
}
