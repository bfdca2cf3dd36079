package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/media-album/internal/domain/captcha"
)

type entry struct {
	text      string
	expiresAt time.Time
}

// MemoryStore keeps challenge answers in process memory. It is the fallback
// when no Valkey address is configured and the default for tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[sessionID]
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.IsZero() && s.now().After(e.expiresAt) {
		delete(s.entries, sessionID)
		return "", false, nil
	}
	return e.text, true, nil
}

func (s *MemoryStore) Set(_ context.Context, sessionID, text string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{text: text}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[sessionID] = e
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
	return nil
}

var _ captcha.Store = (*MemoryStore)(nil)
