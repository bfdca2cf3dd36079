package captcha

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/media-album/pkg/logger"
)

type mapStore struct {
	values map[string]string
}

func newMapStore() *mapStore {
	return &mapStore{values: make(map[string]string)}
}

func (s *mapStore) Get(_ context.Context, sessionID string) (string, bool, error) {
	value, ok := s.values[sessionID]
	return value, ok, nil
}

func (s *mapStore) Set(_ context.Context, sessionID, text string, _ time.Duration) error {
	s.values[sessionID] = text
	return nil
}

func (s *mapStore) Remove(_ context.Context, sessionID string) error {
	delete(s.values, sessionID)
	return nil
}

func newServiceUnderTest(store Store) Service {
	return NewService(Config{TTL: 5 * time.Minute}, store, logger.New())
}

func TestService_GenerateStoresLowercase(t *testing.T) {
	store := newMapStore()
	svc := newServiceUnderTest(store)

	text, img, err := svc.Generate(context.Background(), "sess-1")
	require.NoError(t, err)
	require.Len(t, text, codeLength)
	for _, r := range text {
		require.Contains(t, alphabet, string(r))
	}

	bounds := img.Bounds()
	require.Equal(t, imageWidth, bounds.Dx())
	require.Equal(t, imageHeight, bounds.Dy())

	require.Equal(t, strings.ToLower(text), store.values["sess-1"])
}

func TestService_VerifyCaseInsensitive(t *testing.T) {
	store := newMapStore()
	svc := newServiceUnderTest(store)
	require.NoError(t, store.Set(context.Background(), "sess-1", "ab3x", 0))

	require.NoError(t, svc.Verify(context.Background(), "sess-1", "Ab3X"))
}

func TestService_VerifySingleUse(t *testing.T) {
	store := newMapStore()
	svc := newServiceUnderTest(store)
	require.NoError(t, store.Set(context.Background(), "sess-1", "ab3x", 0))

	require.NoError(t, svc.Verify(context.Background(), "sess-1", "ab3x"))

	// The challenge was consumed, so the same answer no longer matches.
	err := svc.Verify(context.Background(), "sess-1", "ab3x")
	require.ErrorIs(t, err, ErrChallengeExpired)
}

func TestService_VerifyWrongAnswerConsumes(t *testing.T) {
	store := newMapStore()
	svc := newServiceUnderTest(store)
	require.NoError(t, store.Set(context.Background(), "sess-1", "ab3x", 0))

	err := svc.Verify(context.Background(), "sess-1", "zzzz")
	require.ErrorIs(t, err, ErrChallengeMismatch)

	// One attempt per challenge: the right answer is too late now.
	err = svc.Verify(context.Background(), "sess-1", "ab3x")
	require.ErrorIs(t, err, ErrChallengeExpired)
}

func TestService_VerifyUnknownSession(t *testing.T) {
	svc := newServiceUnderTest(newMapStore())

	err := svc.Verify(context.Background(), "never-seen", "ab3x")
	require.ErrorIs(t, err, ErrChallengeExpired)
}

func TestService_GenerateReplacesPriorChallenge(t *testing.T) {
	store := newMapStore()
	svc := newServiceUnderTest(store)

	first, _, err := svc.Generate(context.Background(), "sess-1")
	require.NoError(t, err)
	_, _, err = svc.Generate(context.Background(), "sess-1")
	require.NoError(t, err)

	// Only the newest challenge is live; sessions never hold two.
	if strings.ToLower(first) != store.values["sess-1"] {
		err = svc.Verify(context.Background(), "sess-1", first)
		require.ErrorIs(t, err, ErrChallengeMismatch)
	}
}
