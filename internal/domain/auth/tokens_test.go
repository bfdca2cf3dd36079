package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func newCodec(t *testing.T, ttl time.Duration) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec(Config{Secret: "unit-test-secret", TokenTTL: ttl})
	require.NoError(t, err)
	return codec
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := newCodec(t, time.Hour)
	now := time.Now()

	token, err := codec.Issue("alice", 42, RoleUser, now)
	require.NoError(t, err)

	subject, ok := codec.Subject(token)
	require.True(t, ok)
	require.Equal(t, "alice", subject)

	userID, ok := codec.UserID(token)
	require.True(t, ok)
	require.Equal(t, int64(42), userID)

	role, ok := codec.Role(token)
	require.True(t, ok)
	require.Equal(t, RoleUser, role)

	require.False(t, codec.IsExpired(token, now))
	require.True(t, codec.Validate(token, "alice", now))
	require.False(t, codec.Validate(token, "bob", now))
}

func TestTokenCodec_ExpiredTokenStillDecodes(t *testing.T) {
	codec := newCodec(t, time.Minute)
	issued := time.Now().Add(-time.Hour)

	token, err := codec.Issue("alice", 42, RoleUser, issued)
	require.NoError(t, err)

	// Expiry is a separate question from decodability.
	subject, ok := codec.Subject(token)
	require.True(t, ok)
	require.Equal(t, "alice", subject)

	require.True(t, codec.IsExpired(token, time.Now()))
	require.False(t, codec.Validate(token, "alice", time.Now()))
}

func TestTokenCodec_TamperedTokenRejected(t *testing.T) {
	codec := newCodec(t, time.Hour)

	token, err := codec.Issue("alice", 42, RoleUser, time.Now())
	require.NoError(t, err)

	tampered := []byte(token)
	tampered[len(tampered)-1] ^= 0x01

	_, ok := codec.Subject(string(tampered))
	require.False(t, ok)
	require.True(t, codec.IsExpired(string(tampered), time.Now()))
	require.False(t, codec.Validate(string(tampered), "alice", time.Now()))
}

func TestTokenCodec_GarbageInput(t *testing.T) {
	codec := newCodec(t, time.Hour)

	_, ok := codec.Subject("not-a-token")
	require.False(t, ok)
	_, ok = codec.UserID("not-a-token")
	require.False(t, ok)
	require.True(t, codec.IsExpired("not-a-token", time.Now()))
	require.False(t, codec.Validate("not-a-token", "anyone", time.Now()))
	_, ok = codec.Refresh("not-a-token", time.Now())
	require.False(t, ok)
}

func TestTokenCodec_MissingSubjectNeverValidates(t *testing.T) {
	codec := newCodec(t, time.Hour)

	// A structurally valid token without a subject claim must not validate
	// against the empty string.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := raw.SignedString(codec.key)
	require.NoError(t, err)

	require.False(t, codec.Validate(token, "", time.Now()))
}

func TestTokenCodec_Refresh(t *testing.T) {
	codec := newCodec(t, time.Minute)
	issued := time.Now().Add(-time.Hour)

	stale, err := codec.Issue("alice", 42, RoleAdmin, issued)
	require.NoError(t, err)
	require.True(t, codec.IsExpired(stale, time.Now()))

	fresh, ok := codec.Refresh(stale, time.Now())
	require.True(t, ok)
	require.False(t, codec.IsExpired(fresh, time.Now()))

	subject, ok := codec.Subject(fresh)
	require.True(t, ok)
	require.Equal(t, "alice", subject)
	role, ok := codec.Role(fresh)
	require.True(t, ok)
	require.Equal(t, RoleAdmin, role)
}

func TestTokenCodec_InvalidRoleDowngradedToGuest(t *testing.T) {
	codec := newCodec(t, time.Hour)

	token, err := codec.Issue("alice", 42, Role(99), time.Now())
	require.NoError(t, err)

	role, ok := codec.Role(token)
	require.True(t, ok)
	require.Equal(t, RoleGuest, role)
}

func TestDeriveSigningKey_PadsShortSecrets(t *testing.T) {
	key, err := deriveSigningKey("short")
	require.NoError(t, err)
	require.Len(t, key, signingKeySize)

	other, err := deriveSigningKey("")
	require.NoError(t, err)
	require.Len(t, other, signingKeySize)
	require.NotEqual(t, key, other)
}
