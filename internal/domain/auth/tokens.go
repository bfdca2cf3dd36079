package auth

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signingKeySize is the minimum key length for HMAC-SHA512.
const signingKeySize = 64

// TokenCodec issues and decodes the signed session tokens. The signing key
// is fixed at construction and safe for concurrent reads.
type TokenCodec struct {
	key []byte
	ttl time.Duration
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
	Role   Role  `json:"role"`
}

// NewTokenCodec derives the process signing key from the configured secret.
// A short secret is zero-padded to the HS512 minimum; an empty secret gets
// a random key, which invalidates outstanding tokens on restart.
func NewTokenCodec(cfg Config) (*TokenCodec, error) {
	key, err := deriveSigningKey(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("derive signing key: %w", err)
	}
	return &TokenCodec{key: key, ttl: cfg.TokenTTL}, nil
}

func deriveSigningKey(secret string) ([]byte, error) {
	if secret != "" {
		raw := []byte(secret)
		if len(raw) >= signingKeySize {
			return raw, nil
		}
		key := make([]byte, signingKeySize)
		copy(key, raw)
		return key, nil
	}
	key := make([]byte, signingKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

// Issue signs a fresh token for the given identity.
func (c *TokenCodec) Issue(subject string, userID int64, role Role, now time.Time) (string, error) {
	if !role.Valid() {
		role = RoleGuest
	}
	claims := tokenClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(c.key)
}

// decode verifies signature and structure but not expiry: an expired token
// is still decodable, expiry is a separate check.
func (c *TokenCodec) decode(token string) (*tokenClaims, bool) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, false
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return nil, false
	}
	return claims, true
}

// Subject returns the subject claim, or false on any decode failure.
func (c *TokenCodec) Subject(token string) (string, bool) {
	claims, ok := c.decode(token)
	if !ok {
		return "", false
	}
	return claims.Subject, true
}

// UserID returns the userId claim, or false on any decode failure.
func (c *TokenCodec) UserID(token string) (int64, bool) {
	claims, ok := c.decode(token)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// Role returns the role claim, or false on any decode failure.
func (c *TokenCodec) Role(token string) (Role, bool) {
	claims, ok := c.decode(token)
	if !ok {
		return 0, false
	}
	return claims.Role, true
}

// IsExpired reports whether the expiry claim is before now. Tokens that
// cannot be parsed count as expired.
func (c *TokenCodec) IsExpired(token string, now time.Time) bool {
	claims, ok := c.decode(token)
	if !ok || claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Time.Before(now)
}

// Validate reports whether the token carries the expected subject and has
// not expired. A token without a decodable, non-empty subject never
// validates, even against an empty expectation.
func (c *TokenCodec) Validate(token, expectedSubject string, now time.Time) bool {
	subject, ok := c.Subject(token)
	if !ok || subject == "" || subject != expectedSubject {
		return false
	}
	return !c.IsExpired(token, now)
}

// Refresh re-signs the token's identity claims with a fresh issue and
// expiry time. Returns false when the input cannot be parsed.
func (c *TokenCodec) Refresh(token string, now time.Time) (string, bool) {
	claims, ok := c.decode(token)
	if !ok {
		return "", false
	}
	refreshed, err := c.Issue(claims.Subject, claims.UserID, claims.Role, now)
	if err != nil {
		return "", false
	}
	return refreshed, true
}
