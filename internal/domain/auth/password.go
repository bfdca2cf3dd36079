package auth

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password hashing schemes. The md5 scheme is the unsalted digest the
// legacy database rows were written with; bcrypt is the opt-in hardened
// scheme for new hashes. Verification accepts both so the scheme can be
// switched without migrating stored rows.
const (
	SchemeMD5    = "md5"
	SchemeBcrypt = "bcrypt"
)

// HashPassword hashes a raw password with the given scheme.
func HashPassword(scheme, raw string) (string, error) {
	switch scheme {
	case SchemeMD5:
		sum := md5.Sum([]byte(raw))
		return hex.EncodeToString(sum[:]), nil
	case SchemeBcrypt:
		hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(hashed), nil
	default:
		return "", errors.New("unknown password scheme: " + scheme)
	}
}

// CheckPassword reports whether raw matches the stored hash. Bcrypt rows
// are recognized by their $2 prefix; everything else is a legacy md5 hex.
func CheckPassword(stored, raw string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(raw)) == nil
	}
	sum := md5.Sum([]byte(raw))
	digest := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(stored), []byte(digest)) == 1
}
