package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword_MD5(t *testing.T) {
	hash, err := HashPassword(SchemeMD5, "secret")
	require.NoError(t, err)
	require.Len(t, hash, 32)
	require.Equal(t, strings.ToLower(hash), hash)

	again, err := HashPassword(SchemeMD5, "secret")
	require.NoError(t, err)
	require.Equal(t, hash, again)

	require.True(t, CheckPassword(hash, "secret"))
	require.False(t, CheckPassword(hash, "Secret"))
}

func TestHashPassword_Bcrypt(t *testing.T) {
	hash, err := HashPassword(SchemeBcrypt, "secret")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.True(t, CheckPassword(hash, "secret"))
	require.False(t, CheckPassword(hash, "wrong"))
}

func TestCheckPassword_DetectsSchemeFromHash(t *testing.T) {
	md5Hash, err := HashPassword(SchemeMD5, "pw")
	require.NoError(t, err)
	bcryptHash, err := HashPassword(SchemeBcrypt, "pw")
	require.NoError(t, err)

	// Mixed hashes coexist in one user table during a scheme migration.
	require.True(t, CheckPassword(md5Hash, "pw"))
	require.True(t, CheckPassword(bcryptHash, "pw"))
}

func TestHashPassword_UnknownScheme(t *testing.T) {
	_, err := HashPassword("scrypt", "pw")
	require.Error(t, err)
}
