package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pw1234")
	require.NoError(t, err)
	require.NotEqual(t, "pw1234", hash)

	require.True(t, VerifyPassword(hash, "pw1234"))
	require.False(t, VerifyPassword(hash, "pw12345"))
}

func TestVerifyPasswordRejectsNonBcryptHash(t *testing.T) {
	// Accounts provisioned through federated login store a random token in the
	// password column; no plaintext may ever verify against it.
	unusable, err := GenerateToken(32)
	require.NoError(t, err)
	require.False(t, VerifyPassword(unusable, unusable))
	require.False(t, VerifyPassword(unusable, ""))
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken(32)
	require.NoError(t, err)
	b, err := GenerateToken(32)
	require.NoError(t, err)

	require.NotEmpty(t, a)
	require.NotEqual(t, a, b)
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(4)
	require.NoError(t, err)
	require.Len(t, code, 4)
	for _, r := range code {
		require.GreaterOrEqual(t, r, '0')
		require.LessOrEqual(t, r, '9')
	}

	_, err = GenerateNumericCode(0)
	require.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")

	sealed, err := Encrypt([]byte("state-payload"), key)
	require.NoError(t, err)

	opened, err := Decrypt(sealed, key)
	require.NoError(t, err)
	require.Equal(t, []byte("state-payload"), opened)

	_, err = Decrypt("not-base64!!", key)
	require.Error(t, err)
}
