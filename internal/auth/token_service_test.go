package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T, clock func() time.Time, ttl time.Duration) *TokenService {
	t.Helper()

	svc, err := NewTokenService(TokenConfig{
		Secret: strings.Repeat("s", 32),
		Issuer: "tripnote",
		TTL:    ttl,
		Clock:  clock,
	})
	require.NoError(t, err)
	return svc
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	require.Error(t, err)

	_, err = NewTokenService(TokenConfig{Secret: "too-short"})
	require.Error(t, err)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, func() time.Time { return current }, time.Hour)

	token, err := svc.Issue("acct-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "acct-123", subject)
}

func TestVerifyExpired(t *testing.T) {
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokenService(t, func() time.Time { return current }, time.Minute)

	token, err := svc.Issue("acct-123")
	require.NoError(t, err)

	// Just past issuedAt + ttl.
	current = current.Add(time.Minute + time.Second)

	_, err = svc.Verify(token)
	require.True(t, errors.Is(err, ErrTokenExpired))
}

func TestVerifyTamperedSignature(t *testing.T) {
	svc := newTestTokenService(t, time.Now, time.Hour)

	token, err := svc.Issue("acct-123")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// Flip one byte of the signature segment.
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := strings.Join([]string{parts[0], parts[1], string(sig)}, ".")

	_, err = svc.Verify(tampered)
	require.True(t, errors.Is(err, ErrTokenBadSignature))
}

func TestVerifyWrongKey(t *testing.T) {
	issuer := newTestTokenService(t, time.Now, time.Hour)

	verifier, err := NewTokenService(TokenConfig{
		Secret: strings.Repeat("x", 32),
		Issuer: "tripnote",
	})
	require.NoError(t, err)

	token, err := issuer.Issue("acct-123")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.True(t, errors.Is(err, ErrTokenBadSignature))
}

func TestVerifyMalformed(t *testing.T) {
	svc := newTestTokenService(t, time.Now, time.Hour)

	for _, input := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		_, err := svc.Verify(input)
		require.True(t, errors.Is(err, ErrTokenMalformed), "input %q", input)
	}
}
