package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStateCodecRoundTrip(t *testing.T) {
	codec, err := NewStateCodec("application-secret", time.Minute, nil)
	require.NoError(t, err)

	token, err := codec.Encode()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	payload, err := codec.Decode(token)
	require.NoError(t, err)
	require.NotEmpty(t, payload.Nonce)
	require.False(t, payload.IssuedAt.IsZero())
}

func TestStateCodecExpired(t *testing.T) {
	current := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewStateCodec("application-secret", time.Minute, func() time.Time {
		return current
	})
	require.NoError(t, err)

	token, err := codec.Encode()
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = codec.Decode(token)
	require.True(t, errors.Is(err, ErrStateExpired))
}

func TestStateCodecRejectsGarbage(t *testing.T) {
	codec, err := NewStateCodec("application-secret", time.Minute, nil)
	require.NoError(t, err)

	for _, input := range []string{"", "not-base64!!", "bm90LWEtc3RhdGU"} {
		_, err := codec.Decode(input)
		require.True(t, errors.Is(err, ErrStateInvalid), "input %q", input)
	}
}

func TestStateCodecKeysDoNotInterchange(t *testing.T) {
	a, err := NewStateCodec("secret-a", time.Minute, nil)
	require.NoError(t, err)
	b, err := NewStateCodec("secret-b", time.Minute, nil)
	require.NoError(t, err)

	token, err := a.Encode()
	require.NoError(t, err)

	_, err = b.Decode(token)
	require.True(t, errors.Is(err, ErrStateInvalid))
}
