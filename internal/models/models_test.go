package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAccountActivateIsMonotonic(t *testing.T) {
	acct := Account{Email: "a@x.com", Name: "Ann"}
	require.False(t, acct.Activated)

	activated := acct.Activate()
	require.True(t, activated.Activated)
	// The original value is untouched; callers persist the returned copy.
	require.False(t, acct.Activated)

	// Activating twice is a no-op, never a revert.
	require.True(t, activated.Activate().Activated)
}

func TestVerificationCodeExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	code := VerificationCode{ExpiresAt: now.Add(5 * time.Minute)}

	require.False(t, code.Expired(now))
	require.False(t, code.Expired(now.Add(5*time.Minute)))
	require.True(t, code.Expired(now.Add(5*time.Minute+time.Second)))
}
