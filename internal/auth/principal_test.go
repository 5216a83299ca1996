package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jwpark-dev/tripnote/internal/models"
)

func TestAnonymousPrincipal(t *testing.T) {
	p := NewAnonymousPrincipal()

	require.False(t, p.Authenticated())
	require.Equal(t, PrincipalAnonymous, p.Kind())
	require.Empty(t, p.AccountID())
	require.Nil(t, p.Attributes())
}

func TestLocalPrincipalExposesNoAttributes(t *testing.T) {
	acct := models.Account{Email: "a@x.com", Name: "Ann", Activated: true}
	acct.ID = "acct-1"

	p := NewLocalPrincipal(acct)
	require.True(t, p.Authenticated())
	require.Equal(t, "acct-1", p.AccountID())
	require.Equal(t, "a@x.com", p.Email())
	require.True(t, p.Enabled())
	require.Nil(t, p.Attributes())
}

func TestFederatedPrincipalAttributesAreCopied(t *testing.T) {
	acct := models.Account{Email: "g@x.com", Name: "Goo", Activated: true, Origin: models.OriginGoogle}
	attrs := map[string]any{"picture": "https://img", "locale": "ko"}

	p := NewFederatedPrincipal(acct, attrs)

	// Mutating the source map after construction must not leak in.
	attrs["picture"] = "changed"
	require.Equal(t, "https://img", p.Attributes()["picture"])

	// Mutating the returned copy must not affect the principal.
	out := p.Attributes()
	out["locale"] = "en"
	require.Equal(t, "ko", p.Attributes()["locale"])
}
