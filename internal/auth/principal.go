package auth

import "github.com/jwpark-dev/tripnote/internal/models"

// Principal kinds. Anonymous stands in on public routes so downstream code
// always finds a principal of the same shape.
const (
	PrincipalAnonymous = "anonymous"
	PrincipalLocal     = "local"
	PrincipalFederated = "federated"
)

// Principal is the request-scoped identity view over an account. It is
// constructed fresh per request from a verified token subject and owns
// nothing persistent.
type Principal struct {
	kind       string
	account    models.Account
	attributes map[string]any
}

// NewLocalPrincipal wraps a password-account identity.
func NewLocalPrincipal(account models.Account) Principal {
	return Principal{kind: PrincipalLocal, account: account}
}

// NewFederatedPrincipal wraps a federated-account identity together with the
// read-only provider attributes, when available.
func NewFederatedPrincipal(account models.Account, attributes map[string]any) Principal {
	return Principal{
		kind:       PrincipalFederated,
		account:    account,
		attributes: cloneAttributes(attributes),
	}
}

// NewAnonymousPrincipal returns the unauthenticated placeholder.
func NewAnonymousPrincipal() Principal {
	return Principal{kind: PrincipalAnonymous}
}

// Authenticated reports whether the principal is backed by a verified account.
func (p Principal) Authenticated() bool {
	return p.kind == PrincipalLocal || p.kind == PrincipalFederated
}

// Kind returns the principal variant tag.
func (p Principal) Kind() string { return p.kind }

// AccountID returns the backing account id, or "" for anonymous principals.
func (p Principal) AccountID() string { return p.account.ID }

// Email returns the account email, or "" for anonymous principals.
func (p Principal) Email() string { return p.account.Email }

// DisplayName returns the account display name.
func (p Principal) DisplayName() string { return p.account.Name }

// Enabled reports whether the backing account has completed activation.
func (p Principal) Enabled() bool { return p.account.Activated }

// Account returns a copy of the backing account.
func (p Principal) Account() models.Account { return p.account }

// Attributes returns a copy of the provider attribute map. Only federated
// principals carry attributes; everything else yields nil.
func (p Principal) Attributes() map[string]any {
	if p.kind != PrincipalFederated {
		return nil
	}
	return cloneAttributes(p.attributes)
}

func cloneAttributes(attrs map[string]any) map[string]any {
	if len(attrs) == 0 {
		return nil
	}
	cpy := make(map[string]any, len(attrs))
	for k, v := range attrs {
		cpy[k] = v
	}
	return cpy
}
