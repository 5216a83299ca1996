package auth

import (
	"net/http"
	"strings"
)

// Requirement is the authentication demand a policy rule places on a route.
type Requirement int

const (
	// Public routes are served without a verified identity.
	Public Requirement = iota
	// Protected routes reject requests that carry no verified identity.
	Protected
)

// Rule binds a path pattern to a requirement. Patterns are either exact
// ("/health") or prefix wildcards ("/oauth2/**", which matches /oauth2 and
// everything under it).
type Rule struct {
	Pattern     string
	Requirement Requirement
}

// PolicyTable is an ordered rule list evaluated first-match-wins. It is data
// rather than code so route policy can be audited and tested as a table.
// Build it once at startup; it is immutable afterwards.
type PolicyTable struct {
	rules []Rule
}

// NewPolicyTable copies the supplied rules into an immutable table.
func NewPolicyTable(rules ...Rule) *PolicyTable {
	cpy := make([]Rule, len(rules))
	copy(cpy, rules)
	return &PolicyTable{rules: cpy}
}

// Evaluate returns the requirement for a request. Preflight requests are
// always public regardless of path since they carry no credentials; when no
// rule matches, the default is Protected.
func (t *PolicyTable) Evaluate(method, path string) Requirement {
	if strings.EqualFold(method, http.MethodOptions) {
		return Public
	}

	for _, rule := range t.rules {
		if matchPattern(rule.Pattern, path) {
			return rule.Requirement
		}
	}

	return Protected
}

func matchPattern(pattern, path string) bool {
	if base, ok := strings.CutSuffix(pattern, "/**"); ok {
		return path == base || strings.HasPrefix(path, base+"/")
	}
	return path == pattern
}
