package api

import iauth "github.com/jwpark-dev/tripnote/internal/auth"

// RoutePolicy is the single place deciding which routes are reachable without
// a credential. Everything not listed here is protected.
func RoutePolicy() *iauth.PolicyTable {
	return iauth.NewPolicyTable(
		iauth.Rule{Pattern: "/api/auth/register", Requirement: iauth.Public},
		iauth.Rule{Pattern: "/api/auth/verify", Requirement: iauth.Public},
		iauth.Rule{Pattern: "/api/auth/resend-code", Requirement: iauth.Public},
		iauth.Rule{Pattern: "/api/auth/login", Requirement: iauth.Public},
		iauth.Rule{Pattern: "/login/**", Requirement: iauth.Public},
		iauth.Rule{Pattern: "/oauth2/**", Requirement: iauth.Public},
		iauth.Rule{Pattern: "/health", Requirement: iauth.Public},
		iauth.Rule{Pattern: "/metrics", Requirement: iauth.Public},
	)
}
