package app

import (
	"time"

	"github.com/jwpark-dev/tripnote/internal/auth"
	"github.com/jwpark-dev/tripnote/internal/database"
	"github.com/jwpark-dev/tripnote/internal/services"
)

// TokenServiceConfig converts AuthConfig into the parameters expected by the token service.
func (c AuthConfig) TokenServiceConfig() auth.TokenConfig {
	ttl := c.JWT.TTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}

	return auth.TokenConfig{
		Secret: c.JWT.Secret,
		Issuer: c.JWT.Issuer,
		TTL:    ttl,
	}
}

// GoogleProviderConfig converts AuthConfig into Google provider parameters.
func (c AuthConfig) GoogleProviderConfig() auth.GoogleConfig {
	return auth.GoogleConfig{
		Issuer:       c.Google.Issuer,
		ClientID:     c.Google.ClientID,
		ClientSecret: c.Google.ClientSecret,
		RedirectURL:  c.Google.RedirectURL,
	}
}

// GoogleEnabled reports whether federated login should be wired up.
func (c AuthConfig) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

// CodeTTL returns the verification code lifetime with the default applied.
func (c AuthConfig) CodeTTL() time.Duration {
	if c.Verification.CodeTTL > 0 {
		return c.Verification.CodeTTL
	}
	return services.DefaultCodeTTL
}

// DatabaseConfig converts the config section into database open parameters.
func (c DatabaseConfig) DatabaseConfig() database.Config {
	return database.Config{
		Driver:   c.Driver,
		Path:     c.Path,
		DSN:      c.DSN,
		Host:     c.Host,
		Port:     c.Port,
		Name:     c.Name,
		User:     c.User,
		Password: c.Password,
	}
}
