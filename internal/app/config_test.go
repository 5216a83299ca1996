package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.Server.CORS.AllowedOrigins)

	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/tripnote.sqlite", cfg.Database.Path)

	require.Equal(t, "tripnote", cfg.Auth.JWT.Issuer)
	require.Equal(t, 24*time.Hour, cfg.Auth.JWT.TTL)
	require.Equal(t, 5*time.Minute, cfg.Auth.Verification.CodeTTL)
	require.Equal(t, "https://accounts.google.com", cfg.Auth.Google.Issuer)
	require.False(t, cfg.Auth.GoogleEnabled())

	require.False(t, cfg.Email.SMTP.Enabled)
	require.Equal(t, "http://localhost:3000", cfg.Frontend.BaseURL)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TRIPNOTE_SERVER_PORT", "9090")
	t.Setenv("TRIPNOTE_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("TRIPNOTE_AUTH_VERIFICATION_CODE_TTL", "90s")
	t.Setenv("TRIPNOTE_DATABASE_DRIVER", "postgres")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "env-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, 90*time.Second, cfg.Auth.Verification.CodeTTL)
	require.Equal(t, "postgres", cfg.Database.Driver)
}

func TestAuthConfigDefaultsApplied(t *testing.T) {
	var cfg AuthConfig

	tokenCfg := cfg.TokenServiceConfig()
	require.Equal(t, 24*time.Hour, tokenCfg.TTL)

	require.Equal(t, 5*time.Minute, cfg.CodeTTL())
}
