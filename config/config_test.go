package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfig(t *testing.T) {
	t.Run("EmbeddedDefaults", func(t *testing.T) {
		cfg, err := InitConfig()

		require.NoError(t, err)
		assert.Equal(t, "8000", cfg.Server.HTTPPort)
		assert.Equal(t, "9090", cfg.Server.MetricsPort)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenTTL)
		assert.Equal(t, 168*time.Hour, cfg.JWT.RefreshTokenTTL)
		assert.Equal(t, "fitfeed", cfg.JWT.Issuer)
		assert.GreaterOrEqual(t, cfg.Auth.MinPasswordLength, 6)
	})

	t.Run("SecretsComeFromEnvironment", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "env-secret")
		t.Setenv("POSTGRES_PASSWORD", "env-password")

		cfg, err := InitConfig()

		require.NoError(t, err)
		assert.Equal(t, "env-secret", cfg.JWT.SecretKey)
		assert.Equal(t, "env-password", cfg.Repositories.Postgres.Password)
	})

	t.Run("MissingSecretLeavesKeyEmpty", func(t *testing.T) {
		t.Setenv("JWT_SECRET_KEY", "")

		cfg, err := InitConfig()

		// Startup succeeds; token operations report the missing key per request.
		require.NoError(t, err)
		assert.Empty(t, cfg.JWT.SecretKey)
	})
}
