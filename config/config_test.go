package config

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/digital-menu/utils"
)

func TestSessionSecretRequiredInRelease(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GIN_MODE", gin.ReleaseMode)

	cfg := Load()
	assert.Empty(t, cfg.JWTSecret)
	assert.Contains(t, cfg.Missing(), "JWT_SECRET")
	require.Error(t, cfg.CheckRelease())

	cfg.JWTSecret = utils.DevSessionSecret
	assert.Contains(t, cfg.Missing(), "JWT_SECRET")
	assert.Error(t, cfg.CheckRelease())
}

func TestSessionSecretAcceptedWhenSet(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-long-private-value")
	t.Setenv("GIN_MODE", gin.ReleaseMode)

	cfg := Load()
	assert.NotContains(t, cfg.Missing(), "JWT_SECRET")
	assert.NoError(t, cfg.CheckRelease())
}

func TestDebugModeToleratesDevSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("GIN_MODE", gin.DebugMode)

	cfg := Load()
	assert.Contains(t, cfg.Missing(), "JWT_SECRET")
	assert.NoError(t, cfg.CheckRelease())
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)
	assert.Equal(t, 24*60*60, int(cfg.SessionTTL.Seconds()))
}
