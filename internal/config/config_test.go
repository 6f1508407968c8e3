package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("SESSION_STORE", "")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "voiceout-platform", cfg.App.Name)
	assert.Equal(t, SessionStoreMemory, cfg.Session.Store)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL())
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_TTL_MINUTES", "0")
	t.Setenv("SESSION_SWEEP_INTERVAL_SECONDS", "15")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, SessionStoreRedis, cfg.Session.Store)
	assert.Zero(t, cfg.Session.TTL())
	assert.Equal(t, 15*time.Second, cfg.Session.SweepInterval())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REDIS_DB", "0")
	t.Setenv("SESSION_STORE", "cookie")
	_, err = Load()
	assert.Error(t, err)
}

func TestRequestTimeout(t *testing.T) {
	assert.Zero(t, AppConfig{}.RequestTimeout())
	assert.Equal(t, 5*time.Second, AppConfig{RequestTimeoutSeconds: 5}.RequestTimeout())
}
