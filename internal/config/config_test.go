package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LOGBOOK_JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "Logbook API", cfg.AppName)
	require.Equal(t, "development", cfg.AppEnv)
	require.True(t, cfg.IsDevelopment())
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 25, cfg.DBMaxOpenConns)
	require.Equal(t, 5, cfg.DBMaxIdleConns)
	require.Equal(t, 30*time.Minute, cfg.DBConnMaxLifetime)
	require.Equal(t, 5*time.Second, cfg.RedisPingTimeout)
	require.Equal(t, "*", cfg.CORSAllowOrigins)
	require.Equal(t, 10*time.Minute, cfg.ReportCacheTTL)
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	t.Setenv("LOGBOOK_JWT_SECRET", "test-secret")
	t.Setenv("LOGBOOK_CORS_ALLOW_ORIGINS", "https://logbook.example.org")
	t.Setenv("LOGBOOK_DATABASE_MAX_OPEN_CONNS", "50")
	t.Setenv("LOGBOOK_REDIS_PING_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://logbook.example.org", cfg.CORSAllowOrigins)
	require.Equal(t, 50, cfg.DBMaxOpenConns)
	require.Equal(t, 2*time.Second, cfg.RedisPingTimeout)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("LOGBOOK_JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
}
