package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiry)
	assert.Equal(t, time.Minute, cfg.Redis.DashboardCacheTTL)
	assert.Equal(t, 90, cfg.Scheduler.NotificationRetentionDays)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("DASHBOARD_CACHE_TTL", "5m")
	t.Setenv("ALLOWED_ORIGINS", "https://ciftci.app, http://localhost:5173")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Redis.DashboardCacheTTL)
	assert.Equal(t, []string{"https://ciftci.app", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 100, cfg.Database.MaxOpenConns)
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "ftp")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "ciftci", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=ciftci sslmode=disable", c.DSN())
}
