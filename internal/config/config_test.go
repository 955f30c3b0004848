package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "")
	t.Setenv("REDIS_DB", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, cfg.App.Name, cfg.Telemetry.ServiceName)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("MONGO_DATABASE", "crm_test")
	t.Setenv("APP_HOST", "127.0.0.1")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("CACHE_DASHBOARD_TTL_SECONDS", "0")
	t.Setenv("HTTP_LOGIN_RATE_LIMIT", "not-a-number")
	t.Setenv("LOG_COMPRESS", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, "crm_test", cfg.Mongo.Database)
	assert.Equal(t, "127.0.0.1:9000", cfg.App.Addr())
	assert.Zero(t, cfg.Cache.DashboardTTL())
	assert.Equal(t, 10, cfg.HTTP.LoginRateLimit)
	assert.False(t, cfg.Logger.Compress)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Run("store driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("redis db", func(t *testing.T) {
		t.Setenv("REDIS_DB", "one")
		_, err := Load()
		assert.Error(t, err)
	})
}
