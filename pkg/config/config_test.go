package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockflow-api/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 10*time.Second, cfg.Webhook.Timeout)
	assert.Empty(t, cfg.Webhook.URL)
	assert.Equal(t, int32(25), cfg.DB.MaxConns)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("LOW_STOCK_WEBHOOK_URL", "http://hooks.local/low-stock")
	t.Setenv("LOW_STOCK_WEBHOOK_TIMEOUT_SECONDS", "3")
	t.Setenv("DB_PASSWORD", "p@ss:word")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://hooks.local/low-stock", cfg.Webhook.URL)
	assert.Equal(t, 3*time.Second, cfg.Webhook.Timeout)
	assert.Contains(t, cfg.DB.ConnectionString(), "p%40ss%3Aword")
}

func TestLoad_SinSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}
