package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.True(t, cfg.Simulation.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Simulation.StatusInterval)
	assert.Equal(t, 30*time.Second, cfg.Simulation.PresenceInterval)
	assert.Equal(t, 5, cfg.Engine.MaxResults)
	assert.Equal(t, "development", cfg.Env)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "badger")
	t.Setenv("BADGER_PATH", "/var/lib/engine")
	t.Setenv("SIMULATION_ENABLED", "false")
	t.Setenv("SIMULATION_STATUS_INTERVAL", "45s")
	t.Setenv("SIMULATION_SEED", "12345")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "badger", cfg.Store.Driver)
	assert.Equal(t, "/var/lib/engine", cfg.Store.BadgerPath)
	assert.False(t, cfg.Simulation.Enabled)
	assert.Equal(t, 45*time.Second, cfg.Simulation.StatusInterval)
	assert.Equal(t, int64(12345), cfg.Simulation.Seed)
	assert.Equal(t, "production", cfg.Env)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("SIMULATION_ENABLED", "maybe")
	t.Setenv("SIMULATION_STATUS_INTERVAL", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Simulation.Enabled)
	assert.Equal(t, 2*time.Minute, cfg.Simulation.StatusInterval)
}

func TestRedisAddr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", cfg.RedisAddr())
}
