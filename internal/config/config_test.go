package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 1, cfg.Simulator.Runs)
	assert.Equal(t, 4, cfg.Simulator.Parallel)
	assert.EqualValues(t, 0, cfg.Simulator.Seed)
	assert.Equal(t, 100, cfg.Simulator.MaxRound)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("REDIS_PERSIST_LOGS", "true")
	t.Setenv("SIM_RUNS", "500")
	t.Setenv("SIM_SEED", "42")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 500, cfg.Simulator.Runs)
	assert.EqualValues(t, 42, cfg.Simulator.Seed)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("SIM_RUNS", "0")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_IgnoresMalformedIntegers(t *testing.T) {
	t.Setenv("SIM_PARALLEL", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Simulator.Parallel, "malformed values fall back to the default")
}
