package config

import (
	"os"
	"strconv"

	"github.com/thornwatch/d20combat/internal/errors"
)

// Config holds all configuration for the simulator
type Config struct {
	Redis     RedisConfig
	Simulator SimulatorConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool // persist combat logs when true
}

// SimulatorConfig holds simulation run configuration
type SimulatorConfig struct {
	Runs     int   // encounters to simulate per scenario
	Parallel int   // concurrent sessions
	Seed     int64 // 0 means non-deterministic dice
	MaxRound int   // abort runaway encounters past this round
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			Enabled:  os.Getenv("REDIS_PERSIST_LOGS") == "true",
		},
		Simulator: SimulatorConfig{
			Runs:     getEnvAsIntOrDefault("SIM_RUNS", 1),
			Parallel: getEnvAsIntOrDefault("SIM_PARALLEL", 4),
			Seed:     getEnvAsInt64OrDefault("SIM_SEED", 0),
			MaxRound: getEnvAsIntOrDefault("SIM_MAX_ROUND", 100),
		},
	}

	if cfg.Simulator.Runs < 1 {
		return nil, errors.Validation("SIM_RUNS must be at least 1")
	}
	if cfg.Simulator.Parallel < 1 {
		return nil, errors.Validation("SIM_PARALLEL must be at least 1")
	}
	if cfg.Simulator.MaxRound < 1 {
		return nil, errors.Validation("SIM_MAX_ROUND must be at least 1")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
