package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Redis      RedisConfig
	Compendium CompendiumConfig
}

// RedisConfig holds Redis-specific configuration. Redis is only used by the
// snapshot persistence adapter; the core itself stays in-memory.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CompendiumConfig holds compendium source configuration
type CompendiumConfig struct {
	// Path to the compendium JSON file loaded at startup, optional
	Path string

	// SnapshotKey is the Redis key suffix snapshots are saved under
	SnapshotKey string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Compendium: CompendiumConfig{
			Path:        os.Getenv("COMPENDIUM_PATH"),
			SnapshotKey: getEnvOrDefault("SNAPSHOT_KEY", "default"),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as an int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
