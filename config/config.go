// Package config loads the simulator's runtime knobs from the
// environment, with an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the simulator's runtime knobs.
type Config struct {
	Environment string

	// LogLevel is one of debug/info/warn/error/fatal, parsed by
	// pkg/logger.ParseLevel.
	LogLevel string

	// SeedOnStart bootstraps the default "me" user with the standard
	// system labels when the store is empty.
	SeedOnStart bool

	// SearchTokenBudget bounds worst-case query-evaluation work (§5):
	// the evaluator fails with InvalidQuery once it consumes more
	// tokens than this.
	SearchTokenBudget int

	// SnapshotPath is where the store's JSON snapshot is read from and
	// written to, when snapshotting is used.
	SnapshotPath string
}

// Load reads configuration from the environment, loading a .env file
// first if one is present in the working directory.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Environment:       getEnv("ENV", "development"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		SeedOnStart:       getEnvBool("SEED_ON_START", true),
		SearchTokenBudget: getEnvInt("SEARCH_TOKEN_BUDGET", 10000),
		SnapshotPath:      getEnv("SNAPSHOT_PATH", "mailsim_snapshot.json"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
