package testutil

import (
	"os"
	"testing"

	"github.com/subosito/gotenv"
)

// TestConfig holds environment-aware configuration for integration tests.
type TestConfig struct {
	PGHost     string
	PGPort     string
	PGUser     string
	PGPassword string
	PGDatabase string
	RedisHost  string
	RedisPort  string
}

// LoadTestConfig reads .env.test when present and falls back to local
// defaults, so tests run unchanged on dev machines and CI.
func LoadTestConfig(t *testing.T) *TestConfig {
	t.Helper()

	_ = gotenv.Load(".env.test")

	return &TestConfig{
		PGHost:     envOrDefault("POSTGRES_HOST", "127.0.0.1"),
		PGPort:     envOrDefault("POSTGRES_PORT", "5432"),
		PGUser:     envOrDefault("POSTGRES_USER", "postgres"),
		PGPassword: envOrDefault("POSTGRES_PASSWORD", "postgres"),
		PGDatabase: envOrDefault("POSTGRES_DATABASE", "maa_test"),
		RedisHost:  envOrDefault("REDIS_HOST", "127.0.0.1"),
		RedisPort:  envOrDefault("REDIS_PORT", "6379"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
