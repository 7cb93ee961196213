package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}
	getEnvDefault := func(key, fallback string) string {
		if value, ok := os.LookupEnv(key); ok {
			return value
		}
		return fallback
	}

	tickRate, err := strconv.Atoi(getEnvDefault("TICK_RATE", "60"))
	if err != nil || tickRate <= 0 {
		log.Fatalf("Error: TICK_RATE must be a positive integer")
	}

	cfg := Config{
		DBName:        getEnv("DB_NAME"),
		MigrationsDir: getEnvDefault("MIGRATIONS_DIR", "./migrations"),
		Port:          getEnv("PORT"),
		TickRate:      tickRate,
		Turso: TursoConfig{
			PrimaryURL: getEnvDefault("TURSO_PRIMARY_URL", ""),
			AuthToken:  getEnvDefault("TURSO_AUTH_TOKEN", ""),
		},
		ProjectID: getEnvDefault("GCP_PROJECT", ""),
	}
	return cfg
}
