package config

import (
	"os"
)

// Config holds the serving process configuration.
type Config struct {
	Environment string
	Port        string
	ModelPath   string
	DBPath      string
	CORSOrigin  string
}

// LoadConfig loads configuration from environment variables with defaults
// matching the standard deployment layout.
func LoadConfig() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "5000"),
		ModelPath:   getEnv("MODEL_PATH", "models/pregnancy_pipeline.gob"),
		DBPath:      getEnv("DB_PATH", "data/analyses.db"),
		CORSOrigin:  getEnv("CORS_ORIGIN", "*"),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
