package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/akeren/go-waitlist-api/internal/log"
	"github.com/joho/godotenv"
)

const (
	AppEnvKey = "APP_ENV"
	// LegacyAppEnvKey is honoured when APP_ENV is not set.
	LegacyAppEnvKey = "ENVIRONMENT"
)

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

func InitializeEnvFile(logger *log.Logger) {
	logger.Info("Initializing environment variables from .env file if present")

	if os.Getenv("SKIP_DOTENV") == "true" {
		logger.Info("Skipping .env file load (SKIP_DOTENV=true)")
		return
	}

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found or failed to load it", "error", err.Error())
		return
	}

	logger.Info("Environment variables loaded from .env file successfully")
}

func GetValueFromEnvironmentVariable(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

// GetAppEnv returns the raw, lowercased deployment mode ("" when unset).
func GetAppEnv() string {
	env := strings.ToLower(strings.TrimSpace(os.Getenv(AppEnvKey)))
	if env == "" {
		env = strings.ToLower(strings.TrimSpace(os.Getenv(LegacyAppEnvKey)))
	}
	return env
}

// ResolveEnvironment canonicalizes the raw deployment mode. An unset mode is
// production. Modes other than production and development (staging, qa, ...)
// are kept as given and behave as non-production without development extras.
func ResolveEnvironment(appEnv string) string {
	env := strings.ToLower(strings.TrimSpace(appEnv))

	switch env {
	case "", "prod", "production":
		return EnvironmentProduction
	case "dev", "development", "local":
		return EnvironmentDevelopment
	default:
		return env
	}
}

func ValidateAutoMigrateAllowed(appEnv string) error {
	env := strings.ToLower(strings.TrimSpace(appEnv))

	switch env {
	case "dev", "development", "local", "test", "testing":
		return nil
	case "":
		return fmt.Errorf("--auto-migrate requires %s to be set; an unset environment runs as production", AppEnvKey)
	default:
		return fmt.Errorf("--auto-migrate is not allowed when %s=%q (allowed: dev, development, local, test, testing)", AppEnvKey, env)
	}
}
