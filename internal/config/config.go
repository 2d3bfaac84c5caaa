package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Config holds all runtime configuration, loaded from the environment.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Oracle provider: "anthropic" or "ollama".
	OracleProvider  string
	AnthropicAPIKey string
	ModelName       string
	OllamaURL       string

	RedisURL string

	// SaveDir is where exported save files are written.
	SaveDir string
}

// Load reads configuration from environment variables with development
// defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     getEnv("ENVIRONMENT", "development"),
		LogLevel:        parseLogLevel(getEnv("LOG_LEVEL", "info")),
		OracleProvider:  getEnv("ORACLE_PROVIDER", "anthropic"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		ModelName:       getEnv("MODEL_NAME", "claude-sonnet-4-20250514"),
		OllamaURL:       getEnv("OLLAMA_URL", "http://localhost:11434"),
		RedisURL:        getEnv("REDIS_URL", "localhost:6379"),
		SaveDir:         getEnv("SAVE_DIR", "./saves"),
	}

	switch strings.ToLower(cfg.OracleProvider) {
	case "anthropic", "ollama":
	default:
		return nil, fmt.Errorf("unsupported oracle provider: %s", cfg.OracleProvider)
	}

	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
