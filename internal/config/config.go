package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Storage backends
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	StorageBackend string
	RedisURL       string
	SQLitePath     string
	DataDir        string
	// ProjectTTL expires Redis-stored projects; 0 keeps them
	ProjectTTL time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendRedis)),
		RedisURL:       getEnv("REDIS_URL", "localhost:6379"),
		SQLitePath:     getEnv("SQLITE_PATH", "./data/projects.db"),
		DataDir:        getEnv("DATA_DIR", "./data"),
	}

	ttl, err := time.ParseDuration(getEnv("PROJECT_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PROJECT_TTL: %w", err)
	}
	if ttl < 0 {
		return nil, fmt.Errorf("invalid PROJECT_TTL: %s is negative", ttl)
	}
	cfg.ProjectTTL = ttl

	switch cfg.StorageBackend {
	case BackendRedis, BackendSQLite:
	default:
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q (supported: %s, %s)", cfg.StorageBackend, BackendRedis, BackendSQLite)
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
