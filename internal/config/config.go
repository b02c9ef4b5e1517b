// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	StoreBackend     string
	DatabasePath     string
	StorePath        string
	LogLevel         string
	Region           string
	Timezone         string
	PushSchedule     string

	loc *time.Location
}

// Load reads configuration from the environment, after loading an
// optional .env file. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	cfg := &Config{
		TelegramBotToken: token,
		StoreBackend:     envOrDefault("STORE_BACKEND", BackendSQLite),
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/bot.db"),
		StorePath:        envOrDefault("STORE_PATH", "./data/config.json"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		Region:           envOrDefault("MORA_REGION", "jpn"),
		Timezone:         envOrDefault("TIMEZONE", "Asia/Tokyo"),
		PushSchedule:     envOrDefault("PUSH_SCHEDULE", "7 23 * * *"),
	}

	if cfg.StoreBackend != BackendSQLite && cfg.StoreBackend != BackendFile {
		return nil, fmt.Errorf("invalid STORE_BACKEND %q, use %q or %q", cfg.StoreBackend, BackendSQLite, BackendFile)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.loc = loc

	return cfg, nil
}

// Location returns the timezone all dates and the push schedule are
// evaluated in.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
