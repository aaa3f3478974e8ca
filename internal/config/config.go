package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port             string        `env:"PORT"               envDefault:"8080"`
	Environment      string        `env:"ENVIRONMENT"        envDefault:"development"`
	LogLevelName     string        `env:"LOG_LEVEL"          envDefault:"info"`
	RedisURL         string        `env:"REDIS_URL"          envDefault:"redis://localhost:6379"`
	DataDir          string        `env:"DATA_DIR"           envDefault:"./data"`
	RollHistoryLimit int           `env:"ROLL_HISTORY_LIMIT" envDefault:"100"`
	DefaultLocale    string        `env:"DEFAULT_LOCALE"     envDefault:"en"`
	CharacterTTL     time.Duration `env:"CHARACTER_TTL"      envDefault:"0s"` // 0 keeps characters forever

	LogLevel slog.Level
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelName)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.RedisURL == "" {
		return errors.New("redis URL is required")
	}
	if c.RollHistoryLimit < 1 {
		return fmt.Errorf("roll history limit must be positive, got %d", c.RollHistoryLimit)
	}
	if c.CharacterTTL < 0 {
		return fmt.Errorf("character TTL cannot be negative, got %s", c.CharacterTTL)
	}
	return nil
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
