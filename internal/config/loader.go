package config

import (
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"seaplan/internal/types"
)

// Load builds and validates the configuration.
//
// The loading sequence is:
//  1. Enforce UTC to prevent time-key drift between store and engine.
//  2. Load a .env file via godotenv (non-fatal if absent; never overrides
//     existing environment variables).
//  3. Process envconfig struct tags.
//  4. Validate with go-playground/validator plus the cross-field rules.
func Load() (*Config, error) {
	time.Local = time.UTC

	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid, "parsing environment", err)
	}

	v := validator.New()
	if err := v.Struct(&cfg); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid, "validating configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid, "validating configuration", err)
	}
	return &cfg, nil
}

// SlogLevel maps the configured log level onto slog's scale.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
