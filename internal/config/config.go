package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// RedisURL selects the Redis-backed speaker store when set; an empty
	// value falls back to the in-memory store (single-instance mode).
	RedisURL string `env:"REDIS_URL"`

	CombinationStrategy string  `env:"COMBINATION_STRATEGY" default:"weighted_average"`
	PrimaryWeight       float64 `env:"PRIMARY_WEIGHT" default:"0.6"`

	CalibrationMin float64 `env:"CALIBRATION_MIN" default:"0.1"`
	CalibrationMax float64 `env:"CALIBRATION_MAX" default:"5.0"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" default:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" default:"40"`

	MaxFeedConnections int `env:"MAX_FEED_CONNECTIONS" default:"1000"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.PrimaryWeight <= 0 || cfg.PrimaryWeight >= 1 {
		return fmt.Errorf("PRIMARY_WEIGHT must be in (0, 1), got %g", cfg.PrimaryWeight)
	}
	if cfg.CalibrationMin <= 0 {
		return fmt.Errorf("CALIBRATION_MIN must be positive, got %g", cfg.CalibrationMin)
	}
	if cfg.CalibrationMax < cfg.CalibrationMin {
		return fmt.Errorf("CALIBRATION_MAX (%g) must be >= CALIBRATION_MIN (%g)", cfg.CalibrationMax, cfg.CalibrationMin)
	}
	if cfg.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %g", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst < 1 {
		return fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", cfg.RateLimitBurst)
	}
	if cfg.MaxFeedConnections < 1 {
		return fmt.Errorf("MAX_FEED_CONNECTIONS must be at least 1, got %d", cfg.MaxFeedConnections)
	}
	return nil
}
