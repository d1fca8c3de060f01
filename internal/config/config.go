// Package config loads client settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. GETAWAY_API_BASE.
const Prefix = "GETAWAY"

// Config holds all client settings.
type Config struct {
	APIBase string        `envconfig:"API_BASE" default:"http://localhost:3001"`
	Timeout time.Duration `envconfig:"TIMEOUT" default:"15s"`

	Currency    string `envconfig:"CURRENCY" default:"EUR"`
	Residency   string `envconfig:"RESIDENCY" default:"gb"`
	Language    string `envconfig:"LANGUAGE" default:"en"`
	HotelsLimit int    `envconfig:"HOTELS_LIMIT" default:"60"`
	CabinClass  string `envconfig:"CABIN_CLASS" default:"economy"`

	// Outbound requests per second per endpoint; 0 disables throttling
	RateLimit float64 `envconfig:"RATE_LIMIT" default:"5"`
	RateBurst int     `envconfig:"RATE_BURST" default:"5"`

	PrefetchWorkers int `envconfig:"PREFETCH_WORKERS" default:"4"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Address of the ops endpoints (/healthz, /metrics, /session); empty disables them
	MetricsAddr string `envconfig:"METRICS_ADDR"`
}

// Load reads .env (if present) and the GETAWAY_* environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that envconfig cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBase) == "" {
		return fmt.Errorf("%s_API_BASE must not be empty", Prefix)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%s_TIMEOUT must be positive, got %s", Prefix, c.Timeout)
	}
	if c.HotelsLimit < 0 {
		return fmt.Errorf("%s_HOTELS_LIMIT must not be negative, got %d", Prefix, c.HotelsLimit)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%s_RATE_LIMIT must not be negative, got %v", Prefix, c.RateLimit)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s_LOG_FORMAT must be text or json, got %q", Prefix, c.LogFormat)
	}
	return nil
}

// Level returns the configured log level.
func (c *Config) Level() slog.Level {
	lvl, _ := ParseLevel(c.LogLevel)
	return lvl
}

// HasMetrics reports whether the ops endpoints should be served.
func (c *Config) HasMetrics() bool {
	return c.MetricsAddr != ""
}

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
