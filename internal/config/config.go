// Package config loads gigbook settings from the environment and .env files.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingDatabaseURL is returned when DATABASE_URL is not set.
var ErrMissingDatabaseURL = errors.New("missing DATABASE_URL environment variable")

// Config holds application configuration.
type Config struct {
	ServerAddr              string `mapstructure:"SERVER_ADDR"`
	DatabaseURL             string `mapstructure:"DATABASE_URL"`
	LogLevel                string `mapstructure:"LOG_LEVEL"`
	LogFormat               string `mapstructure:"LOG_FORMAT"`
	Timezone                string `mapstructure:"TIMEZONE"`
	BookingRequireAvailable bool   `mapstructure:"BOOKING_REQUIRE_AVAILABLE"`
	RecentLimit             int    `mapstructure:"RECENT_LIMIT"`
}

var keys = []string{
	"SERVER_ADDR",
	"DATABASE_URL",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"TIMEZONE",
	"BOOKING_REQUIRE_AVAILABLE",
	"RECENT_LIMIT",
}

// Load reads configuration from the environment. When DATABASE_URL is not in
// the environment, .env and then .env.local in the working directory are read.
func Load() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, dir string) (*Config, error) {
	log := slog.With("component", "config")

	v.SetDefault("SERVER_ADDR", "127.0.0.1:8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("TIMEZONE", "UTC")
	v.SetDefault("BOOKING_REQUIRE_AVAILABLE", false)
	v.SetDefault("RECENT_LIMIT", 10)

	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if !v.IsSet("DATABASE_URL") {
		v.SetConfigType("env")
		v.SetConfigFile(dir + "/.env")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("no .env file loaded", "error", err)
		} else {
			log.Info("loaded .env file")
		}

		v.SetConfigFile(dir + "/.env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("no .env.local file loaded", "error", err)
		} else {
			log.Info("loaded .env.local overrides")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required settings are present and well formed.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.ServerAddr == "" {
		return errors.New("SERVER_ADDR must not be empty")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("RECENT_LIMIT must be positive, got %d", c.RecentLimit)
	}
	return nil
}

// Location returns the time zone shows are entered and displayed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Level returns the configured log level.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("parsing LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
