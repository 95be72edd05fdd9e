package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/gigbook")
	t.Setenv("TIMEZONE", "America/New_York")
	t.Setenv("BOOKING_REQUIRE_AVAILABLE", "true")
	t.Setenv("RECENT_LIMIT", "5")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/gigbook", cfg.DatabaseURL)
	assert.Equal(t, "127.0.0.1:8080", cfg.ServerAddr)
	assert.Equal(t, "America/New_York", cfg.Timezone)
	assert.True(t, cfg.BookingRequireAvailable)
	assert.Equal(t, 5, cfg.RecentLimit)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoad_FromEnvFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("DATABASE_URL=postgres://from-env-file/gigbook\nLOG_LEVEL=debug\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"),
		[]byte("LOG_LEVEL=warn\n"), 0o600))

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "postgres://from-env-file/gigbook", cfg.DatabaseURL)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	clearEnv(t)

	_, err := load(viper.New(), t.TempDir())
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestValidate(t *testing.T) {
	valid := Config{
		ServerAddr:  ":8080",
		DatabaseURL: "postgres://localhost/gigbook",
		LogLevel:    "info",
		LogFormat:   "json",
		Timezone:    "UTC",
		RecentLimit: 10,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "unknown time zone", modify: func(c *Config) { c.Timezone = "Mars/Olympus" }},
		{name: "unknown log level", modify: func(c *Config) { c.LogLevel = "loud" }},
		{name: "unknown log format", modify: func(c *Config) { c.LogFormat = "xml" }},
		{name: "zero recent limit", modify: func(c *Config) { c.RecentLimit = 0 }},
		{name: "empty address", modify: func(c *Config) { c.ServerAddr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLevel(t *testing.T) {
	cfg := Config{LogLevel: "debug"}
	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
