// Package common provides shared utilities for FiCopilot
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for FiCopilot
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Upload      UploadConfig   `toml:"upload"`
	Sessions    SessionsConfig `toml:"sessions"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// UploadConfig bounds accepted workbook uploads.
type UploadConfig struct {
	MaxSizeMB int `toml:"max_size_mb"`
}

// MaxBytes returns the upload size limit in bytes.
func (c *UploadConfig) MaxBytes() int64 {
	if c.MaxSizeMB <= 0 {
		return 10 << 20
	}
	return int64(c.MaxSizeMB) << 20
}

// SessionsConfig controls the in-memory session store.
type SessionsConfig struct {
	IdleTTL       string `toml:"idle_ttl"`       // duration string, default "1h"
	SweepInterval string `toml:"sweep_interval"` // duration string, default "5m"
}

// GetIdleTTL parses and returns the session idle expiry duration.
func (c *SessionsConfig) GetIdleTTL() time.Duration {
	d, err := time.ParseDuration(c.IdleTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// GetSweepInterval parses and returns the janitor sweep interval.
func (c *SessionsConfig) GetSweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Upload: UploadConfig{
			MaxSizeMB: 10,
		},
		Sessions: SessionsConfig{
			IdleTTL:       "1h",
			SweepInterval: "5m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FICOPILOT_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FICOPILOT_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FICOPILOT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FICOPILOT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if mb := os.Getenv("FICOPILOT_MAX_UPLOAD_MB"); mb != "" {
		if n, err := strconv.Atoi(mb); err == nil {
			config.Upload.MaxSizeMB = n
		}
	}

	if ttl := os.Getenv("FICOPILOT_SESSION_TTL"); ttl != "" {
		config.Sessions.IdleTTL = ttl
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
