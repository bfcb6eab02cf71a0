// Package config loads application configuration from environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Prefix is prepended to every variable name Load reads.
const Prefix = "WATERMYPLANT_"

// Config holds the application configuration loaded from environment variables.
type Config struct {
	BaseURL     string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
	DBPath      string        `env:"DB_PATH" envDefault:"watermyplant.db"`
	SecretKey   string        `env:"SECRET_KEY"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	Log         Log           `envPrefix:"LOG_"`

	// EncryptionKey is SecretKey decoded. Nil when no key is configured.
	EncryptionKey []byte
}

// Log configures logging output.
type Log struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
	// File, when set, receives a copy of every record with size-based rotation.
	File string `env:"FILE"`
}

// HasEncryptionKey reports whether stored credentials are encrypted at rest.
func (c *Config) HasEncryptionKey() bool {
	return len(c.EncryptionKey) > 0
}

// SlogLevel maps Log.Level to a slog.Level.
func (l Log) SlogLevel() slog.Level {
	var level slog.Level
	// Load has already validated the value.
	_ = level.UnmarshalText([]byte(l.Level))
	return level
}

// Load reads configuration from WATERMYPLANT_ environment variables and
// returns a validated Config. Every variable is optional:
// BASE_URL (http://localhost:8000), DB_PATH (watermyplant.db),
// SECRET_KEY (base64 32-byte AES key; unset stores the token as plaintext),
// HTTP_TIMEOUT (30s), LOG_LEVEL (info), LOG_FORMAT (text|json), LOG_FILE.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%sBASE_URL must be an absolute http(s) URL, got %q", Prefix, cfg.BaseURL)
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("%sHTTP_TIMEOUT must not be negative, got %s", Prefix, cfg.HTTPTimeout)
	}

	if cfg.SecretKey != "" {
		key, err := base64.StdEncoding.DecodeString(cfg.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("%sSECRET_KEY is not valid base64: %w", Prefix, err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("%sSECRET_KEY must decode to 32 bytes, got %d", Prefix, len(key))
		}
		cfg.EncryptionKey = key
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, fmt.Errorf("%sLOG_LEVEL has invalid level %q", Prefix, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("%sLOG_FORMAT must be text or json, got %q", Prefix, cfg.Log.Format)
	}

	return &cfg, nil
}
