package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// DefaultJWTSecret is only accepted in development.
const DefaultJWTSecret = "change-me-in-production"

// ErrInsecureJWTSecret is returned outside development when the secret is unset or the default.
var ErrInsecureJWTSecret = errors.New("LOCKWARD_JWT_SECRET must be set to a non-default value outside development")

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	LogDir       string
	JWTSecret    string

	Audit AuditConfig
	Alert AlertConfig

	// NewCardWindow bounds how far back the self-registration view looks
	// for swipes of unrecognised cards.
	NewCardWindow time.Duration
}

// AuditConfig controls the access-log write path and retention.
type AuditConfig struct {
	// BufferSize is the capacity of the asynchronous writer queue.
	BufferSize int
	// RetentionDays of 0 keeps entries forever.
	RetentionDays int
	// PruneSchedule is a robfig/cron spec, e.g. "@daily" or "0 3 * * *".
	PruneSchedule string
}

// AlertConfig configures operator alerts for audit write failures.
type AlertConfig struct {
	// URL is a shoutrrr service URL. Empty disables external alerts.
	URL string
	// MinInterval throttles alerts so a failing disk does not flood the channel.
	MinInterval time.Duration
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("LOCKWARD_ENV", "development"),
		HTTPPort:     getEnv("LOCKWARD_HTTP_PORT", "8080"),
		DatabasePath: getEnv("LOCKWARD_DB_PATH", filepath.Join("data", "lockward.db")),
		LogDir:       getEnv("LOCKWARD_LOG_DIR", filepath.Join("data", "logs")),
		JWTSecret:    getEnv("LOCKWARD_JWT_SECRET", DefaultJWTSecret),
		Audit: AuditConfig{
			PruneSchedule: getEnv("LOCKWARD_AUDIT_PRUNE_SCHEDULE", "@daily"),
		},
		Alert: AlertConfig{
			URL: getEnv("LOCKWARD_ALERT_URL", ""),
		},
	}

	if !cfg.IsDevelopment() && cfg.JWTSecret == DefaultJWTSecret {
		return Config{}, ErrInsecureJWTSecret
	}

	var err error
	if cfg.Audit.BufferSize, err = getEnvInt("LOCKWARD_AUDIT_BUFFER", 1024); err != nil {
		return Config{}, err
	}
	if cfg.Audit.RetentionDays, err = getEnvInt("LOCKWARD_AUDIT_RETENTION_DAYS", 0); err != nil {
		return Config{}, err
	}
	if cfg.Alert.MinInterval, err = getEnvDuration("LOCKWARD_ALERT_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.NewCardWindow, err = getEnvDuration("LOCKWARD_NEW_CARD_WINDOW", 2*time.Minute); err != nil {
		return Config{}, err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in development mode.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", key, val)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a non-negative duration, got %q", key, val)
	}
	return d, nil
}
