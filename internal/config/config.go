// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"sre-dashboard/internal/domain"
	"sre-dashboard/internal/warehouse"
)

// Defaults for the non-warehouse settings.
const (
	DefaultCatalog       = "sre_monitoring_catalog"
	DefaultSchema        = "monitoring_system"
	DefaultProbeSchedule = "@every 5m"
	DefaultListenAddr    = ":8080"
)

// Config holds the configuration for the dashboard server.
type Config struct {
	// Warehouse is the statement API connection. It may be incomplete; the
	// server still starts and every query reports the missing variables.
	Warehouse warehouse.Config

	// ProbeSchedule is a cron spec for the warehouse connectivity probe.
	// Empty disables the probe.
	ProbeSchedule string

	Catalog         string // catalog holding the monitoring tables
	Schema          string // schema holding the monitoring tables
	ChatIntentsFile string // optional YAML file replacing the built-in chat intents

	ListenAddr string // HTTP listen address (default ":8080")
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // environment: "development" (default) or "production"
	APIToken   string // static bearer token for /api routes; empty leaves them open

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 20)
	RateLimitBurst int     // burst capacity (default 40)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Tables returns the namespace of the monitoring tables.
func (c *Config) Tables() domain.TableRef {
	return domain.TableRef{Catalog: c.Catalog, Schema: c.Schema}
}

// LoadFromEnv loads configuration from environment variables.
// Warehouse variables are optional; the app can start without them.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Warehouse:       warehouse.ConfigFromEnv(os.Getenv),
		Catalog:         strings.TrimSpace(os.Getenv("SRE_CATALOG")),
		Schema:          strings.TrimSpace(os.Getenv("SRE_SCHEMA")),
		ChatIntentsFile: os.Getenv("CHAT_INTENTS_FILE"),
		ListenAddr:      os.Getenv("LISTEN_ADDR"),
		LogLevel:        os.Getenv("LOG_LEVEL"),
		Env:             os.Getenv("ENV"),
		APIToken:        strings.TrimSpace(os.Getenv("API_TOKEN")),
		ProbeSchedule:   DefaultProbeSchedule,
	}
	if v, ok := os.LookupEnv("WAREHOUSE_PROBE_SCHEDULE"); ok {
		cfg.ProbeSchedule = strings.TrimSpace(v)
	}

	// Warehouse tuning
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"WAREHOUSE_WAIT_TIMEOUT", &cfg.Warehouse.WaitTimeout},
		{"WAREHOUSE_POLL_INTERVAL", &cfg.Warehouse.PollInterval},
		{"WAREHOUSE_POLL_TIMEOUT", &cfg.Warehouse.PollTimeout},
		{"WAREHOUSE_HTTP_TIMEOUT", &cfg.Warehouse.HTTPTimeout},
	}
	for _, d := range durations {
		if err := parseDurationEnv(d.key, d.dst); err != nil {
			return nil, err
		}
	}
	if cfg.Warehouse.PollInterval <= 0 {
		return nil, fmt.Errorf("WAREHOUSE_POLL_INTERVAL must be positive")
	}
	if cfg.Warehouse.WaitTimeout < 0 {
		return nil, fmt.Errorf("WAREHOUSE_WAIT_TIMEOUT must not be negative")
	}
	if cfg.Warehouse.PollTimeout < 0 {
		return nil, fmt.Errorf("WAREHOUSE_POLL_TIMEOUT must not be negative")
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimitRPS = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = n
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	// Defaults
	if cfg.Catalog == "" {
		cfg.Catalog = DefaultCatalog
	}
	if cfg.Schema == "" {
		cfg.Schema = DefaultSchema
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 20
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 40
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	if err := cfg.Warehouse.Validate(); err != nil {
		cfg.Warnings = append(cfg.Warnings, err.Error()+"; queries will fail until it is configured")
	}
	if cfg.APIToken == "" {
		cfg.Warnings = append(cfg.Warnings, "API_TOKEN not set; /api and /ui routes are unauthenticated")
	}
	if cfg.IsProduction() && len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
	}

	return cfg, nil
}

func parseDurationEnv(key string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = d
	return nil
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Existing environment wins.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes one pair of matching surrounding quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
