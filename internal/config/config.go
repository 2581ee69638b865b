// Package config loads LiftLens settings from YAML with environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

// TailscaleConfig enables serving on a tailnet via tsnet. When enabled,
// callers are identified by their Tailscale login.
type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// AnalyticsConfig controls analytics defaults.
type AnalyticsConfig struct {
	// DefaultUserID is the user requests are attributed to when no identity
	// provider is configured.
	DefaultUserID int `yaml:"default_user_id"`
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(sslmode),
	}
	return u.String()
}

// SlogLevel maps log.level onto a slog level. Unknown values mean info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
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

// Load reads config from a YAML file, then applies environment variable overrides.
// Env vars use the prefix LIFTLENS_ and underscore-separated paths:
//
//	LIFTLENS_SERVER_HOST, LIFTLENS_SERVER_PORT,
//	LIFTLENS_DB_HOST, LIFTLENS_DB_PORT, LIFTLENS_DB_NAME,
//	LIFTLENS_DB_USER, LIFTLENS_DB_PASSWORD, LIFTLENS_DB_SSLMODE,
//	LIFTLENS_AUTH_API_KEY, LIFTLENS_TAILSCALE_ENABLED,
//	LIFTLENS_TAILSCALE_HOSTNAME, LIFTLENS_TAILSCALE_STATE_DIR,
//	LIFTLENS_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Tailscale: TailscaleConfig{Hostname: "liftlens", StateDir: "tsnet-state"},
		Log:       LogConfig{Level: "info"},
		Analytics: AnalyticsConfig{DefaultUserID: 1},
	}
}

func applyEnvOverrides(cfg *Config) {
	strs := map[string]*string{
		"LIFTLENS_SERVER_HOST":         &cfg.Server.Host,
		"LIFTLENS_DB_HOST":             &cfg.Database.Host,
		"LIFTLENS_DB_NAME":             &cfg.Database.Name,
		"LIFTLENS_DB_USER":             &cfg.Database.User,
		"LIFTLENS_DB_PASSWORD":         &cfg.Database.Password,
		"LIFTLENS_DB_SSLMODE":          &cfg.Database.SSLMode,
		"LIFTLENS_AUTH_API_KEY":        &cfg.Auth.APIKey,
		"LIFTLENS_TAILSCALE_HOSTNAME":  &cfg.Tailscale.Hostname,
		"LIFTLENS_TAILSCALE_STATE_DIR": &cfg.Tailscale.StateDir,
		"LIFTLENS_LOG_LEVEL":           &cfg.Log.Level,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"LIFTLENS_SERVER_PORT": &cfg.Server.Port,
		"LIFTLENS_DB_PORT":     &cfg.Database.Port,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				*dst = n
			}
		}
	}

	if v := os.Getenv("LIFTLENS_TAILSCALE_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = b
		}
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 && !c.Tailscale.Enabled {
		return fmt.Errorf("server.port is required")
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.Port == 0 {
		return fmt.Errorf("database.port is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Analytics.DefaultUserID <= 0 {
		return fmt.Errorf("analytics.default_user_id must be positive")
	}
	return nil
}
