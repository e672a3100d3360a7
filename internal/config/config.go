package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Refresh  RefreshConfig  `yaml:"refresh"`
	Queue    QueueConfig    `yaml:"queue"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// DatabaseConfig configures SQLite storage.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// AuthConfig holds the HS256 secret used to identify API callers.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// ScraperConfig bounds external catalog lookups.
type ScraperConfig struct {
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

// ParseTimeout returns the per-request timeout as time.Duration.
func (s ScraperConfig) ParseTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 3 * time.Second
	}
	return d
}

// RefreshConfig controls the staleness policy for cached quantity readings.
type RefreshConfig struct {
	// FreshnessWindow is how long a snapshot counts as fresh after check_time.
	FreshnessWindow string `yaml:"freshness_window"`
	// CoverageThreshold is the fresh-snapshot count at which a re-fetch is
	// skipped; 18 tolerates a couple of stragglers out of a 20-location page.
	CoverageThreshold int `yaml:"coverage_threshold"`
	// PageSize is the location-search page cap; a full page is the signal
	// that the zip-to-store mapping is worth caching.
	PageSize int `yaml:"page_size"`
}

// ParseFreshnessWindow returns the freshness window as time.Duration.
func (r RefreshConfig) ParseFreshnessWindow() time.Duration {
	d, err := time.ParseDuration(r.FreshnessWindow)
	if err != nil {
		return time.Hour
	}
	return d
}

// QueueConfig controls the background work queue.
type QueueConfig struct {
	Workers    int    `yaml:"workers"`
	SoftLimit  string `yaml:"soft_limit"`
	HardLimit  string `yaml:"hard_limit"`
	Expiry     string `yaml:"expiry"`
	MaxRetries int    `yaml:"max_retries"`
}

// ParseSoftLimit returns the soft execution limit as time.Duration.
func (q QueueConfig) ParseSoftLimit() time.Duration {
	d, err := time.ParseDuration(q.SoftLimit)
	if err != nil {
		return 25 * time.Second
	}
	return d
}

// ParseHardLimit returns the hard execution limit as time.Duration.
func (q QueueConfig) ParseHardLimit() time.Duration {
	d, err := time.ParseDuration(q.HardLimit)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ParseExpiry returns the in-queue expiry as time.Duration.
func (q QueueConfig) ParseExpiry() time.Duration {
	d, err := time.ParseDuration(q.Expiry)
	if err != nil {
		return time.Hour
	}
	return d
}

// LogConfig configures log output.
type LogConfig struct {
	File string `yaml:"file"`
}

// Default returns a Config with the reference defaults.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080"},
		Database: DatabaseConfig{DSN: "shopper.db"},
		Auth:     AuthConfig{JWTSecret: "dev-secret-change-me"},
		Scraper: ScraperConfig{
			Timeout:    "3s",
			MaxRetries: 3,
		},
		Refresh: RefreshConfig{
			FreshnessWindow:   "1h",
			CoverageThreshold: 18,
			PageSize:          20,
		},
		Queue: QueueConfig{
			Workers:    4,
			SoftLimit:  "25s",
			HardLimit:  "30s",
			Expiry:     "1h",
			MaxRetries: 5,
		},
		Log: LogConfig{File: ""},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("SHOPPER_DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("SHOPPER_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("SHOPPER_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
