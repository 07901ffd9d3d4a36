// Package config provides configuration management for the steamdata tools.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingDetailsURL        = errors.New("harvest.details_url is required")
	ErrMissingAppListURL        = errors.New("harvest.app_list_url is required")
	ErrInvalidURL               = errors.New("invalid url")
	ErrInvalidBatchSize         = errors.New("harvest.batch_size must be at least 1")
	ErrInvalidBatchWait         = errors.New("harvest.batch_wait_sec must be non-negative")
	ErrInvalidRequestRate       = errors.New("harvest.requests_per_sec must be positive")
	ErrInvalidMaxAttempts       = errors.New("retry.max_attempts must be at least 1")
	ErrInvalidInitialDelay      = errors.New("retry.initial_delay_ms must be non-negative")
	ErrInvalidBackoffMultiplier = errors.New("retry.backoff_multiplier must be >= 1.0")
	ErrInvalidTimeout           = errors.New("retry.timeout_sec must be at least 1")
	ErrMissingPath              = errors.New("path is required")
	ErrMissingExpectedType      = errors.New("features.expected_type is required")
	ErrInvalidSinkDSN           = errors.New("sink.dsn must start with sqlite:, postgres://, mysql:// or mongodb://")
	ErrInvalidLogLevel          = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete steamdata configuration.
type Config struct {
	Harvest  HarvestConfig  `yaml:"harvest"`
	Paths    PathsConfig    `yaml:"paths"`
	Features FeaturesConfig `yaml:"features"`
	Sink     SinkConfig     `yaml:"sink"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// HarvestConfig contains settings for the store API harvester.
type HarvestConfig struct {
	Params         map[string]string `yaml:"params"`
	AppListURL     string            `yaml:"app_list_url"`
	DetailsURL     string            `yaml:"details_url"`
	UserAgent      string            `yaml:"user_agent"`
	Retry          RetryPolicy       `yaml:"retry"`
	BatchSize      int               `yaml:"batch_size"`
	BatchWaitSec   int               `yaml:"batch_wait_sec"`
	RequestsPerSec float64           `yaml:"requests_per_sec"`
}

// RetryPolicy defines retry behavior.
type RetryPolicy struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	InitialDelayMs    int     `yaml:"initial_delay_ms"`
	MaxDelayMs        int     `yaml:"max_delay_ms"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
	TimeoutSec        int     `yaml:"timeout_sec"`
}

// PathsConfig holds the on-disk locations used by the pipeline.
type PathsConfig struct {
	IDList      string `yaml:"id_list"`
	RawStore    string `yaml:"raw_store"`
	SideStats   string `yaml:"side_stats"`
	FeaturesCSV string `yaml:"features_csv"`
	Report      string `yaml:"report"`
}

// FeaturesConfig controls record normalization.
type FeaturesConfig struct {
	ExpectedType  string   `yaml:"expected_type"`
	TextDefault   string   `yaml:"text_default"`
	NonGameGenres []string `yaml:"non_game_genres"`
}

// SinkConfig configures the optional database sink. Table names the SQL
// table or the MongoDB collection.
type SinkConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns a configuration that runs the whole pipeline from the
// working directory without a config file.
func Default() *Config {
	return &Config{
		Harvest: HarvestConfig{
			AppListURL: "http://api.steampowered.com/ISteamApps/GetAppList/v2",
			DetailsURL: "http://store.steampowered.com/api/appdetails/",
			Params: map[string]string{
				"cc": "US",
				"l":  "english",
				"v":  "1",
			},
			UserAgent:      "steamdata-harvester/1.0",
			BatchSize:      190,
			BatchWaitSec:   300,
			RequestsPerSec: 1.5,
			Retry: RetryPolicy{
				MaxAttempts:       3,
				InitialDelayMs:    500,
				MaxDelayMs:        30000,
				BackoffMultiplier: 2.0,
				TimeoutSec:        30,
			},
		},
		Paths: PathsConfig{
			IDList:      "idlist.csv",
			RawStore:    "games.json",
			SideStats:   "steamspy.json",
			FeaturesCSV: "games-features.csv",
			Report:      "games-features.md",
		},
		Features: FeaturesConfig{
			ExpectedType: "game",
			TextDefault:  " ",
			NonGameGenres: []string{
				"Utilities",
				"Design & Illustration",
				"Animation & Modeling",
				"Software Training",
				"Education",
				"Audio Production",
				"Video Production",
				"Web Publishing",
				"Photo Editing",
				"Accounting",
			},
		},
		Sink: SinkConfig{
			Table: "features",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the
// file keep their Default values.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads filepath when it is non-empty and falls back to
// Default otherwise.
func LoadOrDefault(filepath string) (*Config, error) {
	if filepath == "" {
		return Default(), nil
	}

	return LoadConfig(filepath)
}

// SaveConfig saves configuration to YAML file.
func (c *Config) SaveConfig(filepath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	h := c.Harvest

	if h.DetailsURL == "" {
		return ErrMissingDetailsURL
	}

	if h.AppListURL == "" {
		return ErrMissingAppListURL
	}

	for name, raw := range map[string]string{"details_url": h.DetailsURL, "app_list_url": h.AppListURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: harvest.%s=%q", ErrInvalidURL, name, raw)
		}
	}

	if h.BatchSize < 1 {
		return ErrInvalidBatchSize
	}

	if h.BatchWaitSec < 0 {
		return ErrInvalidBatchWait
	}

	if h.RequestsPerSec <= 0 {
		return ErrInvalidRequestRate
	}

	// Validate retry policy
	if h.Retry.MaxAttempts < 1 {
		return ErrInvalidMaxAttempts
	}

	if h.Retry.InitialDelayMs < 0 {
		return ErrInvalidInitialDelay
	}

	if h.Retry.BackoffMultiplier < 1.0 {
		return ErrInvalidBackoffMultiplier
	}

	if h.Retry.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	paths := []struct {
		name, value string
	}{
		{"paths.id_list", c.Paths.IDList},
		{"paths.raw_store", c.Paths.RawStore},
		{"paths.side_stats", c.Paths.SideStats},
		{"paths.features_csv", c.Paths.FeaturesCSV},
	}
	for _, p := range paths {
		if strings.TrimSpace(p.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingPath, p.name)
		}
	}

	if c.Features.ExpectedType == "" {
		return ErrMissingExpectedType
	}

	if c.Sink.DSN != "" {
		if _, _, err := SplitDSN(c.Sink.DSN); err != nil {
			return err
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// SplitDSN maps a sink DSN to a driver name and the driver-specific data
// source string. MongoDB URIs are returned whole under the "mongodb" driver.
func SplitDSN(dsn string) (string, string, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite:"):
		return "sqlite", strings.TrimPrefix(dsn, "sqlite:"), nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return "postgres", dsn, nil
	case strings.HasPrefix(dsn, "mysql://"):
		return "mysql", strings.TrimPrefix(dsn, "mysql://"), nil
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return "mongodb", dsn, nil
	}

	return "", "", fmt.Errorf("%w: %q", ErrInvalidSinkDSN, dsn)
}

// GetRetryDelay calculates exponential backoff delay for attempt number.
func (rp *RetryPolicy) GetRetryDelay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}

	delayMs := float64(rp.InitialDelayMs)
	for i := 1; i < attempt; i++ {
		delayMs *= rp.BackoffMultiplier
	}

	// Cap at max delay
	if rp.MaxDelayMs > 0 && int(delayMs) > rp.MaxDelayMs {
		delayMs = float64(rp.MaxDelayMs)
	}

	return time.Duration(int(delayMs)) * time.Millisecond
}

// GetTimeout returns the timeout duration.
func (rp *RetryPolicy) GetTimeout() time.Duration {
	return time.Duration(rp.TimeoutSec) * time.Second
}

// BatchWait returns the pause inserted after every full batch of requests.
func (h *HarvestConfig) BatchWait() time.Duration {
	return time.Duration(h.BatchWaitSec) * time.Second
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{RawStore: %s, BatchSize: %d, MaxAttempts: %d, Output: %s}",
		c.Paths.RawStore,
		c.Harvest.BatchSize,
		c.Harvest.Retry.MaxAttempts,
		c.Paths.FeaturesCSV,
	)
}
