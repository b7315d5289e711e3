package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment" validate:"omitempty,oneof=development production"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Fetch       FetchConfig   `toml:"fetch"`
	Profile     ProfileConfig `toml:"profile"`
	Report      ReportConfig  `toml:"report"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"`
	ResetOnStartup bool   `toml:"reset_on_startup"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// FetchConfig controls remote fact-sheet retrieval.
type FetchConfig struct {
	RequestTimeout time.Duration `toml:"request_timeout"`
	RateLimit      int           `toml:"rate_limit"` // requests per second
	MaxBodySize    int           `toml:"max_body_size"`
	UserAgent      string        `toml:"user_agent"`
}

// ProfileConfig points at the upstream client-profile platform.
type ProfileConfig struct {
	BaseURL string `toml:"base_url" validate:"omitempty,url"`
	APIKey  string `toml:"api_key"`
}

// ReportConfig carries report-wide defaults applied when the caller does not
// override them.
type ReportConfig struct {
	Currency string  `toml:"currency" validate:"omitempty,len=3"`
	IRR      float64 `toml:"irr"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/clientfolio",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Fetch: FetchConfig{
			RequestTimeout: 30 * time.Second,
			RateLimit:      5,
			MaxBodySize:    10 * 1024 * 1024, // 10MB
			UserAgent:      "clientfolio/1.0",
		},
		Report: ReportConfig{
			Currency: "ZAR",
		},
	}
}

// LoadFromFiles loads configuration from multiple files.
// Priority: env variables > last config file > ... > first config file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CLIENTFOLIO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if path := os.Getenv("CLIENTFOLIO_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if level := os.Getenv("CLIENTFOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if baseURL := os.Getenv("CLIENTFOLIO_PROFILE_URL"); baseURL != "" {
		config.Profile.BaseURL = baseURL
	}
	if apiKey := os.Getenv("CLIENTFOLIO_PROFILE_API_KEY"); apiKey != "" {
		config.Profile.APIKey = apiKey
	}
	if currency := os.Getenv("CLIENTFOLIO_REPORT_CURRENCY"); currency != "" {
		config.Report.Currency = currency
	}
	if limit := os.Getenv("CLIENTFOLIO_FETCH_RATE_LIMIT"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			config.Fetch.RateLimit = n
		}
	}
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction returns true when running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
