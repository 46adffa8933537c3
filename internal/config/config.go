// ABOUTME: Configuration loading and parsing for reviewfeed
// ABOUTME: Supports YAML files with ${VAR} expansion, env overrides, and duration parsing

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/2389/reviewfeed/internal/gateway"
	"github.com/2389/reviewfeed/internal/review"
)

// Config represents the complete reviewfeed configuration
type Config struct {
	API       APIConfig         `yaml:"api"`
	Filter    map[string]string `yaml:"filter"`
	Cache     CacheConfig       `yaml:"cache"`
	Logging   LoggingConfig     `yaml:"logging"`
	DevServer DevServerConfig   `yaml:"devserver"`
}

// APIConfig holds the remote search API settings
type APIConfig struct {
	BaseURL string `yaml:"base_url" env:"REVIEWFEED_API_URL"`
	// Key is passed through untouched as the api-key query parameter
	Key string `yaml:"key" env:"REVIEWFEED_API_KEY"`

	// Timeout bounds each request; zero means no timeout
	Timeout    time.Duration `yaml:"-"`
	TimeoutRaw string        `yaml:"timeout" env:"REVIEWFEED_API_TIMEOUT"`
}

// CacheConfig holds page cache configuration
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" env:"REVIEWFEED_CACHE_ENABLED"`
	MaxEntries int           `yaml:"max_entries"`
	TTL        time.Duration `yaml:"-"`
	TTLRaw     string        `yaml:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"REVIEWFEED_LOG_LEVEL"`
	Format string `yaml:"format" env:"REVIEWFEED_LOG_FORMAT"`
	// File, when set, receives log output instead of stderr
	File string `yaml:"file" env:"REVIEWFEED_LOG_FILE"`
}

// DevServerConfig holds settings for the local fake search API
type DevServerConfig struct {
	Addr     string `yaml:"addr" env:"REVIEWFEED_DEV_ADDR"`
	Database string `yaml:"database" env:"REVIEWFEED_DEV_DATABASE"`
	Fixture  string `yaml:"fixture" env:"REVIEWFEED_DEV_FIXTURE"`
	PageSize int    `yaml:"page_size"`
	// APIKey, when set, is required on every request
	APIKey string `yaml:"api_key" env:"REVIEWFEED_DEV_API_KEY"`

	// Latency delays every response, useful for exercising overlapping requests
	Latency    time.Duration `yaml:"-"`
	LatencyRaw string        `yaml:"latency" env:"REVIEWFEED_DEV_LATENCY"`
}

// Defaults for unset fields
const (
	DefaultCacheTTL        = 5 * time.Minute
	DefaultCacheMaxEntries = 128
	DefaultDevAddr         = "127.0.0.1:8089"
	DefaultPageSize        = 20
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded, REVIEWFEED_*
// variables override file values, and duration strings are parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(&cfg)
}

// LoadOrDefault behaves like Load but falls back to defaults plus
// environment overrides when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(&Config{})
	}
	return cfg, err
}

// finish applies env overrides, durations, defaults, and validation.
func finish(cfg *Config) (*Config, error) {
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Path returns the config file location.
// Priority: REVIEWFEED_CONFIG env var > XDG_CONFIG_HOME/reviewfeed/config.yaml > ~/.config/reviewfeed/config.yaml
func Path() string {
	if envPath := os.Getenv("REVIEWFEED_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml"
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "reviewfeed", "config.yaml")
}

// BaseFilter returns the filter every session starts from: configured
// filter entries plus the credential.
func (c *Config) BaseFilter() review.Filter {
	f := review.Filter(c.Filter).Clone()
	if c.API.Key != "" {
		f[review.KeyAPIKey] = c.API.Key
	}
	return f
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = gateway.DefaultBaseURL
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}
	if cfg.Cache.MaxEntries == 0 {
		cfg.Cache.MaxEntries = DefaultCacheMaxEntries
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.DevServer.Addr == "" {
		cfg.DevServer.Addr = DefaultDevAddr
	}
	if cfg.DevServer.PageSize == 0 {
		cfg.DevServer.PageSize = DefaultPageSize
	}
}

// Validate checks that all configuration fields are valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must use http or https scheme")
	}

	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	for k := range c.Filter {
		if k == review.KeyOffset {
			return fmt.Errorf("filter.%s is managed by the session and cannot be configured", k)
		}
	}

	if c.Cache.Enabled && c.Cache.MaxEntries < 1 {
		return fmt.Errorf("cache.max_entries must be positive when the cache is enabled")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json (got %q)", c.Logging.Format)
	}

	if c.DevServer.PageSize < 1 {
		return fmt.Errorf("devserver.page_size must be positive")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.API.TimeoutRaw != "" {
		cfg.API.Timeout, err = time.ParseDuration(cfg.API.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing api.timeout %q: %w", cfg.API.TimeoutRaw, err)
		}
	}

	if cfg.Cache.TTLRaw != "" {
		cfg.Cache.TTL, err = time.ParseDuration(cfg.Cache.TTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cache.ttl %q: %w", cfg.Cache.TTLRaw, err)
		}
	}

	if cfg.DevServer.LatencyRaw != "" {
		cfg.DevServer.Latency, err = time.ParseDuration(cfg.DevServer.LatencyRaw)
		if err != nil {
			return fmt.Errorf("parsing devserver.latency %q: %w", cfg.DevServer.LatencyRaw, err)
		}
	}

	return nil
}
