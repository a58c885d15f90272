package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/leofalp/marketdata/core/fetch"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Environment variables read by ApplyEnv and LoadFromEnv.
const (
	EnvConfigPath     = "MARKETDATA_CONFIG"
	EnvTimeoutSeconds = "MARKETDATA_TIMEOUT_SECONDS"
	EnvUserAgent      = "MARKETDATA_USER_AGENT"
	EnvBrowserTLS     = "MARKETDATA_BROWSER_TLS"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the full runtime configuration.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	CDSL    CDSLConfig    `yaml:"cdsl"`
	Indices IndicesConfig `yaml:"indices"`
}

// FetchConfig maps onto fetch.Option values.
type FetchConfig struct {
	TimeoutSecs    int    `yaml:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent"`
	AcceptLanguage string `yaml:"accept_language"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`
	MaxRedirects   int    `yaml:"max_redirects"`
	BrowserTLS     bool   `yaml:"browser_tls"`
}

// CDSLConfig holds the report sources and the fortnightly date catalog.
type CDSLConfig struct {
	MonthlyURL         string   `yaml:"monthly_url"`
	FortnightlyBaseURL string   `yaml:"fortnightly_base_url"`
	MonthlyStripTags   []string `yaml:"monthly_strip_tags"`
	// FortnightlyDates are report labels, newest first.
	FortnightlyDates []string `yaml:"fortnightly_dates"`
}

// IndicesConfig holds the index listing sources.
type IndicesConfig struct {
	GlobalURL     string            `yaml:"global_url"`
	IndianURL     string            `yaml:"indian_url"`
	IndianHeaders map[string]string `yaml:"indian_headers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return &cfg
}

// Load reads the YAML file at path over the built-in defaults. An empty path
// returns the defaults. Keys absent from the file keep their default; lists
// present in the file replace the default list.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by MARKETDATA_CONFIG (if set) and applies
// the process environment.
func LoadFromEnv() (*Config, error) {
	cfg, err := Load(os.Getenv(EnvConfigPath))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WithDefaults fills zero values with the fetch package defaults.
func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if c.Fetch.TimeoutSecs <= 0 {
		c.Fetch.TimeoutSecs = int(fetch.DefaultTimeout / time.Second)
	}
	if strings.TrimSpace(c.Fetch.UserAgent) == "" {
		c.Fetch.UserAgent = fetch.DefaultUserAgent
	}
	if strings.TrimSpace(c.Fetch.AcceptLanguage) == "" {
		c.Fetch.AcceptLanguage = fetch.DefaultAcceptLanguage
	}
	if c.Fetch.MaxBodyBytes < 0 {
		c.Fetch.MaxBodyBytes = fetch.DefaultMaxBodyBytes
	}
	if c.Fetch.MaxRedirects <= 0 {
		c.Fetch.MaxRedirects = fetch.DefaultMaxRedirects
	}
	return c
}

// Validate checks that every configured URL is absolute and that the date
// catalog has no blank labels.
func (c *Config) Validate() error {
	urls := map[string]string{
		"cdsl.monthly_url":          c.CDSL.MonthlyURL,
		"cdsl.fortnightly_base_url": c.CDSL.FortnightlyBaseURL,
		"indices.global_url":        c.Indices.GlobalURL,
		"indices.indian_url":        c.Indices.IndianURL,
	}
	for key, raw := range urls {
		parsed, err := url.Parse(raw)
		if err != nil || !parsed.IsAbs() || parsed.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL, got %q", ErrInvalidConfig, key, raw)
		}
	}
	if slices.ContainsFunc(c.CDSL.FortnightlyDates, func(label string) bool {
		return strings.TrimSpace(label) == ""
	}) {
		return fmt.Errorf("%w: cdsl.fortnightly_dates contains a blank label", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv overrides fetch settings from environment variables found by
// lookup (os.LookupEnv, or a map from LoadEnvFile).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvTimeoutSeconds); ok && v != "" {
		secs, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || secs <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidConfig, EnvTimeoutSeconds, v)
		}
		c.Fetch.TimeoutSecs = secs
	}
	if v, ok := lookup(EnvUserAgent); ok && strings.TrimSpace(v) != "" {
		c.Fetch.UserAgent = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvBrowserTLS); ok && v != "" {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s must be a boolean, got %q", ErrInvalidConfig, EnvBrowserTLS, v)
		}
		c.Fetch.BrowserTLS = enabled
	}
	return nil
}

// Timeout returns the fetch timeout as a duration.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// FetchOptions converts the fetch section into options for fetch.New.
func (c *Config) FetchOptions() []fetch.Option {
	return []fetch.Option{
		fetch.WithTimeout(c.Fetch.Timeout()),
		fetch.WithUserAgent(c.Fetch.UserAgent),
		fetch.WithAcceptLanguage(c.Fetch.AcceptLanguage),
		fetch.WithMaxBodyBytes(c.Fetch.MaxBodyBytes),
		fetch.WithMaxRedirects(c.Fetch.MaxRedirects),
		fetch.WithBrowserTLS(c.Fetch.BrowserTLS),
	}
}
