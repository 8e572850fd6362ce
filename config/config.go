package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/iTrooz/duckduck/api"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the client configuration
type Config struct {
	API     APIConfig     `yaml:"api"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig contains the endpoints the client talks to
type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	UploadURL string `yaml:"upload_url"`
}

// HTTPConfig contains transport-related configuration
type HTTPConfig struct {
	Timeout  string `yaml:"timeout"`   // empty means the transport default
	ProxyURL string `yaml:"proxy_url"` // optional outbound proxy
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	config.setDefaults()

	return &config, nil
}

func (c *Config) setDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = api.DefaultBaseURL
	}
	if c.API.UploadURL == "" {
		c.API.UploadURL = api.DefaultUploadURL
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// GetTimeout parses and returns the HTTP timeout. Zero means no timeout.
func (c *Config) GetTimeout() (time.Duration, error) {
	if c.HTTP.Timeout == "" {
		return 0, nil
	}
	return time.ParseDuration(c.HTTP.Timeout)
}

// GetLogLevel parses and returns the logging level
func (c *Config) GetLogLevel() (logrus.Level, error) {
	return logrus.ParseLevel(c.Logging.Level)
}

// GetProxyURL parses and returns the proxy URL, or nil when none is set
func (c *Config) GetProxyURL() (*url.URL, error) {
	if c.HTTP.ProxyURL == "" {
		return nil, nil
	}
	return url.Parse(c.HTTP.ProxyURL)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validateURL(c.API.BaseURL); err != nil {
		return fmt.Errorf("invalid API base URL: %w", err)
	}

	if err := validateURL(c.API.UploadURL); err != nil {
		return fmt.Errorf("invalid API upload URL: %w", err)
	}

	timeout, err := c.GetTimeout()
	if err != nil {
		return fmt.Errorf("invalid HTTP timeout format: %w", err)
	}
	if timeout < 0 {
		return fmt.Errorf("HTTP timeout must not be negative, got: %s", c.HTTP.Timeout)
	}

	if c.HTTP.ProxyURL != "" {
		if err := validateURL(c.HTTP.ProxyURL); err != nil {
			return fmt.Errorf("invalid proxy URL: %w", err)
		}
	}

	if _, err := c.GetLogLevel(); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
