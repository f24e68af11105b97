// Package config loads the finance bot configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/m3rciful/finbot/bots/finance/ui"
	coreconfig "github.com/m3rciful/finbot/core/config"
	coredatabase "github.com/m3rciful/finbot/core/database"
)

// DefaultPath is read when no config path is given and the file exists.
const DefaultPath = "config.yaml"

const (
	defaultRatesURL     = "https://v6.exchangerate-api.com/v6"
	defaultRatesTimeout = 10
)

// RatesConfig configures the exchange rate API client.
type RatesConfig struct {
	APIKey         string `yaml:"api_key" envconfig:"EXCHANGE_API_KEY" required:"true"`
	BaseURL        string `yaml:"base_url" envconfig:"EXCHANGE_API_URL"`
	TimeoutSeconds int    `yaml:"timeout_seconds" envconfig:"EXCHANGE_API_TIMEOUT_SECONDS"`
}

// Timeout returns the per-request timeout.
func (r RatesConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Config is the finance bot configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Rates    RatesConfig         `yaml:"rates"`
	Texts    ui.Catalog          `yaml:"texts" ignored:"true"`
}

// CoreConfig exposes the shared core section.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Load reads path (or DefaultPath when path is empty and the file exists),
// overlays the environment and validates the result. BOT_TOKEN and
// EXCHANGE_API_KEY must be present in the environment or a .env file.
func Load(path string) (*Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}

	cfg := &Config{}
	if err := coreconfig.LoadInto(path, cfg); err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.Rates.APIKey = strings.TrimSpace(c.Rates.APIKey)
	if c.Rates.APIKey == "" {
		return errors.New("rates.api_key is required")
	}
	c.Rates.BaseURL = strings.TrimRight(strings.TrimSpace(c.Rates.BaseURL), "/")
	if c.Rates.BaseURL == "" {
		c.Rates.BaseURL = defaultRatesURL
	}
	if c.Rates.TimeoutSeconds < 0 {
		return errors.New("rates.timeout_seconds must be >= 0")
	}
	if c.Rates.TimeoutSeconds == 0 {
		c.Rates.TimeoutSeconds = defaultRatesTimeout
	}

	c.Database = c.Database.WithDefaults()
	if c.Database.Name == "" {
		return errors.New("database.name is required")
	}

	c.Texts = c.Texts.WithDefaults()
	return c.Texts.Validate()
}
