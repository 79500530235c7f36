package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Source  SourceConfig  `yaml:"source"`
	Signals SignalsConfig `yaml:"signals"`
}

// ServerConfig configures the API binary.
type ServerConfig struct {
	Port string `yaml:"port"`
}

// SourceConfig points at the remote archive bundle.
type SourceConfig struct {
	BaseURL     string `yaml:"base_url"`
	ArchivePath string `yaml:"archive_path"`
	// IndexID selects which index series provides market-change
	// attribution. Empty defaults to the first loaded series.
	IndexID string `yaml:"index_id"`
}

// SignalsConfig carries the tunable windows. The classifier thresholds and
// class weights themselves are fixed empirical constants compiled into the
// engine and deliberately not configurable.
type SignalsConfig struct {
	ForwardDays  int `yaml:"forward_days"`
	HoldingDays  int `yaml:"holding_days"`
	TrailingDays int `yaml:"trailing_days"`
}

// Load reads, defaults, and validates a config file.
func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads config without defaulting or validation.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	// Environment wins over file.
	if p := os.Getenv("API_PORT"); p != "" {
		c.Server.Port = p
	}
	if u := os.Getenv("ARCHIVE_BASE_URL"); u != "" {
		c.Source.BaseURL = u
	}
	if c.Signals.ForwardDays == 0 {
		c.Signals.ForwardDays = 5
	}
	if c.Signals.HoldingDays == 0 {
		c.Signals.HoldingDays = 5
	}
	if c.Signals.TrailingDays == 0 {
		c.Signals.TrailingDays = 5
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Signals.ForwardDays < 1 {
		return fmt.Errorf("signals.forward_days must be >= 1, got %d", c.Signals.ForwardDays)
	}
	if c.Signals.HoldingDays < 1 {
		return fmt.Errorf("signals.holding_days must be >= 1, got %d", c.Signals.HoldingDays)
	}
	if c.Signals.TrailingDays < 1 {
		return fmt.Errorf("signals.trailing_days must be >= 1, got %d", c.Signals.TrailingDays)
	}
	return nil
}
