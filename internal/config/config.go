// Package config provides configuration types and loading for shopkit.
//
// Configuration is file-based (shopkit.yaml) with environment overrides
// under the SHOPKIT_ prefix. Everything has a working default except the
// backend base URL, which must point somewhere.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the top-level configuration for the shopkit client.
type Config struct {
	// API configures the backend the client talks to.
	API APIConfig `yaml:"api" mapstructure:"api" validate:"required"`

	// State configures durable local storage.
	State StateConfig `yaml:"state" mapstructure:"state"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log" mapstructure:"log"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the backend's base URL, e.g. "https://api.shop.example.com/api/v1".
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout is the per-request timeout as a duration string (e.g. "15s").
	Timeout string `yaml:"timeout" mapstructure:"timeout" validate:"omitempty,duration"`

	// CacheTTL controls the catalog read cache. "0" disables it.
	CacheTTL string `yaml:"cache_ttl" mapstructure:"cache_ttl" validate:"omitempty,duration"`
}

// StateConfig configures the state.json location.
type StateConfig struct {
	// Path is the state file path. Default: $HOME/.shopkit/state.json.
	Path string `yaml:"path" mapstructure:"path"`
}

// LogConfig configures logging output.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`

	// Format is "text" or "json".
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=text json"`
}

// SetDefaults applies sensible default values to the configuration.
func (c *Config) SetDefaults() {
	if c.API.Timeout == "" {
		c.API.Timeout = "15s"
	}
	if c.API.CacheTTL == "" {
		c.API.CacheTTL = "5s"
	}
	if c.State.Path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.State.Path = filepath.Join(home, ".shopkit", "state.json")
		} else {
			c.State.Path = "state.json"
		}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// RequestTimeout returns the parsed API timeout.
// Validate has already guaranteed the string parses.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// CatalogCacheTTL returns the parsed catalog cache TTL.
func (c *Config) CatalogCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.API.CacheTTL)
	if err != nil {
		return 5 * time.Second
	}
	return d
}
