package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"stealthspanner/internal/paths"
	pkgerrors "stealthspanner/pkg/errors"
)

//go:embed config.template.toml
var configTemplate []byte

// Config represents the user-level configuration file.
// It is loaded (or created from the template) once at startup and passed
// explicitly to the components that need it; nothing mutates it during a run.
type Config struct {
	Provider       string  `toml:"provider"`
	AutoDownload   bool    `toml:"auto_download"`
	Pings          int     `toml:"pings"`
	Workers        int     `toml:"workers"`
	TimeoutSeconds float64 `toml:"timeout_seconds"`
	Strategy       string  `toml:"strategy"`
	LogLevel       string  `toml:"log_level"`

	Providers map[string]Provider `toml:"providers"`
	Privacy   Privacy             `toml:"privacy"`

	// Path the config was loaded from.
	Path string `toml:"-"`
}

// Provider holds per-provider download settings.
type Provider struct {
	Enabled   bool   `toml:"enabled"`
	BaseURL   string `toml:"base_url"`
	Directory string `toml:"directory"`
}

// Privacy holds privacy scoring settings.
type Privacy struct {
	Enabled bool           `toml:"enabled"`
	Weight  float64        `toml:"weight"`
	Scores  map[string]int `toml:"scores"`
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := paths.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration file at path, creating it from the embedded
// template if it does not exist. An empty path selects the default location.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, configTemplate, 0600); err != nil {
			return nil, fmt.Errorf("failed to create config from template: %w", err)
		}
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", pkgerrors.ErrConfigInvalid, err)
	}
	cfg.Path = path
	cfg.applyDefaults()

	if cfg.Privacy.Weight < 0 || cfg.Privacy.Weight > 1 {
		return nil, fmt.Errorf("%w: privacy weight %.2f outside [0,1]", pkgerrors.ErrConfigInvalid, cfg.Privacy.Weight)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider == "" {
		c.Provider = "ipvanish"
	}
	if c.Pings == 0 {
		c.Pings = 4
	}
	if c.Workers == 0 {
		c.Workers = 20
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 3.0
	}
	if c.Strategy == "" {
		c.Strategy = "tcp"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Privacy.Weight == 0 {
		c.Privacy.Weight = 0.35
	}
}

// ProviderConfig returns the settings for the named provider.
func (c *Config) ProviderConfig(name string) (Provider, bool) {
	p, ok := c.Providers[name]
	return p, ok
}

// Directory resolves the configuration-file directory for the named provider.
// Falls back to a directory named after the provider when no section exists.
func (c *Config) Directory(provider string) string {
	if p, ok := c.Providers[provider]; ok && p.Directory != "" {
		return p.Directory
	}
	return provider
}
