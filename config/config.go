package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied when the config files leave a field unset.
const (
	DefaultFormat       = "table"
	DefaultServeAddr    = ":8080"
	DefaultPollInterval = 90 * time.Second
)

// Config represents the application configuration
type Config struct {
	DefaultFormat string `yaml:"default_format,omitempty"`
	ServeAddr     string `yaml:"serve_addr,omitempty"`

	// QuotaPollInterval is a Go duration string ("90s", "2m") controlling
	// how often the rate-limit indicator refreshes.
	QuotaPollInterval string `yaml:"quota_poll_interval,omitempty"`

	// FeaturedCount caps the featured-project cards on a profile.
	FeaturedCount int `yaml:"featured_count,omitempty"`
}

// DefaultConfigDir returns the default config directory
func DefaultConfigDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ".ghfolio"
	}
	return filepath.Join(configDir, "ghfolio")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// LocalConfigPath returns the path to the local config file in the current directory
func LocalConfigPath() string {
	return ".ghfolio.yaml"
}

// Load loads the configuration from disk.
// It first loads the global config from the XDG config directory, then
// merges any local .ghfolio.yaml on top (local values take precedence).
func Load() (*Config, error) {
	cfg := &Config{
		DefaultFormat: DefaultFormat,
		ServeAddr:     DefaultServeAddr,
		FeaturedCount: 6,
	}

	globalPath := ConfigPath()
	if _, err := os.Stat(globalPath); err == nil {
		data, err := os.ReadFile(globalPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read global config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse global config file: %w", err)
		}
	}

	localPath := LocalConfigPath()
	if _, err := os.Stat(localPath); err == nil {
		data, err := os.ReadFile(localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read local config file: %w", err)
		}
		var localCfg Config
		if err := yaml.Unmarshal(data, &localCfg); err != nil {
			return nil, fmt.Errorf("failed to parse local config file: %w", err)
		}
		cfg = mergeConfig(cfg, &localCfg)
	}

	if cfg.DefaultFormat == "" {
		cfg.DefaultFormat = DefaultFormat
	}
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}
	if cfg.FeaturedCount <= 0 {
		cfg.FeaturedCount = 6
	}

	return cfg, nil
}

// mergeConfig merges local config on top of global config.
// Local values take precedence; unset local values preserve global values.
func mergeConfig(global, local *Config) *Config {
	result := &Config{}

	if local.DefaultFormat != "" {
		result.DefaultFormat = local.DefaultFormat
	} else {
		result.DefaultFormat = global.DefaultFormat
	}
	if local.ServeAddr != "" {
		result.ServeAddr = local.ServeAddr
	} else {
		result.ServeAddr = global.ServeAddr
	}
	if local.QuotaPollInterval != "" {
		result.QuotaPollInterval = local.QuotaPollInterval
	} else {
		result.QuotaPollInterval = global.QuotaPollInterval
	}
	if local.FeaturedCount > 0 {
		result.FeaturedCount = local.FeaturedCount
	} else {
		result.FeaturedCount = global.FeaturedCount
	}

	return result
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	configDir := DefaultConfigDir()

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(), data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetGitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Following 12-factor practice, tokens are only read from the
// environment and never stored in config files.
func (c *Config) GetGitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// PollInterval parses QuotaPollInterval, falling back to the default on
// empty or invalid values.
func (c *Config) PollInterval() time.Duration {
	if c.QuotaPollInterval == "" {
		return DefaultPollInterval
	}
	d, err := time.ParseDuration(c.QuotaPollInterval)
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}

// SetDefaultFormat sets the default output format and saves
func (c *Config) SetDefaultFormat(format string) error {
	c.DefaultFormat = format
	return c.Save()
}

// ToYAML returns the config as a YAML string
func (c *Config) ToYAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

// MinimalConfig returns a minimal config template with comments
func MinimalConfig() string {
	return `# ghfolio configuration file

# Output format: table, json or markdown
default_format: table

# Address for the serve command
# serve_addr: :8080

# How often the rate-limit indicator refreshes
# quota_poll_interval: 90s

# Featured project cards shown on a profile
# featured_count: 6
`
}
