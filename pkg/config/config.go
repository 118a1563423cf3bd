// Package config loads and validates the treefs daemon configuration.
//
// Configuration sources, in order of precedence:
//  1. Environment variables (TREEFS_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the complete treefs daemon configuration.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`

	// Metrics controls Prometheus metrics collection and the /metrics
	// HTTP server.
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Root configures the tree's root directory.
	Root RootConfig `mapstructure:"root"`

	// Scenario configures the scripted workload the daemon runs.
	Scenario ScenarioConfig `mapstructure:"scenario"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive,
	// normalized to uppercase by ApplyDefaults).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// MetricsConfig controls metrics collection.
type MetricsConfig struct {
	// Enabled turns on the Prometheus registry and the HTTP server.
	Enabled bool `mapstructure:"enabled"`

	// Port is the metrics HTTP server port.
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// RootConfig configures the tree root directory.
type RootConfig struct {
	// Mode is the Unix permission mode of the root (e.g., 0755).
	Mode uint32 `mapstructure:"mode" validate:"lte=511"` // 511 = 0777 in decimal
}

// ScenarioConfig configures the scripted workload.
type ScenarioConfig struct {
	// Path is the scenario YAML file to execute. Empty means the
	// daemon builds an empty tree and idles (useful with metrics
	// enabled).
	Path string `mapstructure:"path"`

	// Workers is the number of goroutines executing scenario
	// operations concurrently.
	Workers int `mapstructure:"workers" validate:"min=1,max=1024"`

	// OpsPerSecond caps the sustained operation rate across all
	// workers. Zero means unlimited.
	OpsPerSecond uint `mapstructure:"ops_per_second"`

	// Burst is the token-bucket burst capacity when OpsPerSecond is
	// set. Requires OpsPerSecond > 0.
	Burst uint `mapstructure:"burst" validate:"requires_rate"`

	// ProxiedIO routes every data file's reads and writes through the
	// sync/async bridge worker instead of calling the provider
	// directly.
	ProxiedIO bool `mapstructure:"proxied_io"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (TREEFS_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Configure viper
	setupViper(v, configPath)

	// Read configuration file if it exists
	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Apply defaults for any missing values
	ApplyDefaults(&cfg)

	// Validate configuration
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures viper with environment variables and config file settings.
func setupViper(v *viper.Viper, configPath string) {
	// Set up environment variable support
	// Environment variables use TREEFS_ prefix and underscores
	// Example: TREEFS_LOGGING_LEVEL=DEBUG
	v.SetEnvPrefix("TREEFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Configure config file search
	if configPath != "" {
		// Use explicitly specified config file
		v.SetConfigFile(configPath)
	} else {
		// Use default location: $XDG_CONFIG_HOME/treefs/config.{yaml,toml}
		configDir := getConfigDir()
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml") // Primary format
	}
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		// Check if error is "config file not found"
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found is acceptable - use defaults
			return nil
		}
		// Other errors are problems
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to current
// directory (.) if home directory cannot be determined.
func getConfigDir() string {
	// Check XDG_CONFIG_HOME
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "treefs")
	}

	// Fall back to ~/.config
	home, err := os.UserHomeDir()
	if err != nil {
		// If we can't get home dir, use current directory as last resort
		return "."
	}

	return filepath.Join(home, ".config", "treefs")
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
