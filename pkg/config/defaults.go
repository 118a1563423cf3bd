package config

import (
	"strings"
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// This function is called after loading configuration from file and environment
// variables to fill in any missing values with sensible defaults.
//
// Default Strategy:
//   - Zero values (0, "", false) are replaced with defaults
//   - Explicit values are preserved
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyMetricsDefaults(&cfg.Metrics)
	applyRootDefaults(&cfg.Root)
	applyScenarioDefaults(&cfg.Scenario)
}

// applyLoggingDefaults sets logging defaults and normalizes values.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal representation
	cfg.Level = strings.ToUpper(cfg.Level)
}

// applyMetricsDefaults sets metrics defaults.
func applyMetricsDefaults(cfg *MetricsConfig) {
	// Enabled defaults to false

	if cfg.Port == 0 {
		cfg.Port = 9090
	}
}

// applyRootDefaults sets root directory defaults.
func applyRootDefaults(cfg *RootConfig) {
	if cfg.Mode == 0 {
		cfg.Mode = 0755
	}
}

// applyScenarioDefaults sets scenario runner defaults.
func applyScenarioDefaults(cfg *ScenarioConfig) {
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}

	// A rate limit with no burst would never admit an operation.
	if cfg.OpsPerSecond > 0 && cfg.Burst == 0 {
		cfg.Burst = 1
	}

	// OpsPerSecond defaults to 0 (unlimited)
	// ProxiedIO defaults to false
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is useful for:
//   - Generating sample configuration files
//   - Testing
//   - Documentation
func GetDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
