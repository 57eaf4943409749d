// Package config defines all configuration structures for MolTopo.  No I/O or
// parsing logic lives here — only plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level       string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format      string   `mapstructure:"format"` // "console" | "json"
	OutputPaths []string `mapstructure:"output_paths"`
}

// CheckConfig holds parameter-matching pipeline tunables.
type CheckConfig struct {
	// Workers is the size of the verdict worker pool.  0 means NumCPU.
	Workers int `mapstructure:"workers"`

	// Wildcard is the parameter-key token that matches any concrete type.
	Wildcard string `mapstructure:"wildcard"`

	// Strict fails the run after matching when any element's verdict is in
	// the error state.
	Strict bool `mapstructure:"strict"`
}

// OutputConfig holds report-emission parameters.
type OutputConfig struct {
	Format string `mapstructure:"format"` // "csv" | "json" | "sqlite" | "table"
	Path   string `mapstructure:"path"`
}

// MetricsConfig holds Prometheus exposition parameters for watch mode.
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Addr           string `mapstructure:"addr"`
	ProcessMetrics bool   `mapstructure:"process_metrics"`
	GoMetrics      bool   `mapstructure:"go_metrics"`
}

// WatchConfig holds file-watching parameters.
type WatchConfig struct {
	// Debounce coalesces rapid write events (editors often emit several per
	// save) into a single re-run.
	Debounce time.Duration `mapstructure:"debounce"`
}

// Config is the root configuration structure for the tool.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Check   CheckConfig   `mapstructure:"check"`
	Output  OutputConfig  `mapstructure:"output"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected console|json", c.Log.Format)
	}

	if c.Check.Workers < 0 {
		return fmt.Errorf("config: check.workers must be ≥ 0, got %d", c.Check.Workers)
	}
	if c.Check.Wildcard == "" {
		return fmt.Errorf("config: check.wildcard must not be empty")
	}

	switch c.Output.Format {
	case "csv", "json", "sqlite", "table":
	default:
		return fmt.Errorf("config: output.format %q is invalid; expected csv|json|sqlite|table", c.Output.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("config: metrics.addr is required when metrics.enabled is true")
	}

	if c.Watch.Debounce < 0 {
		return fmt.Errorf("config: watch.debounce must be ≥ 0, got %s", c.Watch.Debounce)
	}

	return nil
}
