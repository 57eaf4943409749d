package config

import "time"

// Default values applied to any unset Config field.
const (
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultWildcard      = "X"
	DefaultOutputFormat  = "csv"
	DefaultMetricsAddr   = "127.0.0.1:9464"
	DefaultWatchDebounce = 250 * time.Millisecond
)

// ApplyDefaults fills in platform defaults for every zero-valued field of cfg.
// Explicitly-set values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if len(cfg.Log.OutputPaths) == 0 {
		cfg.Log.OutputPaths = []string{"stderr"}
	}

	// Workers 0 is meaningful (NumCPU at run time), so it is left alone.
	if cfg.Check.Wildcard == "" {
		cfg.Check.Wildcard = DefaultWildcard
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = DefaultMetricsAddr
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
