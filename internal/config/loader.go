package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all tool settings.
const envPrefix = "MOLTOPO"

// newViper builds a pre-configured Viper instance with the tool's standard
// settings: YAML file type, MOLTOPO_ env prefix, automatic env binding, and a
// key replacer that maps "." → "_" so that nested keys like "check.workers"
// resolve to "MOLTOPO_CHECK_WORKERS".
//
// Every key is registered with its default so that AutomaticEnv can resolve
// env-only overrides (viper only consults the environment for keys it knows).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output_paths", []string{"stderr"})
	v.SetDefault("check.workers", 0)
	v.SetDefault("check.wildcard", DefaultWildcard)
	v.SetDefault("check.strict", false)
	v.SetDefault("output.format", DefaultOutputFormat)
	v.SetDefault("output.path", "")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.addr", DefaultMetricsAddr)
	v.SetDefault("metrics.process_metrics", false)
	v.SetDefault("metrics.go_metrics", false)
	v.SetDefault("watch.debounce", DefaultWatchDebounce)

	return v
}

// Load reads the YAML file at configPath, merges any MOLTOPO_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from MOLTOPO_* environment variables,
// with no config file required.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

// unmarshalAndFinalize unmarshals viper state into a Config struct, applies
// defaults, and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}
