// Package cli defines the moltopo command tree.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/MolTopo/internal/application/check"
	"github.com/turtacn/MolTopo/internal/config"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolTopo/pkg/errors"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// metricsNamespace prefixes every exported metric name.
const metricsNamespace = "moltopo"

// cliContextKey is the context key for CLIContext.
type cliContextKey struct{}

// RootOptions holds global CLI flags.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	Verbose    bool
	NoColor    bool
}

// CLIContext carries initialized dependencies through the command tree.
type CLIContext struct {
	Config  *config.Config
	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	// Collector is nil when metrics are disabled; watch mode serves its
	// Handler when present.
	Collector prometheus.MetricsCollector

	Verbose bool
}

// Service builds a check service from the resolved configuration.
func (c *CLIContext) Service() *check.Service {
	return check.NewService(check.Options{
		Workers:  c.Config.Check.Workers,
		Wildcard: c.Config.Check.Wildcard,
		Strict:   c.Config.Check.Strict,
	}, c.Logger, c.Metrics)
}

// NewRootCommand creates the root cobra command with all global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "moltopo",
		Short: "Molecular topology extraction and force-field parameter checking",
		Long: "moltopo derives bonds, angles and dihedrals from MDF connectivity data and\n" +
			"checks every derived element against a CHARMM-style force-field parameter\n" +
			"file, honoring the symmetry and wildcard rules of the format.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return persistentPreRun(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.ConfigPath, "config", "c", "", "config file path (default: ./moltopo.yaml)")
	pf.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		NewCheckCmd(),
		NewTopologyCmd(),
		NewParamsCmd(),
		NewWatchCmd(),
	)

	return cmd
}

// persistentPreRun initializes config, logger and metrics, then stores the
// CLIContext on the command.
func persistentPreRun(cmd *cobra.Command, opts *RootOptions) error {
	cfg, err := initConfig(opts)
	if err != nil {
		return err
	}

	logger, err := initLogger(cfg, opts)
	if err != nil {
		return err
	}

	color.NoColor = color.NoColor || opts.NoColor

	cliCtx := &CLIContext{
		Config:  cfg,
		Logger:  logger,
		Metrics: prometheus.NewNopMetrics(),
		Verbose: opts.Verbose,
	}

	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            metricsNamespace,
			EnableProcessMetrics: cfg.Metrics.ProcessMetrics,
			EnableGoMetrics:      cfg.Metrics.GoMetrics,
		}, logger)
		if err != nil {
			return err
		}
		cliCtx.Collector = collector
		cliCtx.Metrics = prometheus.NewAppMetrics(collector)
	}

	ctx := context.WithValue(cmd.Context(), cliContextKey{}, cliCtx)
	cmd.SetContext(ctx)
	return nil
}

// initConfig loads configuration with priority: --config flag, then the
// default search paths, then environment variables over built-in defaults.
func initConfig(opts *RootOptions) (*config.Config, error) {
	if opts.ConfigPath != "" {
		return config.Load(opts.ConfigPath)
	}

	searchPaths := []string{"./moltopo.yaml"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		searchPaths = append(searchPaths, filepath.Join(homeDir, ".moltopo", "config.yaml"))
	}
	searchPaths = append(searchPaths, "/etc/moltopo/config.yaml")

	for _, p := range searchPaths {
		if _, statErr := os.Stat(p); statErr == nil {
			return config.Load(p)
		}
	}
	return config.LoadFromEnv()
}

// initLogger creates a logger for CLI usage.  Logs go to stderr so report
// output on stdout stays machine-readable.
func initLogger(cfg *config.Config, opts *RootOptions) (logging.Logger, error) {
	level := cfg.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	if opts.Verbose {
		level = "debug"
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, err
	}
	logger = logger.Named(metricsNamespace)
	logging.SetDefault(logger)
	return logger, nil
}

// GetCLIContext extracts the CLIContext from a command's context.
func GetCLIContext(cmd *cobra.Command) (*CLIContext, error) {
	ctx := cmd.Context()
	if ctx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "command context is nil")
	}
	cliCtx, ok := ctx.Value(cliContextKey{}).(*CLIContext)
	if !ok || cliCtx == nil {
		return nil, errors.New(errors.ErrCodeInternal, "CLI context not initialized")
	}
	return cliCtx, nil
}

// Execute runs the command tree and returns the process exit code: 0 on
// success, 2 for input errors, 1 for internal failures.
func Execute() int {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
		return errors.ExitStatusForCode(errors.GetCode(err))
	}
	return 0
}
