package cli

import (
	"fmt"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolTopo/pkg/errors"
)

// NewWatchCmd creates the watch subcommand: re-run the check whenever either
// input file changes, until interrupted.
func NewWatchCmd() *cobra.Command {
	var (
		format      string
		output      string
		debounce    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch <mdf-file> <param-file>",
		Short: "Re-run the check whenever either input file changes",
		Long: "watch runs an initial check, then watches both input files and re-runs\n" +
			"on every change.  Rapid write bursts are coalesced by the debounce\n" +
			"interval.  When metrics are enabled the Prometheus endpoint is served\n" +
			"for the lifetime of the session.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if format != "" {
				cliCtx.Config.Output.Format = format
			}
			if output != "" {
				cliCtx.Config.Output.Path = output
			}
			if cmd.Flags().Changed("debounce") {
				cliCtx.Config.Watch.Debounce = debounce
			}
			if metricsAddr != "" {
				if err := enableMetrics(cliCtx, metricsAddr); err != nil {
					return err
				}
			}
			return runWatch(cmd, cliCtx, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: csv, json, sqlite, table (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default stdout; required for sqlite)")
	cmd.Flags().DurationVar(&debounce, "debounce", 0, "delay before re-running after a change (default from config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address for the session")

	return cmd
}

// enableMetrics turns metrics on for this session even when the resolved
// configuration left them disabled.
func enableMetrics(cliCtx *CLIContext, addr string) error {
	cliCtx.Config.Metrics.Enabled = true
	cliCtx.Config.Metrics.Addr = addr
	if cliCtx.Collector != nil {
		return nil
	}
	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            metricsNamespace,
		EnableProcessMetrics: cliCtx.Config.Metrics.ProcessMetrics,
		EnableGoMetrics:      cliCtx.Config.Metrics.GoMetrics,
	}, cliCtx.Logger)
	if err != nil {
		return err
	}
	cliCtx.Collector = collector
	cliCtx.Metrics = prometheus.NewAppMetrics(collector)
	return nil
}

func runWatch(cmd *cobra.Command, cliCtx *CLIContext, mdfPath, paramPath string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	cmd.SetContext(ctx)

	logger := cliCtx.Logger.Named("watch")

	if cliCtx.Collector != nil {
		addr := cliCtx.Config.Metrics.Addr
		mux := http.NewServeMux()
		mux.Handle("/metrics", cliCtx.Collector.Handler())
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			logger.Info("serving metrics", logging.String("addr", addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", logging.Err(err))
			}
		}()
		defer srv.Close()
	}

	// Watch the parent directories: editors replace files on save, which
	// drops the watch on the file itself.
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create file watcher")
	}
	defer watcher.Close()

	watched := map[string]bool{
		absOrSelf(mdfPath):   true,
		absOrSelf(paramPath): true,
	}
	dirs := map[string]bool{}
	for p := range watched {
		dirs[filepath.Dir(p)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch directory").
				WithDetail("dir=" + dir)
		}
	}

	run := func(trigger string) {
		cliCtx.Metrics.WatchReloads.WithLabelValues(trigger).Inc()
		rep, err := cliCtx.Service().Run(ctx, mdfPath, paramPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
			return
		}
		if err := emitReport(cmd, cliCtx, rep); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
			return
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %d found, %d missing, %d errored\n",
			color.GreenString("Checked:"), rep.Summary.Found, rep.Summary.Missing, rep.Summary.Errored)
	}

	run("initial")

	debounce := cliCtx.Config.Watch.Debounce
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case pending <- struct{}{}:
			default:
			}
		})
	}

	logger.Info("watching for changes",
		logging.String("mdf", mdfPath),
		logging.String("params", paramPath),
		logging.Duration("debounce", debounce))

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil
		case <-pending:
			run("change")
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !watched[absOrSelf(event.Name)] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("input changed",
				logging.String("file", event.Name),
				logging.String("op", event.Op.String()))
			schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", logging.Err(err))
		}
	}
}

func absOrSelf(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
