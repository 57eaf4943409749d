package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/MolTopo/internal/infrastructure/report"
	"github.com/turtacn/MolTopo/pkg/errors"
)

// checkOptions holds check-specific flags; unset values fall back to the
// resolved configuration.
type checkOptions struct {
	format   string
	output   string
	workers  int
	wildcard string
	strict   bool
}

// NewCheckCmd creates the check subcommand.
func NewCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check <mdf-file> <param-file>",
		Short: "Check every derived topology element against a parameter file",
		Long: "check parses the MDF structure file, derives its bonds, angles and\n" +
			"dihedrals, and reports for each element (and each distinct atom type)\n" +
			"whether the CHARMM-style parameter file defines a matching record.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args[0], args[1])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "", "output format: csv, json, sqlite, table (default from config)")
	f.StringVarP(&opts.output, "output", "o", "", "output path (default stdout; required for sqlite)")
	f.IntVar(&opts.workers, "workers", 0, "parallel matching workers (0 = all CPUs)")
	f.StringVar(&opts.wildcard, "wildcard", "", "parameter-key wildcard token (default from config)")
	f.BoolVar(&opts.strict, "strict", false, "fail the run when any element's verdict errors")

	return cmd
}

func runCheck(cmd *cobra.Command, opts *checkOptions, mdfPath, paramPath string) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	applyCheckFlags(cliCtx, opts, cmd)

	if cliCtx.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", color.BlueString("Starting parameter check..."))
		fmt.Fprintf(cmd.ErrOrStderr(), "  MDF file:   %s\n", mdfPath)
		fmt.Fprintf(cmd.ErrOrStderr(), "  Param file: %s\n", paramPath)
	}

	rep, err := cliCtx.Service().Run(cmd.Context(), mdfPath, paramPath)
	if err != nil {
		return err
	}

	if err := emitReport(cmd, cliCtx, rep); err != nil {
		return err
	}

	if cliCtx.Verbose {
		s := rep.Summary
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %d found, %d missing, %d errored\n",
			color.GreenString("Done:"), s.Found, s.Missing, s.Errored)
	}
	return nil
}

// applyCheckFlags overlays command-line flags on the resolved configuration.
func applyCheckFlags(cliCtx *CLIContext, opts *checkOptions, cmd *cobra.Command) {
	cfg := cliCtx.Config
	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if opts.output != "" {
		cfg.Output.Path = opts.output
	}
	if cmd.Flags().Changed("workers") {
		cfg.Check.Workers = opts.workers
	}
	if opts.wildcard != "" {
		cfg.Check.Wildcard = opts.wildcard
	}
	if opts.strict {
		cfg.Check.Strict = true
	}
}

// emitReport writes the report in the configured format.  The sqlite format
// appends to a database file; every other format streams to the output path
// or stdout.
func emitReport(cmd *cobra.Command, cliCtx *CLIContext, rep *report.Report) error {
	cfg := cliCtx.Config.Output

	if cfg.Format == report.FormatSQLite {
		if cfg.Path == "" {
			return errors.New(errors.ErrCodeConfigInvalid, "sqlite output requires an output path")
		}
		sink, err := report.NewSQLiteSink(cmd.Context(), cfg.Path)
		if err != nil {
			return err
		}
		defer sink.Close()
		return sink.Store(cmd.Context(), rep)
	}

	w, closeFn, err := outputWriter(cmd, cfg.Path)
	if err != nil {
		return err
	}
	defer closeFn()

	emitter, err := report.NewEmitter(cfg.Format, w)
	if err != nil {
		return err
	}
	return emitter.Emit(rep)
}

// outputWriter returns the destination writer and its close function.  An
// empty path means stdout.
func outputWriter(cmd *cobra.Command, path string) (io.Writer, func(), error) {
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeReportWrite, "failed to create output file").
			WithDetail("path=" + path)
	}
	return f, func() { f.Close() }, nil
}
