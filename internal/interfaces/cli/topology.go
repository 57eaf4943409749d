package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/MolTopo/internal/infrastructure/report"
	"github.com/turtacn/MolTopo/pkg/errors"
)

// NewTopologyCmd creates the topology subcommand: extraction only, no
// parameter matching.
func NewTopologyCmd() *cobra.Command {
	var (
		format   string
		output   string
		separate bool
	)

	cmd := &cobra.Command{
		Use:   "topology <mdf-file>",
		Short: "Extract bonds, angles and dihedrals from an MDF structure file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			graph, topology, err := cliCtx.Service().Topology(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if cliCtx.Verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", color.GreenString("Extracted topology:"))
				fmt.Fprintf(cmd.ErrOrStderr(), "  Atoms:     %d\n", graph.NumAtoms())
				fmt.Fprintf(cmd.ErrOrStderr(), "  Bonds:     %d\n", len(topology.Bonds))
				fmt.Fprintf(cmd.ErrOrStderr(), "  Angles:    %d\n", len(topology.Angles))
				fmt.Fprintf(cmd.ErrOrStderr(), "  Dihedrals: %d\n", len(topology.Dihedrals))
			}

			rows, err := report.TopologyRows(graph, topology)
			if err != nil {
				return err
			}

			if separate {
				return writeSeparateTopology(format, output, rows)
			}

			w, closeFn, err := outputWriter(cmd, output)
			if err != nil {
				return err
			}
			defer closeFn()

			switch format {
			case report.FormatCSV:
				return report.WriteTopologyCSV(w, rows)
			case report.FormatJSON:
				return report.WriteTopologyJSON(w, rows)
			default:
				return errors.New(errors.ErrCodeReportFormat, "unsupported topology format").
					WithDetail("format=" + format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatCSV, "output format: csv, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default stdout)")
	cmd.Flags().BoolVar(&separate, "separate", false, "write one CSV per record type (requires --output)")

	return cmd
}

// writeSeparateTopology writes one file per record type, derived from the
// base output path: base_atoms.csv, base_bonds.csv, base_angles.csv,
// base_dihedrals.csv.  All four files are written even when a kind is empty
// so downstream scripts see a stable file set.
func writeSeparateTopology(format, output string, rows []report.TopologyRow) error {
	if format != report.FormatCSV {
		return errors.New(errors.ErrCodeReportFormat, "--separate supports csv output only").
			WithDetail("format=" + format)
	}
	if output == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "--separate requires an output path")
	}

	base := strings.TrimSuffix(output, ".csv")
	for _, kind := range []string{"atom", "bond", "angle", "dihedral"} {
		var subset []report.TopologyRow
		for _, row := range rows {
			if row.RecordType == kind {
				subset = append(subset, row)
			}
		}

		path := base + "_" + kind + "s.csv"
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeReportWrite, "failed to create topology output file").
				WithDetail("path=" + path)
		}
		if err := report.WriteTopologyCSV(f, subset); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return errors.Wrap(err, errors.ErrCodeReportWrite, "failed to close topology output file").
				WithDetail("path=" + path)
		}
	}
	return nil
}
