package cli

import (
	"encoding/json"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/turtacn/MolTopo/internal/infrastructure/report"
	"github.com/turtacn/MolTopo/pkg/errors"
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

// paramsSummary is the per-category account of a parsed parameter file.
type paramsSummary struct {
	Category string `json:"category"`
	Records  int    `json:"records"`
	Skipped  int    `json:"skipped"`
}

// NewParamsCmd creates the params subcommand: parse a parameter file and
// summarize what it defines, without needing a structure file.
func NewParamsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "params <param-file>",
		Short: "Summarize the records defined in a force-field parameter file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}

			table, err := cliCtx.Service().Params(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			summaries := make([]paramsSummary, 0, len(chem.Categories))
			for _, cat := range chem.Categories {
				summaries = append(summaries, paramsSummary{
					Category: cat.String(),
					Records:  table.Len(cat),
					Skipped:  table.Skipped(cat),
				})
			}

			switch format {
			case report.FormatJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			case report.FormatTable:
				tw := tablewriter.NewWriter(cmd.OutOrStdout())
				tw.Header([]string{"Category", "Records", "Skipped"})
				for _, s := range summaries {
					tw.Append([]string{s.Category, strconv.Itoa(s.Records), strconv.Itoa(s.Skipped)})
				}
				tw.Render()
				return nil
			default:
				return errors.New(errors.ErrCodeReportFormat, "unsupported params format").
					WithDetail("format=" + format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", report.FormatTable, "output format: table, json")

	return cmd
}
