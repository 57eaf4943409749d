package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// TableEmitter renders verdicts as an aligned terminal table with a summary
// footer.  Meant for human eyes; the CSV and JSON emitters are the machine
// surfaces.
type TableEmitter struct {
	w io.Writer
}

// NewTableEmitter creates a table emitter writing to w.
func NewTableEmitter(w io.Writer) *TableEmitter {
	return &TableEmitter{w: w}
}

// Emit renders the table.
func (e *TableEmitter) Emit(report *Report) error {
	table := tablewriter.NewWriter(e.w)
	table.Header([]string{"Category", "Parameters", "Found", "Line"})

	for _, v := range report.Verdicts {
		lineField := "-"
		switch {
		case v.Errored():
			lineField = "ERROR: " + v.Error
		case v.LineNumber != nil:
			lineField = strconv.Itoa(*v.LineNumber)
		}
		table.Append([]string{
			v.Category.String(),
			v.ParamString(),
			strconv.FormatBool(v.Found),
			lineField,
		})
	}
	table.Render()

	s := report.Summary
	fmt.Fprintf(e.w, "\n%d found, %d missing, %d errored (%d parameter records skipped)\n",
		s.Found, s.Missing, s.Errored, s.SkippedRecords)
	return nil
}
