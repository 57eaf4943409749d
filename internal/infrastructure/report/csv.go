package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/turtacn/MolTopo/pkg/errors"
)

// csvHeader is frozen; downstream consumers parse these exact column names.
var csvHeader = []string{"parameter_type", "parameters", "found", "line_number"}

// CSVEmitter writes verdicts as CSV rows in report order.
type CSVEmitter struct {
	w io.Writer
}

// NewCSVEmitter creates a CSV emitter writing to w.
func NewCSVEmitter(w io.Writer) *CSVEmitter {
	return &CSVEmitter{w: w}
}

// Emit writes the header row and one row per verdict.  An errored verdict
// gets its error text in place of a line number so it stays visible in the
// flat file.
func (e *CSVEmitter) Emit(report *Report) error {
	cw := csv.NewWriter(e.w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportWrite, "failed to write CSV header")
	}

	for _, v := range report.Verdicts {
		lineField := ""
		switch {
		case v.Errored():
			lineField = "ERROR: " + v.Error
		case v.LineNumber != nil:
			lineField = strconv.Itoa(*v.LineNumber)
		}
		row := []string{
			v.Category.String(),
			v.ParamString(),
			strconv.FormatBool(v.Found),
			lineField,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrCodeReportWrite, "failed to write CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportWrite, "failed to flush CSV output")
	}
	return nil
}
