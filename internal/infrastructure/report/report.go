// Package report serializes match verdicts and extracted topology for
// downstream consumers.  The CSV and JSON field names are frozen; existing
// tooling parses them.
package report

import (
	"io"
	"time"

	"github.com/turtacn/MolTopo/pkg/errors"
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

// Output formats accepted by the check and topology commands.
const (
	FormatCSV    = "csv"
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
	FormatTable  = "table"
)

// Report is one completed check run: every verdict in canonical enumeration
// order (distinct atom types first, then bonds, angles and dihedrals) plus
// run provenance for the persistent sinks.
type Report struct {
	RunID       string              `json:"run_id"`
	MDFPath     string              `json:"mdf_path"`
	ParamPath   string              `json:"param_path"`
	GeneratedAt time.Time           `json:"generated_at"`
	Verdicts    []chem.MatchVerdict `json:"verdicts"`
	Summary     Summary             `json:"summary"`
}

// Summary carries the run's aggregate counts.
type Summary struct {
	Atoms          int `json:"atoms"`
	Bonds          int `json:"bonds"`
	Angles         int `json:"angles"`
	Dihedrals      int `json:"dihedrals"`
	Found          int `json:"found"`
	Missing        int `json:"missing"`
	Errored        int `json:"errored"`
	SkippedRecords int `json:"skipped_records"`
}

// Emitter writes one report to its destination.
type Emitter interface {
	Emit(report *Report) error
}

// NewEmitter returns the stream emitter for the given format.  The sqlite
// format is file-backed rather than stream-backed; use NewSQLiteSink for it.
func NewEmitter(format string, w io.Writer) (Emitter, error) {
	switch format {
	case FormatCSV:
		return NewCSVEmitter(w), nil
	case FormatJSON:
		return NewJSONEmitter(w), nil
	case FormatTable:
		return NewTableEmitter(w), nil
	default:
		return nil, errors.New(errors.ErrCodeReportFormat, "unsupported report format").
			WithDetail("format=" + format)
	}
}
