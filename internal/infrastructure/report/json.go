package report

import (
	"encoding/json"
	"io"

	"github.com/turtacn/MolTopo/pkg/errors"
)

// JSONEmitter writes the verdict list as an indented JSON array, matching
// the layout produced by earlier versions of this tool.
type JSONEmitter struct {
	w io.Writer
}

// NewJSONEmitter creates a JSON emitter writing to w.
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{w: w}
}

// Emit serializes the verdicts.
func (e *JSONEmitter) Emit(report *Report) error {
	enc := json.NewEncoder(e.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report.Verdicts); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode verdicts as JSON")
	}
	return nil
}

// FullJSONEmitter writes the whole report including run provenance and the
// summary block, for callers that archive runs rather than diff them.
type FullJSONEmitter struct {
	w io.Writer
}

// NewFullJSONEmitter creates a full-report JSON emitter writing to w.
func NewFullJSONEmitter(w io.Writer) *FullJSONEmitter {
	return &FullJSONEmitter{w: w}
}

// Emit serializes the complete report.
func (e *FullJSONEmitter) Emit(report *Report) error {
	enc := json.NewEncoder(e.w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode report as JSON")
	}
	return nil
}
