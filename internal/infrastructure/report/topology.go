package report

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/turtacn/MolTopo/internal/domain/structure"
	"github.com/turtacn/MolTopo/pkg/errors"
)

// TopologyRow groups topology occurrences by their resolved force-field type
// tuple: one row per distinct tuple, carrying every atom-identifier
// occurrence that produced it.
type TopologyRow struct {
	RecordType string   `json:"record_type"`
	Parameters []string `json:"parameters"`
	Atoms      []string `json:"atom_identifiers"`
}

// ParamString renders the row's type tuple dash-joined.
func (r TopologyRow) ParamString() string {
	return strings.Join(r.Parameters, "-")
}

// TopologyRows flattens an extracted topology into report rows.  Atom rows
// come first (one per distinct force-field type, in first-seen order over
// the sorted atom list), then bonds, angles and dihedrals grouped by type
// tuple in canonical element order.
func TopologyRows(g *structure.ConnectivityGraph, top *structure.Topology) ([]TopologyRow, error) {
	var rows []TopologyRow

	byType := make(map[string]int)
	for _, id := range g.Atoms() {
		ffType, err := g.ForceFieldType(id)
		if err != nil {
			return nil, err
		}
		idx, seen := byType[ffType]
		if !seen {
			idx = len(rows)
			byType[ffType] = idx
			rows = append(rows, TopologyRow{RecordType: "atom", Parameters: []string{ffType}})
		}
		rows[idx].Atoms = append(rows[idx].Atoms, id.String())
	}

	for _, group := range [][]structure.Element{top.Bonds, top.Angles, top.Dihedrals} {
		grouped := make(map[string]int)
		for _, elem := range group {
			types, err := elem.Types(g)
			if err != nil {
				return nil, err
			}
			key := strings.Join(types, "\x00")
			idx, seen := grouped[key]
			if !seen {
				idx = len(rows)
				grouped[key] = idx
				rows = append(rows, TopologyRow{
					RecordType: elem.Kind.String(),
					Parameters: types,
				})
			}
			ids := make([]string, len(elem.Atoms))
			for i, id := range elem.Atoms {
				ids[i] = id.String()
			}
			rows[idx].Atoms = append(rows[idx].Atoms, strings.Join(ids, "-"))
		}
	}

	return rows, nil
}

// WriteTopologyCSV writes rows with a fixed header; occurrences are
// space-joined in the last column.
func WriteTopologyCSV(w io.Writer, rows []TopologyRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"record_type", "parameters", "count", "atom_identifiers"}); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportWrite, "failed to write topology CSV header")
	}
	for _, row := range rows {
		rec := []string{
			row.RecordType,
			row.ParamString(),
			strconv.Itoa(len(row.Atoms)),
			strings.Join(row.Atoms, " "),
		}
		if err := cw.Write(rec); err != nil {
			return errors.Wrap(err, errors.ErrCodeReportWrite, "failed to write topology CSV row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.ErrCodeReportWrite, "failed to flush topology CSV output")
	}
	return nil
}

// WriteTopologyJSON writes rows as an indented JSON array.
func WriteTopologyJSON(w io.Writer, rows []TopologyRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode topology as JSON")
	}
	return nil
}
