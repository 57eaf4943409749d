package report

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolTopo/pkg/errors"
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

func intPtr(n int) *int { return &n }

func sampleReport() *Report {
	return &Report{
		RunID:       "run-1",
		MDFPath:     "mol.mdf",
		ParamPath:   "params.prm",
		GeneratedAt: time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		Verdicts: []chem.MatchVerdict{
			{Category: chem.CategoryBond, Types: []string{"CT2", "CT2"}, Found: true, LineNumber: intPtr(10)},
			{Category: chem.CategoryAngle, Types: []string{"HA", "CT2", "HA"}, Found: false},
			{Category: chem.CategoryDihedral, Types: []string{"HA", "CT2", "CT2", "HA"}, Error: "bad tuple"},
		},
		Summary: Summary{
			Atoms: 4, Bonds: 1, Angles: 1, Dihedrals: 1,
			Found: 1, Missing: 1, Errored: 1, SkippedRecords: 2,
		},
	}
}

func TestCSVEmitter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewCSVEmitter(&buf).Emit(sampleReport()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "parameter_type,parameters,found,line_number", lines[0])
	assert.Equal(t, "bond,CT2-CT2,true,10", lines[1])
	assert.Equal(t, "angle,HA-CT2-HA,false,", lines[2])
	assert.Contains(t, lines[3], "ERROR: bad tuple")
}

func TestJSONEmitter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONEmitter(&buf).Emit(sampleReport()))

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)

	assert.Equal(t, "bond", decoded[0]["parameter_type"])
	assert.Equal(t, true, decoded[0]["found"])
	assert.Equal(t, float64(10), decoded[0]["line_number"])

	assert.Equal(t, false, decoded[1]["found"])
	assert.Nil(t, decoded[1]["line_number"])

	assert.Equal(t, "bad tuple", decoded[2]["error"])
}

func TestFullJSONEmitter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewFullJSONEmitter(&buf).Emit(sampleReport()))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.NotNil(t, decoded["summary"])
}

func TestTableEmitter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTableEmitter(&buf).Emit(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "CT2-CT2")
	assert.Contains(t, out, "1 found, 1 missing, 1 errored (2 parameter records skipped)")
}

func TestNewEmitter(t *testing.T) {
	var buf bytes.Buffer

	for _, format := range []string{FormatCSV, FormatJSON, FormatTable} {
		e, err := NewEmitter(format, &buf)
		require.NoError(t, err, format)
		assert.NotNil(t, e)
	}

	_, err := NewEmitter("yaml", &buf)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeReportFormat))
}

func TestSQLiteSink(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")

	sink, err := NewSQLiteSink(ctx, path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Store(ctx, sampleReport()))

	n, err := sink.RunCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A second run with a different ID appends.
	second := sampleReport()
	second.RunID = "run-2"
	require.NoError(t, sink.Store(ctx, second))

	n, err = sink.RunCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Re-storing the same run ID violates the primary key.
	assert.Error(t, sink.Store(ctx, second))
}
