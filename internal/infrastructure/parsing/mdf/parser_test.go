package mdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolTopo/internal/domain/structure"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolTopo/pkg/errors"
)

const sampleMDF = `!BIOSYM molecular_data 4
# columns: id x type group x x x x x x x partners...
MOL:1:C1  1  CT2  CG1  0.0  1.0  2.0  3.0  0  0  0  MOL:1:C2/1
MOL:1:C2  2  CT2  CG1  1.0  2.0  3.0  4.0  0  0  0  MOL:1:C1/1 MOL:1:C3/1.5
MOL:1:C3  3  CT3  CG2  2.0  3.0  4.0  5.0  0  0  0  C2
`

func TestParser_Parse(t *testing.T) {
	p := NewParser(logging.NewNopLogger())

	atoms, err := p.Parse(strings.NewReader(sampleMDF))
	require.NoError(t, err)
	require.Len(t, atoms, 3)

	c1 := atoms[0]
	assert.Equal(t, structure.AtomID("MOL:1:C1"), c1.ID)
	assert.Equal(t, "CT2", c1.ForceFieldType)
	assert.Equal(t, "CG1", c1.ChargeGroup)
	require.Len(t, c1.Partners, 1)
	assert.Equal(t, structure.AtomID("MOL:1:C2"), c1.Partners[0].ID)
	assert.Equal(t, 1.0, c1.Partners[0].Order)

	c2 := atoms[1]
	require.Len(t, c2.Partners, 2)
	assert.Equal(t, 1.5, c2.Partners[1].Order)

	// An unqualified partner is resolved against the declarer's prefix.
	c3 := atoms[2]
	require.Len(t, c3.Partners, 1)
	assert.Equal(t, structure.AtomID("MOL:1:C2"), c3.Partners[0].ID)
	assert.Equal(t, 1.0, c3.Partners[0].Order)
}

func TestParser_Parse_SkipsAndErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantAtoms int
		wantErr   errors.ErrorCode
	}{
		{
			name:    "empty input",
			input:   "",
			wantErr: errors.ErrCodeMDFEmpty,
		},
		{
			name:    "comments only",
			input:   "! header\n# another\n",
			wantErr: errors.ErrCodeMDFEmpty,
		},
		{
			name:      "short lines are skipped",
			input:     "MOL:1:C1 1 CT2\nMOL:1:C2  2  CT2  CG1  1 2 3 4 0 0 0 MOL:1:C2x\nMOL:1:C2x 3 CT2 CG1 1 2 3 4 0 0 0 MOL:1:C2\n",
			wantAtoms: 2,
		},
		{
			name:      "unparseable bond order falls back to single bond",
			input:     "MOL:1:C1 1 CT2 CG1 1 2 3 4 0 0 0 MOL:1:C2/xx\nMOL:1:C2 2 CT2 CG1 1 2 3 4 0 0 0 MOL:1:C1\n",
			wantAtoms: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser(logging.NewNopLogger())
			atoms, err := p.Parse(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, atoms, tt.wantAtoms)
		})
	}
}

func TestParser_Parse_FeedsGraphBuilder(t *testing.T) {
	p := NewParser(logging.NewNopLogger())
	atoms, err := p.Parse(strings.NewReader(sampleMDF))
	require.NoError(t, err)

	g, err := structure.BuildGraph(atoms)
	require.NoError(t, err)
	assert.Equal(t, 3, g.NumAtoms())
	assert.Equal(t, 2, g.NumEdges())
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.mdf")
	require.NoError(t, os.WriteFile(path, []byte(sampleMDF), 0o644))

	p := NewParser(logging.NewNopLogger())
	atoms, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, atoms, 3)

	_, err = p.ParseFile(filepath.Join(dir, "missing.mdf"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeMDFRead))
}

func TestPartnerPrefix(t *testing.T) {
	assert.Equal(t, "MOL:1:", partnerPrefix("MOL:1:C1"))
	assert.Equal(t, "MOL:", partnerPrefix("MOL:C1"))
	assert.Equal(t, "", partnerPrefix("C1"))
}
