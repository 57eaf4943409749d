package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolTopo/pkg/errors"
)

func atom(id string, ffType string, partners ...string) Atom {
	a := Atom{ID: AtomID(id), ForceFieldType: ffType}
	for _, p := range partners {
		a.Partners = append(a.Partners, Partner{ID: AtomID(p), Order: 1.0})
	}
	return a
}

func TestBuildGraph(t *testing.T) {
	tests := []struct {
		name      string
		atoms     []Atom
		wantErr   errors.ErrorCode
		wantAtoms int
		wantEdges int
	}{
		{
			name:      "empty input yields empty graph",
			atoms:     nil,
			wantAtoms: 0,
			wantEdges: 0,
		},
		{
			name: "simple chain",
			atoms: []Atom{
				atom("M:R:A", "CT1", "M:R:B"),
				atom("M:R:B", "CT2", "M:R:A", "M:R:C"),
				atom("M:R:C", "CT3", "M:R:B"),
			},
			wantAtoms: 3,
			wantEdges: 2,
		},
		{
			name: "bond declared from both sides is one edge",
			atoms: []Atom{
				atom("M:R:A", "CT1", "M:R:B"),
				atom("M:R:B", "CT2", "M:R:A"),
			},
			wantAtoms: 2,
			wantEdges: 1,
		},
		{
			name: "bond declared from one side only is still symmetric",
			atoms: []Atom{
				atom("M:R:A", "CT1", "M:R:B"),
				atom("M:R:B", "CT2"),
			},
			wantAtoms: 2,
			wantEdges: 1,
		},
		{
			name: "repeated partner entries are idempotent",
			atoms: []Atom{
				atom("M:R:A", "CT1", "M:R:B", "M:R:B"),
				atom("M:R:B", "CT2", "M:R:A"),
			},
			wantAtoms: 2,
			wantEdges: 1,
		},
		{
			name: "dangling partner fails the build",
			atoms: []Atom{
				atom("M:R:A", "CT1", "M:R:Z"),
			},
			wantErr: errors.ErrCodeDanglingBond,
		},
		{
			name: "self bond fails the build",
			atoms: []Atom{
				atom("M:R:A", "CT1", "M:R:A"),
			},
			wantErr: errors.ErrCodeDanglingBond,
		},
		{
			name: "duplicate atom identifier fails the build",
			atoms: []Atom{
				atom("M:R:A", "CT1"),
				atom("M:R:A", "CT2"),
			},
			wantErr: errors.ErrCodeDuplicateAtom,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := BuildGraph(tt.atoms)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantAtoms, g.NumAtoms())
			assert.Equal(t, tt.wantEdges, g.NumEdges())
		})
	}
}

func TestBuildGraph_DanglingBondNamesBothAtoms(t *testing.T) {
	_, err := BuildGraph([]Atom{atom("MOL:RES:A", "CT1", "MOL:RES:Z")})
	require.Error(t, err)

	appErr, ok := err.(*errors.AppError)
	require.True(t, ok)
	assert.Contains(t, appErr.Detail, "MOL:RES:A")
	assert.Contains(t, appErr.Detail, "MOL:RES:Z")
}

func TestConnectivityGraph_Accessors(t *testing.T) {
	g, err := BuildGraph([]Atom{
		atom("M:R:C", "CT3", "M:R:B"),
		atom("M:R:A", "CT1", "M:R:B"),
		atom("M:R:B", "CT2"),
	})
	require.NoError(t, err)

	assert.Equal(t, []AtomID{"M:R:A", "M:R:B", "M:R:C"}, g.Atoms())
	assert.Equal(t, []AtomID{"M:R:A", "M:R:C"}, g.Neighbors("M:R:B"))
	assert.Nil(t, g.Neighbors("M:R:A:missing"))
	assert.Equal(t, 2, g.Degree("M:R:B"))
	assert.Equal(t, 1, g.Degree("M:R:A"))

	assert.True(t, g.HasEdge("M:R:A", "M:R:B"))
	assert.True(t, g.HasEdge("M:R:B", "M:R:A"))
	assert.False(t, g.HasEdge("M:R:A", "M:R:C"))

	a, ok := g.Atom("M:R:A")
	require.True(t, ok)
	assert.Equal(t, "CT1", a.ForceFieldType)

	_, ok = g.Atom("M:R:X")
	assert.False(t, ok)
}

func TestConnectivityGraph_ForceFieldType(t *testing.T) {
	g, err := BuildGraph([]Atom{
		atom("M:R:A", "CT1"),
		atom("M:R:B", ""),
	})
	require.NoError(t, err)

	ffType, err := g.ForceFieldType("M:R:A")
	require.NoError(t, err)
	assert.Equal(t, "CT1", ffType)

	_, err = g.ForceFieldType("M:R:B")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnresolvedType))

	_, err = g.ForceFieldType("M:R:Z")
	assert.True(t, errors.IsCode(err, errors.ErrCodeAtomNotFound))
}
