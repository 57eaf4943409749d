package charmm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolTopo/internal/domain/forcefield"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolTopo/pkg/errors"
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

const sampleParams = `* Toy parameter set
*

ATOMS
MASS  1 HA   1.008 ! nonpolar hydrogen
MASS  2 CT2 12.011

BONDS
! Kb b0
CT2 CT2  222.50  1.5300 ! alkane
! folded continuation comment
CT2 HA   309.00  1.1110

ANGLES
HA CT2 HA   35.50  109.00  5.40  1.802
CT2 CT2 HA  26.50  110.10

DIHEDRALS
X CT2 CT2 X  0.1950  3  0.00 ! alkane torsion

IMPROPER
OB X X CC  100.00  0  0.00

CMAP
1 2 3 4 5 6 7 8 10.0
`

func TestParser_Parse_Sections(t *testing.T) {
	p := NewParser(logging.NewNopLogger())
	table, err := p.Parse(strings.NewReader(sampleParams))
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len(chem.CategoryAtom))
	assert.Equal(t, 2, table.Len(chem.CategoryBond))
	assert.Equal(t, 2, table.Len(chem.CategoryAngle))
	assert.Equal(t, 1, table.Len(chem.CategoryDihedral))
	assert.Equal(t, 1, table.Len(chem.CategoryImproper))
	assert.Zero(t, table.TotalSkipped())

	atoms := table.Records(chem.CategoryAtom)
	assert.Equal(t, []string{"HA"}, []string(atoms[0].Key))
	assert.Equal(t, forcefield.AtomParams{Mass: 1.008}, atoms[0].Params)
	assert.Equal(t, "nonpolar hydrogen", atoms[0].Comment)

	improper := table.Records(chem.CategoryImproper)[0]
	assert.Equal(t, []string{"OB", "X", "X", "CC"}, []string(improper.Key))
	assert.Equal(t, forcefield.ImproperParams{Kpsi: 100.00, Psi0: 0.00}, improper.Params)
}

func TestParser_Parse_GlobalLineNumbers(t *testing.T) {
	p := NewParser(logging.NewNopLogger())
	table, err := p.Parse(strings.NewReader(sampleParams))
	require.NoError(t, err)

	bonds := table.Records(chem.CategoryBond)
	require.Len(t, bonds, 2)
	assert.Equal(t, 10, bonds[0].Line)
	assert.Equal(t, 12, bonds[1].Line)

	dihedrals := table.Records(chem.CategoryDihedral)
	require.Len(t, dihedrals, 1)
	assert.Equal(t, 19, dihedrals[0].Line)
}

func TestParser_Parse_CommentFolding(t *testing.T) {
	p := NewParser(logging.NewNopLogger())
	table, err := p.Parse(strings.NewReader(sampleParams))
	require.NoError(t, err)

	bonds := table.Records(chem.CategoryBond)
	assert.Equal(t, "alkane; folded continuation comment", bonds[0].Comment)
	assert.Equal(t, "", bonds[1].Comment)
}

func TestParser_Parse_TypedPayloads(t *testing.T) {
	p := NewParser(logging.NewNopLogger())
	table, err := p.Parse(strings.NewReader(sampleParams))
	require.NoError(t, err)

	bonds := table.Records(chem.CategoryBond)
	assert.Equal(t, forcefield.BondParams{Kb: 222.50, B0: 1.5300}, bonds[0].Params)

	angles := table.Records(chem.CategoryAngle)
	require.Len(t, angles, 2)
	assert.Equal(t, forcefield.AngleParams{
		Ktheta: 35.50, Theta0: 109.00,
		HasUreyBradley: true, Kub: 5.40, S0: 1.802,
	}, angles[0].Params)
	assert.Equal(t, forcefield.AngleParams{Ktheta: 26.50, Theta0: 110.10}, angles[1].Params)

	dihedral := table.Records(chem.CategoryDihedral)[0]
	assert.Equal(t, forcefield.DihedralParams{Kchi: 0.1950, Multiplicity: 3, Delta: 0.00}, dihedral.Params)
}

func TestParser_Parse_MalformedRecords(t *testing.T) {
	input := `BONDS
CT2 CT2 222.50 1.53
CT2 not-a-number-first HA
CT2 HA 309.00 oops
CT2

ANGLES
HA CT2 HA 35.50 bad
`
	p := NewParser(logging.NewNopLogger())
	table, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, table.Len(chem.CategoryBond))
	assert.Zero(t, table.Len(chem.CategoryAngle))
}

func TestParser_Parse_ContentBeforeAnySectionIsIgnored(t *testing.T) {
	input := `CT2 CT2 222.50 1.53
BONDS
HA HA 300.0 1.1
`
	p := NewParser(logging.NewNopLogger())
	table, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len(chem.CategoryBond))
	assert.Equal(t, []string{"HA", "HA"}, []string(table.Records(chem.CategoryBond)[0].Key))
}

func TestParser_Parse_CMAPBodyIsNotIndexed(t *testing.T) {
	input := `CMAP
1 2 3 4 5.0
`
	p := NewParser(logging.NewNopLogger())
	table, err := p.Parse(strings.NewReader(input))
	require.NoError(t, err)
	for _, cat := range chem.Categories {
		assert.Zero(t, table.Len(cat), cat)
	}
}

func TestParser_ParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "params.prm")
	require.NoError(t, os.WriteFile(path, []byte(sampleParams), 0o644))

	p := NewParser(logging.NewNopLogger())
	table, err := p.ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len(chem.CategoryBond))

	_, err = p.ParseFile(filepath.Join(dir, "missing.prm"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeParamRead))
}
