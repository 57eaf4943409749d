package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_IsValid(t *testing.T) {
	assert.True(t, CategoryAtom.IsValid())
	assert.True(t, CategoryBond.IsValid())
	assert.True(t, CategoryAngle.IsValid())
	assert.True(t, CategoryDihedral.IsValid())
	assert.True(t, CategoryImproper.IsValid())
	assert.False(t, Category("torsion").IsValid())
}

func TestCategory_Arity(t *testing.T) {
	assert.Equal(t, 1, CategoryAtom.Arity())
	assert.Equal(t, 2, CategoryBond.Arity())
	assert.Equal(t, 3, CategoryAngle.Arity())
	assert.Equal(t, 4, CategoryDihedral.Arity())
	assert.Equal(t, 4, CategoryImproper.Arity())
	assert.Equal(t, 0, Category("bogus").Arity())
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory("BOND")
	assert.NoError(t, err)
	assert.Equal(t, CategoryBond, c)

	_, err = ParseCategory("cmap")
	assert.Error(t, err)
}

func TestMatchVerdict_ParamString(t *testing.T) {
	v := MatchVerdict{Category: CategoryAngle, Types: []string{"CT2", "CT2", "HA"}}
	assert.Equal(t, "CT2-CT2-HA", v.ParamString())
}

func TestMatchVerdict_Errored(t *testing.T) {
	assert.False(t, MatchVerdict{}.Errored())
	assert.True(t, MatchVerdict{Error: "unresolved type"}.Errored())
}
