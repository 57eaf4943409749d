// Package chem defines the force-field Data Transfer Objects and enumerations
// shared across every layer of MolTopo.  No domain logic lives here — only
// plain data types that are safe to import from any layer without creating
// circular dependencies.
package chem

import (
	"strings"

	"github.com/turtacn/MolTopo/pkg/errors"
)

// Wildcard is the parameter-key placeholder that matches any concrete
// force-field type at its position.  Topology elements always carry concrete
// resolved types; the wildcard appears on the parameter-table side only.
const Wildcard = "X"

// ─────────────────────────────────────────────────────────────────────────────
// Category — parameter category identifier
// ─────────────────────────────────────────────────────────────────────────────

// Category identifies one section of a CHARMM-style parameter table and,
// symmetrically, one kind of topology element derived from connectivity.
type Category string

const (
	CategoryAtom     Category = "atom"
	CategoryBond     Category = "bond"
	CategoryAngle    Category = "angle"
	CategoryDihedral Category = "dihedral"
	CategoryImproper Category = "improper"
)

// Categories lists all categories in canonical report order.
var Categories = []Category{
	CategoryAtom,
	CategoryBond,
	CategoryAngle,
	CategoryDihedral,
	CategoryImproper,
}

// IsValid checks if the category is one of the defined constants.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAtom, CategoryBond, CategoryAngle, CategoryDihedral, CategoryImproper:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// Arity returns the number of type tokens a parameter key in this category
// carries.  Atoms are matched by a single type string.
func (c Category) Arity() int {
	switch c {
	case CategoryAtom:
		return 1
	case CategoryBond:
		return 2
	case CategoryAngle:
		return 3
	case CategoryDihedral, CategoryImproper:
		return 4
	default:
		return 0
	}
}

// ParseCategory parses a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(s))
	if c.IsValid() {
		return c, nil
	}
	return "", errors.New(errors.ErrCodeUnknownCategory, "unknown parameter category: "+s)
}

// ─────────────────────────────────────────────────────────────────────────────
// MatchVerdict — per-element matching result
// ─────────────────────────────────────────────────────────────────────────────

// MatchVerdict records whether a single topology element has a matching
// record in the parameter table.  The JSON field names are fixed; downstream
// consumers of the report depend on them.
type MatchVerdict struct {
	// Category is the parameter category the element was matched against.
	Category Category `json:"parameter_type"`

	// Types is the element's resolved force-field type tuple, in the
	// element's canonical orientation.
	Types []string `json:"parameters"`

	// Found reports whether any record in the category matched under the
	// orientation and wildcard rules.
	Found bool `json:"found"`

	// LineNumber is the 1-based source line of the first matching record in
	// file order.  Nil when Found is false or the match errored.
	LineNumber *int `json:"line_number"`

	// Error carries the per-element failure, if any.  An errored verdict is
	// distinct from found=false.
	Error string `json:"error,omitempty"`
}

// ParamString renders the type tuple in the dash-joined form used by the CSV
// report and the original downstream consumers (e.g. "CT2-CT2-HA").
func (v MatchVerdict) ParamString() string {
	return strings.Join(v.Types, "-")
}

// Errored reports whether this verdict carries a per-element error.
func (v MatchVerdict) Errored() bool {
	return v.Error != ""
}
