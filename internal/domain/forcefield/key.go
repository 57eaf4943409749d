// Package forcefield holds the parameter table and the wildcard- and
// symmetry-aware matcher that resolves topology elements against it.
package forcefield

import (
	"strings"

	"github.com/turtacn/MolTopo/pkg/types/chem"
)

// Key is one parameter key: an ordered tuple of force-field type tokens,
// some of which may be the wildcard token.
type Key []string

// String renders the key dash-joined, the way parameter files are usually
// quoted in diagnostics.
func (k Key) String() string {
	return strings.Join(k, "-")
}

// HasWildcard reports whether any position of the key carries the given
// wildcard token.
func (k Key) HasWildcard(wildcard string) bool {
	for _, tok := range k {
		if tok == wildcard {
			return true
		}
	}
	return false
}

// tokenMatches reports whether one key token accepts one concrete topology
// type.  Topology elements always carry concrete resolved types, so the
// wildcard only ever appears on the key side.
func tokenMatches(token, concrete, wildcard string) bool {
	return token == wildcard || token == concrete
}

// matchForward tests the key against the type tuple position by position.
func matchForward(key Key, types []string, wildcard string) bool {
	for i, tok := range key {
		if !tokenMatches(tok, types[i], wildcard) {
			return false
		}
	}
	return true
}

// matchReverse tests the key against the fully reversed type tuple.
func matchReverse(key Key, types []string, wildcard string) bool {
	n := len(types)
	for i, tok := range key {
		if !tokenMatches(tok, types[n-1-i], wildcard) {
			return false
		}
	}
	return true
}

// keyMatches applies the per-category symmetry rule.
//
//   - atom: exact equality only, no wildcard.
//   - bond: forward or reverse, wildcard anywhere.
//   - angle: forward or reverse about the fixed middle position; the middle
//     token must equal the middle type exactly — a wildcard in the pivot
//     slot never matches.
//   - dihedral, improper: forward or full reversal, wildcard anywhere;
//     positions are never swapped individually.
func keyMatches(category chem.Category, key Key, types []string, wildcard string) bool {
	if len(key) != len(types) {
		return false
	}
	switch category {
	case chem.CategoryAtom:
		return key[0] == types[0]
	case chem.CategoryAngle:
		if key[1] != types[1] {
			return false
		}
		return (tokenMatches(key[0], types[0], wildcard) && tokenMatches(key[2], types[2], wildcard)) ||
			(tokenMatches(key[0], types[2], wildcard) && tokenMatches(key[2], types[0], wildcard))
	default:
		return matchForward(key, types, wildcard) || matchReverse(key, types, wildcard)
	}
}
