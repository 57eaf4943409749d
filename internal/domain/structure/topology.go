package structure

import (
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

// Element is one topology element: a bond, angle or dihedral identified by
// the atoms that form it, stored in canonical orientation.
type Element struct {
	Kind  chem.Category
	Atoms []AtomID
}

// Types resolves the force-field type of each atom in the element against the
// graph it was extracted from.
func (e Element) Types(g *ConnectivityGraph) ([]string, error) {
	out := make([]string, len(e.Atoms))
	for i, id := range e.Atoms {
		t, err := g.ForceFieldType(id)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// Topology holds every bond, angle and dihedral of a connectivity graph in
// canonical orientation, each unordered occurrence exactly once.
type Topology struct {
	Bonds     []Element
	Angles    []Element
	Dihedrals []Element
}

// Extract walks the connectivity graph and enumerates its topology elements.
//
// Canonical orientations:
//   - bond [a,b]: a < b lexicographically.
//   - angle [a,m,b]: the middle atom m is structural and fixed; the outer
//     pair is ordered a < b.
//   - dihedral [a,b,c,d]: the chain is kept as walked unless its full
//     reversal [d,c,b,a] compares lexicographically smaller.
//
// Iteration over atoms and neighbors is sorted, so the output ordering is
// deterministic for a given graph.
func Extract(g *ConnectivityGraph) *Topology {
	top := &Topology{}

	atoms := g.Atoms()

	// Bonds: each unordered pair once, smaller endpoint first.
	for _, a := range atoms {
		for _, b := range g.Neighbors(a) {
			if a < b {
				top.Bonds = append(top.Bonds, Element{
					Kind:  chem.CategoryBond,
					Atoms: []AtomID{a, b},
				})
			}
		}
	}

	// Angles: every path a-m-b through a pivot m.  Enumerating ordered outer
	// pairs with a < b yields each angle exactly once with no dedup map.
	for _, m := range atoms {
		nbrs := g.Neighbors(m)
		for i := 0; i < len(nbrs); i++ {
			for j := i + 1; j < len(nbrs); j++ {
				top.Angles = append(top.Angles, Element{
					Kind:  chem.CategoryAngle,
					Atoms: []AtomID{nbrs[i], m, nbrs[j]},
				})
			}
		}
	}

	// Dihedrals: every simple 4-chain a-b-c-d, keyed on its central bond so
	// each chain and its reversal collapse to a single canonical element.
	seen := make(map[string]bool)
	for _, b := range atoms {
		for _, c := range g.Neighbors(b) {
			if b >= c {
				continue // visit each central bond once
			}
			for _, a := range g.Neighbors(b) {
				if a == c {
					continue
				}
				for _, d := range g.Neighbors(c) {
					if d == b || d == a {
						continue
					}
					chain := canonicalChain([]AtomID{a, b, c, d})
					key := chainKey(chain)
					if seen[key] {
						continue
					}
					seen[key] = true
					top.Dihedrals = append(top.Dihedrals, Element{
						Kind:  chem.CategoryDihedral,
						Atoms: chain,
					})
				}
			}
		}
	}

	return top
}

// canonicalChain returns the chain or its full reversal, whichever compares
// lexicographically smaller position by position.
func canonicalChain(chain []AtomID) []AtomID {
	n := len(chain)
	for i := 0; i < n; i++ {
		fwd, rev := chain[i], chain[n-1-i]
		if fwd < rev {
			return chain
		}
		if fwd > rev {
			reversed := make([]AtomID, n)
			for j := range chain {
				reversed[j] = chain[n-1-j]
			}
			return reversed
		}
	}
	return chain
}

func chainKey(chain []AtomID) string {
	key := ""
	for _, id := range chain {
		key += string(id) + "\x00"
	}
	return key
}
