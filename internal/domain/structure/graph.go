package structure

import (
	"sort"

	"github.com/turtacn/MolTopo/pkg/errors"
)

// ConnectivityGraph is the undirected bond graph of one structure file.
// Built once by BuildGraph and immutable afterwards; both directions of every
// edge are present in the adjacency map regardless of which side declared the
// bond.
type ConnectivityGraph struct {
	nodes     map[AtomID]Atom
	adjacency map[AtomID]map[AtomID]bool
	edgeCount int
}

// BuildGraph constructs a ConnectivityGraph from parsed atom records.
// It is a pure function of its input.
//
// Every declared partner must resolve to an atom present in the same input;
// an unresolved reference fails the whole build with ErrCodeDanglingBond
// naming the offending atom and partner.  Re-declaring the same pair — from
// either side, or on duplicated lines — is idempotent: the resulting graph
// has exactly one edge per unordered pair.
func BuildGraph(atoms []Atom) (*ConnectivityGraph, error) {
	g := &ConnectivityGraph{
		nodes:     make(map[AtomID]Atom, len(atoms)),
		adjacency: make(map[AtomID]map[AtomID]bool, len(atoms)),
	}

	for _, a := range atoms {
		if _, exists := g.nodes[a.ID]; exists {
			return nil, errors.New(errors.ErrCodeDuplicateAtom, "duplicate atom identifier").
				WithDetail("atom=" + string(a.ID))
		}
		g.nodes[a.ID] = a
		g.adjacency[a.ID] = make(map[AtomID]bool)
	}

	for _, a := range atoms {
		for _, p := range a.Partners {
			if _, ok := g.nodes[p.ID]; !ok {
				return nil, errors.New(errors.ErrCodeDanglingBond, "declared bond partner does not exist").
					WithDetailf("atom=%s partner=%s", a.ID, p.ID)
			}
			if a.ID == p.ID {
				return nil, errors.New(errors.ErrCodeDanglingBond, "atom declares itself as bond partner").
					WithDetail("atom=" + string(a.ID))
			}
			if !g.adjacency[a.ID][p.ID] {
				g.adjacency[a.ID][p.ID] = true
				g.adjacency[p.ID][a.ID] = true
				g.edgeCount++
			}
		}
	}

	return g, nil
}

// NumAtoms returns the number of atoms in the graph.
func (g *ConnectivityGraph) NumAtoms() int { return len(g.nodes) }

// NumEdges returns the number of unique unordered bond pairs.
func (g *ConnectivityGraph) NumEdges() int { return g.edgeCount }

// Atom returns the atom with the given ID.
func (g *ConnectivityGraph) Atom(id AtomID) (Atom, bool) {
	a, ok := g.nodes[id]
	return a, ok
}

// Atoms returns all atom IDs, sorted lexicographically.
func (g *ConnectivityGraph) Atoms() []AtomID {
	ids := make([]AtomID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Neighbors returns the atoms bonded to id, sorted lexicographically.
// Returns nil for an unknown atom.
func (g *ConnectivityGraph) Neighbors(id AtomID) []AtomID {
	adj, ok := g.adjacency[id]
	if !ok || len(adj) == 0 {
		return nil
	}
	out := make([]AtomID, 0, len(adj))
	for nbr := range adj {
		out = append(out, nbr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Degree returns the number of bonds incident to id.
func (g *ConnectivityGraph) Degree(id AtomID) int {
	return len(g.adjacency[id])
}

// HasEdge reports whether atoms a and b are bonded.
func (g *ConnectivityGraph) HasEdge(a, b AtomID) bool {
	return g.adjacency[a][b]
}

// ForceFieldType returns the force-field type of the given atom, or an
// ErrCodeAtomNotFound / ErrCodeUnresolvedType error.  Topology elements carry
// concrete resolved types; an empty type is surfaced as an error, never
// silently treated as a non-match.
func (g *ConnectivityGraph) ForceFieldType(id AtomID) (string, error) {
	a, ok := g.nodes[id]
	if !ok {
		return "", errors.New(errors.ErrCodeAtomNotFound, "atom not found in connectivity graph").
			WithDetail("atom=" + string(id))
	}
	if a.ForceFieldType == "" {
		return "", errors.New(errors.ErrCodeUnresolvedType, "atom has no force-field type").
			WithDetail("atom=" + string(id))
	}
	return a.ForceFieldType, nil
}
