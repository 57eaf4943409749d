// Package structure provides the core domain model for molecular structure
// data in MolTopo: atom records parsed from MDF files, the undirected
// connectivity graph built from their declared bond partners, and the
// topology extractor that enumerates canonical bonds, angles, and dihedrals.
package structure

// AtomID is the opaque, globally unique atom identifier composed of
// molecule, residue, and atom-name components (e.g. "MOL:1:C1").  It is the
// node key everywhere and is never reused across molecules.
type AtomID string

func (id AtomID) String() string { return string(id) }

// Partner is one declared bond partner of an atom, with its bond order.
type Partner struct {
	ID AtomID

	// Order is the declared bond order (1.0 single, 2.0 double, 1.5
	// aromatic).  Defaults to 1.0 when the source omits it.
	Order float64
}

// Atom is one atom record from an MDF file.  Read-only after parsing.
type Atom struct {
	ID             AtomID
	ForceFieldType string
	ChargeGroup    string

	// Partners lists the bond partners this atom declares.  The reverse
	// declaration is expected but not required; see BuildGraph.
	Partners []Partner
}
