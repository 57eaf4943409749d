package forcefield

// Params is a record's numeric payload.  Each category carries a fixed set
// of named fields rather than a positional value list, so downstream code
// never indexes into untyped slices.
type Params interface {
	paramValues()
}

// AtomParams holds an ATOMS MASS record's payload.
type AtomParams struct {
	Mass float64
}

// BondParams holds a bond record's force constant and equilibrium length.
type BondParams struct {
	Kb float64
	B0 float64
}

// AngleParams holds an angle record's payload.  The Urey-Bradley 1-3 term is
// optional in the source format.
type AngleParams struct {
	Ktheta float64
	Theta0 float64

	HasUreyBradley bool
	Kub            float64
	S0             float64
}

// DihedralParams holds a dihedral record's payload.
type DihedralParams struct {
	Kchi         float64
	Multiplicity int
	Delta        float64
}

// ImproperParams holds an improper record's payload.
type ImproperParams struct {
	Kpsi float64
	Psi0 float64
}

func (AtomParams) paramValues()     {}
func (BondParams) paramValues()     {}
func (AngleParams) paramValues()    {}
func (DihedralParams) paramValues() {}
func (ImproperParams) paramValues() {}
