package forcefield

import (
	"github.com/turtacn/MolTopo/pkg/errors"
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

// Record is one declared parameter line.  A table may hold several records
// with the same key (CHARMM multiplicities); existence checks take the first
// one in file order.
type Record struct {
	Key     Key
	Params  Params
	Comment string
	Line    int
}

// Table is a passive per-category index of parameter records in file order.
// It performs no matching; all wildcard and symmetry intelligence lives in
// the Matcher.  Read-only once built.
type Table struct {
	records map[chem.Category][]Record
	skipped map[chem.Category]int
}

// NewTable returns an empty parameter table.
func NewTable() *Table {
	return &Table{
		records: make(map[chem.Category][]Record),
		skipped: make(map[chem.Category]int),
	}
}

// Insert appends a record to its category, preserving file order.  A key
// whose arity does not fit the category is rejected with
// ErrCodeMalformedKey and counted as skipped; the table stays usable.
func (t *Table) Insert(category chem.Category, rec Record) error {
	if !category.IsValid() {
		return errors.New(errors.ErrCodeUnknownCategory, "unknown parameter category").
			WithDetailf("category=%s line=%d", category, rec.Line)
	}
	if len(rec.Key) != category.Arity() {
		t.skipped[category]++
		return errors.New(errors.ErrCodeMalformedKey, "parameter key has wrong arity for its category").
			WithDetailf("category=%s key=%s arity=%d want=%d line=%d",
				category, rec.Key, len(rec.Key), category.Arity(), rec.Line)
	}
	t.records[category] = append(t.records[category], rec)
	return nil
}

// Records returns the category's records in file order.  The returned slice
// must not be mutated.
func (t *Table) Records(category chem.Category) []Record {
	return t.records[category]
}

// Len returns the number of accepted records in the category.
func (t *Table) Len(category chem.Category) int {
	return len(t.records[category])
}

// Skipped returns how many records of the category were rejected for a
// malformed key.
func (t *Table) Skipped(category chem.Category) int {
	return t.skipped[category]
}

// TotalSkipped returns the number of rejected records across all categories.
func (t *Table) TotalSkipped() int {
	total := 0
	for _, n := range t.skipped {
		total += n
	}
	return total
}
