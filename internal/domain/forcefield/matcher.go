package forcefield

import (
	"strings"
	"sync"

	"github.com/turtacn/MolTopo/pkg/errors"
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

// Matcher resolves concrete type tuples against a read-only parameter table.
//
// Verdicts are memoized per (category, type tuple): many topology elements
// share the same tuple, and the table never changes underneath a Matcher.
// The cache is owned by the instance, so concurrent runs over different
// tables stay independent, and Match is safe for concurrent use.
type Matcher struct {
	table    *Table
	wildcard string

	mu    sync.RWMutex
	cache map[string]cachedVerdict
}

type cachedVerdict struct {
	found bool
	line  int
}

// NewMatcher creates a Matcher over the given table.  An empty wildcard
// falls back to the conventional token.
func NewMatcher(table *Table, wildcard string) *Matcher {
	if wildcard == "" {
		wildcard = chem.Wildcard
	}
	return &Matcher{
		table:    table,
		wildcard: wildcard,
		cache:    make(map[string]cachedVerdict),
	}
}

// Wildcard returns the wildcard token this matcher honors.
func (m *Matcher) Wildcard() string { return m.wildcard }

// Match decides whether any record in the category's table matches the type
// tuple under the category's symmetry and wildcard rules.  The first record
// in file order that matches supplies the reported line number; scanning
// stops there.  Problems with the query itself (bad category, wrong arity)
// annotate the verdict instead of aborting the batch.
func (m *Matcher) Match(category chem.Category, types []string) chem.MatchVerdict {
	verdict := chem.MatchVerdict{
		Category: category,
		Types:    append([]string(nil), types...),
	}

	if !category.IsValid() {
		verdict.Error = errors.New(errors.ErrCodeUnknownCategory, "unknown parameter category").
			WithDetail("category=" + string(category)).Error()
		return verdict
	}
	if len(types) != category.Arity() {
		verdict.Error = errors.New(errors.ErrCodeMatchArity, "type tuple arity does not fit category").
			WithDetailf("category=%s types=%s arity=%d want=%d",
				category, strings.Join(types, "-"), len(types), category.Arity()).Error()
		return verdict
	}
	for _, t := range types {
		if t == "" {
			verdict.Error = errors.New(errors.ErrCodeUnresolvedType, "type tuple carries an empty force-field type").
				WithDetail("types=" + strings.Join(types, "-")).Error()
			return verdict
		}
	}

	key := cacheKey(category, types)

	m.mu.RLock()
	cached, hit := m.cache[key]
	m.mu.RUnlock()
	if hit {
		return m.verdictFrom(verdict, cached)
	}

	result := cachedVerdict{line: -1}
	for _, rec := range m.table.Records(category) {
		if keyMatches(category, rec.Key, types, m.wildcard) {
			result = cachedVerdict{found: true, line: rec.Line}
			break
		}
	}

	m.mu.Lock()
	m.cache[key] = result
	m.mu.Unlock()

	return m.verdictFrom(verdict, result)
}

// CacheSize returns the number of memoized type tuples.
func (m *Matcher) CacheSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

func (m *Matcher) verdictFrom(base chem.MatchVerdict, c cachedVerdict) chem.MatchVerdict {
	base.Found = c.found
	if c.found {
		line := c.line
		base.LineNumber = &line
	}
	return base
}

func cacheKey(category chem.Category, types []string) string {
	return string(category) + "\x00" + strings.Join(types, "\x00")
}
