// Package charmm parses CHARMM-style force-field parameter files into the
// per-category parameter table.
//
// The file is split into sections by bare header lines (ATOMS, BONDS,
// ANGLES, DIHEDRALS, IMPROPER, CMAP).  Records keep their global 1-based
// line number so that match verdicts can point back into the source file.
package charmm

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/MolTopo/internal/domain/forcefield"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolTopo/pkg/errors"
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

// sectionCategory maps section header keywords to parameter categories.
// CMAP sections are recognized so their body is not misread as records of
// the preceding section, but their content is not indexed.
var sectionCategory = map[string]chem.Category{
	"ATOMS":     chem.CategoryAtom,
	"BONDS":     chem.CategoryBond,
	"ANGLES":    chem.CategoryAngle,
	"DIHEDRALS": chem.CategoryDihedral,
	"IMPROPER":  chem.CategoryImproper,
	"CMAP":      "",
}

// Parser reads CHARMM-style parameter files.
type Parser struct {
	logger logging.Logger
}

// NewParser creates a parameter-file parser.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Parser{logger: logger.Named("charmm")}
}

// ParseFile reads and parses the parameter file at path.
func (p *Parser) ParseFile(path string) (*forcefield.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeParamRead, "failed to open parameter file").
			WithDetail("path=" + path)
	}
	defer f.Close()

	table, err := p.Parse(f)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("parsed parameter file",
		logging.String("path", path),
		logging.Int("skipped", table.TotalSkipped()))
	return table, nil
}

// Parse parses parameter records from r.  Parsing is line oriented: record
// lines before any section header are ignored, comment lines (`!`) fold
// into the preceding record's comment, and a record line that cannot be
// parsed is skipped with a warning — never fatal to the run.
func (p *Parser) Parse(r io.Reader) (*forcefield.Table, error) {
	table := forcefield.NewTable()

	var (
		section   chem.Category
		inSection bool
		pending   []pendingRecord
	)
	lastIdx := -1 // index into pending of the record open for comment folding

	lineNum := 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			lastIdx = -1
			continue
		}

		if cat, isHeader := matchHeader(line); isHeader {
			section = cat
			inSection = true
			lastIdx = -1
			continue
		}

		if strings.HasPrefix(line, "!") {
			if lastIdx >= 0 {
				appendComment(&pending[lastIdx].record, strings.TrimSpace(line[1:]))
			}
			continue
		}

		if !inSection || section == "" {
			continue
		}

		rec, ok := p.parseRecord(section, line, lineNum)
		if !ok {
			lastIdx = -1
			continue
		}
		pending = append(pending, pendingRecord{category: section, record: rec})
		lastIdx = len(pending) - 1
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeParamRead, "failed to read parameter input").
			WithDetailf("line=%d", lineNum)
	}

	for _, pr := range pending {
		if err := table.Insert(pr.category, pr.record); err != nil {
			p.logger.Warn("skipping malformed parameter record", logging.Err(err))
		}
	}
	return table, nil
}

type pendingRecord struct {
	category chem.Category
	record   forcefield.Record
}

// minPayload is the number of numeric columns each section requires after
// its type tokens.  Angles may carry two more (the Urey-Bradley term).
var minPayload = map[chem.Category]int{
	chem.CategoryBond:     2, // Kb, b0
	chem.CategoryAngle:    2, // Ktheta, Theta0 [, Kub, S0]
	chem.CategoryDihedral: 3, // Kchi, multiplicity, delta
	chem.CategoryImproper: 3, // Kpsi, ignored, psi0
}

// parseRecord splits one record line into key tokens, a typed numeric
// payload and an optional trailing comment.  ATOMS lines use the MASS form
// (`MASS idx TYPE mass`); every other section leads with arity type tokens
// followed by its numeric columns.
func (p *Parser) parseRecord(section chem.Category, line string, lineNum int) (forcefield.Record, bool) {
	body, comment, _ := strings.Cut(line, "!")
	tokens := strings.Fields(body)
	comment = strings.TrimSpace(comment)

	if section == chem.CategoryAtom {
		if len(tokens) < 4 || !strings.EqualFold(tokens[0], "MASS") {
			return forcefield.Record{}, false
		}
		mass, err := strconv.ParseFloat(tokens[3], 64)
		if err != nil {
			p.logger.Warn("skipping atom record with unparseable mass",
				logging.Int("line", lineNum),
				logging.String("token", tokens[3]))
			return forcefield.Record{}, false
		}
		return forcefield.Record{
			Key:     forcefield.Key{tokens[2]},
			Params:  forcefield.AtomParams{Mass: mass},
			Comment: comment,
			Line:    lineNum,
		}, true
	}

	arity := section.Arity()
	if len(tokens) < arity+minPayload[section] {
		p.logger.Warn("skipping short parameter record",
			logging.String("category", section.String()),
			logging.Int("line", lineNum),
			logging.Int("tokens", len(tokens)))
		return forcefield.Record{}, false
	}

	values := make([]float64, 0, len(tokens)-arity)
	for _, tok := range tokens[arity:] {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			p.logger.Warn("skipping parameter record with non-numeric value",
				logging.String("category", section.String()),
				logging.Int("line", lineNum),
				logging.String("token", tok))
			return forcefield.Record{}, false
		}
		values = append(values, v)
	}

	return forcefield.Record{
		Key:     forcefield.Key(tokens[:arity:arity]),
		Params:  sectionParams(section, values),
		Comment: comment,
		Line:    lineNum,
	}, true
}

// sectionParams maps a section's numeric columns onto its typed payload.
// Callers have already checked the per-section minimum column count.
func sectionParams(section chem.Category, values []float64) forcefield.Params {
	switch section {
	case chem.CategoryBond:
		return forcefield.BondParams{Kb: values[0], B0: values[1]}
	case chem.CategoryAngle:
		a := forcefield.AngleParams{Ktheta: values[0], Theta0: values[1]}
		if len(values) >= 4 {
			a.HasUreyBradley = true
			a.Kub = values[2]
			a.S0 = values[3]
		}
		return a
	case chem.CategoryDihedral:
		return forcefield.DihedralParams{
			Kchi:         values[0],
			Multiplicity: int(values[1]),
			Delta:        values[2],
		}
	case chem.CategoryImproper:
		// The middle column is a placeholder integer in the source format.
		return forcefield.ImproperParams{Kpsi: values[0], Psi0: values[2]}
	default:
		return nil
	}
}

func matchHeader(line string) (chem.Category, bool) {
	word := strings.Fields(line)[0]
	cat, ok := sectionCategory[strings.ToUpper(word)]
	return cat, ok
}

func appendComment(rec *forcefield.Record, comment string) {
	if comment == "" {
		return
	}
	if rec.Comment == "" {
		rec.Comment = comment
		return
	}
	rec.Comment += "; " + comment
}
