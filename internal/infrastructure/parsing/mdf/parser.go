// Package mdf parses connectivity-based structure files into atom records.
//
// The format is line oriented: one atom per line, whitespace-separated
// columns.  Column 0 is the atom identifier (`MOLECULE:RESIDUE:NAME`),
// column 2 the force-field type, column 3 the charge group, and columns 11
// onward the declared bond partners.  A partner token may carry a `/order`
// suffix; an unqualified partner name is resolved against the declaring
// atom's molecule:residue prefix.
package mdf

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/turtacn/MolTopo/internal/domain/structure"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolTopo/pkg/errors"
)

// minColumns is the shortest line that still declares at least one partner.
const minColumns = 12

// Parser reads MDF structure files.
type Parser struct {
	logger logging.Logger
}

// NewParser creates an MDF parser.
func NewParser(logger logging.Logger) *Parser {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Parser{logger: logger.Named("mdf")}
}

// ParseFile reads and parses the file at path.
func (p *Parser) ParseFile(path string) ([]structure.Atom, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMDFRead, "failed to open MDF file").
			WithDetail("path=" + path)
	}
	defer f.Close()

	atoms, err := p.Parse(f)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("parsed MDF file",
		logging.String("path", path),
		logging.Int("atoms", len(atoms)))
	return atoms, nil
}

// Parse parses MDF records from r, preserving file order.  Lines that are
// empty, comments (`!` or `#`), or too short to declare connectivity are
// skipped; a file yielding zero atoms is an error.
func (p *Parser) Parse(r io.Reader) ([]structure.Atom, error) {
	var atoms []structure.Atom
	lineNum := 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "!") || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < minColumns {
			p.logger.Warn("skipping line with insufficient columns",
				logging.Int("line", lineNum),
				logging.Int("columns", len(parts)))
			continue
		}

		id := structure.AtomID(parts[0])
		atom := structure.Atom{
			ID:             id,
			ForceFieldType: parts[2],
			ChargeGroup:    parts[3],
		}

		prefix := partnerPrefix(parts[0])
		for _, token := range parts[11:] {
			partner, order := splitOrder(token, lineNum, p.logger)
			if !strings.Contains(partner, ":") {
				partner = prefix + partner
			}
			atom.Partners = append(atom.Partners, structure.Partner{
				ID:    structure.AtomID(partner),
				Order: order,
			})
		}

		atoms = append(atoms, atom)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMDFRead, "failed to read MDF input").
			WithDetailf("line=%d", lineNum)
	}

	if len(atoms) == 0 {
		return nil, errors.New(errors.ErrCodeMDFEmpty, "no valid atom records found in MDF input")
	}
	return atoms, nil
}

// partnerPrefix returns the molecule:residue prefix (with trailing colon)
// used to qualify bare partner names on the same line.
func partnerPrefix(atomID string) string {
	parts := strings.Split(atomID, ":")
	if len(parts) >= 3 {
		return parts[0] + ":" + parts[1] + ":"
	}
	if len(parts) == 2 {
		return parts[0] + ":"
	}
	return ""
}

// splitOrder splits a partner token into the partner name and its bond
// order.  A missing or unparseable order falls back to 1.0.
func splitOrder(token string, line int, logger logging.Logger) (string, float64) {
	name, orderStr, found := strings.Cut(token, "/")
	if !found {
		return name, 1.0
	}
	order, err := strconv.ParseFloat(orderStr, 64)
	if err != nil {
		logger.Warn("unparseable bond order, assuming single bond",
			logging.Int("line", line),
			logging.String("token", token))
		return name, 1.0
	}
	return name, order
}
