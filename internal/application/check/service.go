// Package check orchestrates the full pipeline: parse structure and
// parameter inputs, derive the topology, match every element, and assemble
// the report.
package check

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/MolTopo/internal/domain/forcefield"
	"github.com/turtacn/MolTopo/internal/domain/structure"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolTopo/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolTopo/internal/infrastructure/parsing/charmm"
	"github.com/turtacn/MolTopo/internal/infrastructure/parsing/mdf"
	"github.com/turtacn/MolTopo/internal/infrastructure/report"
	"github.com/turtacn/MolTopo/pkg/errors"
	"github.com/turtacn/MolTopo/pkg/types/chem"
)

// Options tunes a Service.
type Options struct {
	// Workers bounds the parallel matching pool; 0 means NumCPU.
	Workers int

	// Wildcard is the parameter-key wildcard token; empty means the
	// conventional token.
	Wildcard string

	// Strict turns per-element verdict errors into a run failure after the
	// whole batch has been matched.
	Strict bool
}

// Service runs check and topology pipelines over input file pairs.  Each Run
// is independent; the Service itself holds no per-run state and is safe for
// sequential reuse (watch mode re-runs through the same instance).
type Service struct {
	mdfParser *mdf.Parser
	prmParser *charmm.Parser
	opts      Options
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
}

// NewService wires a Service from its parsers and instrumentation.
func NewService(opts Options, logger logging.Logger, metrics *prometheus.AppMetrics) *Service {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNopMetrics()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Service{
		mdfParser: mdf.NewParser(logger),
		prmParser: charmm.NewParser(logger),
		opts:      opts,
		logger:    logger.Named("check"),
		metrics:   metrics,
	}
}

// Run executes the full check pipeline for one MDF / parameter file pair.
// Construction failures (unreadable files, dangling bonds, empty input) are
// batch-fatal; per-element matching problems annotate that element's verdict
// and, under Strict, fail the run only after every element has been matched.
func (s *Service) Run(ctx context.Context, mdfPath, paramPath string) (*report.Report, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := s.logger.With(logging.String("run_id", runID))
	logger.Info("starting check run",
		logging.String("mdf", mdfPath),
		logging.String("params", paramPath))

	graph, topology, err := s.Topology(ctx, mdfPath)
	if err != nil {
		return nil, err
	}

	table, err := s.Params(ctx, paramPath)
	if err != nil {
		return nil, err
	}

	verdicts, err := s.matchAll(ctx, graph, topology, table)
	if err != nil {
		return nil, err
	}

	rep := &report.Report{
		RunID:       runID,
		MDFPath:     mdfPath,
		ParamPath:   paramPath,
		GeneratedAt: time.Now().UTC(),
		Verdicts:    verdicts,
		Summary:     summarize(graph, topology, table, verdicts),
	}

	s.metrics.ObserveCheckDuration(time.Since(start))
	logger.Info("check run complete",
		logging.Int("verdicts", len(verdicts)),
		logging.Int("found", rep.Summary.Found),
		logging.Int("missing", rep.Summary.Missing),
		logging.Int("errored", rep.Summary.Errored),
		logging.Duration("elapsed", time.Since(start)))

	if s.opts.Strict && rep.Summary.Errored > 0 {
		return rep, errors.Newf(errors.ErrCodeUnresolvedType,
			"%d topology elements could not be matched", rep.Summary.Errored)
	}
	return rep, nil
}

// Topology parses the MDF file and derives the connectivity graph and its
// topology elements.
func (s *Service) Topology(ctx context.Context, mdfPath string) (*structure.ConnectivityGraph, *structure.Topology, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	atoms, err := s.mdfParser.ParseFile(mdfPath)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.AtomsParsed.WithLabelValues().Add(float64(len(atoms)))

	graph, err := structure.BuildGraph(atoms)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.GraphNodes.WithLabelValues().Set(float64(graph.NumAtoms()))
	s.metrics.GraphEdges.WithLabelValues().Set(float64(graph.NumEdges()))

	topology := structure.Extract(graph)
	s.metrics.ElementsExtracted.WithLabelValues("bond").Add(float64(len(topology.Bonds)))
	s.metrics.ElementsExtracted.WithLabelValues("angle").Add(float64(len(topology.Angles)))
	s.metrics.ElementsExtracted.WithLabelValues("dihedral").Add(float64(len(topology.Dihedrals)))

	s.logger.Debug("topology extracted",
		logging.Int("atoms", graph.NumAtoms()),
		logging.Int("bonds", len(topology.Bonds)),
		logging.Int("angles", len(topology.Angles)),
		logging.Int("dihedrals", len(topology.Dihedrals)))
	return graph, topology, nil
}

// Params parses the parameter file into its table.
func (s *Service) Params(ctx context.Context, paramPath string) (*forcefield.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	table, err := s.prmParser.ParseFile(paramPath)
	if err != nil {
		return nil, err
	}
	for _, cat := range chem.Categories {
		s.metrics.ParamRecordsLoaded.WithLabelValues(cat.String()).Add(float64(table.Len(cat)))
		s.metrics.ParamRecordsSkipped.WithLabelValues(cat.String()).Add(float64(table.Skipped(cat)))
	}
	return table, nil
}

// matchJob is one verdict slot: the elements are matched in parallel but
// every verdict lands at its fixed index, so the report keeps the canonical
// enumeration order regardless of worker scheduling.
type matchJob struct {
	index    int
	category chem.Category
	element  structure.Element
}

func (s *Service) matchAll(ctx context.Context, graph *structure.ConnectivityGraph, topology *structure.Topology, table *forcefield.Table) ([]chem.MatchVerdict, error) {
	matcher := forcefield.NewMatcher(table, s.opts.Wildcard)

	var jobs []matchJob
	add := func(cat chem.Category, elems []structure.Element) {
		for _, e := range elems {
			jobs = append(jobs, matchJob{index: len(jobs), category: cat, element: e})
		}
	}
	add(chem.CategoryBond, topology.Bonds)
	add(chem.CategoryAngle, topology.Angles)
	add(chem.CategoryDihedral, topology.Dihedrals)

	// Atom verdicts lead the report: one per distinct force-field type, in
	// first-seen order over the sorted atom list.
	atomVerdicts := s.matchAtoms(graph, matcher)
	verdicts := make([]chem.MatchVerdict, len(atomVerdicts)+len(jobs))
	copy(verdicts, atomVerdicts)
	offset := len(atomVerdicts)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			verdicts[offset+job.index] = s.matchElement(graph, matcher, job.category, job.element)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hits := len(jobs) + len(atomVerdicts) - matcher.CacheSize()
	if hits > 0 {
		s.metrics.MatchCacheHits.WithLabelValues().Add(float64(hits))
	}
	for _, v := range verdicts {
		s.metrics.VerdictsTotal.WithLabelValues(v.Category.String(), verdictResult(v)).Inc()
	}
	return verdicts, nil
}

// matchElement resolves the element's type tuple and matches it.  A
// resolution failure annotates the verdict; it never aborts the batch.
func (s *Service) matchElement(graph *structure.ConnectivityGraph, matcher *forcefield.Matcher, cat chem.Category, elem structure.Element) chem.MatchVerdict {
	types, err := elem.Types(graph)
	if err != nil {
		ids := make([]string, len(elem.Atoms))
		for i, id := range elem.Atoms {
			ids[i] = id.String()
		}
		return chem.MatchVerdict{Category: cat, Types: ids, Error: err.Error()}
	}
	return matcher.Match(cat, types)
}

func (s *Service) matchAtoms(graph *structure.ConnectivityGraph, matcher *forcefield.Matcher) []chem.MatchVerdict {
	var verdicts []chem.MatchVerdict
	seen := make(map[string]bool)
	for _, id := range graph.Atoms() {
		ffType, err := graph.ForceFieldType(id)
		if err != nil {
			key := "\x00" + id.String()
			if !seen[key] {
				seen[key] = true
				verdicts = append(verdicts, chem.MatchVerdict{
					Category: chem.CategoryAtom,
					Types:    []string{id.String()},
					Error:    err.Error(),
				})
			}
			continue
		}
		if seen[ffType] {
			continue
		}
		seen[ffType] = true
		verdicts = append(verdicts, matcher.Match(chem.CategoryAtom, []string{ffType}))
	}
	return verdicts
}

func summarize(graph *structure.ConnectivityGraph, topology *structure.Topology, table *forcefield.Table, verdicts []chem.MatchVerdict) report.Summary {
	sum := report.Summary{
		Atoms:          graph.NumAtoms(),
		Bonds:          len(topology.Bonds),
		Angles:         len(topology.Angles),
		Dihedrals:      len(topology.Dihedrals),
		SkippedRecords: table.TotalSkipped(),
	}
	for _, v := range verdicts {
		switch {
		case v.Errored():
			sum.Errored++
		case v.Found:
			sum.Found++
		default:
			sum.Missing++
		}
	}
	return sum
}

func verdictResult(v chem.MatchVerdict) string {
	switch {
	case v.Errored():
		return prometheus.ResultError
	case v.Found:
		return prometheus.ResultFound
	default:
		return prometheus.ResultMissing
	}
}
