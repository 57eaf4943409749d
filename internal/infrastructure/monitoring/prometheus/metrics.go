package prometheus

import "time"

// AppMetrics holds all pipeline metrics.
type AppMetrics struct {
	// Parsing layer
	AtomsParsed         CounterVec // labels: -
	ParamRecordsLoaded  CounterVec // labels: category
	ParamRecordsSkipped CounterVec // labels: category

	// Topology layer
	GraphNodes        GaugeVec   // labels: -
	GraphEdges        GaugeVec   // labels: -
	ElementsExtracted CounterVec // labels: kind

	// Matching layer
	VerdictsTotal  CounterVec // labels: category, result
	MatchCacheHits CounterVec // labels: -

	// Run layer
	CheckDuration HistogramVec // labels: -
	WatchReloads  CounterVec   // labels: trigger
}

// Verdict result label values.
const (
	ResultFound   = "found"
	ResultMissing = "missing"
	ResultError   = "error"
)

// DefaultCheckDurationBuckets covers molecule-scale runs: sub-millisecond
// toy inputs up to multi-second protein-sized files.
var DefaultCheckDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30}

// NewAppMetrics registers all pipeline metrics on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.AtomsParsed = collector.RegisterCounter("mdf_atoms_parsed_total", "Atom records parsed from MDF input")
	m.ParamRecordsLoaded = collector.RegisterCounter("param_records_loaded_total", "Parameter records loaded", "category")
	m.ParamRecordsSkipped = collector.RegisterCounter("param_records_skipped_total", "Parameter records skipped as malformed", "category")

	m.GraphNodes = collector.RegisterGauge("graph_nodes", "Atoms in the connectivity graph")
	m.GraphEdges = collector.RegisterGauge("graph_edges", "Unique bonds in the connectivity graph")
	m.ElementsExtracted = collector.RegisterCounter("topology_elements_extracted_total", "Topology elements extracted", "kind")

	m.VerdictsTotal = collector.RegisterCounter("match_verdicts_total", "Match verdicts produced", "category", "result")
	m.MatchCacheHits = collector.RegisterCounter("match_cache_hits_total", "Matcher memo-cache hits")

	m.CheckDuration = collector.RegisterHistogram("check_run_duration_seconds", "Full check-pipeline duration", DefaultCheckDurationBuckets)
	m.WatchReloads = collector.RegisterCounter("watch_reloads_total", "Re-runs triggered in watch mode", "trigger")

	return m
}

// ObserveCheckDuration records a completed pipeline run.
func (m *AppMetrics) ObserveCheckDuration(d time.Duration) {
	m.CheckDuration.WithLabelValues().Observe(d.Seconds())
}

// NewNopMetrics returns an AppMetrics whose instruments discard all values.
// Intended for tests and for callers that run without a collector.
func NewNopMetrics() *AppMetrics {
	return &AppMetrics{
		AtomsParsed:         noopCounterVec{},
		ParamRecordsLoaded:  noopCounterVec{},
		ParamRecordsSkipped: noopCounterVec{},
		GraphNodes:          noopGaugeVec{},
		GraphEdges:          noopGaugeVec{},
		ElementsExtracted:   noopCounterVec{},
		VerdictsTotal:       noopCounterVec{},
		MatchCacheHits:      noopCounterVec{},
		CheckDuration:       noopHistogramVec{},
		WatchReloads:        noopCounterVec{},
	}
}
