package analysis

import (
	"fmt"

	"github.com/mwiater/signalcmp/internal/compare"
	"github.com/mwiater/signalcmp/internal/dataset"
	"github.com/mwiater/signalcmp/internal/logging"
	"github.com/mwiater/signalcmp/internal/metrics"
	"github.com/mwiater/signalcmp/internal/report"
)

// MetricStats describes one episode metric for both controllers.
type MetricStats struct {
	Metric    string                 `json:"metric"`
	Available bool                   `json:"available"`
	Primary   metrics.AggregateStats `json:"primary"`
	Baseline  metrics.AggregateStats `json:"baseline"`
}

// IntervalComparison compares an interval metric over the whole run and over
// the first half of each controller's rows. HalfRows is the number of rows,
// present or missing, each role's first half spans.
type IntervalComparison struct {
	Metric    string               `json:"metric"`
	Full      compare.Result       `json:"full"`
	FirstHalf compare.Result       `json:"firstHalf"`
	HalfRows  map[dataset.Role]int `json:"halfRows"`
}

// ThroughputReport is the derived ratio comparison.
type ThroughputReport struct {
	compare.Result
	Numerator    string                  `json:"numerator"`
	Denominators map[dataset.Role]string `json:"denominators"`
}

// MatrixRow holds a metric's two means scaled by their maximum.
type MatrixRow struct {
	Metric   string        `json:"metric"`
	Primary  metrics.Value `json:"primary"`
	Baseline metrics.Value `json:"baseline"`
}

// Point is one (SimulationTime, value) sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TimeSeries is an interval metric plotted for both controllers.
type TimeSeries struct {
	Metric   string  `json:"metric"`
	Primary  []Point `json:"primary,omitempty"`
	Baseline []Point `json:"baseline,omitempty"`
}

// Document is the analysis as exported to JSON and the dashboard.
type Document struct {
	Capabilities []dataset.TableStatus `json:"capabilities"`
	EpisodeStats []MetricStats         `json:"episodeStats"`
	Comparisons  []compare.Result      `json:"comparisons"`
	Summary      report.Table          `json:"summary"`
	Intervals    []IntervalComparison  `json:"intervals"`
	Throughput   *ThroughputReport     `json:"throughput,omitempty"`
	Scoreboard   compare.Scoreboard    `json:"scoreboard"`
	Learning     *metrics.Trend        `json:"learning,omitempty"`
	Matrix       []MatrixRow           `json:"matrix"`
	TimeSeries   []TimeSeries          `json:"timeSeries"`
}

// Analysis is a finished run: the document plus the loaded data and derived
// series the charts draw from.
type Analysis struct {
	Doc    Document
	Data   *dataset.Collection
	Ratios map[dataset.Role]metrics.Series

	opts Options
}

// Run loads the configured sources and analyses them.
func Run(opts Options) (*Analysis, error) {
	return RunOn(dataset.Load(opts.Sources), opts)
}

// RunOn analyses an already loaded collection. Every stage is contained: a
// metric that cannot be computed becomes a warning and the run continues.
func RunOn(data *dataset.Collection, opts Options) (*Analysis, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a := &Analysis{
		Data:   data,
		Ratios: make(map[dataset.Role]metrics.Series),
		opts:   opts,
	}
	a.Doc.Capabilities = data.Capabilities().All()
	a.checkSources()
	a.describeEpisodes()
	a.compareSummary()
	a.compareIntervals()
	a.deriveThroughput()
	a.Doc.Scoreboard = compare.Score(a.Doc.Comparisons)
	a.learningTrend()
	a.buildMatrix()
	a.collectTimeSeries()

	logging.LogFields("analysis", map[string]any{
		"comparisons": len(a.Doc.Comparisons),
		"warnings":    len(a.Doc.Summary.Warnings),
	}, "analysis complete")
	return a, nil
}

// Warnings lists every skipped or degraded computation.
func (a *Analysis) Warnings() []report.Warning { return a.Doc.Summary.Warnings }

// warn records a warning on the summary table and logs it.
func (a *Analysis) warn(scope, format string, args ...any) {
	a.Doc.Summary.Warn(scope, format, args...)
	logging.LogWarn("[%s] %s", scope, fmt.Sprintf(format, args...))
}

func (a *Analysis) caps() *dataset.Capabilities { return a.Data.Capabilities() }

func (a *Analysis) checkSources() {
	for _, st := range a.Doc.Capabilities {
		if !st.Loaded {
			if !st.Optional {
				a.warn("dataset", "%s %s unavailable: %s", st.Role, st.Table, st.Error)
			}
			continue
		}
		if _, ok := st.Resolved[dataset.FieldSimulationTime]; ok && !st.Monotonic {
			a.warn("dataset", "%s %s: %s is not monotonic", st.Role, st.Table, dataset.FieldSimulationTime)
		}
		if st.InvalidCells > 0 {
			a.warn("dataset", "%s %s: %d unparseable cells treated as missing", st.Role, st.Table, st.InvalidCells)
		}
	}
}

// pair fetches a field for both roles.
func (a *Analysis) pair(table dataset.TableName, field string) (primary, baseline metrics.Series, err error) {
	primary, err = a.Data.Series(dataset.Primary, table, field)
	if err != nil {
		return metrics.Series{}, metrics.Series{}, err
	}
	baseline, err = a.Data.Series(dataset.Baseline, table, field)
	if err != nil {
		return metrics.Series{}, metrics.Series{}, err
	}
	return primary, baseline, nil
}

func (a *Analysis) describeEpisodes() {
	for _, m := range a.opts.EpisodeMetrics {
		stats := MetricStats{Metric: m, Available: a.caps().Both(dataset.Episodes, m)}
		if p, err := a.Data.Aggregate(dataset.Primary, dataset.Episodes, m); err == nil {
			stats.Primary = p
		}
		if b, err := a.Data.Aggregate(dataset.Baseline, dataset.Episodes, m); err == nil {
			stats.Baseline = b
		}
		a.Doc.EpisodeStats = append(a.Doc.EpisodeStats, stats)
	}
}

func (a *Analysis) compareSummary() {
	for _, spec := range a.opts.Comparisons {
		scope := report.Label(string(spec.Table), spec.Metric)
		primary, baseline, err := a.pair(spec.Table, spec.Metric)
		if err != nil {
			a.warn(scope, "skipped: %v", err)
			continue
		}
		res, err := compare.CompareMetric(spec.Metric, primary, baseline)
		if err != nil {
			a.warn(scope, "skipped: %v", err)
			continue
		}
		res.Table = string(spec.Table)
		if !res.ImprovementPct.Valid() {
			a.warn(scope, "improvement undefined (baseline mean %s)", res.Baseline.Mean)
		}
		a.Doc.Comparisons = append(a.Doc.Comparisons, res)
	}
	a.Doc.Summary.Rows = report.Build(a.Doc.Comparisons).Rows
}

func (a *Analysis) compareIntervals() {
	for _, m := range a.opts.IntervalMetrics {
		scope := report.Label(string(dataset.Intervals), m)
		primary, baseline, err := a.pair(dataset.Intervals, m)
		if err != nil {
			a.warn(scope, "skipped: %v", err)
			continue
		}
		policy, err := compare.Lookup(m)
		if err != nil {
			a.warn(scope, "skipped: %v", err)
			continue
		}
		full := compare.Compare(m, primary, baseline, policy.HigherIsBetter)
		full.Table = string(dataset.Intervals)
		if !full.ImprovementPct.Valid() {
			a.warn(scope, "improvement undefined (baseline mean %s)", full.Baseline.Mean)
		}
		rows := map[dataset.Role]int{
			dataset.Primary:  primary.Len() / 2,
			dataset.Baseline: baseline.Len() / 2,
		}
		half := compare.Compare(m, primary.Head(rows[dataset.Primary]), baseline.Head(rows[dataset.Baseline]), policy.HigherIsBetter)
		half.Table = string(dataset.Intervals)
		if !half.ImprovementPct.Valid() {
			a.warn(scope, "first half improvement undefined (baseline mean %s)", half.Baseline.Mean)
		}
		a.Doc.Intervals = append(a.Doc.Intervals, IntervalComparison{Metric: m, Full: full, FirstHalf: half, HalfRows: rows})
	}
}

func (a *Analysis) deriveThroughput() {
	d := a.opts.Derived
	if d.Name == "" {
		return
	}
	denominators := make(map[dataset.Role]string)
	for _, role := range dataset.Roles() {
		num, err := a.Data.Series(role, d.Table, d.Numerator)
		if err != nil {
			a.warn(d.Name, "%s skipped: %v", role, err)
			continue
		}
		den, err := a.Data.Series(role, d.Table, d.Denominator)
		if err != nil {
			a.warn(d.Name, "%s skipped: %v", role, err)
			continue
		}
		ratio, err := metrics.DeriveRatio(d.Name, num, den)
		if err != nil {
			a.warn(d.Name, "%s skipped: %v", role, err)
			continue
		}
		if col, ok := a.caps().Column(role, d.Table, d.Denominator); ok {
			denominators[role] = col
		}
		a.Ratios[role] = ratio
	}

	primary, okP := a.Ratios[dataset.Primary]
	baseline, okB := a.Ratios[dataset.Baseline]
	if !okP || !okB {
		return
	}
	res, err := compare.CompareMetric(d.Name, primary, baseline)
	if err != nil {
		a.warn(d.Name, "comparison skipped: %v", err)
		return
	}
	res.Table = string(d.Table)
	if !res.ImprovementPct.Valid() {
		a.warn(d.Name, "improvement undefined (baseline mean %s)", res.Baseline.Mean)
	}
	a.Doc.Throughput = &ThroughputReport{Result: res, Numerator: d.Numerator, Denominators: denominators}
}

func (a *Analysis) learningTrend() {
	if !a.caps().Has(dataset.Primary, dataset.Episodes, dataset.FieldCumulativeReward) {
		return
	}
	rewards, err := a.Data.Series(dataset.Primary, dataset.Episodes, dataset.FieldCumulativeReward)
	if err != nil {
		return
	}
	trend := metrics.FitTrend(rewards)
	a.Doc.Learning = &trend
}

func (a *Analysis) buildMatrix() {
	for _, r := range a.Doc.Comparisons {
		norm := metrics.NormalizeByMax(r.Primary.Mean, r.Baseline.Mean)
		a.Doc.Matrix = append(a.Doc.Matrix, MatrixRow{
			Metric:   report.Label(r.Table, r.Metric),
			Primary:  norm[0],
			Baseline: norm[1],
		})
	}
}

func (a *Analysis) collectTimeSeries() {
	for _, m := range a.opts.TimeSeriesMetrics {
		ts := TimeSeries{Metric: m}
		for _, role := range dataset.Roles() {
			pts := a.Points(role, m, 0)
			if role == dataset.Primary {
				ts.Primary = pts
			} else {
				ts.Baseline = pts
			}
		}
		if len(ts.Primary) == 0 && len(ts.Baseline) == 0 {
			continue
		}
		a.Doc.TimeSeries = append(a.Doc.TimeSeries, ts)
	}
}

// Points pairs an interval metric with SimulationTime for one role. A positive
// limit keeps only the first limit rows.
func (a *Analysis) Points(role dataset.Role, field string, limit int) []Point {
	x, err := a.Data.Series(role, dataset.Intervals, dataset.FieldSimulationTime)
	if err != nil {
		return nil
	}
	y, err := a.Data.Series(role, dataset.Intervals, field)
	if err != nil {
		return nil
	}
	if limit > 0 {
		x, y = x.Head(limit), y.Head(limit)
	}
	xs, ys := metrics.Pairs(x, y)
	pts := make([]Point, len(xs))
	for i := range xs {
		pts[i] = Point{X: xs[i], Y: ys[i]}
	}
	return pts
}
