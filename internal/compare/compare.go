// Package compare turns the aggregates of both controllers into signed
// improvement ratios. Positive improvement always means the primary
// (learned) controller outperformed the baseline.
package compare

import (
	"errors"
	"fmt"

	"github.com/mwiater/signalcmp/internal/metrics"
)

// ErrNoPolicy is returned for a metric absent from the policy table.
var ErrNoPolicy = errors.New("no comparison policy declared")

// Metric names with a declared direction.
const (
	MetricTotalVehicles   = "TotalVehicles"
	MetricVehiclesWaiting = "VehiclesWaiting"
	MetricQueueLength     = "QueueLength"
	MetricEpisodeDuration = "EpisodeDuration"
	MetricThroughput      = "Throughput"
)

// Policy is the declared direction of a metric.
type Policy struct {
	Metric         string
	HigherIsBetter bool
	Note           string
}

// Policies is the one place a metric's direction is declared. TotalVehicles
// counts vehicles served, so more is better. Throughput here is waiting
// vehicles per second of green, so it is lower-is-better like the other
// congestion measures.
var Policies = map[string]Policy{
	MetricTotalVehicles:   {Metric: MetricTotalVehicles, HigherIsBetter: true, Note: "vehicles served"},
	MetricVehiclesWaiting: {Metric: MetricVehiclesWaiting, Note: "vehicles held at the intersection"},
	MetricQueueLength:     {Metric: MetricQueueLength, Note: "queued vehicles per interval"},
	MetricEpisodeDuration: {Metric: MetricEpisodeDuration, Note: "seconds per episode"},
	MetricThroughput:      {Metric: MetricThroughput, Note: "waiting vehicles per green second"},
}

// Lookup returns the declared policy of a metric.
func Lookup(metric string) (Policy, error) {
	p, ok := Policies[metric]
	if !ok {
		return Policy{}, fmt.Errorf("%w for %q", ErrNoPolicy, metric)
	}
	return p, nil
}

// Result is the comparison of one metric between the two controllers.
type Result struct {
	Metric         string                 `json:"metric"`
	Table          string                 `json:"table,omitempty"`
	Primary        metrics.AggregateStats `json:"primary"`
	Baseline       metrics.AggregateStats `json:"baseline"`
	HigherIsBetter bool                   `json:"higherIsBetter"`
	ImprovementPct metrics.Value          `json:"improvementPct"`
}

// Improvement is (baseline - primary) / baseline * 100, negated once for
// higher-is-better metrics. It is undefined when either mean is undefined or
// the baseline mean is zero.
func Improvement(primaryMean, baselineMean metrics.Value, higherIsBetter bool) metrics.Value {
	p, okP := primaryMean.Float64()
	b, okB := baselineMean.Float64()
	if !okP || !okB || b == 0 {
		return metrics.Undefined()
	}
	pct := (b - p) / b * 100
	if higherIsBetter {
		pct = -pct
	}
	return metrics.Defined(pct)
}

// Compare aggregates both series and computes the improvement of primary
// over baseline.
func Compare(metric string, primary, baseline metrics.Series, higherIsBetter bool) Result {
	p := metrics.Aggregate(primary)
	b := metrics.Aggregate(baseline)
	return Result{
		Metric:         metric,
		Primary:        p,
		Baseline:       b,
		HigherIsBetter: higherIsBetter,
		ImprovementPct: Improvement(p.Mean, b.Mean, higherIsBetter),
	}
}

// CompareMetric compares using the declared policy of the metric.
func CompareMetric(metric string, primary, baseline metrics.Series) (Result, error) {
	policy, err := Lookup(metric)
	if err != nil {
		return Result{}, err
	}
	return Compare(metric, primary, baseline, policy.HigherIsBetter), nil
}

// Verdict names which controller a result favours.
type Verdict string

const (
	PrimaryBetter  Verdict = "ML better"
	BaselineBetter Verdict = "Static better"
	Inconclusive   Verdict = "inconclusive"
)

// Verdict reads the sign of the improvement. A zero improvement favours the
// baseline, matching the console summary's "> 0" test.
func (r Result) Verdict() Verdict {
	pct, ok := r.ImprovementPct.Float64()
	if !ok {
		return Inconclusive
	}
	if pct > 0 {
		return PrimaryBetter
	}
	return BaselineBetter
}
