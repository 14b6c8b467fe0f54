// internal/metrics/aggregate.go
package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// AggregateStats is an immutable snapshot of a series' descriptive statistics.
// Count covers present samples only; with Count == 0 every other field is
// undefined.
type AggregateStats struct {
	Mean   Value `json:"mean"`
	StdDev Value `json:"std"`
	Median Value `json:"median"`
	Min    Value `json:"min"`
	Max    Value `json:"max"`
	Count  int   `json:"count"`
}

// Aggregate computes the descriptive statistics of the present samples of s.
//
// StdDev is the sample standard deviation (n-1 denominator) and is undefined
// below two samples. Median interpolates linearly between order statistics.
// Results depend on summation order only in the last ULP; compare with a
// tolerance.
func Aggregate(s Series) AggregateStats {
	values := s.Valid()
	out := AggregateStats{Count: len(values)}
	if len(values) == 0 {
		return out
	}
	out.Mean = Defined(stat.Mean(values, nil))
	if len(values) > 1 {
		out.StdDev = Defined(stat.StdDev(values, nil))
	}
	out.Median = Defined(percentile(values, 50))
	out.Min = Defined(floats.Min(values))
	out.Max = Defined(floats.Max(values))
	return out
}

// MeanOf is shorthand for Aggregate(s).Mean.
func MeanOf(s Series) Value {
	return Aggregate(s).Mean
}

// percentile interpolates linearly between the closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	pos := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	weight := pos - float64(lower)
	return sorted[lower] + weight*(sorted[upper]-sorted[lower])
}
