// internal/metrics/trend.go
package metrics

import "gonum.org/v1/gonum/stat"

// Trend summarizes a series indexed by position, e.g. reward per episode.
type Trend struct {
	Slope Value `json:"slope"`
	Final Value `json:"final"`
	Best  Value `json:"best"`
	Count int   `json:"count"`
}

// Improving reports whether the fitted slope is positive.
func (t Trend) Improving() bool {
	return t.Slope.Or(0) > 0
}

// Label is "Improving" or "Declining", or Unavailable without a slope.
func (t Trend) Label() string {
	if !t.Slope.Valid() {
		return Unavailable
	}
	if t.Improving() {
		return "Improving"
	}
	return "Declining"
}

// FitTrend fits a least-squares line through the present samples against
// their positions. The slope needs at least two samples.
func FitTrend(s Series) Trend {
	var xs, ys []float64
	for i := 0; i < s.Len(); i++ {
		if v, ok := s.At(i); ok {
			xs = append(xs, float64(i))
			ys = append(ys, v)
		}
	}
	t := Trend{Count: len(ys)}
	if len(ys) == 0 {
		return t
	}
	t.Final = Defined(ys[len(ys)-1])
	t.Best = Aggregate(s).Max
	if len(ys) > 1 {
		_, beta := stat.LinearRegression(xs, ys, nil, false)
		t.Slope = Defined(beta)
	}
	return t
}
