// internal/metrics/series.go
package metrics

import "math"

// Series is a named, ordered sequence of samples. Missing samples keep their
// position so a series stays aligned with its time index.
type Series struct {
	name    string
	values  []float64
	present []bool
}

// NewSeries builds a series from values and a presence mask of the same
// length. A nil mask marks every non-finite value as missing.
func NewSeries(name string, values []float64, present []bool) Series {
	vals := make([]float64, len(values))
	copy(vals, values)
	mask := make([]bool, len(values))
	for i, v := range vals {
		ok := !math.IsNaN(v) && !math.IsInf(v, 0)
		if present != nil && i < len(present) {
			ok = ok && present[i]
		}
		mask[i] = ok
		if !ok {
			vals[i] = 0
		}
	}
	return Series{name: name, values: vals, present: mask}
}

// FromFloats builds a series where NaN marks a missing sample.
func FromFloats(name string, values ...float64) Series {
	return NewSeries(name, values, nil)
}

// Name returns the metric name.
func (s Series) Name() string { return s.name }

// Len returns the number of positions, missing ones included.
func (s Series) Len() int { return len(s.values) }

// At returns the sample at i and whether it is present.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.values) || !s.present[i] {
		return 0, false
	}
	return s.values[i], true
}

// Count returns the number of present samples.
func (s Series) Count() int {
	n := 0
	for _, ok := range s.present {
		if ok {
			n++
		}
	}
	return n
}

// Valid returns the present samples in order.
func (s Series) Valid() []float64 {
	out := make([]float64, 0, len(s.values))
	for i, v := range s.values {
		if s.present[i] {
			out = append(out, v)
		}
	}
	return out
}

// Head returns the first n positions.
func (s Series) Head(n int) Series {
	if n < 0 {
		n = 0
	}
	if n > len(s.values) {
		n = len(s.values)
	}
	return Series{name: s.name, values: s.values[:n:n], present: s.present[:n:n]}
}

// Renamed returns the same samples under another name.
func (s Series) Renamed(name string) Series {
	s.name = name
	return s
}

// Pairs returns the positions where both x and y are present, for plotting
// a series against its time index.
func Pairs(x, y Series) (xs, ys []float64) {
	n := x.Len()
	if y.Len() < n {
		n = y.Len()
	}
	for i := 0; i < n; i++ {
		xv, okx := x.At(i)
		yv, oky := y.At(i)
		if okx && oky {
			xs = append(xs, xv)
			ys = append(ys, yv)
		}
	}
	return xs, ys
}
