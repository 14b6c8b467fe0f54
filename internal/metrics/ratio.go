// internal/metrics/ratio.go
package metrics

import (
	"errors"
	"fmt"
	"math"
)

// ErrShapeMismatch is returned when two series that must be positionally
// aligned have different lengths.
var ErrShapeMismatch = errors.New("shape mismatch")

// DeriveRatio divides numerator by denominator row by row. A row is missing
// in the result when either operand is missing, the denominator is zero, or
// the quotient is not finite.
func DeriveRatio(name string, numerator, denominator Series) (Series, error) {
	if numerator.Len() != denominator.Len() {
		return Series{}, fmt.Errorf("%w: %s has %d rows, %s has %d rows",
			ErrShapeMismatch, numerator.Name(), numerator.Len(), denominator.Name(), denominator.Len())
	}
	values := make([]float64, numerator.Len())
	present := make([]bool, numerator.Len())
	for i := range values {
		num, okNum := numerator.At(i)
		den, okDen := denominator.At(i)
		if !okNum || !okDen || den == 0 {
			continue
		}
		q := num / den
		if math.IsNaN(q) || math.IsInf(q, 0) {
			continue
		}
		values[i] = q
		present[i] = true
	}
	return NewSeries(name, values, present), nil
}

// NormalizeByMax divides each value by the largest of them when that maximum
// is positive; otherwise the values are returned unchanged. Undefined inputs
// stay undefined.
func NormalizeByMax(values ...Value) []Value {
	out := make([]Value, len(values))
	copy(out, values)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if f, ok := v.Float64(); ok && f > maxVal {
			maxVal = f
		}
	}
	if maxVal <= 0 || math.IsInf(maxVal, -1) {
		return out
	}
	for i, v := range values {
		if f, ok := v.Float64(); ok {
			out[i] = Defined(f / maxVal)
		}
	}
	return out
}
