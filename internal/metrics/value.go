// internal/metrics/value.go
package metrics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Unavailable is the text used wherever an undefined statistic is rendered.
const Unavailable = "N/A"

// Value is a statistic that may be undefined, e.g. the mean of an empty series
// or a ratio against a zero baseline. The zero Value is undefined.
type Value struct {
	v  float64
	ok bool
}

// Defined wraps a finite float. Non-finite input yields an undefined Value so
// NaN and ±Inf never leak out of a computation.
func Defined(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{v: v, ok: true}
}

// Undefined returns the undefined Value.
func Undefined() Value { return Value{} }

// Valid reports whether the value is defined.
func (v Value) Valid() bool { return v.ok }

// Float64 returns the value and whether it is defined.
func (v Value) Float64() (float64, bool) { return v.v, v.ok }

// Or returns the value, or fallback when undefined.
func (v Value) Or(fallback float64) float64 {
	if !v.ok {
		return fallback
	}
	return v.v
}

// String renders with full precision, or Unavailable.
func (v Value) String() string {
	if !v.ok {
		return Unavailable
	}
	return strconv.FormatFloat(v.v, 'f', -1, 64)
}

// ParseValue is the inverse of String. The Unavailable sentinel and the empty
// string both parse to the undefined Value.
func ParseValue(s string) (Value, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, Unavailable) {
		return Value{}, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return Value{}, err
	}
	return Defined(f), nil
}

// MarshalJSON encodes undefined values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.ok {
		return []byte("null"), nil
	}
	return json.Marshal(v.v)
}

// UnmarshalJSON accepts a number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = Defined(f)
	return nil
}
