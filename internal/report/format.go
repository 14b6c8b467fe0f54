package report

import (
	"github.com/mwiater/signalcmp/internal/metrics"
	"github.com/shopspring/decimal"
)

// DisplayPlaces is the precision of every human-facing number.
const DisplayPlaces int32 = 2

// Fixed rounds half away from zero to the given places, or returns the
// Unavailable sentinel.
func Fixed(v metrics.Value, places int32) string {
	f, ok := v.Float64()
	if !ok {
		return metrics.Unavailable
	}
	return decimal.NewFromFloat(f).StringFixed(places)
}

// Number formats a statistic for display.
func Number(v metrics.Value) string {
	return Fixed(v, DisplayPlaces)
}

// Percent formats an improvement ratio for display.
func Percent(v metrics.Value) string {
	return PercentFixed(v, DisplayPlaces)
}

// PercentFixed formats an improvement ratio to the given places with a
// percent sign, or returns the Unavailable sentinel.
func PercentFixed(v metrics.Value, places int32) string {
	if !v.Valid() {
		return metrics.Unavailable
	}
	return Fixed(v, places) + "%"
}
