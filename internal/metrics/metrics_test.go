package metrics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateBasicStatistics(t *testing.T) {
	s := FromFloats("QueueLength", 4, 1, 3, 2)
	got := Aggregate(s)

	require.Equal(t, 4, got.Count)
	assert.InDelta(t, 2.5, got.Mean.Or(-1), 1e-12)
	// sample std of 1..4 is sqrt(5/3)
	assert.InDelta(t, math.Sqrt(5.0/3.0), got.StdDev.Or(-1), 1e-12)
	assert.InDelta(t, 2.5, got.Median.Or(-1), 1e-12)
	assert.InDelta(t, 1, got.Min.Or(-1), 1e-12)
	assert.InDelta(t, 4, got.Max.Or(-1), 1e-12)
}

func TestAggregateSkipsMissing(t *testing.T) {
	s := FromFloats("VehiclesWaiting", 10, math.NaN(), 20, math.Inf(1), 30)
	got := Aggregate(s)

	assert.Equal(t, 3, got.Count)
	assert.InDelta(t, 20, got.Mean.Or(-1), 1e-12)
	assert.InDelta(t, 20, got.Median.Or(-1), 1e-12)
	assert.Equal(t, 5, s.Len(), "missing samples keep their position")
}

func TestAggregateAllMissingIsUndefined(t *testing.T) {
	got := Aggregate(FromFloats("x", math.NaN(), math.NaN()))

	assert.Equal(t, 0, got.Count)
	for name, v := range map[string]Value{
		"mean": got.Mean, "std": got.StdDev, "median": got.Median, "min": got.Min, "max": got.Max,
	} {
		assert.False(t, v.Valid(), "%s should be undefined", name)
	}
}

func TestAggregateSingleSampleHasNoStdDev(t *testing.T) {
	got := Aggregate(FromFloats("x", 7))
	assert.Equal(t, 1, got.Count)
	assert.InDelta(t, 7, got.Mean.Or(-1), 1e-12)
	assert.False(t, got.StdDev.Valid())
}

func TestAggregateOrderingProperty(t *testing.T) {
	cases := [][]float64{
		{1},
		{5, 5, 5},
		{-3, 10, 2.5, 8, 0},
		{100, 110, 120},
		{1e6, -1e6, 3, 3, 3, 9.75},
	}
	for _, values := range cases {
		got := Aggregate(FromFloats("x", values...))
		minV, maxV := got.Min.Or(math.NaN()), got.Max.Or(math.NaN())
		med, mean := got.Median.Or(math.NaN()), got.Mean.Or(math.NaN())
		assert.LessOrEqual(t, minV, med, "%v", values)
		assert.LessOrEqual(t, med, maxV, "%v", values)
		assert.GreaterOrEqual(t, mean, minV-1e-9, "%v", values)
		assert.LessOrEqual(t, mean, maxV+1e-9, "%v", values)
	}
}

func TestAggregateIsDeterministic(t *testing.T) {
	s := FromFloats("x", 0.1, 0.2, 0.3, 0.4, 0.5)
	assert.Equal(t, Aggregate(s), Aggregate(s))
}

func TestPercentileInterpolates(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, percentile(values, 25), 1e-12)
	assert.InDelta(t, 2.5, percentile(values, 50), 1e-12)
	assert.InDelta(t, 4, percentile(values, 100), 1e-12)
	assert.Equal(t, 0.0, percentile(nil, 50))
}

func TestDeriveRatioExcludesZeroDenominator(t *testing.T) {
	num := FromFloats("VehiclesWaiting", 10, 20, 30)
	den := FromFloats("GreenLightTime", 5, 0, 10)

	ratio, err := DeriveRatio("Throughput", num, den)
	require.NoError(t, err)

	require.Equal(t, 3, ratio.Len())
	assert.Equal(t, []float64{2, 3}, ratio.Valid())
	_, ok := ratio.At(1)
	assert.False(t, ok)
	assert.InDelta(t, 2.5, MeanOf(ratio).Or(-1), 1e-12)
}

func TestDeriveRatioMissingOperands(t *testing.T) {
	num := FromFloats("n", math.NaN(), 4, 9)
	den := FromFloats("d", 1, math.NaN(), 3)

	ratio, err := DeriveRatio("r", num, den)
	require.NoError(t, err)
	assert.Equal(t, []float64{3}, ratio.Valid())
}

func TestDeriveRatioAllMissingMeanUndefined(t *testing.T) {
	ratio, err := DeriveRatio("r", FromFloats("n", 1, 2), FromFloats("d", 0, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, ratio.Count())
	assert.False(t, MeanOf(ratio).Valid())
}

func TestDeriveRatioShapeMismatch(t *testing.T) {
	_, err := DeriveRatio("r", FromFloats("n", 1, 2, 3), FromFloats("d", 1, 2))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNormalizeByMax(t *testing.T) {
	got := NormalizeByMax(Defined(50), Defined(100))
	assert.InDelta(t, 0.5, got[0].Or(-1), 1e-12)
	assert.InDelta(t, 1, got[1].Or(-1), 1e-12)

	zero := NormalizeByMax(Defined(0), Defined(-2))
	assert.InDelta(t, 0, zero[0].Or(-1), 1e-12)
	assert.InDelta(t, -2, zero[1].Or(-1), 1e-12)

	partial := NormalizeByMax(Undefined(), Defined(4))
	assert.False(t, partial[0].Valid())
	assert.InDelta(t, 1, partial[1].Or(-1), 1e-12)
}

func TestFitTrend(t *testing.T) {
	tr := FitTrend(FromFloats("CumulativeReward", 1, 3, 5, 7))
	assert.InDelta(t, 2, tr.Slope.Or(0), 1e-9)
	assert.InDelta(t, 7, tr.Final.Or(0), 1e-12)
	assert.InDelta(t, 7, tr.Best.Or(0), 1e-12)
	assert.Equal(t, "Improving", tr.Label())

	down := FitTrend(FromFloats("r", 5, 4, 2))
	assert.Equal(t, "Declining", down.Label())

	single := FitTrend(FromFloats("r", 5))
	assert.False(t, single.Slope.Valid())
	assert.Equal(t, Unavailable, single.Label())
}

func TestValueJSONAndParse(t *testing.T) {
	data, err := json.Marshal(struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}{A: Defined(1.5), B: Undefined()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1.5,"b":null}`, string(data))

	var back struct {
		A Value `json:"a"`
		B Value `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.InDelta(t, 1.5, back.A.Or(0), 1e-12)
	assert.False(t, back.B.Valid())

	v, err := ParseValue("N/A")
	require.NoError(t, err)
	assert.False(t, v.Valid())
	v, err = ParseValue("15.79%")
	require.NoError(t, err)
	assert.InDelta(t, 15.79, v.Or(0), 1e-12)
	_, err = ParseValue("abc")
	assert.Error(t, err)

	assert.False(t, Defined(math.NaN()).Valid())
	assert.False(t, Defined(math.Inf(-1)).Valid())
}

func TestSeriesHeadAndPairs(t *testing.T) {
	s := FromFloats("QueueLength", 1, math.NaN(), 3, 4, 5)
	head := s.Head(2)
	assert.Equal(t, 2, head.Len())
	assert.Equal(t, []float64{1}, head.Valid())
	assert.Equal(t, 0, s.Head(-1).Len())
	assert.Equal(t, 5, s.Head(99).Len())

	x := FromFloats("SimulationTime", 0, 10, 20, math.NaN(), 40)
	xs, ys := Pairs(x, s)
	assert.Equal(t, []float64{0, 20, 40}, xs)
	assert.Equal(t, []float64{1, 3, 5}, ys)
}
