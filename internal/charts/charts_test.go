package charts

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/signalcmp/internal/analysis"
	"github.com/mwiater/signalcmp/internal/compare"
	"github.com/mwiater/signalcmp/internal/dataset"
	"github.com/mwiater/signalcmp/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chart "github.com/wcharczuk/go-chart/v2"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func writeInputs(t *testing.T, intervals bool) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"episode_results.csv":        "TotalVehicles,VehiclesWaiting,GreenLightTime\n100,10,20\n110,8,20\n",
		"static_episode_results.csv": "TotalVehicles,VehiclesWaiting,PhaseGreenTime\n90,12,30\n95,10,30\n",
	}
	if intervals {
		files["interval_data.csv"] = "SimulationTime,TotalVehicles,VehiclesWaiting,QueueLength\n0,5,2,4\n10,6,3,6\n20,7,4,8\n30,8,5,10\n"
		files["static_interval_data.csv"] = "SimulationTime,TotalVehicles,VehiclesWaiting,QueueLength\n0,5,4,8\n10,6,6,10\n20,7,6,12\n30,8,8,14\n"
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestRenderWritesPNGs(t *testing.T) {
	a, err := analysis.Run(analysis.DefaultOptions(writeInputs(t, true)))
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "charts")
	r := NewRenderer(out)
	r.Width, r.Height = 640, 360
	written, err := r.Render(a)
	require.NoError(t, err)

	want := []string{
		"episode_TotalVehicles.png",
		"episode_VehiclesWaiting.png",
		"episode_GreenTime.png",
		"interval_data_TotalVehicles.png",
		"interval_data_QueueLength.png",
		"vehicles_waiting_comparison_first_half.png",
		"queue_length_comparison_first_half.png",
		ThroughputFile,
	}
	for _, name := range want {
		path := filepath.Join(out, name)
		assert.Contains(t, written, path)
		data, err := os.ReadFile(path)
		require.NoError(t, err, name)
		assert.True(t, bytes.HasPrefix(data, pngMagic), name)
	}
}

func TestRenderSkipsChartsWithoutData(t *testing.T) {
	a, err := analysis.Run(analysis.DefaultOptions(writeInputs(t, false)))
	require.NoError(t, err)

	out := t.TempDir()
	written, err := NewRenderer(out).Render(a)
	require.NoError(t, err)
	for _, path := range written {
		assert.NotContains(t, filepath.Base(path), "interval_data_")
		assert.NotContains(t, filepath.Base(path), "first_half")
	}
	assert.Contains(t, written, filepath.Join(out, ThroughputFile))
}

func TestFirstHalfPlotsTheComparedRows(t *testing.T) {
	dir := writeInputs(t, false)
	files := map[string]string{
		"interval_data.csv":        "SimulationTime,QueueLength\n0,\n10,\n20,6\n30,8\n40,1\n50,1\n60,1\n70,1\n",
		"static_interval_data.csv": "SimulationTime,QueueLength\n0,9\n10,9\n20,9\n30,9\n40,9\n50,9\n60,9\n70,9\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	a, err := analysis.Run(analysis.DefaultOptions(dir))
	require.NoError(t, err)

	var queue analysis.IntervalComparison
	for _, ic := range a.Doc.Intervals {
		if ic.Metric == "QueueLength" {
			queue = ic
		}
	}
	require.Equal(t, "QueueLength", queue.Metric)

	pts := firstHalf(a, queue, dataset.Primary)
	assert.Equal(t, []analysis.Point{{X: 20, Y: 6}, {X: 30, Y: 8}}, pts)
	assert.Len(t, firstHalf(a, queue, dataset.Baseline), 4)
	assert.Contains(t, firstHalfTitle(queue), "ML Mean: 7.00")

	out := t.TempDir()
	written, err := NewRenderer(out).Render(a)
	require.NoError(t, err)
	assert.Contains(t, written, filepath.Join(out, "queue_length_comparison_first_half.png"))
}

func TestFirstHalfTitleWithoutImprovement(t *testing.T) {
	ic := analysis.IntervalComparison{
		Metric: "QueueLength",
		FirstHalf: compare.Result{
			Primary:        metrics.AggregateStats{Mean: metrics.Defined(3)},
			Baseline:       metrics.AggregateStats{Mean: metrics.Defined(0)},
			ImprovementPct: metrics.Undefined(),
		},
	}
	title := firstHalfTitle(ic)
	assert.Contains(t, title, "Improvement: N/A")
	assert.NotContains(t, title, "N/A%")

	ic.FirstHalf.ImprovementPct = metrics.Defined(12.345)
	assert.Contains(t, firstHalfTitle(ic), "Improvement: 12.3%")
	assert.Empty(t, firstHalf(nil, ic, dataset.Primary))
}

func TestLinesNeedTwoPoints(t *testing.T) {
	r := NewRenderer(t.TempDir())
	_, ok := r.lines("t", "y", []analysis.Point{{X: 0, Y: 1}}, nil)
	assert.False(t, ok)

	c, ok := r.lines("t", "y", []analysis.Point{{X: 0, Y: 1}, {X: 0, Y: 1}}, nil)
	require.True(t, ok)
	var buf bytes.Buffer
	require.NoError(t, c.Render(chart.PNG, &buf))
}

func TestMeanBarsHandlesUndefinedAndFlat(t *testing.T) {
	r := NewRenderer(t.TempDir())
	_, ok := r.meanBars("m", metrics.Undefined(), metrics.Undefined())
	assert.False(t, ok)

	c, ok := r.meanBars("m", metrics.Defined(0), metrics.Defined(0))
	require.True(t, ok)
	var buf bytes.Buffer
	require.NoError(t, c.Render(chart.PNG, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestPadded(t *testing.T) {
	rng := padded(0, 10)
	assert.InDelta(t, -0.5, rng.Min, 1e-12)
	assert.InDelta(t, 10.5, rng.Max, 1e-12)

	flat := padded(5, 5)
	assert.Less(t, flat.Min, 5.0)
	assert.Greater(t, flat.Max, 5.0)
}

func TestSnake(t *testing.T) {
	assert.Equal(t, "vehicles_waiting", Snake("VehiclesWaiting"))
	assert.Equal(t, "queue_length", Snake("QueueLength"))
	assert.Equal(t, "throughput", Snake("Throughput"))
}
