package analysis

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/signalcmp/internal/compare"
	"github.com/mwiater/signalcmp/internal/dataset"
	"github.com/mwiater/signalcmp/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	mlEpisodes = `Episode,TotalVehicles,VehiclesWaiting,EpisodeDuration,CumulativeReward,GreenLightTime
1,100,10,300,-5,20
2,110,8,290,-3,20
3,120,6,280,-1,30
`
	staticEpisodes = `Episode,TotalVehicles,VehiclesWaiting,EpisodeDuration,PhaseGreenTime
1,90,12,300,30
2,95,10,300,0
3,100,14,300,30
`
	mlIntervals = `SimulationTime,TotalVehicles,VehiclesWaiting,QueueLength
0,5,2,4
10,6,3,6
20,7,4,8
30,8,5,10
`
	staticIntervals = `SimulationTime,TotalVehicles,VehiclesWaiting,QueueLength
0,5,4,8
10,6,6,10
20,7,6,12
30,8,8,14
`
)

func writeFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func fullFixtures(t *testing.T) string {
	return writeFixtures(t, map[string]string{
		"episode_results.csv":        mlEpisodes,
		"static_episode_results.csv": staticEpisodes,
		"interval_data.csv":          mlIntervals,
		"static_interval_data.csv":   staticIntervals,
	})
}

func interval(t *testing.T, a *Analysis, metric string) IntervalComparison {
	t.Helper()
	for _, ic := range a.Doc.Intervals {
		if ic.Metric == metric {
			return ic
		}
	}
	t.Fatalf("no interval comparison for %s", metric)
	return IntervalComparison{}
}

func TestRunEndToEnd(t *testing.T) {
	a, err := Run(DefaultOptions(fullFixtures(t)))
	require.NoError(t, err)

	require.Len(t, a.Doc.Comparisons, 2)
	total := a.Doc.Comparisons[0]
	assert.Equal(t, "TotalVehicles", total.Metric)
	assert.InDelta(t, 15.789473684, total.ImprovementPct.Or(0), 1e-6)
	waiting := a.Doc.Comparisons[1]
	assert.InDelta(t, 33.333333333, waiting.ImprovementPct.Or(0), 1e-6)

	require.Len(t, a.Doc.Summary.Rows, 2)
	assert.Equal(t, "TotalVehicles", a.Doc.Summary.Rows[0].Metric)
	assert.Equal(t, "VehiclesWaiting", a.Doc.Summary.Rows[1].Metric)

	assert.Equal(t, 2, a.Doc.Scoreboard.PrimaryWins)
	assert.Equal(t, 0, a.Doc.Scoreboard.BaselineWins)

	queue := interval(t, a, "QueueLength")
	assert.InDelta(t, 36.363636, queue.Full.ImprovementPct.Or(0), 1e-5)
	assert.Equal(t, 2, queue.FirstHalf.Primary.Count)
	assert.Equal(t, map[dataset.Role]int{dataset.Primary: 2, dataset.Baseline: 2}, queue.HalfRows)
	assert.InDelta(t, 44.444444, queue.FirstHalf.ImprovementPct.Or(0), 1e-5)

	vw := interval(t, a, "VehiclesWaiting")
	assert.InDelta(t, 50, vw.FirstHalf.ImprovementPct.Or(0), 1e-9)

	require.NotNil(t, a.Doc.Learning)
	assert.Equal(t, "Improving", a.Doc.Learning.Label())
	assert.InDelta(t, 2, a.Doc.Learning.Slope.Or(0), 1e-9)
	assert.InDelta(t, -1, a.Doc.Learning.Best.Or(0), 1e-9)

	require.Len(t, a.Doc.Matrix, 2)
	assert.InDelta(t, 1, a.Doc.Matrix[0].Primary.Or(0), 1e-12)
	assert.InDelta(t, 95.0/110.0, a.Doc.Matrix[0].Baseline.Or(0), 1e-12)

	assert.Len(t, a.Doc.TimeSeries, 3)
	assert.Len(t, a.Points(dataset.Primary, "QueueLength", 2), 2)
	assert.Empty(t, a.Warnings())
}

func TestRunThroughputResolvesGreenTimeAliases(t *testing.T) {
	a, err := Run(DefaultOptions(fullFixtures(t)))
	require.NoError(t, err)

	tp := a.Doc.Throughput
	require.NotNil(t, tp)
	assert.Equal(t, "GreenLightTime", tp.Denominators[dataset.Primary])
	assert.Equal(t, "PhaseGreenTime", tp.Denominators[dataset.Baseline])

	// The zero green time row drops out of the baseline ratio.
	assert.Equal(t, 3, tp.Primary.Count)
	assert.Equal(t, 2, tp.Baseline.Count)
	assert.InDelta(t, 0.3666667, tp.Primary.Mean.Or(0), 1e-6)
	assert.InDelta(t, 0.4333333, tp.Baseline.Mean.Or(0), 1e-6)
	assert.False(t, tp.HigherIsBetter)
	assert.InDelta(t, 15.384615, tp.ImprovementPct.Or(0), 1e-5)
	assert.Equal(t, compare.PrimaryBetter, tp.Verdict())

	var buf bytes.Buffer
	a.RenderThroughput(&buf)
	assert.Contains(t, buf.String(), "episode_results.csv average Throughput (GreenLightTime): 0.3667")
	assert.Contains(t, buf.String(), "static_episode_results.csv average Throughput (PhaseGreenTime): 0.4333")
	assert.Contains(t, buf.String(), "Improvement: 15.3846%")
}

func TestRunDegradesWhenTableMissing(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"episode_results.csv":        mlEpisodes,
		"static_episode_results.csv": staticEpisodes,
		"interval_data.csv":          mlIntervals,
	})
	a, err := Run(DefaultOptions(dir))
	require.NoError(t, err)

	assert.Len(t, a.Doc.Summary.Rows, 2)
	assert.Empty(t, a.Doc.Intervals)
	assert.NotEmpty(t, a.Warnings())
	assert.Equal(t, a.Warnings(), a.Doc.Summary.Warnings)

	var scopes []string
	for _, w := range a.Warnings() {
		scopes = append(scopes, w.Scope)
	}
	assert.Contains(t, scopes, "dataset")
	assert.Contains(t, scopes, "QueueLength (intervals)")

	var buf bytes.Buffer
	a.RenderReport(&buf)
	assert.Contains(t, buf.String(), "intervals: not available")
	assert.Contains(t, buf.String(), "SUMMARY TABLE")
}

func TestRunSkipsUndeclaredPolicyAndMissingColumns(t *testing.T) {
	opts := DefaultOptions(fullFixtures(t))
	opts.Comparisons = []ComparisonSpec{
		{Table: dataset.Episodes, Metric: dataset.FieldCumulativeReward},
		{Table: dataset.Episodes, Metric: dataset.FieldEpisodeDuration},
		{Table: dataset.Intervals, Metric: dataset.FieldQueueLength},
	}
	a, err := Run(opts)
	require.NoError(t, err)

	// CumulativeReward is missing from the baseline; EpisodeDuration compares.
	require.Len(t, a.Doc.Summary.Rows, 2)
	assert.Equal(t, "EpisodeDuration", a.Doc.Summary.Rows[0].Metric)
	assert.Equal(t, "QueueLength (intervals)", a.Doc.Summary.Rows[1].Metric)
	require.Len(t, a.Warnings(), 1)
	assert.Equal(t, "CumulativeReward", a.Warnings()[0].Scope)

	opts.Comparisons = []ComparisonSpec{{Table: dataset.Episodes, Metric: "Episode"}}
	a, err = Run(opts)
	require.NoError(t, err)
	assert.Empty(t, a.Doc.Summary.Rows)
	require.Len(t, a.Warnings(), 1)
	assert.Contains(t, a.Warnings()[0].Message, "no comparison policy")
}

func TestRunWarnsOnNonMonotonicTime(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"episode_results.csv":        mlEpisodes,
		"static_episode_results.csv": staticEpisodes,
		"interval_data.csv":          "SimulationTime,QueueLength\n10,1\n0,2\n",
		"static_interval_data.csv":   staticIntervals,
	})
	a, err := Run(DefaultOptions(dir))
	require.NoError(t, err)

	var found bool
	for _, w := range a.Warnings() {
		if w.Scope == "dataset" {
			found = true
			assert.Contains(t, w.Message, "not monotonic")
		}
	}
	assert.True(t, found)
	interval(t, a, "QueueLength")
}

func TestIntervalHalfRowsCountMissingCells(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"episode_results.csv":        mlEpisodes,
		"static_episode_results.csv": staticEpisodes,
		"interval_data.csv":          "SimulationTime,VehiclesWaiting,QueueLength\n0,1,\n10,1,\n20,1,6\n30,1,8\n40,1,1\n50,1,1\n60,1,1\n70,1,1\n",
		"static_interval_data.csv":   "SimulationTime,VehiclesWaiting,QueueLength\n0,2,9\n10,2,9\n20,2,9\n30,2,9\n40,2,9\n50,2,9\n60,2,9\n70,2,9\n",
	})
	a, err := Run(DefaultOptions(dir))
	require.NoError(t, err)

	queue := interval(t, a, "QueueLength")
	assert.Equal(t, 2, queue.FirstHalf.Primary.Count)
	assert.InDelta(t, 7, queue.FirstHalf.Primary.Mean.Or(0), 1e-12)
	assert.Equal(t, 4, queue.HalfRows[dataset.Primary])
	assert.Equal(t, 4, queue.HalfRows[dataset.Baseline])

	pts := a.Points(dataset.Primary, "QueueLength", queue.HalfRows[dataset.Primary])
	assert.Equal(t, []Point{{X: 20, Y: 6}, {X: 30, Y: 8}}, pts)
}

func TestIntervalWarnsOnUndefinedImprovement(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"episode_results.csv":        mlEpisodes,
		"static_episode_results.csv": staticEpisodes,
		"interval_data.csv":          mlIntervals,
		"static_interval_data.csv":   "SimulationTime,TotalVehicles,VehiclesWaiting,QueueLength\n0,5,4,0\n10,6,6,0\n20,7,6,0\n30,8,8,0\n",
	})
	a, err := Run(DefaultOptions(dir))
	require.NoError(t, err)

	queue := interval(t, a, "QueueLength")
	assert.False(t, queue.Full.ImprovementPct.Valid())
	assert.False(t, queue.FirstHalf.ImprovementPct.Valid())

	var messages []string
	for _, w := range a.Warnings() {
		if w.Scope == "QueueLength (intervals)" {
			messages = append(messages, w.Message)
		}
	}
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "improvement undefined")
	assert.Contains(t, messages[1], "first half improvement undefined")
	assert.Equal(t, a.Warnings(), a.Doc.Summary.Warnings)
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions(".")
	require.NoError(t, opts.Validate())

	opts.Comparisons = []ComparisonSpec{{Table: "lanes", Metric: "QueueLength"}}
	assert.Error(t, opts.Validate())

	opts = DefaultOptions(".")
	opts.Derived.Denominator = ""
	assert.Error(t, opts.Validate())

	_, err := RunOn(dataset.NewCollection(), opts)
	assert.Error(t, err)
}

func TestDocumentFeedsDashboard(t *testing.T) {
	a, err := Run(DefaultOptions(fullFixtures(t)))
	require.NoError(t, err)

	html, err := report.GenerateDashboard("Traffic Signal Control", a.Doc)
	require.NoError(t, err)
	assert.Contains(t, html, `"timeSeries":[`)
	assert.Contains(t, html, `"scoreboard":{"primaryWins":2`)
}
