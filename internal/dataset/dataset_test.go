package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestReadTableParsesMissingMarkers(t *testing.T) {
	csv := "Episode,TotalVehicles,VehiclesWaiting\n1,100,5\n2,,NaN\n3,120,oops\n4,N/A\n"
	tbl, err := ReadTable(strings.NewReader(csv), Primary, Episodes)
	require.NoError(t, err)

	assert.Equal(t, 4, tbl.Len())
	assert.Equal(t, []string{"Episode", "TotalVehicles", "VehiclesWaiting"}, tbl.Columns)
	assert.Equal(t, 1, tbl.InvalidCells)

	total, err := tbl.Column("TotalVehicles")
	require.NoError(t, err)
	assert.Equal(t, 4, total.Len())
	assert.Equal(t, []float64{100, 120}, total.Valid())

	waiting, err := tbl.Column("VehiclesWaiting")
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, waiting.Valid())

	_, err = tbl.Column("QueueLength")
	assert.ErrorIs(t, err, ErrColumnMissing)

	rec := tbl.Record(1)
	assert.True(t, rec["Episode"].Valid())
	assert.False(t, rec["TotalVehicles"].Valid())
	assert.Nil(t, tbl.Record(10))
}

func TestReadTableEmptyFile(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""), Primary, Episodes)
	assert.Error(t, err)
}

func TestTableHead(t *testing.T) {
	csv := "SimulationTime,QueueLength\n0,1\n10,2\n20,3\n30,4\n40,5\n"
	tbl, err := ReadTable(strings.NewReader(csv), Baseline, Intervals)
	require.NoError(t, err)

	head := tbl.Head(tbl.Len() / 2)
	assert.Equal(t, 2, head.Len())
	q, err := head.Column("QueueLength")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, q.Valid())
	assert.Equal(t, 5, tbl.Len(), "the source table is untouched")
}

func TestLoadResolvesAliasesAndDegrades(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "episode_results.csv",
		"Episode,TotalVehicles,VehiclesWaiting,EpisodeDuration,CurrentReward,CurrentPhase,GreenLightTime\n1,100,10,60,0.5,0,5\n2,110,12,60,0.7,1,0\n")
	writeCSV(t, dir, "static_episode_results.csv",
		"Episode,TotalVehicles,VehiclesWaiting,EpisodeDuration,Throughput,CurrentPhase,PhaseGreenTime\n1,90,20,60,3,0,10\n")
	writeCSV(t, dir, "interval_data.csv",
		"SimulationTime,Episode,Step,TotalVehicles,QueueLength\n0,1,0,1,2\n10,1,1,2,3\n5,1,2,3,4\n")

	c := Load(Sources{Dir: dir})
	caps := c.Capabilities()

	assert.True(t, caps.Status(Primary, Episodes).Loaded)
	assert.True(t, caps.Status(Baseline, Episodes).Loaded)
	assert.True(t, caps.Status(Primary, Intervals).Loaded)
	assert.False(t, caps.Status(Baseline, Intervals).Loaded)
	assert.False(t, caps.Status(Primary, Rewards).Loaded)

	col, ok := caps.Column(Primary, Episodes, FieldGreenTime)
	require.True(t, ok)
	assert.Equal(t, "GreenLightTime", col)
	col, ok = caps.Column(Baseline, Episodes, FieldGreenTime)
	require.True(t, ok)
	assert.Equal(t, "PhaseGreenTime", col)
	assert.True(t, caps.Both(Episodes, FieldGreenTime))

	assert.False(t, caps.Has(Primary, Episodes, FieldCumulativeReward))
	assert.Contains(t, caps.Status(Primary, Episodes).Missing, FieldCumulativeReward)
	assert.True(t, caps.Has(Primary, Episodes, "CurrentReward"), "undeclared columns are still reachable")
	assert.False(t, caps.Both(Intervals, FieldQueueLength))
	assert.False(t, caps.Status(Primary, Intervals).Monotonic)

	green, err := c.Series(Baseline, Episodes, FieldGreenTime)
	require.NoError(t, err)
	assert.Equal(t, FieldGreenTime, green.Name())
	assert.Equal(t, []float64{10}, green.Valid())

	_, err = c.Series(Baseline, Intervals, FieldQueueLength)
	assert.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, 1, strings.Count(err.Error(), ErrDataUnavailable.Error()), err.Error())
	assert.NotContains(t, caps.Status(Baseline, Intervals).Error, ErrDataUnavailable.Error())
	assert.Contains(t, caps.Status(Baseline, Intervals).Error, "static_interval_data.csv")
	_, err = c.Series(Primary, Episodes, FieldCumulativeReward)
	assert.ErrorIs(t, err, ErrColumnMissing)

	stats, err := c.Aggregate(Primary, Episodes, FieldTotalVehicles)
	require.NoError(t, err)
	assert.InDelta(t, 105, stats.Mean.Or(0), 1e-12)
}

func TestCapabilitiesAllOrdering(t *testing.T) {
	c := Load(Sources{Dir: t.TempDir()})
	all := c.Capabilities().All()
	require.Len(t, all, 6)
	assert.Equal(t, Primary, all[0].Role)
	assert.Equal(t, Episodes, all[0].Table)
	assert.Equal(t, Baseline, all[5].Role)
	assert.Equal(t, Rewards, all[5].Table)
	for _, st := range all {
		assert.False(t, st.Loaded)
		assert.NotEmpty(t, st.Error)
	}
}

func TestSourcesPath(t *testing.T) {
	src := Sources{
		Dir:   "data",
		Files: map[Role]map[TableName]string{Primary: {Episodes: "ml.csv"}},
	}
	assert.Equal(t, filepath.Join("data", "ml.csv"), src.Path(Primary, Episodes))
	assert.Equal(t, filepath.Join("data", "static_interval_data.csv"), src.Path(Baseline, Intervals))
}

func TestNewCollection(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("TotalVehicles\n1\n2\n"), Primary, Episodes)
	require.NoError(t, err)
	c := NewCollection(tbl)
	assert.True(t, c.Capabilities().Has(Primary, Episodes, FieldTotalVehicles))
	assert.False(t, c.Capabilities().Status(Baseline, Episodes).Loaded)

	_, err = c.Table(Baseline, Episodes)
	require.ErrorIs(t, err, ErrDataUnavailable)
	assert.Equal(t, "data unavailable: baseline episodes: not provided", err.Error())
}

func TestRoleLabels(t *testing.T) {
	assert.Equal(t, "ML Agent", Primary.Label())
	assert.Equal(t, "Static", Baseline.Short())
}
