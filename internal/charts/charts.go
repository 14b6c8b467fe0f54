// Package charts renders the comparison as PNG images.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/mwiater/signalcmp/internal/analysis"
	"github.com/mwiater/signalcmp/internal/dataset"
	"github.com/mwiater/signalcmp/internal/logging"
	"github.com/mwiater/signalcmp/internal/metrics"
	"github.com/mwiater/signalcmp/internal/report"
	"github.com/mwiater/signalcmp/internal/util"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	primaryColor  = drawing.ColorFromHex("2E86AB")
	baselineColor = drawing.ColorFromHex("F24236")
)

// ThroughputFile is the bar chart of the derived ratio.
const ThroughputFile = "throughput_comparison.png"

// Renderer writes charts into Dir.
type Renderer struct {
	Dir    string
	Width  int
	Height int
}

// NewRenderer returns a renderer with the default image size.
func NewRenderer(dir string) *Renderer {
	return &Renderer{Dir: dir, Width: 1200, Height: 600}
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Render draws every chart the analysis has data for and returns the written
// paths. A chart without enough data is skipped with a warning; only file
// system errors fail the call.
func (r *Renderer) Render(a *analysis.Analysis) ([]string, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}
	var written []string
	emit := func(name string, c renderable, ok bool) error {
		if !ok {
			logging.LogWarn("[charts] %s skipped: not enough data", name)
			return nil
		}
		path := filepath.Join(r.Dir, name)
		saved, err := r.save(path, c)
		if err != nil {
			return err
		}
		if saved {
			written = append(written, path)
		}
		return nil
	}

	for _, s := range a.Doc.EpisodeStats {
		if !s.Available {
			continue
		}
		c, ok := r.meanBars(s.Metric, s.Primary.Mean, s.Baseline.Mean)
		if err := emit("episode_"+s.Metric+".png", c, ok); err != nil {
			return written, err
		}
	}

	for _, ts := range a.Doc.TimeSeries {
		c, ok := r.lines(ts.Metric+" Over Time", ts.Metric, ts.Primary, ts.Baseline)
		if err := emit("interval_data_"+ts.Metric+".png", c, ok); err != nil {
			return written, err
		}
	}

	for _, ic := range a.Doc.Intervals {
		p := firstHalf(a, ic, dataset.Primary)
		b := firstHalf(a, ic, dataset.Baseline)
		c, ok := r.lines(firstHalfTitle(ic), ic.Metric, p, b)
		if err := emit(Snake(ic.Metric)+"_comparison_first_half.png", c, ok); err != nil {
			return written, err
		}
	}

	if tp := a.Doc.Throughput; tp != nil {
		c, ok := r.meanBars(tp.Metric, tp.Primary.Mean, tp.Baseline.Mean)
		if err := emit(ThroughputFile, c, ok); err != nil {
			return written, err
		}
	}

	logging.LogEvent("[charts] wrote %d charts to %s", len(written), r.Dir)
	return written, nil
}

// firstHalf returns the points of the rows a first-half comparison covered.
func firstHalf(a *analysis.Analysis, ic analysis.IntervalComparison, role dataset.Role) []analysis.Point {
	rows := ic.HalfRows[role]
	if rows == 0 {
		return nil
	}
	return a.Points(role, ic.Metric, rows)
}

func firstHalfTitle(ic analysis.IntervalComparison) string {
	return fmt.Sprintf("%s (First Half) - ML Mean: %s, Static Mean: %s, Improvement: %s",
		ic.Metric,
		report.Number(ic.FirstHalf.Primary.Mean),
		report.Number(ic.FirstHalf.Baseline.Mean),
		report.PercentFixed(ic.FirstHalf.ImprovementPct, 1))
}

func (r *Renderer) save(path string, c renderable) (bool, error) {
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		logging.LogWarn("[charts] %s render failed: %v", filepath.Base(path), err)
		return false, nil
	}
	if err := util.WriteFile(path, buf.Bytes()); err != nil {
		return false, err
	}
	return true, nil
}

// meanBars is a two-bar chart of the controllers' means.
func (r *Renderer) meanBars(metric string, primary, baseline metrics.Value) (*chart.BarChart, bool) {
	p, okP := primary.Float64()
	b, okB := baseline.Float64()
	if !okP && !okB {
		return nil, false
	}
	var bars []chart.Value
	if okP {
		bars = append(bars, chart.Value{Label: "ML Agent", Value: p, Style: barStyle(primaryColor)})
	}
	if okB {
		bars = append(bars, chart.Value{Label: "Static Controller", Value: b, Style: barStyle(baselineColor)})
	}
	lo, hi := math.Min(0, math.Min(p, b)), math.Max(0, math.Max(p, b))
	yRange := padded(lo, hi)
	if lo == 0 {
		yRange.Min = 0
	}
	return &chart.BarChart{
		Title:      fmt.Sprintf("%s - ML Mean: %s, Static Mean: %s", metric, report.Number(primary), report.Number(baseline)),
		Width:      r.Width,
		Height:     r.Height,
		BarWidth:   120,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis:      chart.YAxis{Name: metric, Range: yRange},
		Bars:       bars,
	}, true
}

func barStyle(c drawing.Color) chart.Style {
	return chart.Style{FillColor: c, StrokeColor: c, StrokeWidth: 1}
}

// lines plots each controller against simulation time. Series with fewer than
// two points cannot be drawn and are left out.
func (r *Renderer) lines(title, yName string, primary, baseline []analysis.Point) (*chart.Chart, bool) {
	var series []chart.Series
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	add := func(name string, pts []analysis.Point, c drawing.Color) {
		if len(pts) < 2 {
			return
		}
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		for i, p := range pts {
			xs[i], ys[i] = p.X, p.Y
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: ys,
			Style:   chart.Style{StrokeColor: c, StrokeWidth: 2},
		})
	}
	add("ML Agent", primary, primaryColor)
	add("Static Controller", baseline, baselineColor)
	if len(series) == 0 {
		return nil, false
	}

	c := &chart.Chart{
		Title:      title,
		Width:      r.Width,
		Height:     r.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Simulation Time (s)", Range: padded(minX, maxX)},
		YAxis:      chart.YAxis{Name: yName, Range: padded(minY, maxY)},
		Series:     series,
	}
	c.Elements = []chart.Renderable{chart.Legend(c)}
	return c, true
}

// padded widens [lo, hi] by 5%, or by a fixed margin when the range is flat,
// so go-chart never sees a zero-width axis.
func padded(lo, hi float64) *chart.ContinuousRange {
	if hi <= lo {
		pad := math.Max(math.Abs(lo)*0.1, 1)
		return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
	}
	pad := (hi - lo) * 0.05
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

// Snake converts a CamelCase metric name to snake_case.
func Snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
