package analysis

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/mwiater/signalcmp/internal/dataset"
	"github.com/mwiater/signalcmp/internal/metrics"
	"github.com/mwiater/signalcmp/internal/report"
)

// RenderDataSummary prints row and column counts per controller and table.
func (a *Analysis) RenderDataSummary(w io.Writer) {
	report.Title(w, "DATA SUMMARY")
	for _, role := range dataset.Roles() {
		fmt.Fprintf(w, "\n%s Data:\n", role.Label())
		for _, st := range a.Doc.Capabilities {
			if st.Role != role {
				continue
			}
			if !st.Loaded {
				fmt.Fprintf(w, "  %s: not available\n", st.Table)
				continue
			}
			fmt.Fprintf(w, "  %s: %d rows, %d columns\n", st.Table, st.Rows, st.Columns)
		}
	}
}

// RenderEpisodeStats prints the per-role statistics of the episode metrics.
func (a *Analysis) RenderEpisodeStats(w io.Writer) {
	report.Title(w, "EPISODE PERFORMANCE")
	for _, s := range a.Doc.EpisodeStats {
		if s.Primary.Count == 0 && s.Baseline.Count == 0 {
			fmt.Fprintf(w, "\n%s: Not Available\n", s.Metric)
			continue
		}
		fmt.Fprintf(w, "\n%s:\n", s.Metric)
		fmt.Fprintf(w, "  ML Mean: %s  Median: %s  Min: %s  Max: %s\n",
			report.Number(s.Primary.Mean), report.Number(s.Primary.Median),
			report.Number(s.Primary.Min), report.Number(s.Primary.Max))
		fmt.Fprintf(w, "  Static Mean: %s  Median: %s  Min: %s  Max: %s\n",
			report.Number(s.Baseline.Mean), report.Number(s.Baseline.Median),
			report.Number(s.Baseline.Min), report.Number(s.Baseline.Max))
	}
}

// RenderIntervals prints the full-run and first-half interval comparisons.
func (a *Analysis) RenderIntervals(w io.Writer) {
	report.Title(w, "INTERVAL COMPARISON")
	for _, ic := range a.Doc.Intervals {
		fmt.Fprintf(w, "\n%s:\n", ic.Metric)
		fmt.Fprintf(w, "  Full run    - ML Mean: %s, Static Mean: %s, Improvement: %s\n",
			report.Number(ic.Full.Primary.Mean), report.Number(ic.Full.Baseline.Mean), report.Percent(ic.Full.ImprovementPct))
		fmt.Fprintf(w, "  First half  - ML Mean: %s, Static Mean: %s, Improvement: %s\n",
			report.Number(ic.FirstHalf.Primary.Mean), report.Number(ic.FirstHalf.Baseline.Mean), report.Percent(ic.FirstHalf.ImprovementPct))
	}
}

// RenderThroughput prints each controller's average derived ratio and the
// improvement between them.
func (a *Analysis) RenderThroughput(w io.Writer) {
	d := a.opts.Derived
	if d.Name == "" {
		return
	}
	report.Title(w, "THROUGHPUT")
	for _, role := range dataset.Roles() {
		ratio, ok := a.Ratios[role]
		if !ok {
			fmt.Fprintf(w, "%s: required columns missing\n", role.Label())
			continue
		}
		path := filepath.Base(a.opts.Sources.Path(role, d.Table))
		col := d.Denominator
		if a.Doc.Throughput != nil && a.Doc.Throughput.Denominators[role] != "" {
			col = a.Doc.Throughput.Denominators[role]
		}
		fmt.Fprintf(w, "%s average %s (%s): %s\n", path, d.Name, col, report.Fixed(metrics.MeanOf(ratio), 4))
	}
	if a.Doc.Throughput == nil {
		fmt.Fprintln(w, "Improvement: N/A")
		return
	}
	imp := a.Doc.Throughput.ImprovementPct
	if !imp.Valid() {
		fmt.Fprintln(w, "Improvement: N/A")
		return
	}
	fmt.Fprintf(w, "Improvement: %s %s\n", report.PercentFixed(imp, 4), report.VerdictLabel(a.Doc.Throughput.Verdict()))
}

// RenderReport prints every text section of a complete run.
func (a *Analysis) RenderReport(w io.Writer) {
	a.RenderDataSummary(w)
	a.RenderEpisodeStats(w)
	a.RenderIntervals(w)
	report.RenderText(w, a.Doc.Summary)
	report.RenderScoreboard(w, a.Doc.Scoreboard)
	if a.Doc.Learning != nil && a.Doc.Learning.Count > 1 {
		report.RenderTrend(w, *a.Doc.Learning)
	}
	a.RenderThroughput(w)
}
