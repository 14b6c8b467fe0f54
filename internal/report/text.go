package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/mwiater/signalcmp/internal/compare"
	"github.com/mwiater/signalcmp/internal/metrics"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	metricStyle = cellStyle.Foreground(lipgloss.Color("229"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	mlBetter     = color.New(color.FgGreen).SprintFunc()
	staticBetter = color.New(color.FgRed).SprintFunc()
	noVerdict    = color.New(color.FgYellow).SprintFunc()
	warnLabel    = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// Title renders a section banner.
func Title(w io.Writer, title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, rule)
}

// RenderDetails prints the per-metric comparison block.
func RenderDetails(w io.Writer, t Table) {
	for _, r := range t.Rows {
		fmt.Fprintf(w, "\n%s:\n", r.Metric)
		fmt.Fprintf(w, "  ML Agent    - Mean: %s, Std: %s\n", Number(r.PrimaryMean), Number(r.PrimaryStd))
		fmt.Fprintf(w, "  Static      - Mean: %s, Std: %s\n", Number(r.BaselineMean), Number(r.BaselineStd))
		fmt.Fprintf(w, "  Improvement: %s %s\n", Percent(r.ImprovementPct), VerdictLabel(r.Verdict()))
	}
}

// VerdictLabel colours a verdict for the console.
func VerdictLabel(v compare.Verdict) string {
	label := "(" + string(v) + ")"
	switch v {
	case compare.PrimaryBetter:
		return mlBetter(label)
	case compare.BaselineBetter:
		return staticBetter(label)
	default:
		return noVerdict(label)
	}
}

// Cells returns the display strings of a row in Headers order.
func Cells(r Row) []string {
	return []string{
		r.Metric,
		Number(r.PrimaryMean),
		Number(r.BaselineMean),
		Number(r.PrimaryStd),
		Number(r.BaselineStd),
		Percent(r.ImprovementPct),
	}
}

// RenderTable prints the summary table rounded to two decimals, followed by
// any warnings.
func RenderTable(w io.Writer, t Table) {
	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(Headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return metricStyle
			default:
				return cellStyle
			}
		})
	for _, r := range t.Rows {
		tbl.Row(Cells(r)...)
	}
	fmt.Fprintln(w, tbl.Render())
	RenderWarnings(w, t.Warnings)
}

// RenderWarnings lists skipped computations.
func RenderWarnings(w io.Writer, warnings []Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, warning := range warnings {
		fmt.Fprintf(w, "%s %s\n", warnLabel("warning:"), warning)
	}
}

// RenderText prints the full comparison section: details, then the table.
func RenderText(w io.Writer, t Table) {
	Title(w, "STATISTICAL COMPARISON")
	RenderDetails(w, t)
	Title(w, "SUMMARY TABLE")
	RenderTable(w, t)
}

// RenderScoreboard prints the win tally.
func RenderScoreboard(w io.Writer, sb compare.Scoreboard) {
	Title(w, "COMPREHENSIVE PERFORMANCE REPORT")
	fmt.Fprintln(w, "\nOverall Performance Summary:")
	fmt.Fprintf(w, "  Metrics where ML performs better: %d\n", sb.PrimaryWins)
	fmt.Fprintf(w, "  Metrics where Static performs better: %d\n", sb.BaselineWins)
	if sb.Undecided > 0 {
		fmt.Fprintf(w, "  Metrics without a verdict: %d\n", sb.Undecided)
	}
	fmt.Fprintf(w, "\n%s\n", titleStyle.Render(sb.Winner()))
}

// RenderTrend prints the learning analysis of the primary controller.
func RenderTrend(w io.Writer, trend metrics.Trend) {
	fmt.Fprintln(w, "\nML Learning Analysis:")
	fmt.Fprintf(w, "  Reward trend: %s (%s/episode)\n", trend.Label(), Fixed(trend.Slope, 4))
	fmt.Fprintf(w, "  Final reward: %s\n", Number(trend.Final))
	fmt.Fprintf(w, "  Best reward: %s\n", Number(trend.Best))
}
