// Package report turns comparison results into the summary table and renders
// it for the console, CSV, JSON and HTML.
package report

import (
	"fmt"
	"strings"

	"github.com/mwiater/signalcmp/internal/compare"
	"github.com/mwiater/signalcmp/internal/dataset"
	"github.com/mwiater/signalcmp/internal/metrics"
)

// Column headers of the summary table, in output order.
var Headers = []string{
	"Metric",
	dataset.Primary.Short() + "_Mean",
	dataset.Baseline.Short() + "_Mean",
	dataset.Primary.Short() + "_Std",
	dataset.Baseline.Short() + "_Std",
	"Improvement_%",
}

// Row is one line of the summary table.
type Row struct {
	Metric         string        `json:"metric"`
	PrimaryMean    metrics.Value `json:"mlMean"`
	BaselineMean   metrics.Value `json:"staticMean"`
	PrimaryStd     metrics.Value `json:"mlStd"`
	BaselineStd    metrics.Value `json:"staticStd"`
	ImprovementPct metrics.Value `json:"improvementPct"`
}

// Verdict reads the improvement sign the same way compare.Result does.
func (r Row) Verdict() compare.Verdict {
	return compare.Result{ImprovementPct: r.ImprovementPct}.Verdict()
}

// Warning records a computation that was skipped or degraded.
type Warning struct {
	Scope   string `json:"scope"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Scope == "" {
		return w.Message
	}
	return w.Scope + ": " + w.Message
}

// Table is the ordered summary table plus the warnings gathered while
// producing it.
type Table struct {
	Rows     []Row     `json:"rows"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// Build produces one row per result, preserving input order.
func Build(results []compare.Result) Table {
	rows := make([]Row, 0, len(results))
	for _, r := range results {
		rows = append(rows, Row{
			Metric:         Label(r.Table, r.Metric),
			PrimaryMean:    r.Primary.Mean,
			BaselineMean:   r.Baseline.Mean,
			PrimaryStd:     r.Primary.StdDev,
			BaselineStd:    r.Baseline.StdDev,
			ImprovementPct: r.ImprovementPct,
		})
	}
	return Table{Rows: rows}
}

// Label names a row. Episode metrics keep their bare name; metrics of other
// tables carry the table as a suffix.
func Label(table, metric string) string {
	table = strings.TrimSpace(table)
	if table == "" || table == "episodes" {
		return metric
	}
	return fmt.Sprintf("%s (%s)", metric, table)
}

// Warn appends a warning.
func (t *Table) Warn(scope, format string, args ...any) {
	t.Warnings = append(t.Warnings, Warning{Scope: scope, Message: fmt.Sprintf(format, args...)})
}

// Lookup returns the row with the given label.
func (t Table) Lookup(metric string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Metric == metric {
			return r, true
		}
	}
	return Row{}, false
}
