package report

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/mwiater/signalcmp/internal/metrics"
	"github.com/mwiater/signalcmp/internal/util"
)

// SummaryFile is the default name of the exported summary table.
const SummaryFile = "performance_comparison_summary.csv"

// csvRecord is the on-disk shape of a Row. Numbers keep full precision;
// undefined values are written as the Unavailable sentinel.
type csvRecord struct {
	Metric         string `csv:"Metric"`
	PrimaryMean    string `csv:"ML_Mean"`
	BaselineMean   string `csv:"Static_Mean"`
	PrimaryStd     string `csv:"ML_Std"`
	BaselineStd    string `csv:"Static_Std"`
	ImprovementPct string `csv:"Improvement_%"`
}

func toRecord(r Row) *csvRecord {
	return &csvRecord{
		Metric:         r.Metric,
		PrimaryMean:    r.PrimaryMean.String(),
		BaselineMean:   r.BaselineMean.String(),
		PrimaryStd:     r.PrimaryStd.String(),
		BaselineStd:    r.BaselineStd.String(),
		ImprovementPct: r.ImprovementPct.String(),
	}
}

func (rec *csvRecord) row() (Row, error) {
	row := Row{Metric: rec.Metric}
	cols := []struct {
		name string
		raw  string
		dst  *metrics.Value
	}{
		{"ML_Mean", rec.PrimaryMean, &row.PrimaryMean},
		{"Static_Mean", rec.BaselineMean, &row.BaselineMean},
		{"ML_Std", rec.PrimaryStd, &row.PrimaryStd},
		{"Static_Std", rec.BaselineStd, &row.BaselineStd},
		{"Improvement_%", rec.ImprovementPct, &row.ImprovementPct},
	}
	for _, c := range cols {
		v, err := metrics.ParseValue(c.raw)
		if err != nil {
			return Row{}, fmt.Errorf("metric %q column %s: %w", rec.Metric, c.name, err)
		}
		*c.dst = v
	}
	return row, nil
}

// WriteCSV writes the summary table as CSV.
func WriteCSV(w io.Writer, t Table) error {
	records := make([]*csvRecord, 0, len(t.Rows))
	for _, r := range t.Rows {
		records = append(records, toRecord(r))
	}
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("write summary csv: %w", err)
	}
	return nil
}

// ParseCSV reads a table written by WriteCSV. Warnings are not part of the
// CSV and come back empty.
func ParseCSV(r io.Reader) (Table, error) {
	var records []*csvRecord
	if err := gocsv.Unmarshal(r, &records); err != nil {
		return Table{}, fmt.Errorf("parse summary csv: %w", err)
	}
	t := Table{Rows: make([]Row, 0, len(records))}
	for _, rec := range records {
		row, err := rec.row()
		if err != nil {
			return Table{}, fmt.Errorf("parse summary csv: %w", err)
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// SaveCSV writes the table to path, creating parent directories.
func SaveCSV(path string, t Table) error {
	if err := util.EnsureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadCSV reads a summary table from path.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseCSV(f)
}
