// internal/dataset/table.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/mwiater/signalcmp/internal/metrics"
)

// Table is one loaded CSV: an ordered sequence of records with named numeric
// fields. Tables are never mutated after ReadTable returns.
type Table struct {
	Name         TableName
	Role         Role
	Path         string
	Columns      []string
	InvalidCells int

	rows    int
	columns map[string]metrics.Series
}

// missingTokens are cell values treated as absent.
var missingTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"na":   {},
	"n/a":  {},
	"null": {},
	"none": {},
}

// ReadTable parses CSV with a header row. Cells that are empty, a missing
// marker, or not numeric become missing samples.
func ReadTable(r io.Reader, role Role, name TableName) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("reading CSV header: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	values := make([][]float64, len(columns))
	present := make([][]bool, len(columns))
	invalid := 0
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", rows+2, err)
		}
		for i := range columns {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			v, ok, bad := parseCell(cell)
			if bad {
				invalid++
			}
			values[i] = append(values[i], v)
			present[i] = append(present[i], ok)
		}
		rows++
	}

	t := &Table{
		Name:         name,
		Role:         role,
		Columns:      columns,
		InvalidCells: invalid,
		rows:         rows,
		columns:      make(map[string]metrics.Series, len(columns)),
	}
	for i, col := range columns {
		if _, dup := t.columns[col]; dup {
			continue
		}
		t.columns[col] = metrics.NewSeries(col, values[i], present[i])
	}
	return t, nil
}

func parseCell(cell string) (value float64, ok bool, invalid bool) {
	if _, missing := missingTokens[strings.ToLower(cell)]; missing {
		return 0, false, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, false, true
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, false
	}
	return v, true, false
}

// Len returns the number of records.
func (t *Table) Len() int { return t.rows }

// HasColumn reports whether the header carries col.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.columns[col]
	return ok
}

// Column returns the samples of one column.
func (t *Table) Column(col string) (metrics.Series, error) {
	s, ok := t.columns[col]
	if !ok {
		return metrics.Series{}, fmt.Errorf("%w: %s %s has no %q", ErrColumnMissing, t.Role, t.Name, col)
	}
	return s, nil
}

// Record returns row i as named values; missing cells are undefined.
func (t *Table) Record(i int) map[string]metrics.Value {
	if i < 0 || i >= t.rows {
		return nil
	}
	rec := make(map[string]metrics.Value, len(t.Columns))
	for _, col := range t.Columns {
		if v, ok := t.columns[col].At(i); ok {
			rec[col] = metrics.Defined(v)
		} else {
			rec[col] = metrics.Undefined()
		}
	}
	return rec
}

// Head returns a view of the first n records.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > t.rows {
		n = t.rows
	}
	head := &Table{
		Name:    t.Name,
		Role:    t.Role,
		Path:    t.Path,
		Columns: t.Columns,
		rows:    n,
		columns: make(map[string]metrics.Series, len(t.columns)),
	}
	for col, s := range t.columns {
		head.columns[col] = s.Head(n)
	}
	return head
}

// monotonic reports whether the present samples of col never decrease.
func (t *Table) monotonic(col string) bool {
	s, ok := t.columns[col]
	if !ok {
		return false
	}
	prev := math.Inf(-1)
	for i := 0; i < s.Len(); i++ {
		v, ok := s.At(i)
		if !ok {
			continue
		}
		if v < prev {
			return false
		}
		prev = v
	}
	return true
}
