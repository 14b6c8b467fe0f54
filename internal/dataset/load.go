// internal/dataset/load.go
package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mwiater/signalcmp/internal/logging"
	"github.com/mwiater/signalcmp/internal/metrics"
)

// Sources maps every (role, table) to a CSV file name relative to Dir.
type Sources struct {
	Dir   string
	Files map[Role]map[TableName]string
}

// DefaultFiles are the file names the simulation loggers write.
func DefaultFiles() map[Role]map[TableName]string {
	return map[Role]map[TableName]string{
		Primary: {
			Episodes:  "episode_results.csv",
			Intervals: "interval_data.csv",
			Rewards:   "reward_progress.csv",
		},
		Baseline: {
			Episodes:  "static_episode_results.csv",
			Intervals: "static_interval_data.csv",
			Rewards:   "static_reward_progress.csv",
		},
	}
}

// Path returns the resolved path for a source, falling back to the default
// file name when none is configured.
func (s Sources) Path(role Role, table TableName) string {
	name := ""
	if files, ok := s.Files[role]; ok {
		name = files[table]
	}
	if name == "" {
		name = DefaultFiles()[role][table]
	}
	if filepath.IsAbs(name) || s.Dir == "" {
		return name
	}
	return filepath.Join(s.Dir, name)
}

// Collection holds every table that loaded, plus the capability descriptor
// covering the ones that did not.
type Collection struct {
	tables map[tableKey]*Table
	caps   *Capabilities
}

// Load reads every declared table for both roles. A table that cannot be read
// is recorded as unavailable; Load itself never fails.
func Load(src Sources) *Collection {
	c := &Collection{
		tables: make(map[tableKey]*Table),
		caps:   newCapabilities(),
	}
	for _, role := range Roles() {
		for _, schema := range Schemas {
			path := src.Path(role, schema.Table)
			t, err := readFile(path, role, schema.Table)
			if err != nil {
				c.caps.record(&TableStatus{
					Role:     role,
					Table:    schema.Table,
					Path:     path,
					Optional: schema.Optional,
					Error:    err.Error(),
					Present:  []string{},
					Missing:  []string{},
				})
				logging.LogDebug("[DATASET] %s %s unavailable: %v", role, schema.Table, err)
				continue
			}
			c.tables[tableKey{role, schema.Table}] = t
			st := describe(t, schema)
			c.caps.record(st)
			logging.LogDebug("[DATASET] loaded %s %s from %s: %d rows, %d columns", role, schema.Table, path, st.Rows, st.Columns)
		}
	}
	return c
}

// NewCollection builds a collection from tables that are already parsed.
func NewCollection(tables ...*Table) *Collection {
	c := &Collection{
		tables: make(map[tableKey]*Table),
		caps:   newCapabilities(),
	}
	for _, role := range Roles() {
		for _, schema := range Schemas {
			c.caps.record(&TableStatus{
				Role:     role,
				Table:    schema.Table,
				Optional: schema.Optional,
				Error:    "not provided",
				Present:  []string{},
				Missing:  []string{},
			})
		}
	}
	for _, t := range tables {
		schema, _ := SchemaFor(t.Name)
		c.tables[tableKey{t.Role, t.Name}] = t
		c.caps.record(describe(t, schema))
	}
	return c
}

// readFile returns the bare cause on failure; Collection.Table adds the
// ErrDataUnavailable context when the table is asked for.
func readFile(path string, role Role, table TableName) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	t, err := ReadTable(f, role, table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Path = path
	return t, nil
}

// Capabilities returns the descriptor computed at load time.
func (c *Collection) Capabilities() *Capabilities { return c.caps }

// Table returns a loaded table.
func (c *Collection) Table(role Role, table TableName) (*Table, error) {
	t, ok := c.tables[tableKey{role, table}]
	if !ok {
		if st := c.caps.Status(role, table); st != nil && st.Error != "" {
			return nil, fmt.Errorf("%w: %s %s: %s", ErrDataUnavailable, role, table, st.Error)
		}
		return nil, fmt.Errorf("%w: %s %s", ErrDataUnavailable, role, table)
	}
	return t, nil
}

// Series returns the samples of a field for one role and table. Logical
// fields such as GreenTime are resolved through the capability descriptor;
// the returned series carries the field name.
func (c *Collection) Series(role Role, table TableName, fieldName string) (metrics.Series, error) {
	t, err := c.Table(role, table)
	if err != nil {
		return metrics.Series{}, err
	}
	col, ok := c.caps.Column(role, table, fieldName)
	if !ok {
		return metrics.Series{}, fmt.Errorf("%w: %s %s has no %q", ErrColumnMissing, role, table, fieldName)
	}
	s, err := t.Column(col)
	if err != nil {
		return metrics.Series{}, err
	}
	return s.Renamed(fieldName), nil
}

// Aggregate is the statistics accessor by (role, table, field).
func (c *Collection) Aggregate(role Role, table TableName, fieldName string) (metrics.AggregateStats, error) {
	s, err := c.Series(role, table, fieldName)
	if err != nil {
		return metrics.AggregateStats{}, err
	}
	return metrics.Aggregate(s), nil
}
