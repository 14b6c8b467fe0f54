// internal/dataset/capabilities.go
package dataset

import "sort"

// TableStatus is what the loader learned about one (role, table) source.
type TableStatus struct {
	Role         Role              `json:"role"`
	Table        TableName         `json:"table"`
	Path         string            `json:"path"`
	Loaded       bool              `json:"loaded"`
	Optional     bool              `json:"optional"`
	Error        string            `json:"error,omitempty"`
	Rows         int               `json:"rows"`
	Columns      int               `json:"columns"`
	Present      []string          `json:"present"`
	Missing      []string          `json:"missing"`
	Resolved     map[string]string `json:"resolved,omitempty"`
	Monotonic    bool              `json:"monotonic"`
	InvalidCells int               `json:"invalidCells"`

	columns map[string]struct{}
}

type tableKey struct {
	role  Role
	table TableName
}

// Capabilities is computed once at load time and answers every "does this
// field exist" question downstream stages ask.
type Capabilities struct {
	statuses map[tableKey]*TableStatus
}

func newCapabilities() *Capabilities {
	return &Capabilities{statuses: make(map[tableKey]*TableStatus)}
}

func (c *Capabilities) record(st *TableStatus) {
	c.statuses[tableKey{st.Role, st.Table}] = st
}

// Status returns the load status of a table, or nil when it was never
// declared.
func (c *Capabilities) Status(role Role, table TableName) *TableStatus {
	if c == nil {
		return nil
	}
	return c.statuses[tableKey{role, table}]
}

// Column resolves a field to the CSV column carrying it. Declared logical
// fields go through their alias list; anything else must match a column
// name exactly.
func (c *Capabilities) Column(role Role, table TableName, fieldName string) (string, bool) {
	st := c.Status(role, table)
	if st == nil || !st.Loaded {
		return "", false
	}
	if col, ok := st.Resolved[fieldName]; ok {
		return col, true
	}
	if schema, ok := SchemaFor(table); ok {
		if _, declared := schema.Lookup(fieldName); declared {
			return "", false
		}
	}
	if _, ok := st.columns[fieldName]; ok {
		return fieldName, true
	}
	return "", false
}

// Has reports whether the role's table is loaded and carries the field.
func (c *Capabilities) Has(role Role, table TableName, fieldName string) bool {
	_, ok := c.Column(role, table, fieldName)
	return ok
}

// Both reports whether the field is available for both roles.
func (c *Capabilities) Both(table TableName, fieldName string) bool {
	for _, r := range Roles() {
		if !c.Has(r, table, fieldName) {
			return false
		}
	}
	return true
}

// All returns every status ordered by role, then schema order.
func (c *Capabilities) All() []TableStatus {
	if c == nil {
		return nil
	}
	order := make(map[TableName]int, len(Schemas))
	for i, s := range Schemas {
		order[s.Table] = i
	}
	out := make([]TableStatus, 0, len(c.statuses))
	for _, st := range c.statuses {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role == Primary
		}
		return order[out[i].Table] < order[out[j].Table]
	})
	return out
}

func describe(t *Table, schema Schema) *TableStatus {
	st := &TableStatus{
		Role:         t.Role,
		Table:        t.Name,
		Path:         t.Path,
		Loaded:       true,
		Optional:     schema.Optional,
		Rows:         t.Len(),
		Columns:      len(t.Columns),
		Present:      []string{},
		Missing:      []string{},
		Resolved:     make(map[string]string),
		InvalidCells: t.InvalidCells,
		columns:      make(map[string]struct{}, len(t.Columns)),
	}
	for _, col := range t.Columns {
		st.columns[col] = struct{}{}
	}
	for _, f := range schema.Fields {
		found := false
		for _, col := range f.Columns {
			if t.HasColumn(col) {
				st.Resolved[f.Name] = col
				found = true
				break
			}
		}
		if found {
			st.Present = append(st.Present, f.Name)
		} else {
			st.Missing = append(st.Missing, f.Name)
		}
	}
	if col, ok := st.Resolved[FieldSimulationTime]; ok {
		st.Monotonic = t.monotonic(col)
	}
	return st
}
