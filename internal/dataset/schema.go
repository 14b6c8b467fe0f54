// internal/dataset/schema.go
// Package dataset loads the recorded simulation tables for both controllers
// and describes which of the declared fields each table actually carries.
package dataset

import "errors"

var (
	// ErrDataUnavailable means a table could not be located or parsed.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrColumnMissing means a loaded table lacks the requested field.
	ErrColumnMissing = errors.New("column missing")
)

// Role tags the controller a table was recorded for.
type Role string

const (
	// Primary is the learned/adaptive controller.
	Primary Role = "primary"
	// Baseline is the static, fixed-timing controller.
	Baseline Role = "baseline"
)

// Roles returns both roles in report order.
func Roles() []Role { return []Role{Primary, Baseline} }

// Label is the human-readable controller name.
func (r Role) Label() string {
	switch r {
	case Primary:
		return "ML Agent"
	case Baseline:
		return "Static Controller"
	default:
		return string(r)
	}
}

// Short is the column prefix used in exported tables.
func (r Role) Short() string {
	switch r {
	case Primary:
		return "ML"
	case Baseline:
		return "Static"
	default:
		return string(r)
	}
}

// TableName identifies one of the per-role tables.
type TableName string

const (
	Episodes  TableName = "episodes"
	Intervals TableName = "intervals"
	Rewards   TableName = "rewards"
)

// Field names used across the tables.
const (
	FieldEpisode          = "Episode"
	FieldTotalVehicles    = "TotalVehicles"
	FieldVehiclesWaiting  = "VehiclesWaiting"
	FieldEpisodeDuration  = "EpisodeDuration"
	FieldCumulativeReward = "CumulativeReward"
	FieldQueueLength      = "QueueLength"
	FieldSimulationTime   = "SimulationTime"
	// FieldGreenTime is logical: the ML agent logs GreenLightTime, the static
	// controller logs PhaseGreenTime.
	FieldGreenTime = "GreenTime"
)

// Field is a declared field and the columns that may carry it, in order of
// preference.
type Field struct {
	Name    string
	Columns []string
}

func field(name string, columns ...string) Field {
	if len(columns) == 0 {
		columns = []string{name}
	}
	return Field{Name: name, Columns: columns}
}

// Schema declares the fields expected in a table.
type Schema struct {
	Table    TableName
	Fields   []Field
	Optional bool
}

// Lookup returns the declared field with the given name.
func (s Schema) Lookup(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Schemas lists every table in load order.
var Schemas = []Schema{
	{
		Table: Episodes,
		Fields: []Field{
			field(FieldTotalVehicles),
			field(FieldVehiclesWaiting),
			field(FieldEpisodeDuration),
			field(FieldCumulativeReward),
			field(FieldGreenTime, "GreenLightTime", "PhaseGreenTime"),
		},
	},
	{
		Table: Intervals,
		Fields: []Field{
			field(FieldSimulationTime),
			field(FieldTotalVehicles),
			field(FieldVehiclesWaiting),
			field(FieldQueueLength),
		},
	},
	{
		Table:    Rewards,
		Optional: true,
	},
}

// SchemaFor returns the schema of a table.
func SchemaFor(table TableName) (Schema, bool) {
	for _, s := range Schemas {
		if s.Table == table {
			return s, true
		}
	}
	return Schema{}, false
}
