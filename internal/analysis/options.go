// Package analysis runs the comparison pipeline: load both controllers'
// tables, aggregate, compare, derive the throughput ratio and assemble the
// analysis document every output is rendered from.
package analysis

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mwiater/signalcmp/internal/dataset"
)

// specValidate checks comparison and derived specs. The "table" tag accepts
// only declared table names.
var specValidate *validator.Validate

func init() {
	specValidate = validator.New()
	_ = specValidate.RegisterValidation("table", validateTable)
}

func validateTable(fl validator.FieldLevel) bool {
	_, ok := dataset.SchemaFor(dataset.TableName(fl.Field().String()))
	return ok
}

// ComparisonSpec names one row of the summary table.
type ComparisonSpec struct {
	Table  dataset.TableName `json:"table" yaml:"table" mapstructure:"table" validate:"required,table"`
	Metric string            `json:"metric" yaml:"metric" mapstructure:"metric" validate:"required"`
}

// DerivedSpec declares a row-wise ratio compared between the controllers.
type DerivedSpec struct {
	Name        string            `json:"name" yaml:"name" mapstructure:"name" validate:"required"`
	Table       dataset.TableName `json:"table" yaml:"table" mapstructure:"table" validate:"required,table"`
	Numerator   string            `json:"numerator" yaml:"numerator" mapstructure:"numerator" validate:"required"`
	Denominator string            `json:"denominator" yaml:"denominator" mapstructure:"denominator" validate:"required"`
}

// Options drives a run.
type Options struct {
	Sources     dataset.Sources
	Comparisons []ComparisonSpec
	Derived     DerivedSpec
	// EpisodeMetrics are described per role without being compared.
	EpisodeMetrics []string
	// IntervalMetrics are compared over the whole run and its first half.
	IntervalMetrics []string
	// TimeSeriesMetrics are plotted against SimulationTime.
	TimeSeriesMetrics []string
}

// DefaultComparisons are the rows of the summary table.
func DefaultComparisons() []ComparisonSpec {
	return []ComparisonSpec{
		{Table: dataset.Episodes, Metric: dataset.FieldTotalVehicles},
		{Table: dataset.Episodes, Metric: dataset.FieldVehiclesWaiting},
	}
}

// DefaultDerived is waiting vehicles per second of green light.
func DefaultDerived() DerivedSpec {
	return DerivedSpec{
		Name:        "Throughput",
		Table:       dataset.Episodes,
		Numerator:   dataset.FieldVehiclesWaiting,
		Denominator: dataset.FieldGreenTime,
	}
}

// DefaultOptions reads the default file names from dir.
func DefaultOptions(dir string) Options {
	return Options{
		Sources:     dataset.Sources{Dir: dir, Files: dataset.DefaultFiles()},
		Comparisons: DefaultComparisons(),
		Derived:     DefaultDerived(),
		EpisodeMetrics: []string{
			dataset.FieldTotalVehicles,
			dataset.FieldVehiclesWaiting,
			dataset.FieldEpisodeDuration,
			dataset.FieldCumulativeReward,
			dataset.FieldGreenTime,
		},
		IntervalMetrics: []string{
			dataset.FieldVehiclesWaiting,
			dataset.FieldQueueLength,
		},
		TimeSeriesMetrics: []string{
			dataset.FieldTotalVehicles,
			dataset.FieldVehiclesWaiting,
			dataset.FieldQueueLength,
		},
	}
}

// Validate rejects specs naming undeclared tables or leaving fields empty. An
// unnamed derived spec disables the ratio.
func (o Options) Validate() error {
	for i, c := range o.Comparisons {
		if err := specValidate.Struct(c); err != nil {
			return fmt.Errorf("comparison %d (%s.%s): %w", i, c.Table, c.Metric, err)
		}
	}
	if o.Derived.Name != "" {
		if err := specValidate.Struct(o.Derived); err != nil {
			return fmt.Errorf("derived %s: %w", o.Derived.Name, err)
		}
	}
	return nil
}
