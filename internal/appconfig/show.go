package appconfig

import (
	"fmt"
	"io"

	"github.com/mwiater/signalcmp/internal/dataset"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	if cfg == nil {
		cfg = &fallback
	}
	c := cfg.WithDefaults()

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintf(out, "  Input Dir:       %s\n", c.InputDir)
	fmt.Fprintf(out, "  Output Dir:      %s\n", c.OutputDir)
	fmt.Fprintf(out, "  Debug:           %v\n", c.Debug)
	fmt.Fprintf(out, "  JSON Mode:       %v\n", c.JSONMode)
	fmt.Fprintf(out, "  Charts:          %v\n", c.Charts)
	fmt.Fprintf(out, "  Dashboard:       %v\n", c.Dashboard)
	if c.AnalysisJSON != "" {
		fmt.Fprintf(out, "  Analysis JSON:   %s\n", c.AnalysisJSONPath())
	}
	fmt.Fprintf(out, "  Log File:        %s\n", c.LogFilePath())

	fmt.Fprintln(out, "\nInput files:")
	src := c.Sources()
	for _, role := range dataset.Roles() {
		for _, schema := range dataset.Schemas {
			fmt.Fprintf(out, "  %-9s %-10s %s\n", role, schema.Table, src.Path(role, schema.Table))
		}
	}

	fmt.Fprintln(out, "\nComparisons:")
	for _, cmp := range c.Comparisons {
		fmt.Fprintf(out, "  %s.%s\n", cmp.Table, cmp.Metric)
	}
	d := c.Derived
	fmt.Fprintf(out, "\nDerived: %s = %s.%s / %s\n", d.Name, d.Table, d.Numerator, d.Denominator)
}
