// internal/cli/charts.go
package signalcmp

import (
	"fmt"
	"io"

	"github.com/mwiater/signalcmp/internal/appconfig"
	"github.com/mwiater/signalcmp/internal/charts"
	"github.com/spf13/cobra"
)

// chartsCmd renders the PNG charts only.
var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render the comparison charts as PNG files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCharts(cmd.OutOrStdout(), getConfig())
	},
}

func init() {
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(out io.Writer, cfg appconfig.Config) error {
	a, err := runAnalysis(cfg)
	if err != nil {
		return err
	}
	written, err := charts.NewRenderer(cfg.OutputDir).Render(a)
	if err != nil {
		return err
	}
	if cfg.JSONMode {
		return printJSON(out, written)
	}
	if len(written) == 0 {
		fmt.Fprintln(out, "No charts could be rendered.")
		return nil
	}
	for _, path := range written {
		fmt.Fprintf(out, "Chart saved: %s\n", path)
	}
	return nil
}
