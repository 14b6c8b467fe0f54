// internal/cli/throughput.go
package signalcmp

import (
	"io"

	"github.com/mwiater/signalcmp/internal/appconfig"
	"github.com/spf13/cobra"
)

// throughputCmd prints the derived ratio per controller and the improvement.
var throughputCmd = &cobra.Command{
	Use:   "throughput",
	Short: "Compare the derived throughput ratio",
	Long: `Compute the configured ratio (by default VehiclesWaiting / GreenTime) row by
row for each controller and print both averages and the improvement.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runThroughput(cmd.OutOrStdout(), getConfig())
	},
}

func init() {
	rootCmd.AddCommand(throughputCmd)
}

func runThroughput(out io.Writer, cfg appconfig.Config) error {
	a, err := runAnalysis(cfg)
	if err != nil {
		return err
	}
	if cfg.JSONMode {
		return printJSON(out, a.Doc.Throughput)
	}
	a.RenderThroughput(out)
	return nil
}
