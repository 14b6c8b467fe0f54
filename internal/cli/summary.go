// internal/cli/summary.go
package signalcmp

import (
	"fmt"
	"io"

	"github.com/mwiater/signalcmp/internal/appconfig"
	"github.com/mwiater/signalcmp/internal/report"
	"github.com/spf13/cobra"
)

// summaryCmd prints the statistical comparison and writes the summary CSV.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the summary table and write it as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd.OutOrStdout(), getConfig())
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(out io.Writer, cfg appconfig.Config) error {
	a, err := runAnalysis(cfg)
	if err != nil {
		return err
	}
	path := cfg.OutputPath(report.SummaryFile)
	if err := report.SaveCSV(path, a.Doc.Summary); err != nil {
		return err
	}
	if cfg.JSONMode {
		return printJSON(out, a.Doc.Summary)
	}
	report.RenderText(out, a.Doc.Summary)
	fmt.Fprintf(out, "\nSummary saved to %s\n", path)
	return nil
}
