// internal/cli/compare.go
package signalcmp

import (
	"fmt"
	"io"

	"github.com/mwiater/signalcmp/internal/appconfig"
	"github.com/mwiater/signalcmp/internal/charts"
	"github.com/mwiater/signalcmp/internal/report"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dashboardTitle = "Traffic Signal Control: ML vs Static"

// compareCmd runs the whole comparison and writes every output.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run the complete ML vs static comparison",
	Long: `Load both controllers' episode, interval and reward logs, print the data
summary, statistics, scoreboard, learning and throughput analysis, and write
the summary CSV, charts, analysis JSON and HTML dashboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCompare(cmd.OutOrStdout(), getConfig())
	},
}

func init() {
	compareCmd.Flags().Bool("charts", true, "render PNG charts")
	compareCmd.Flags().Bool("dashboard", true, "write the HTML dashboard")
	compareCmd.Flags().String("analysisJSON", "", "optional path to write the analysis JSON")
	_ = viper.BindPFlag("charts", compareCmd.Flags().Lookup("charts"))
	_ = viper.BindPFlag("dashboard", compareCmd.Flags().Lookup("dashboard"))
	_ = viper.BindPFlag("analysisJSON", compareCmd.Flags().Lookup("analysisJSON"))

	rootCmd.AddCommand(compareCmd)
}

func runCompare(out io.Writer, cfg appconfig.Config) error {
	a, err := runAnalysis(cfg)
	if err != nil {
		return err
	}

	var written []string
	summaryPath := cfg.OutputPath(report.SummaryFile)
	if err := report.SaveCSV(summaryPath, a.Doc.Summary); err != nil {
		return err
	}
	written = append(written, summaryPath)

	if cfg.Charts {
		paths, err := charts.NewRenderer(cfg.OutputDir).Render(a)
		if err != nil {
			return err
		}
		written = append(written, paths...)
	}
	if path := cfg.AnalysisJSONPath(); path != "" {
		if err := report.WriteJSON(path, a.Doc); err != nil {
			return err
		}
		written = append(written, path)
	}
	if cfg.Dashboard {
		path := cfg.OutputPath(report.DashboardFile)
		if err := report.WriteDashboard(path, dashboardTitle, a.Doc); err != nil {
			return err
		}
		written = append(written, path)
	}

	if cfg.JSONMode {
		return printJSON(out, a.Doc)
	}
	a.RenderReport(out)
	fmt.Fprintln(out)
	for _, path := range written {
		fmt.Fprintf(out, "Written: %s\n", path)
	}
	return nil
}
