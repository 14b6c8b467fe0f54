// internal/cli/show.go
package signalcmp

import (
	"fmt"
	"io"

	"github.com/k0kubun/pp"
	"github.com/mwiater/signalcmp/internal/appconfig"
	"github.com/mwiater/signalcmp/internal/dataset"
	"github.com/spf13/cobra"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
	Long:  `The 'show' command groups subcommands that display the configuration and the loaded data.`,
}

// showConfigCmd prints the merged configuration.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the config file is loaded properly and overridden by flags accordingly.`,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		runShowConfig(cmd.OutOrStdout(), getConfig())
	},
}

// showCapabilitiesCmd reports which tables and fields loaded for each role.
var showCapabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show which tables and columns are available per controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShowCapabilities(cmd.OutOrStdout(), getConfig())
	},
}

func init() {
	showCmd.AddCommand(showConfigCmd)
	showCmd.AddCommand(showCapabilitiesCmd)
	rootCmd.AddCommand(showCmd)
}

func runShowConfig(out io.Writer, cfg appconfig.Config) {
	if cfg.JSONMode {
		_ = printJSON(out, cfg)
		return
	}
	appconfig.ShowConfig(out, loadedFile, &cfg, appconfig.Defaults())
	if cfg.Debug {
		fmt.Fprintln(out)
		pp.Fprintln(out, cfg)
	}
}

func runShowCapabilities(out io.Writer, cfg appconfig.Config) error {
	caps := dataset.Load(cfg.Sources()).Capabilities().All()
	if cfg.JSONMode {
		return printJSON(out, caps)
	}
	for _, st := range caps {
		label := fmt.Sprintf("%s %s", st.Role.Label(), st.Table)
		switch {
		case st.Loaded:
			fmt.Fprintf(out, "%-30s %d rows, %d columns (%s)\n", label, st.Rows, st.Columns, st.Path)
		case st.Optional:
			fmt.Fprintf(out, "%-30s not available (optional)\n", label)
		default:
			fmt.Fprintf(out, "%-30s not available: %s\n", label, st.Error)
		}
	}
	if cfg.Debug {
		fmt.Fprintln(out)
		pp.Fprintln(out, caps)
	}
	return nil
}
