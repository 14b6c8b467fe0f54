// internal/cli/config.go
package signalcmp

import (
	"fmt"
	"io"

	"github.com/mwiater/signalcmp/internal/appconfig"
	"github.com/spf13/cobra"
)

// configCmd groups configuration helpers. It skips the root pre-run so a
// broken default config file does not block validating another one.
var configCmd = &cobra.Command{
	Use:               "config",
	Short:             "Group commands for working with config files",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
}

// configValidateCmd checks a config file against the configuration schema.
var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigValidate(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigValidate(out io.Writer, path string) error {
	if _, err := appconfig.Load(path); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s is valid\n", path)
	return nil
}
