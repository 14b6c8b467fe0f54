// internal/cli/view.go
package signalcmp

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/mwiater/signalcmp/internal/tui"
	"github.com/spf13/cobra"
)

// startViewer and isInteractive are swapped out in tests.
var (
	startViewer   = tui.Start
	isInteractive = func() bool {
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}
)

// viewCmd opens the interactive viewer over the summary table.
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse the comparison interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isInteractive() {
			return errors.New("view needs an interactive terminal; use 'signalcmp summary' instead")
		}
		a, err := runAnalysis(getConfig())
		if err != nil {
			return err
		}
		return startViewer(a)
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
