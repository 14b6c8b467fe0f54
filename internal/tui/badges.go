// internal/tui/badges.go
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/signalcmp/internal/compare"
)

// formatScoreIndicator returns a human-readable tally of the scoreboard.
func formatScoreIndicator(sb compare.Scoreboard) string {
	return fmt.Sprintf("ML better: %d | Static better: %d", sb.PrimaryWins, sb.BaselineWins)
}

// renderScoreBadge returns a Lipgloss-styled badge for the scoreboard.
func renderScoreBadge(sb compare.Scoreboard) string {
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("229")).Foreground(lipgloss.Color("0")).Padding(0, 1).MarginLeft(1)
	return badgeStyle.Render(formatScoreIndicator(sb))
}

// renderWarningBadge returns a badge counting skipped computations.
func renderWarningBadge(count int) string {
	label := "Warnings: none"
	if count > 0 {
		label = fmt.Sprintf("Warnings: %d", count)
	}
	badgeStyle := lipgloss.NewStyle().Background(lipgloss.Color("255")).Foreground(lipgloss.Color("0")).Padding(0, 1)
	return badgeStyle.Render(label)
}
