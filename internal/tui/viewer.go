// internal/tui/viewer.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwiater/signalcmp/internal/analysis"
	"github.com/mwiater/signalcmp/internal/compare"
	"github.com/mwiater/signalcmp/internal/metrics"
	"github.com/mwiater/signalcmp/internal/report"
	"github.com/mwiater/signalcmp/internal/util"
)

// viewState represents the current screen of the viewer.
type viewState int

const (
	// viewSummary lists every comparison in a table.
	viewSummary viewState = iota
	// viewDetail shows the full statistics of the selected comparison.
	viewDetail
	// viewSources shows what was loaded for each controller.
	viewSources
)

// entry is one selectable comparison.
type entry struct {
	label  string
	result compare.Result
}

// model is the Bubble Tea model of the viewer.
type model struct {
	analysis      *analysis.Analysis
	entries       []entry
	state         viewState
	table         table.Model
	viewport      viewport.Model
	width, height int
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

const labelWidth = 28

// collectEntries flattens the summary, interval and throughput comparisons.
func collectEntries(a *analysis.Analysis) []entry {
	var out []entry
	for _, r := range a.Doc.Comparisons {
		out = append(out, entry{label: report.Label(r.Table, r.Metric), result: r})
	}
	for _, ic := range a.Doc.Intervals {
		out = append(out,
			entry{label: ic.Metric + " (intervals)", result: ic.Full},
			entry{label: ic.Metric + " (first half)", result: ic.FirstHalf},
		)
	}
	if tp := a.Doc.Throughput; tp != nil {
		out = append(out, entry{label: tp.Metric, result: tp.Result})
	}
	return out
}

// initialModel creates the viewer over a finished analysis.
func initialModel(a *analysis.Analysis) *model {
	entries := collectEntries(a)

	columns := make([]table.Column, len(report.Headers))
	for i, h := range report.Headers {
		width := 14
		if i == 0 {
			width = labelWidth
		}
		columns[i] = table.Column{Title: h, Width: width}
	}
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		r := e.result
		rows[i] = table.Row{
			util.TruncateRunes(e.label, labelWidth),
			report.Number(r.Primary.Mean),
			report.Number(r.Baseline.Mean),
			report.Number(r.Primary.StdDev),
			report.Number(r.Baseline.StdDev),
			report.Percent(r.ImprovementPct),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return &model{
		analysis: a,
		entries:  entries,
		state:    viewSummary,
		table:    t,
		viewport: viewport.New(100, 20),
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update is the central update function for the Bubble Tea model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			if m.state == viewSources {
				m.state = viewSummary
			} else {
				m.state = viewSources
				m.viewport.SetContent(util.WrapToWidth(m.sourcesContent(), m.viewport.Width))
				m.viewport.GotoTop()
			}
			return m, nil
		case "esc", "backspace":
			if m.state != viewSummary {
				m.state = viewSummary
				return m, nil
			}
		case "enter":
			if m.state == viewSummary && len(m.entries) > 0 {
				m.state = viewDetail
				m.viewport.SetContent(m.detailContent(m.entries[m.table.Cursor()]))
				m.viewport.GotoTop()
				return m, nil
			}
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		headerHeight := 3
		footerHeight := 2
		m.table.SetWidth(msg.Width - 2)
		m.table.SetHeight(max(msg.Height-headerHeight-footerHeight, 3))
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-headerHeight-footerHeight, 3)
		return m, nil
	}

	switch m.state {
	case viewSummary:
		m.table, cmd = m.table.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// View renders the viewer based on its current state.
func (m *model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	header := headerStyle.Render("Traffic Signal Control: ML vs Static") +
		renderScoreBadge(m.analysis.Doc.Scoreboard) + " " +
		renderWarningBadge(len(m.analysis.Warnings()))

	var body, help string
	switch m.state {
	case viewDetail:
		body = m.viewport.View()
		help = "esc: back • tab: sources • q: quit"
	case viewSources:
		body = m.viewport.View()
		help = "tab/esc: back • q: quit"
	default:
		if len(m.entries) == 0 {
			body = "No comparisons could be computed."
		} else {
			body = m.table.View()
		}
		help = "↑/↓: select • enter: details • tab: sources • q: quit"
	}
	return fmt.Sprintf("%s\n\n%s\n%s", header, body, helpStyle.Render(help))
}

func (m *model) detailContent(e entry) string {
	var b strings.Builder
	r := e.result
	fmt.Fprintf(&b, "%s\n\n", headerStyle.Render(e.label))
	fmt.Fprintf(&b, "%-10s %14s %14s\n", "", "ML Agent", "Static")
	row := func(name string, p, s metrics.Value) {
		fmt.Fprintf(&b, "%-10s %14s %14s\n", name, report.Number(p), report.Number(s))
	}
	row("Mean", r.Primary.Mean, r.Baseline.Mean)
	row("Std", r.Primary.StdDev, r.Baseline.StdDev)
	row("Median", r.Primary.Median, r.Baseline.Median)
	row("Min", r.Primary.Min, r.Baseline.Min)
	row("Max", r.Primary.Max, r.Baseline.Max)
	fmt.Fprintf(&b, "%-10s %14d %14d\n", "Samples", r.Primary.Count, r.Baseline.Count)

	direction := "lower is better"
	if r.HigherIsBetter {
		direction = "higher is better"
	}
	fmt.Fprintf(&b, "\nImprovement: %s %s (%s)\n", report.Percent(r.ImprovementPct), report.VerdictLabel(r.Verdict()), direction)
	return b.String()
}

func (m *model) sourcesContent() string {
	var b strings.Builder
	for _, st := range m.analysis.Doc.Capabilities {
		label := fmt.Sprintf("%s %s", st.Role.Label(), st.Table)
		if !st.Loaded {
			fmt.Fprintf(&b, "%-30s not available\n", label)
			continue
		}
		fmt.Fprintf(&b, "%-30s %d rows, %d columns\n", label, st.Rows, st.Columns)
		if len(st.Missing) > 0 {
			fmt.Fprintf(&b, "%-30s missing: %s\n", "", strings.Join(st.Missing, ", "))
		}
	}
	if warnings := m.analysis.Warnings(); len(warnings) > 0 {
		b.WriteString("\n")
		for _, w := range warnings {
			fmt.Fprintf(&b, "warning: %s\n", w)
		}
	}
	return b.String()
}

// Start runs the interactive viewer until the user quits.
func Start(a *analysis.Analysis) error {
	if a == nil {
		return fmt.Errorf("no analysis to view")
	}
	p := tea.NewProgram(initialModel(a), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running viewer: %w", err)
	}
	return nil
}
