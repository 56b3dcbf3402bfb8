package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// TitleStyle styles report titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Inline(true)

	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"done":      green,
		"found":     green,
		"ok":        green,
		"installed": green,

		// Active states
		"running": blue,

		// Skipped / warning
		"missing": yellow,
		"warning": yellow,

		// Error
		"error": red,

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}

	statusLabels = map[string]string{
		"ok":      "OK",
		"warning": "WARN",
		"error":   "ERROR",
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// RenderStatus renders a health status ("ok", "warning", "error") as a short
// colored label.
func RenderStatus(status string) string {
	label, ok := statusLabels[status]
	if !ok {
		label = status
	}
	return StatusStyle(status).Inline(true).Render(label)
}
