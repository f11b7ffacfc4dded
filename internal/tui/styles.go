package tui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle styles the pipeline heading.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"complete": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"rendered": lipgloss.NewStyle().Foreground(lipgloss.Color("2")),

		// Active states
		"validating": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"building":   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		"rendering":  lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Skipped / warning
		"skipped": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),

		// Error
		"failed": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
