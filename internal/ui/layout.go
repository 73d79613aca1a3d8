package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// renderTitledBox wraps content in a rounded border with a title line.
func (m Model) renderTitledBox(title, content string, focused bool) string {
	borderColor := m.theme.Border
	if focused {
		borderColor = m.theme.BorderFocus
	}

	width := m.width - 2
	if width < 20 {
		width = 20
	}

	titleLine := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true).
		Render(title)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		Padding(0, 1).
		Width(width)

	return box.Render(titleLine + "\n" + content)
}
