package components

import (
	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/ui/theme"
)

// Button renders a labelled button, highlighted when active.
func Button(label string, active bool) string {
	if active {
		return theme.ButtonActive.Render("▸ " + label)
	}
	return theme.ButtonInactive.Render(label)
}

// ButtonRow lays out buttons side by side with the active one highlighted.
func ButtonRow(labels []string, active int) string {
	cells := make([]string, 0, len(labels)*2)
	for i, l := range labels {
		if i > 0 {
			cells = append(cells, "  ")
		}
		cells = append(cells, Button(l, i == active))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, cells...)
}
