package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

var paletteStyles = map[session.PaletteStatus]lipgloss.Style{
	session.StatusCurrent:        lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Primary).Bold(true),
	session.StatusMarkedAnswered: lipgloss.NewStyle().Foreground(theme.Text).Background(theme.Accent).Underline(true),
	session.StatusMarked:         lipgloss.NewStyle().Foreground(theme.Accent).Bold(true),
	session.StatusAnswered:       lipgloss.NewStyle().Foreground(theme.BgDark).Background(theme.Success),
	session.StatusNotVisited:     lipgloss.NewStyle().Foreground(theme.TextDim),
}

// Palette renders the question grid, perRow cells to a line.
func Palette(s *session.Session, perRow int) string {
	if perRow < 1 {
		perRow = 1
	}
	total := s.Total()
	var b strings.Builder
	for i := 0; i < total; i++ {
		style := paletteStyles[s.PaletteStatus(i)]
		b.WriteString(style.Render(fmt.Sprintf("%3d", i+1)))
		if (i+1)%perRow == 0 || i == total-1 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return b.String()
}

// PaletteLegend explains the palette colors.
func PaletteLegend() string {
	entries := []struct {
		status session.PaletteStatus
		label  string
	}{
		{session.StatusCurrent, "current"},
		{session.StatusAnswered, "answered"},
		{session.StatusMarked, "marked"},
		{session.StatusMarkedAnswered, "marked+answered"},
		{session.StatusNotVisited, "not answered"},
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, paletteStyles[e.status].Render(" ■ ")+" "+theme.Hint.Render(e.label))
	}
	return strings.Join(parts, "  ")
}
