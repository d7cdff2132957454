package components

import (
	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/timer"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

// TimerBadge renders the remaining time, amber under five minutes and red
// in the final minute.
func TimerBadge(c *timer.Countdown) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	switch c.Level() {
	case timer.LevelCritical:
		style = style.Foreground(theme.Text).Background(theme.Error)
	case timer.LevelLow:
		style = style.Foreground(theme.BgDark).Background(theme.Warning)
	default:
		style = style.Foreground(theme.Text).Background(theme.BgCard)
	}
	label := "⏱ " + c.Format()
	if c.Paused() {
		label += " (paused)"
	}
	return style.Render(label)
}
