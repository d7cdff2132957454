package exam

import (
	"errors"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/ui/components"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch s.sess.Phase() {
	case session.PhaseLoading:
		return layout.Center(theme.Hint.Render("Loading exam..."), width, height)
	case session.PhaseError:
		msg := loadError(s.sess.Err())
		if errors.Is(s.sess.Err(), session.ErrAbandoned) {
			msg = "Attempt abandoned."
		}
		return layout.Center(theme.ErrorBanner(msg)+"\n\n"+theme.Hint.Render("Press Enter to go back."), width, height)
	case session.PhaseSubmitted:
		return layout.Center(theme.Hint.Render("Loading result..."), width, height)
	}

	w := layout.ContentWidth(width)
	body := s.viewQuestion(w)
	if !layout.IsCompactWidth(width) {
		side := s.viewSide()
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", side)
	}

	var b strings.Builder
	b.WriteString(s.viewStatus(width))
	b.WriteString("\n\n")
	b.WriteString(body)
	if s.banner != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorBanner(s.banner))
	}
	if s.jumping {
		b.WriteString("\n")
		b.WriteString(s.jump.View())
	}
	content := lipgloss.NewStyle().Padding(0, 1).Render(b.String())

	if s.modal.Open() {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.modal.View())
	}
	return content
}

// viewStatus is the line above the question: progress, then the timer.
func (s *Screen) viewStatus(width int) string {
	progress := components.ProgressBar{
		Label: "Answered",
		Done:  s.sess.AnsweredCount(),
		Total: s.sess.Total(),
		Width: 20,
	}.View()

	right := components.TimerBadge(s.sess.Countdown())
	switch {
	case s.sess.Phase() == session.PhaseSubmitting:
		right = theme.Hint.Render("Submitting... ") + right
	case s.sess.Countdown().Expired():
		right = theme.Incorrect.Render("Time is up ") + right
	}

	gap := width - 2 - lipgloss.Width(progress) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return progress + strings.Repeat(" ", gap) + right
}

func (s *Screen) viewQuestion(w int) string {
	q := s.sess.Current()

	var b strings.Builder
	heading := fmt.Sprintf("Question %d of %d", s.sess.Position(), s.sess.Total())
	if s.sess.IsMarked(s.sess.Position()) {
		heading += "  " + theme.Skipped.Render("[marked]")
	}
	b.WriteString(theme.Subtitle.Render(heading))
	meta := []string{fmt.Sprintf("%d marks", q.Marks)}
	if q.Subject != "" {
		meta = append(meta, q.Subject)
	}
	if q.Difficulty != "" {
		meta = append(meta, strings.ToLower(string(q.Difficulty)))
	}
	b.WriteString("  ")
	b.WriteString(theme.Hint.Render(strings.Join(meta, " · ")))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(w - 4).Render(q.Text))
	b.WriteString("\n\n")
	b.WriteString(s.options.View(w))
	return theme.Card.Width(w).Render(b.String())
}

func (s *Screen) viewSide() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render("Questions"))
	b.WriteString("\n\n")
	b.WriteString(components.Palette(s.sess, 5))
	b.WriteString("\n\n")
	b.WriteString(components.PaletteLegend())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Marked: %d", s.sess.MarkedCount())))
	return b.String()
}
