package result

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	res := s.attempt.Result
	w := layout.ContentWidth(width)
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var b strings.Builder
	b.WriteString(center(theme.Title.Render(s.attempt.Exam.Title)))
	b.WriteString("\n")
	if s.attempt.Trigger == session.TriggerTimeUp {
		b.WriteString(center(theme.Hint.Render("Time ran out; your answers were submitted automatically.")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if res == nil {
		b.WriteString(center(theme.InfoBanner("Your answers were submitted. The result is not available yet.")))
		return b.String()
	}

	grade := res.Grade()
	gradeStyle := theme.Correct
	if !exam.Passed(res.Percentage) {
		gradeStyle = theme.Incorrect
	}
	score := fmt.Sprintf("%d / %d    %.1f%%    Grade %s", res.Score, res.TotalMarks, res.Percentage, gradeStyle.Render(grade))
	b.WriteString(center(theme.Body.Bold(true).Render(score)))
	b.WriteString("\n")

	t := res.Tally()
	tally := fmt.Sprintf("%s   %s   %s",
		theme.Correct.Render(fmt.Sprintf("%d correct", t.Correct)),
		theme.Incorrect.Render(fmt.Sprintf("%d incorrect", t.Incorrect)),
		theme.Skipped.Render(fmt.Sprintf("%d unanswered", t.Unanswered)))
	b.WriteString(center(tally))
	b.WriteString("\n\n")

	if res.HasBreakdown() {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", w))
		b.WriteString(center(theme.Subtitle.Render("Breakdown")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")
		rows := max(height/3, 3)
		b.WriteString(center(s.viewBreakdown(w, rows)))
		b.WriteString("\n")
	}

	if notes := s.viewNotes(w); notes != "" {
		b.WriteString("\n")
		b.WriteString(center(notes))
	}
	return b.String()
}

// viewBreakdown renders up to rows answers starting at s.offset.
func (s *Screen) viewBreakdown(w, rows int) string {
	texts := make(map[int64]exam.Question, len(s.attempt.Questions))
	for _, q := range s.attempt.Questions {
		texts[q.ID] = q
	}

	answers := s.attempt.Result.Answers
	end := min(s.offset+rows, len(answers))
	lines := make([]string, 0, rows)
	for i := s.offset; i < end; i++ {
		a := answers[i]
		mark, style := "✓", theme.Correct
		switch {
		case a.SelectedOption == nil:
			mark, style = "–", theme.Skipped
		case !a.Correct:
			mark, style = "✗", theme.Incorrect
		}

		label := fmt.Sprintf("Question #%d", a.QuestionID)
		if q, ok := texts[a.QuestionID]; ok {
			label = q.Text
		}
		picked := "no answer"
		if a.SelectedOption != nil {
			picked = "answered " + exam.OptionLabel(*a.SelectedOption)
		}
		line := fmt.Sprintf("%s %2d. %s", mark, i+1, label)
		line = lipgloss.NewStyle().Width(w - 16).MaxHeight(1).Render(line)
		lines = append(lines, style.Render(line)+theme.Hint.Render(fmt.Sprintf("%14s", picked)))
	}
	if end < len(answers) {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("  … %d more", len(answers)-end)))
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) viewNotes(w int) string {
	switch {
	case s.coaching:
		return s.spin.View() + theme.Hint.Render(" Preparing study notes...")
	case s.notesErr != "":
		return theme.Hint.Render(s.notesErr)
	case s.notes == nil:
		return ""
	}

	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render("Study notes"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Width(w - 4).Render(s.notes.Summary))
	if len(s.notes.FocusTopics) > 0 {
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render("Focus on: " + strings.Join(s.notes.FocusTopics, ", ")))
	}
	for _, tip := range s.notes.Tips {
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(w - 4).Render("• " + tip))
	}
	return theme.Card.Width(w).Render(b.String())
}
