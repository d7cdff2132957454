// Package teacherresults lists every student's result for one exam.
package teacherresults

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

type loadedMsg struct {
	results []exam.Result
	err     error
}

// Screen is read-only.
type Screen struct {
	env     *screen.Env
	exam    exam.Exam
	results []exam.Result
	offset  int
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(env *screen.Env, e exam.Exam) *Screen {
	return &Screen{env: env, exam: e}
}

func (s *Screen) Init() tea.Cmd {
	client, id := s.env.API, s.exam.ID
	return func() tea.Msg {
		rs, err := client.ExamResults(context.Background(), id)
		return loadedMsg{results: rs, err: err}
	}
}

func (s *Screen) Title() string { return "Results" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "r", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.env.Log.Error().Err(msg.err).Int64("exam_id", s.exam.ID).Msg("load exam results")
			s.errMsg = "Could not load results for this exam."
			return s, screen.CheckAuth(msg.err)
		}
		s.errMsg = ""
		s.results = msg.results
		s.offset = 0
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, router.Pop
		case "r":
			return s, s.Init()
		case "down", "j":
			if s.offset < len(s.results)-1 {
				s.offset++
			}
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		}
	}
	return s, nil
}

// average returns the mean percentage and how many results passed.
func average(results []exam.Result) (float64, int) {
	if len(results) == 0 {
		return 0, 0
	}
	var sum float64
	passed := 0
	for _, r := range results {
		sum += r.Percentage
		if exam.Passed(r.Percentage) {
			passed++
		}
	}
	return sum / float64(len(results)), passed
}

func (s *Screen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.exam.Title))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%s · %d marks", s.exam.Subject, s.exam.TotalMarks)))
	b.WriteString("\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(theme.ErrorBanner(s.errMsg))
	case !s.loaded:
		b.WriteString(theme.Hint.Render("Loading results..."))
	case len(s.results) == 0:
		b.WriteString(theme.Hint.Render("No student has submitted this exam yet."))
	default:
		avg, passed := average(s.results)
		b.WriteString(theme.Body.Render(fmt.Sprintf("%d submissions · average %.1f%% · %d passed",
			len(s.results), avg, passed)))
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%-24s %-28s %9s %7s %5s", "Student", "Email", "Score", "%", "Grade")))
		b.WriteString("\n")

		rows := max(height-10, 3)
		end := min(s.offset+rows, len(s.results))
		for _, r := range s.results[s.offset:end] {
			line := fmt.Sprintf("%-24s %-28s %9s %6.1f%% %5s",
				clip(r.StudentName, 24), clip(r.StudentEmail, 28),
				fmt.Sprintf("%d/%d", r.Score, r.TotalMarks), r.Percentage, r.Grade())
			style := theme.Body
			if !exam.Passed(r.Percentage) {
				style = theme.Incorrect
			}
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
		if end < len(s.results) {
			b.WriteString(theme.Hint.Render(fmt.Sprintf("… %d more", len(s.results)-end)))
		}
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
