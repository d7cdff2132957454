// Package result shows a submitted attempt's score and breakdown, plus
// study notes when a coach is configured.
package result

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/examdesk/examdesk/internal/coach"
	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

// Attempt is what the result screen knows about a submission. Result is
// nil when the server accepted the answers without returning a result.
type Attempt struct {
	Exam      exam.Exam
	Questions []exam.Question
	Result    *exam.Result
	Trigger   session.Trigger
}

type notesMsg struct {
	notes *coach.Notes
	err   error
}

// Screen displays one result.
type Screen struct {
	env     *screen.Env
	attempt Attempt

	coaching bool
	notes    *coach.Notes
	notesErr string
	spin     spinner.Model

	offset int // first breakdown row shown
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(env *screen.Env, a Attempt) *Screen {
	return &Screen{
		env:     env,
		attempt: a,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Hint)),
	}
}

// NewFromResult shows a cached result. Question text is not cached, so
// the breakdown lists question IDs only.
func NewFromResult(env *screen.Env, res exam.Result) *Screen {
	return New(env, Attempt{
		Exam:   exam.Exam{ID: res.ExamID, Title: res.ExamTitle, TotalMarks: res.TotalMarks},
		Result: &res,
	})
}

func (s *Screen) Init() tea.Cmd {
	res := s.attempt.Result
	if s.env.Coach == nil || res == nil || !res.HasBreakdown() {
		return nil
	}
	s.coaching = true

	c, in := s.env.Coach, coach.Input{
		ExamTitle: s.attempt.Exam.Title,
		Subject:   s.attempt.Exam.Subject,
		Result:    *res,
		Questions: s.attempt.Questions,
	}
	generate := func() tea.Msg {
		notes, err := c.Generate(context.Background(), in)
		return notesMsg{notes: notes, err: err}
	}
	return tea.Batch(s.spin.Tick, generate)
}

func (s *Screen) Title() string { return "Result" }

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Enter", Description: "Dashboard"}}
	if s.attempt.Result != nil && len(s.attempt.Result.Answers) > 0 {
		hints = append(hints, layout.KeyHint{Key: "↑↓", Description: "Scroll"})
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case notesMsg:
		s.coaching = false
		if msg.err != nil {
			s.env.Log.Warn().Err(msg.err).Msg("coach notes failed")
			if !errors.Is(msg.err, coach.ErrNoBreakdown) {
				s.notesErr = "Study notes are unavailable right now."
			}
			return s, nil
		}
		s.notes = msg.notes
		return s, nil

	case spinner.TickMsg:
		if !s.coaching {
			return s, nil
		}
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "esc", "q":
			return s, router.Pop
		case "down", "j":
			if s.attempt.Result != nil && s.offset < len(s.attempt.Result.Answers)-1 {
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
