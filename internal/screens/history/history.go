// Package history lists past attempts recorded on this device.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/screens/result"
	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/store"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

const attemptLimit = 50

type historyLoadedMsg struct {
	attempts []store.AttemptSummary
	results  map[int64]exam.Result // result ID → cached result
	err      error
}

// HistoryScreen shows the local attempt journal.
type HistoryScreen struct {
	env      *screen.Env
	attempts []store.AttemptSummary
	results  map[int64]exam.Result
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

func New(env *screen.Env) *HistoryScreen {
	return &HistoryScreen{env: env, expanded: make(map[int]bool)}
}

func (s *HistoryScreen) Init() tea.Cmd {
	events, cache := s.env.Events, s.env.Results
	return func() tea.Msg {
		if events == nil {
			return historyLoadedMsg{}
		}
		ctx := context.Background()

		attempts, err := events.Attempts(ctx, attemptLimit)
		if err != nil {
			return historyLoadedMsg{err: err}
		}

		results := make(map[int64]exam.Result)
		if cache != nil {
			// Missing cached results only hide scores.
			rs, err := cache.Results(ctx, attemptLimit)
			if err == nil {
				for _, r := range rs {
					results[r.ID] = r
				}
			}
		}
		return historyLoadedMsg{attempts: attempts, results: results}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "o", Description: "Open result"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			s.env.Log.Error().Err(msg.err).Msg("load history")
			s.errMsg = msg.err.Error()
		} else {
			s.attempts = msg.attempts
			s.results = msg.results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, router.Pop
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.attempts)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		case "o":
			if res, ok := s.selectedResult(); ok {
				return s, router.Push(result.NewFromResult(s.env, res))
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) selectedResult() (exam.Result, bool) {
	if s.selected >= len(s.attempts) {
		return exam.Result{}, false
	}
	id := s.attempts[s.selected].ResultID
	if id == 0 {
		return exam.Result{}, false
	}
	res, ok := s.results[id]
	return res, ok
}

// outcome describes how an attempt ended, from its last journal action.
func outcome(a store.AttemptSummary) (string, lipgloss.Style) {
	switch a.LastAction {
	case session.ActionSubmitted:
		return "submitted", theme.Correct
	case session.ActionSubmit, session.ActionTimeUp:
		return "submission pending", theme.Skipped
	case session.ActionSubmitFailed:
		return "submission failed", theme.Incorrect
	case session.ActionAbandon:
		return "abandoned", theme.Skipped
	case session.ActionLoadFailed:
		return "failed to load", theme.Incorrect
	}
	return "unfinished", theme.Skipped
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.attempts) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No attempts on this device yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, a := range s.attempts {
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		title := a.ExamTitle
		if title == "" {
			title = fmt.Sprintf("Exam #%d", a.ExamID)
		}
		status, statusStyle := outcome(a)
		score := ""
		if res, ok := s.results[a.ResultID]; ok && a.ResultID != 0 {
			score = fmt.Sprintf("  %d/%d (%s)", res.Score, res.TotalMarks, res.Grade())
		}

		line := fmt.Sprintf("%s%s  %-28s  %d answered%s",
			prefix, a.StartedAt.Local().Format("Jan 02, 2006 15:04"), title, a.Answered, score)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)+"  "+statusStyle.Render(status)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    session %s · last activity %s",
				a.SessionID, a.LastAt.Local().Format("15:04:05"))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
