// Package instructions shows an exam's details and rules before it starts.
package instructions

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	examscreen "github.com/examdesk/examdesk/internal/screens/exam"
	"github.com/examdesk/examdesk/internal/ui/components"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

var rules = []string{
	"The timer starts as soon as the exam opens and cannot be paused.",
	"Answers are saved as you select them; you can change them until you submit.",
	"Mark questions for review and jump back to them from the palette.",
	"When time runs out your answers are submitted automatically.",
	"Leaving the exam abandons this attempt on this device.",
}

type tickMsg time.Time

// Screen is the pre-exam briefing.
type Screen struct {
	env  *screen.Env
	exam exam.Exam
	now  time.Time
	// stopped stops the availability tick once the exam is started.
	stopped bool
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

func New(env *screen.Env, e exam.Exam) *Screen {
	return &Screen{env: env, exam: e, now: env.Clock()}
}

func (s *Screen) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (s *Screen) Title() string { return "Instructions" }

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	if s.availability().CanStart() {
		hints = append([]layout.KeyHint{{Key: "Enter", Description: "Start exam"}}, hints...)
	}
	return hints
}

func (s *Screen) availability() exam.Availability {
	return exam.AvailabilityAt(s.now, s.exam)
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.stopped {
			return s, nil
		}
		s.now = time.Time(msg)
		return s, tick()

	case tea.KeyMsg:
		if msg.String() == "enter" && s.availability().CanStart() {
			s.stopped = true
			s.env.Log.Info().Int64("exam_id", s.exam.ID).Msg("starting exam")
			return s, router.Replace(examscreen.New(s.env, s.exam.ID))
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	e := s.exam
	w := layout.ContentWidth(width)

	var b strings.Builder
	b.WriteString(theme.Title.Render(e.Title))
	b.WriteString("\n")
	if e.Subject != "" {
		b.WriteString(theme.Subtitle.Render(e.Subject))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, theme.Label.Render(label), theme.Body.Render(value)))
		b.WriteString("\n")
	}
	row("Duration", fmt.Sprintf("%d minutes", e.Duration))
	row("Questions", fmt.Sprintf("%d", e.TotalQuestions))
	row("Total marks", fmt.Sprintf("%d", e.TotalMarks))
	if !e.ScheduledAt.IsZero() {
		row("Starts", e.ScheduledAt.Local().Format("Mon 2 Jan 2006, 15:04"))
		row("Closes", e.EndsAt().Local().Format("Mon 2 Jan 2006, 15:04"))
	}

	b.WriteString("\n")
	b.WriteString(theme.Body.Bold(true).Render("Rules"))
	b.WriteString("\n")
	for i, r := range rules {
		b.WriteString(lipgloss.NewStyle().Width(w - 6).Render(fmt.Sprintf("%d. %s", i+1, r)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch a := s.availability(); a {
	case exam.Available:
		b.WriteString(components.Button("Start exam", true))
		b.WriteString("  ")
		b.WriteString(theme.Hint.Render("closes in " + exam.Countdown(s.now, e.EndsAt())))
	case exam.Locked:
		b.WriteString(theme.InfoBanner("Opens in " + exam.Countdown(s.now, e.ScheduledAt.Time)))
	case exam.Expired:
		b.WriteString(theme.ErrorBanner("This exam has closed."))
	case exam.Completed:
		b.WriteString(theme.InfoBanner("You have already completed this exam."))
	}

	card := theme.Card.Width(w).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, card)
}
