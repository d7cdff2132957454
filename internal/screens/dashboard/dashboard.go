// Package dashboard holds the landing screen for each role.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

// Dashboard is a role's landing screen.
type Dashboard interface {
	screen.Screen
	Role() auth.Role
}

// New returns the dashboard for role. Unknown roles get the student view.
func New(role auth.Role, env *screen.Env) Dashboard {
	switch role {
	case auth.RoleAdmin:
		return newAdmin(env)
	case auth.RoleTeacher:
		return newTeacher(env)
	default:
		return newStudent(env)
	}
}

// tickMsg drives the once-a-second availability refresh. Ticks from an
// older loop are dropped.
type tickMsg struct {
	loop int
	at   time.Time
}

func tick(loop int) tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg{loop: loop, at: t}
	})
}

type stat struct {
	label string
	value int
}

func renderStats(stats []stat) string {
	cells := make([]string, 0, len(stats))
	for _, s := range stats {
		cell := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 2).
			Align(lipgloss.Center).
			Render(theme.Title.Render(fmt.Sprintf("%d", s.value)) + "\n" + theme.Subtitle.Render(s.label))
		cells = append(cells, cell, " ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func studentStats(s api.Stats) []stat {
	return []stat{
		{"Exams", s.TotalExams},
		{"Upcoming", s.UpcomingExams},
		{"Completed", s.CompletedExams},
	}
}

func teacherStats(s api.Stats) []stat {
	return []stat{
		{"Exams", s.TotalExams},
		{"Questions", s.TotalQuestions},
		{"Results", s.TotalResults},
	}
}

func adminStats(s api.Stats) []stat {
	return []stat{
		{"Students", s.TotalStudents},
		{"Teachers", s.TotalTeachers},
		{"Exams", s.TotalExams},
		{"Questions", s.TotalQuestions},
		{"Results", s.TotalResults},
	}
}

// frame lays out a dashboard body: greeting, stats, then a section.
func frame(env *screen.Env, stats []stat, heading, body, notice string) string {
	var b strings.Builder
	name := "there"
	if u, ok := env.User(); ok && u.FullName != "" {
		name = u.FullName
	}
	b.WriteString(theme.Title.Render("Welcome, " + name))
	b.WriteString("\n\n")
	if len(stats) > 0 {
		b.WriteString(renderStats(stats))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Body.Bold(true).Render(heading))
	b.WriteString("\n\n")
	b.WriteString(body)
	if notice != "" {
		b.WriteString("\n")
		b.WriteString(notice)
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func errorNotice(msg string) string {
	if msg == "" {
		return ""
	}
	return theme.ErrorBanner(msg)
}
