package dashboard

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/screens/teacherresults"
	"github.com/examdesk/examdesk/internal/ui/components"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

type teacherLoadedMsg struct {
	dash *api.Dashboard
	err  error
}

type teacher struct {
	env     *screen.Env
	dash    *api.Dashboard
	menu    components.Menu
	loading bool
	errMsg  string
}

var _ Dashboard = (*teacher)(nil)

func newTeacher(env *screen.Env) *teacher {
	return &teacher{env: env}
}

func (t *teacher) Role() auth.Role { return auth.RoleTeacher }

func (t *teacher) Title() string { return "Teacher Dashboard" }

func (t *teacher) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select exam"},
		{Key: "Enter", Description: "Results"},
		{Key: "r", Description: "Refresh"},
		{Key: "L", Description: "Log out"},
	}
}

func (t *teacher) Init() tea.Cmd {
	t.loading = true
	client := t.env.API
	return func() tea.Msg {
		d, err := client.TeacherDashboard(context.Background())
		return teacherLoadedMsg{dash: d, err: err}
	}
}

func (t *teacher) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case teacherLoadedMsg:
		t.loading = false
		if msg.err != nil {
			t.env.Log.Error().Err(msg.err).Msg("load teacher dashboard")
			t.errMsg = "Could not load your exams."
			return t, screen.CheckAuth(msg.err)
		}
		t.errMsg = ""
		t.dash = msg.dash
		items := make([]components.MenuItem, 0, len(msg.dash.Exams))
		for _, e := range msg.dash.Exams {
			items = append(items, components.MenuItem{
				Label:  fmt.Sprintf("%-32s %s", truncate(e.Title, 32), e.Subject),
				Detail: fmt.Sprintf("%d questions · %d marks · %s", e.TotalQuestions, e.TotalMarks, e.Status),
			})
		}
		t.menu = components.NewMenu(items)
		return t, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return t, t.Init()
		case "L":
			return t, screen.Logout
		case "enter":
			if t.dash == nil || len(t.dash.Exams) == 0 {
				return t, nil
			}
			return t, router.Push(teacherresults.New(t.env, t.dash.Exams[t.menu.Selected]))
		}
	}

	var cmd tea.Cmd
	t.menu, cmd = t.menu.Update(msg)
	return t, cmd
}

func (t *teacher) View(width, height int) string {
	var body string
	switch {
	case t.dash == nil && t.loading:
		body = theme.Hint.Render("Loading exams...")
	case t.dash == nil:
		body = theme.Hint.Render("Press r to retry.")
	case len(t.dash.Exams) == 0:
		body = theme.Hint.Render("You have not created any exams.")
	default:
		body = t.menu.View()
	}
	var stats []stat
	if t.dash != nil {
		stats = teacherStats(t.dash.Stats)
	}
	return frame(t.env, stats, "Your exams", body, errorNotice(t.errMsg))
}
