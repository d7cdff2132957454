package dashboard

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/screens/history"
	"github.com/examdesk/examdesk/internal/screens/instructions"
	"github.com/examdesk/examdesk/internal/screens/result"
	"github.com/examdesk/examdesk/internal/ui/components"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

type studentLoadedMsg struct {
	dash *api.Dashboard
	err  error
}

type cachedResultMsg struct {
	examID int64
	res    *exam.Result
	err    error
}

type student struct {
	env     *screen.Env
	dash    *api.Dashboard
	menu    components.Menu
	now     time.Time
	loop    int
	loading bool
	notice  string
	errMsg  string
}

var _ Dashboard = (*student)(nil)
var _ screen.Resumer = (*student)(nil)
var _ screen.KeyHintProvider = (*student)(nil)

func newStudent(env *screen.Env) *student {
	return &student{env: env, now: env.Clock()}
}

func (s *student) Role() auth.Role { return auth.RoleStudent }

func (s *student) Title() string { return "Student Dashboard" }

func (s *student) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Select exam"},
		{Key: "Enter", Description: "Open"},
		{Key: "r", Description: "Refresh"},
		{Key: "h", Description: "History"},
		{Key: "L", Description: "Log out"},
	}
}

func (s *student) Init() tea.Cmd {
	s.loop++
	return tea.Batch(s.load(), tick(s.loop))
}

// Resume restarts the tick loop and reloads, since an exam may have
// been submitted meanwhile.
func (s *student) Resume() tea.Cmd { return s.Init() }

func (s *student) load() tea.Cmd {
	s.loading = true
	client := s.env.API
	return func() tea.Msg {
		d, err := client.StudentDashboard(context.Background())
		return studentLoadedMsg{dash: d, err: err}
	}
}

func (s *student) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case studentLoadedMsg:
		s.loading = false
		if msg.err != nil {
			s.env.Log.Error().Err(msg.err).Msg("load student dashboard")
			s.errMsg = "Could not load your exams."
			return s, screen.CheckAuth(msg.err)
		}
		s.errMsg = ""
		s.dash = msg.dash
		s.rebuild()
		return s, nil

	case tickMsg:
		if msg.loop != s.loop {
			return s, nil
		}
		s.now = msg.at
		s.rebuild()
		return s, tick(s.loop)

	case cachedResultMsg:
		if msg.err != nil || msg.res == nil {
			s.notice = "No result for this exam is saved on this device."
			return s, nil
		}
		return s, router.Push(result.NewFromResult(s.env, *msg.res))

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return s, s.load()
		case "h":
			return s, router.Push(history.New(s.env))
		case "L":
			return s, screen.Logout
		case "enter":
			return s, s.open()
		}
	}

	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

// rebuild recomputes each exam's availability, keeping the cursor.
func (s *student) rebuild() {
	if s.dash == nil {
		return
	}
	selected := s.menu.Selected
	items := make([]components.MenuItem, 0, len(s.dash.Exams))
	for _, e := range s.dash.Exams {
		items = append(items, components.MenuItem{
			Label:  fmt.Sprintf("%-32s %s", truncate(e.Title, 32), e.Subject),
			Detail: describeAvailability(s.now, e),
		})
	}
	s.menu = components.Menu{Items: items, Selected: selected}
	if s.menu.Selected >= len(items) {
		s.menu.Selected = 0
	}
}

func (s *student) open() tea.Cmd {
	if s.dash == nil || len(s.dash.Exams) == 0 {
		return nil
	}
	e := s.dash.Exams[s.menu.Selected]
	s.notice = ""

	switch exam.AvailabilityAt(s.now, e) {
	case exam.Available:
		return router.Push(instructions.New(s.env, e))
	case exam.Completed:
		results := s.env.Results
		if results == nil {
			s.notice = "No result for this exam is saved on this device."
			return nil
		}
		return func() tea.Msg {
			r, err := results.LatestForExam(context.Background(), e.ID)
			return cachedResultMsg{examID: e.ID, res: r, err: err}
		}
	case exam.Locked:
		s.notice = "This exam opens in " + exam.Countdown(s.now, e.ScheduledAt.Time) + "."
	case exam.Expired:
		s.notice = "This exam has closed."
	}
	return nil
}

func describeAvailability(now time.Time, e exam.Exam) string {
	switch a := exam.AvailabilityAt(now, e); a {
	case exam.Locked:
		return "LOCKED · starts in " + exam.Countdown(now, e.ScheduledAt.Time)
	case exam.Available:
		return "AVAILABLE · closes in " + exam.Countdown(now, e.EndsAt())
	default:
		return string(a)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func (s *student) View(width, height int) string {
	var body string
	switch {
	case s.dash == nil && s.loading:
		body = theme.Hint.Render("Loading exams...")
	case s.dash == nil:
		body = theme.Hint.Render("Press r to retry.")
	case len(s.dash.Exams) == 0:
		body = theme.Hint.Render("No exams assigned yet.")
	default:
		body = s.menu.View()
	}

	var stats []stat
	if s.dash != nil {
		stats = studentStats(s.dash.Stats)
	}
	notice := errorNotice(s.errMsg)
	if notice == "" && s.notice != "" {
		notice = theme.InfoBanner(s.notice)
	}
	return frame(s.env, stats, "Your exams", body, notice)
}
