package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

type adminLoadedMsg struct {
	stats *api.Stats
	users []auth.User
	err   error
}

type admin struct {
	env     *screen.Env
	stats   *api.Stats
	users   []auth.User
	offset  int
	loading bool
	errMsg  string
}

var _ Dashboard = (*admin)(nil)

func newAdmin(env *screen.Env) *admin {
	return &admin{env: env}
}

func (a *admin) Role() auth.Role { return auth.RoleAdmin }

func (a *admin) Title() string { return "Admin Dashboard" }

func (a *admin) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "r", Description: "Refresh"},
		{Key: "L", Description: "Log out"},
	}
}

func (a *admin) Init() tea.Cmd {
	a.loading = true
	client := a.env.API
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := client.AdminStats(ctx)
		if err != nil {
			return adminLoadedMsg{err: err}
		}
		users, err := client.Users(ctx)
		return adminLoadedMsg{stats: stats, users: users, err: err}
	}
}

func (a *admin) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case adminLoadedMsg:
		a.loading = false
		if msg.stats != nil {
			a.stats = msg.stats
		}
		a.users = msg.users
		a.errMsg = ""
		if msg.err != nil {
			a.env.Log.Error().Err(msg.err).Msg("load admin dashboard")
			a.errMsg = "Could not load system data."
			return a, screen.CheckAuth(msg.err)
		}
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			return a, a.Init()
		case "L":
			return a, screen.Logout
		case "up", "k":
			if a.offset > 0 {
				a.offset--
			}
		case "down", "j":
			if a.offset < len(a.users)-1 {
				a.offset++
			}
		}
	}
	return a, nil
}

func (a *admin) View(width, height int) string {
	var body string
	switch {
	case a.stats == nil && a.loading:
		body = theme.Hint.Render("Loading...")
	case len(a.users) == 0:
		body = theme.Hint.Render("No users.")
	default:
		rows := height - 16
		if rows < 3 {
			rows = 3
		}
		body = userTable(a.users, a.offset, rows)
	}
	var stats []stat
	if a.stats != nil {
		stats = adminStats(*a.stats)
	}
	return frame(a.env, stats, "Users", body, errorNotice(a.errMsg))
}

func userTable(users []auth.User, offset, rows int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%-6s %-28s %-32s %s", "ID", "Name", "Email", "Role")))
	b.WriteString("\n")
	end := offset + rows
	if end > len(users) {
		end = len(users)
	}
	for _, u := range users[offset:end] {
		b.WriteString(theme.Body.Render(fmt.Sprintf("%-6d %-28s %-32s %s", u.ID, truncate(u.FullName, 28), truncate(u.Email, 32), u.Role)))
		b.WriteString("\n")
	}
	if len(users) > rows {
		b.WriteString(theme.Hint.Render(fmt.Sprintf("%d-%d of %d", offset+1, end, len(users))))
	}
	return b.String()
}
