// Package app is the root Bubble Tea model: the screen stack plus the
// login lifecycle around it.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/screens/dashboard"
	"github.com/examdesk/examdesk/internal/screens/login"
	"github.com/examdesk/examdesk/internal/ui/layout"
)

const expiredNotice = "Your session has expired. Please sign in again."

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env    *screen.Env
	router *router.Router
	width  int
	height int
}

// newAppModel starts at the dashboard when env already holds a valid
// login, and at the login form otherwise.
func newAppModel(env *screen.Env) AppModel {
	var first screen.Screen
	if c, ok := env.Login.Current(); ok && c.Valid(env.Clock()) {
		first = dashboard.New(c.User.Role, env)
	} else {
		first = login.New(env, "")
	}
	return AppModel{env: env, router: router.New(first)}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case login.LoggedInMsg:
		u := msg.Credentials.User
		m.env.Log.Info().Int64("user_id", u.ID).Str("role", string(u.Role)).Msg("signed in")
		return m, m.router.Reset(dashboard.New(u.Role, m.env))

	case screen.LogoutMsg:
		m.env.Log.Info().Msg("signed out")
		return m, m.signOut("")

	case screen.AuthExpiredMsg:
		m.env.Log.Warn().Msg("token rejected; signing out")
		return m, m.signOut(expiredNotice)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, router.Pop
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// signOut forgets the login everywhere and returns to the login form.
func (m AppModel) signOut(notice string) tea.Cmd {
	m.env.Login.Clear()
	if m.env.Keyring != nil {
		if err := m.env.Keyring.Clear(context.Background()); err != nil {
			m.env.Log.Warn().Err(err).Msg("clear saved login")
		}
	}
	return m.router.Reset(login.New(m.env, notice))
}

// userLabel is the header's right side.
func (m AppModel) userLabel() string {
	u, ok := m.env.User()
	if !ok {
		return ""
	}
	name := u.FullName
	if name == "" {
		name = u.Email
	}
	if u.Role == "" {
		return name + "  "
	}
	return fmt.Sprintf("%s · %s  ", name, u.Role.Display())
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.userLabel(), m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(footerHints, p.KeyHints()...)
	} else if m.router.Depth() > 1 {
		footerHints = append(footerHints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	footerHints = append(footerHints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Restore loads a saved login into env.Login. It reports whether one was
// found.
func Restore(ctx context.Context, env *screen.Env) bool {
	if env.Keyring == nil {
		return false
	}
	c, err := env.Keyring.Load(ctx)
	if err != nil {
		if !errors.Is(err, auth.ErrNotLoggedIn) {
			env.Log.Warn().Err(err).Msg("load saved login")
		}
		return false
	}
	env.Login.Set(c)
	return true
}

// Run restores any saved login and runs the TUI until the user quits.
func Run(ctx context.Context, env *screen.Env) error {
	Restore(ctx, env)
	p := tea.NewProgram(newAppModel(env), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
