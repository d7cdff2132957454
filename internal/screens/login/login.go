// Package login is the sign-in form.
package login

import (
	"context"
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/go-playground/validator/v10"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/ui/components"
	"github.com/examdesk/examdesk/internal/ui/layout"
	"github.com/examdesk/examdesk/internal/ui/theme"
)

// LoggedInMsg is emitted after a successful login. The app reacts by
// opening the dashboard for the user's role.
type LoggedInMsg struct {
	Credentials auth.Credentials
}

type loginDoneMsg struct {
	creds auth.Credentials
	err   error
}

// Screen is the login form.
type Screen struct {
	env      *screen.Env
	email    components.TextInput
	password components.TextInput
	focus    int // 0 email, 1 password
	busy     bool
	errMsg   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New returns the login form. notice, when set, is shown above the form
// (for example after a session expired).
func New(env *screen.Env, notice string) *Screen {
	s := &Screen{
		env:      env,
		email:    components.NewTextInput("Email", "you@school.edu", 254),
		password: components.NewPasswordInput("Password"),
		errMsg:   notice,
	}
	s.password.Blur()
	return s
}

func (s *Screen) Init() tea.Cmd { return s.email.Focus() }

func (s *Screen) Title() string { return "Sign in" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign in"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		return s.handleDone(msg)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return s, s.toggleFocus()
		case "enter":
			if s.focus == 0 && s.password.Value() == "" {
				return s, s.toggleFocus()
			}
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	if s.focus == 0 {
		s.email, cmd = s.email.Update(msg)
	} else {
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *Screen) toggleFocus() tea.Cmd {
	s.focus = 1 - s.focus
	if s.focus == 0 {
		s.password.Blur()
		return s.email.Focus()
	}
	s.email.Blur()
	return s.password.Focus()
}

func (s *Screen) submit() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	password := s.password.Value()
	if email == "" || password == "" {
		s.errMsg = "Email and password are required."
		return nil
	}

	s.busy = true
	s.errMsg = ""
	client := s.env.API
	return func() tea.Msg {
		creds, err := client.Login(context.Background(), email, password)
		return loginDoneMsg{creds: creds, err: err}
	}
}

func (s *Screen) handleDone(msg loginDoneMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.err != nil {
		s.errMsg = describe(msg.err)
		s.password.SetValue("")
		s.env.Log.Warn().Err(msg.err).Msg("login failed")
		return s, nil
	}

	s.env.Login.Set(msg.creds)
	if s.env.Keyring != nil {
		if err := s.env.Keyring.Save(context.Background(), msg.creds); err != nil {
			s.env.Log.Warn().Err(err).Msg("remember login")
		}
	}
	s.env.Log.Info().Int64("user_id", msg.creds.User.ID).Str("role", string(msg.creds.User.Role)).Msg("logged in")

	creds := msg.creds
	return s, func() tea.Msg { return LoggedInMsg{Credentials: creds} }
}

func describe(err error) string {
	var (
		se *api.StatusError
		ve validator.ValidationErrors
	)
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "Invalid email or password."
	case errors.As(err, &ve):
		return "Enter a valid email address."
	case errors.As(err, &se) && se.Message != "":
		return se.Message
	}
	return "Could not reach the exam server. Try again."
}

func (s *Screen) View(width, height int) string {
	w := layout.ContentWidth(width)
	if w > 60 {
		w = 60
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Online Examination System"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("Sign in with your school account"))
	b.WriteString("\n\n")
	b.WriteString(s.email.View())
	b.WriteString("\n\n")
	b.WriteString(s.password.View())
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Signing in..."))
	case s.errMsg != "":
		b.WriteString(theme.ErrorBanner(s.errMsg))
	default:
		b.WriteString(components.Button("Sign in", true))
	}

	card := theme.Card.Width(w).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
