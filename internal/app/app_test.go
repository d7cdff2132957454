package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/screens/dashboard"
	"github.com/examdesk/examdesk/internal/screens/login"
	"github.com/examdesk/examdesk/internal/store"
)

func testEnv(t *testing.T) *screen.Env {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return &screen.Env{
		Login:   &auth.Holder{},
		Keyring: auth.NewKeyring(st.CredentialRepo()),
		Events:  st.EventRepo(),
		Results: st.ResultRepo(),
		Log:     zerolog.Nop(),
	}
}

func student() auth.Credentials {
	return auth.Credentials{Token: "tok", User: auth.User{ID: 1, FullName: "Ada Lovelace", Role: auth.RoleStudent}}
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestStartsAtLogin(t *testing.T) {
	m := newAppModel(testEnv(t))
	assert.IsType(t, &login.Screen{}, m.router.Active())
}

func TestStartsAtDashboardWithLogin(t *testing.T) {
	env := testEnv(t)
	env.Login.Set(student())
	m := newAppModel(env)

	d, ok := m.router.Active().(dashboard.Dashboard)
	require.True(t, ok)
	assert.Equal(t, auth.RoleStudent, d.Role())
}

func TestExpiredLoginStartsAtLogin(t *testing.T) {
	env := testEnv(t)
	c := student()
	c.ExpiresAt = time.Now().Add(-time.Minute)
	env.Login.Set(c)

	m := newAppModel(env)
	assert.IsType(t, &login.Screen{}, m.router.Active())
}

func TestLoggedInOpensRoleDashboard(t *testing.T) {
	env := testEnv(t)
	m := newAppModel(env)

	teacher := auth.Credentials{Token: "t", User: auth.User{ID: 2, Role: auth.RoleTeacher}}
	env.Login.Set(teacher)
	m, _ = update(m, login.LoggedInMsg{Credentials: teacher})

	d, ok := m.router.Active().(dashboard.Dashboard)
	require.True(t, ok)
	assert.Equal(t, auth.RoleTeacher, d.Role())
	assert.Equal(t, 1, m.router.Depth())
}

func TestLogoutClearsLogin(t *testing.T) {
	env := testEnv(t)
	ctx := context.Background()
	require.NoError(t, env.Keyring.Save(ctx, student()))
	require.True(t, Restore(ctx, env))

	m := newAppModel(env)
	m, _ = update(m, screen.LogoutMsg{})

	assert.IsType(t, &login.Screen{}, m.router.Active())
	assert.Empty(t, env.Login.Token())
	assert.False(t, Restore(ctx, env), "saved login is gone")
}

func TestAuthExpiredShowsNotice(t *testing.T) {
	env := testEnv(t)
	env.Login.Set(student())
	m := newAppModel(env)

	m, _ = update(m, screen.AuthExpiredMsg{})
	require.IsType(t, &login.Screen{}, m.router.Active())
	assert.Contains(t, m.router.View(100, 30), "expired")
}

type escScreen struct {
	handles bool
	escapes int
}

func (s *escScreen) Init() tea.Cmd { return nil }
func (s *escScreen) Title() string { return "esc" }
func (s *escScreen) View(int, int) string { return "" }
func (s *escScreen) HandlesEscape() bool { return s.handles }

func (s *escScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		s.escapes++
	}
	return s, nil
}

func TestEscape(t *testing.T) {
	env := testEnv(t)
	m := newAppModel(env)
	top := &escScreen{handles: true}
	m.router.Push(top)

	esc := tea.KeyPressMsg{Code: tea.KeyEscape}
	_, cmd := update(m, esc)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, top.escapes, "screen handles its own escape")

	top.handles = false
	_, cmd = update(m, esc)
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
	assert.Equal(t, 1, top.escapes)
}

func TestViewHeaderShowsUser(t *testing.T) {
	env := testEnv(t)
	env.Login.Set(student())
	m := newAppModel(env)
	m, _ = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Contains(t, m.userLabel(), "Ada Lovelace · Student")
	assert.NotPanics(t, func() { m.View() })
}
