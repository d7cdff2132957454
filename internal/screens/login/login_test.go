package login

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/screen"
)

type fakeAPI struct {
	screen.API
	creds auth.Credentials
	err   error
	calls int
	email string
}

func (f *fakeAPI) Login(_ context.Context, email, _ string) (auth.Credentials, error) {
	f.calls++
	f.email = email
	return f.creds, f.err
}

func typeText(s *Screen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func newEnv(f *fakeAPI) *screen.Env {
	return &screen.Env{API: f, Login: &auth.Holder{}, Log: zerolog.Nop()}
}

func TestLoginSuccess(t *testing.T) {
	f := &fakeAPI{creds: auth.Credentials{Token: "tok", User: auth.User{ID: 3, Role: auth.RoleStudent}}}
	env := newEnv(f)
	s := New(env, "")
	s.Init()

	typeText(s, "ada@school.edu")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.focus != 1 {
		t.Fatalf("expected password focus, got %d", s.focus)
	}
	typeText(s, "secret")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil || !s.busy {
		t.Fatal("expected login command")
	}

	_, cmd = s.Update(cmd())
	if f.email != "ada@school.edu" {
		t.Errorf("login email = %q", f.email)
	}
	if env.Login.Token() != "tok" {
		t.Errorf("holder token = %q", env.Login.Token())
	}
	msg, ok := cmd().(LoggedInMsg)
	if !ok || msg.Credentials.User.ID != 3 {
		t.Errorf("expected LoggedInMsg, got %#v", msg)
	}
}

func TestLoginRequiresFields(t *testing.T) {
	f := &fakeAPI{}
	s := New(newEnv(f), "")
	s.focus = 1
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.errMsg == "" || s.busy {
		t.Error("expected validation message without a request")
	}
	if f.calls != 0 {
		t.Error("login should not be called")
	}
}

func TestLoginFailure(t *testing.T) {
	f := &fakeAPI{err: &api.StatusError{Code: 401, Message: "bad credentials"}}
	env := newEnv(f)
	s := New(env, "")
	typeText(s, "ada@school.edu")
	s.toggleFocus()
	typeText(s, "wrong")
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())

	if s.errMsg != "Invalid email or password." {
		t.Errorf("errMsg = %q", s.errMsg)
	}
	if s.password.Value() != "" {
		t.Error("password should be cleared after a failed login")
	}
	if env.Login.Token() != "" {
		t.Error("holder should stay empty")
	}
}

func TestDescribe(t *testing.T) {
	if got := describe(errors.New("dial tcp: refused")); got != "Could not reach the exam server. Try again." {
		t.Errorf("describe(transport) = %q", got)
	}
	if got := describe(&api.StatusError{Code: 500, Message: "db down"}); got != "db down" {
		t.Errorf("describe(500) = %q", got)
	}
}
