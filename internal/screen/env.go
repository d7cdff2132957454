package screen

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/coach"
	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/store"
)

// API is the part of the REST client the screens call. *api.Client
// satisfies it.
type API interface {
	Login(ctx context.Context, email, password string) (auth.Credentials, error)
	StudentDashboard(ctx context.Context) (*api.Dashboard, error)
	TeacherDashboard(ctx context.Context) (*api.Dashboard, error)
	AdminStats(ctx context.Context) (*api.Stats, error)
	Users(ctx context.Context) ([]auth.User, error)
	Exam(ctx context.Context, examID int64) (*exam.Exam, error)
	Questions(ctx context.Context, examID int64) ([]exam.Question, error)
	ExamResults(ctx context.Context, examID int64) ([]exam.Result, error)

	session.AnswerSaver
	session.Backend
}

// Env carries the collaborators every screen may need.
type Env struct {
	API     API
	Login   *auth.Holder
	Keyring *auth.Keyring // nil disables remembering the login
	Events  store.EventRepo
	Results store.ResultRepo
	Coach   *coach.Coach // nil when no LLM provider is configured
	Log     zerolog.Logger
	Now     func() time.Time
}

// Clock returns e.Now or time.Now.
func (e *Env) Clock() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// User returns the signed-in user, if any.
func (e *Env) User() (auth.User, bool) {
	if e.Login == nil {
		return auth.User{}, false
	}
	c, ok := e.Login.Current()
	return c.User, ok
}

// AuthExpiredMsg asks the app to drop the login and show the login screen.
type AuthExpiredMsg struct{}

// CheckAuth returns a command emitting AuthExpiredMsg when err is an
// authorization failure, and nil otherwise.
func CheckAuth(err error) tea.Cmd {
	if errors.Is(err, api.ErrUnauthorized) {
		return func() tea.Msg { return AuthExpiredMsg{} }
	}
	return nil
}

// LogoutMsg asks the app to forget the login and show the login screen.
type LogoutMsg struct{}

// Logout is a command emitting LogoutMsg.
func Logout() tea.Msg { return LogoutMsg{} }
