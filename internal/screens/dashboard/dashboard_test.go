package dashboard

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
)

var now = time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)

type fakeAPI struct {
	screen.API
	dash  *api.Dashboard
	stats *api.Stats
	users []auth.User
	err   error
}

func (f *fakeAPI) StudentDashboard(context.Context) (*api.Dashboard, error) { return f.dash, f.err }
func (f *fakeAPI) TeacherDashboard(context.Context) (*api.Dashboard, error) { return f.dash, f.err }
func (f *fakeAPI) AdminStats(context.Context) (*api.Stats, error) { return f.stats, f.err }
func (f *fakeAPI) Users(context.Context) ([]auth.User, error) { return f.users, f.err }

func at(d time.Duration) exam.Timestamp { return exam.Timestamp{Time: now.Add(d)} }

func studentDash() *api.Dashboard {
	return &api.Dashboard{
		Stats: api.Stats{TotalExams: 4, UpcomingExams: 1, CompletedExams: 1},
		Exams: []exam.Exam{
			{ID: 1, Title: "Open Now", Duration: 60, ScheduledAt: at(-10 * time.Minute)},
			{ID: 2, Title: "Later", Duration: 30, ScheduledAt: at(2 * time.Hour)},
			{ID: 3, Title: "Closed", Duration: 30, ScheduledAt: at(-2 * time.Hour)},
			{ID: 4, Title: "Done", Duration: 30, Status: exam.StatusCompleted, ScheduledAt: at(-time.Hour)},
		},
	}
}

func newEnv(f *fakeAPI) *screen.Env {
	return &screen.Env{API: f, Login: &auth.Holder{}, Log: zerolog.Nop(), Now: func() time.Time { return now }}
}

// load runs the data half of Init and delivers it.
func load(t *testing.T, d Dashboard) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	switch s := d.(type) {
	case *student:
		s.loop++
		cmd = s.load()
	default:
		cmd = d.Init()
	}
	_, next := d.Update(cmd())
	return next
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

func TestNewDispatchesOnRole(t *testing.T) {
	env := newEnv(&fakeAPI{})
	assert.Equal(t, auth.RoleAdmin, New(auth.RoleAdmin, env).Role())
	assert.Equal(t, auth.RoleTeacher, New(auth.RoleTeacher, env).Role())
	assert.Equal(t, auth.RoleStudent, New(auth.RoleStudent, env).Role())
	assert.Equal(t, auth.RoleStudent, New(auth.Role("GUEST"), env).Role(), "unknown roles fall back")
}

func TestStudentAvailability(t *testing.T) {
	d := New(auth.RoleStudent, newEnv(&fakeAPI{dash: studentDash()}))
	load(t, d)

	view := d.View(120, 40)
	assert.Contains(t, view, "AVAILABLE · closes in 00:50:00")
	assert.Contains(t, view, "LOCKED · starts in 02:00:00")
	assert.Contains(t, view, "EXPIRED")
	assert.Contains(t, view, "COMPLETED")
}

func TestStudentOpensAvailableExam(t *testing.T) {
	d := New(auth.RoleStudent, newEnv(&fakeAPI{dash: studentDash()}))
	load(t, d)

	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PushScreenMsg{}, cmd())
}

func TestStudentLockedExamShowsNotice(t *testing.T) {
	d := New(auth.RoleStudent, newEnv(&fakeAPI{dash: studentDash()}))
	load(t, d)

	d.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, d.View(120, 40), "opens in 02:00:00")
}

func TestStudentCompletedWithoutCache(t *testing.T) {
	d := New(auth.RoleStudent, newEnv(&fakeAPI{dash: studentDash()}))
	load(t, d)

	for range 3 {
		d.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Contains(t, d.View(120, 40), "No result for this exam")
}

func TestStudentTickLoop(t *testing.T) {
	s := newStudent(newEnv(&fakeAPI{dash: studentDash()}))
	load(t, s)

	later := now.Add(10 * time.Minute)
	_, cmd := s.Update(tickMsg{loop: s.loop, at: later})
	assert.NotNil(t, cmd)
	assert.Contains(t, s.View(120, 40), "closes in 00:40:00")

	_, cmd = s.Update(tickMsg{loop: s.loop - 1, at: later.Add(time.Minute)})
	assert.Nil(t, cmd, "stale loop is dropped")
	assert.Equal(t, later, s.now)
}

func TestStudentUnauthorized(t *testing.T) {
	d := New(auth.RoleStudent, newEnv(&fakeAPI{err: &api.StatusError{Code: 401}}))
	cmd := load(t, d)
	require.NotNil(t, cmd)
	assert.IsType(t, screen.AuthExpiredMsg{}, cmd())
}

func TestStudentLogout(t *testing.T) {
	d := New(auth.RoleStudent, newEnv(&fakeAPI{dash: studentDash()}))
	_, cmd := d.Update(key('L'))
	require.NotNil(t, cmd)
	assert.IsType(t, screen.LogoutMsg{}, cmd())
}

func TestTeacherOpensResults(t *testing.T) {
	d := New(auth.RoleTeacher, newEnv(&fakeAPI{dash: studentDash()}))
	load(t, d)
	assert.Contains(t, d.View(120, 40), "Open Now")

	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PushScreenMsg{}, cmd())
}

func TestAdminUsers(t *testing.T) {
	f := &fakeAPI{
		stats: &api.Stats{TotalStudents: 2, TotalTeachers: 1},
		users: []auth.User{
			{ID: 1, FullName: "Grace Hopper", Email: "grace@school.edu", Role: auth.RoleTeacher},
			{ID: 2, FullName: "Alan Turing", Email: "alan@school.edu", Role: auth.RoleStudent},
		},
	}
	d := New(auth.RoleAdmin, newEnv(f))
	load(t, d)

	view := d.View(120, 40)
	assert.Contains(t, view, "Grace Hopper")
	assert.Contains(t, view, "Students")
}
