package teacherresults

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/screen"
)

type fakeAPI struct {
	screen.API
	results []exam.Result
	err     error
	examID  int64
}

func (f *fakeAPI) ExamResults(_ context.Context, examID int64) ([]exam.Result, error) {
	f.examID = examID
	return f.results, f.err
}

func TestResultsList(t *testing.T) {
	f := &fakeAPI{results: []exam.Result{
		{StudentName: "Ada", StudentEmail: "ada@school.edu", Score: 9, TotalMarks: 10, Percentage: 90},
		{StudentName: "Brian", StudentEmail: "brian@school.edu", Score: 3, TotalMarks: 10, Percentage: 30},
	}}
	s := New(&screen.Env{API: f, Log: zerolog.Nop()}, exam.Exam{ID: 5, Title: "Biology", TotalMarks: 10})

	s.Update(s.Init()())
	assert.Equal(t, int64(5), f.examID)

	view := s.View(120, 30)
	assert.Contains(t, view, "Biology")
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, "average 60.0%")
	assert.Contains(t, view, "1 passed")
}

func TestResultsUnauthorized(t *testing.T) {
	f := &fakeAPI{err: &api.StatusError{Code: 403}}
	s := New(&screen.Env{API: f, Log: zerolog.Nop()}, exam.Exam{ID: 5, Title: "Biology"})

	_, cmd := s.Update(s.Init()())
	require.NotNil(t, cmd)
	assert.IsType(t, screen.AuthExpiredMsg{}, cmd())
	assert.Contains(t, s.View(80, 24), "Could not load")
}

func TestResultsEmptyAndBack(t *testing.T) {
	s := New(&screen.Env{API: &fakeAPI{}, Log: zerolog.Nop()}, exam.Exam{ID: 5, Title: "Biology"})
	s.Update(s.Init()())
	assert.Contains(t, s.View(80, 24), "No student has submitted")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.NotNil(t, cmd)
}

func TestAverage(t *testing.T) {
	avg, passed := average(nil)
	assert.Zero(t, avg)
	assert.Zero(t, passed)

	avg, passed = average([]exam.Result{{Percentage: 50}, {Percentage: 70}, {Percentage: 30}})
	assert.InDelta(t, 50.0, avg, 0.001)
	assert.Equal(t, 2, passed)
}
