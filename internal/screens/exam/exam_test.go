package exam

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/ui/components"
)

type fakeAPI struct {
	screen.API

	mu        sync.Mutex
	exam      *exam.Exam
	questions []exam.Question
	loadErr   error
	submitErr error
	result    *exam.Result
	submits   int
	answers   map[int64]int
}

func (f *fakeAPI) Exam(context.Context, int64) (*exam.Exam, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.exam, nil
}

func (f *fakeAPI) Questions(context.Context, int64) ([]exam.Question, error) {
	return f.questions, nil
}

func (f *fakeAPI) SaveAnswer(context.Context, int64, int64, int) error { return nil }

func (f *fakeAPI) SubmitExam(_ context.Context, _ int64, answers map[int64]int) (*exam.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	f.answers = answers
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return f.result, nil
}

func (f *fakeAPI) FetchResult(context.Context, int64) (*exam.Result, error) {
	return f.result, nil
}

func newFake() *fakeAPI {
	return &fakeAPI{
		exam: &exam.Exam{ID: 7, Title: "Chemistry", Duration: 1, TotalQuestions: 3, TotalMarks: 3},
		questions: []exam.Question{
			{ID: 1, Text: "H2O is?", Options: []string{"Water", "Salt", "Sugar", "Air"}, Marks: 1},
			{ID: 2, Text: "NaCl is?", Options: []string{"Water", "Salt", "Sugar", "Air"}, Marks: 1},
			{ID: 3, Text: "O2 is?", Options: []string{"Oxygen", "Gold"}, Marks: 1},
		},
		result: &exam.Result{ID: 90, ExamID: 7, Score: 1, TotalMarks: 3, Percentage: 33.3,
			Answers: []exam.AnswerOutcome{{QuestionID: 1, Correct: true}}},
	}
}

func key(r rune) tea.KeyPressMsg { return tea.KeyPressMsg{Code: r, Text: string(r)} }

// started returns a screen with the fake's exam loaded.
func started(t *testing.T, f *fakeAPI) *Screen {
	t.Helper()
	s := New(&screen.Env{API: f, Log: zerolog.Nop()}, 7)
	_, cmd := s.Update(s.Init()())
	require.NotNil(t, cmd, "expected timer loop")
	require.Equal(t, session.PhaseInProgress, s.sess.Phase())
	return s
}

func press(s *Screen, k tea.KeyPressMsg) tea.Cmd {
	_, cmd := s.Update(k)
	return cmd
}

// feed sends k and delivers the option or modal answer it produces.
func feed(s *Screen, k tea.KeyPressMsg) tea.Cmd {
	cmd := press(s, k)
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case components.OptionChosenMsg, components.ConfirmMsg:
		_, cmd = s.Update(msg)
		return cmd
	}
	return cmd
}

func TestExamLoadsAndAnswers(t *testing.T) {
	s := started(t, newFake())

	feed(s, key('2'))
	s.sess.WaitSaves()
	got, ok := s.sess.AnswerFor(1)
	require.True(t, ok)
	assert.Equal(t, 1, got)
	assert.Equal(t, 1, s.options.Chosen)

	press(s, key('n'))
	assert.Equal(t, 2, s.sess.Position())
	press(s, key('m'))
	assert.True(t, s.sess.IsMarked(2))
	press(s, tea.KeyPressMsg{Code: tea.KeyLeft})
	assert.Equal(t, 1, s.sess.Position())

	assert.Contains(t, s.View(120, 40), "H2O is?")
}

func TestExamJump(t *testing.T) {
	s := started(t, newFake())

	press(s, key('g'))
	require.True(t, s.jumping)
	press(s, key('3'))
	press(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, s.jumping)
	assert.Equal(t, 3, s.sess.Position())

	press(s, key('g'))
	press(s, key('9'))
	press(s, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, 3, s.sess.Position(), "out of range jump keeps position")
	assert.NotEmpty(t, s.banner)
}

func TestExamSubmitConfirmed(t *testing.T) {
	f := newFake()
	s := started(t, f)
	feed(s, key('1'))

	press(s, key('s'))
	require.True(t, s.modal.Open())
	assert.Contains(t, s.View(120, 40), "Unanswered: 2")

	cmd := feed(s, key('y'))
	require.NotNil(t, cmd)
	assert.Equal(t, session.PhaseSubmitting, s.sess.Phase())

	_, cmd = s.Update(cmd())
	assert.Equal(t, session.PhaseSubmitted, s.sess.Phase())
	assert.Equal(t, 1, f.submits)
	assert.Equal(t, map[int64]int{1: 0}, f.answers)
	require.NotNil(t, cmd)
	assert.IsType(t, router.ReplaceScreenMsg{}, cmd())
}

func TestExamSubmitDeclined(t *testing.T) {
	f := newFake()
	s := started(t, f)

	press(s, key('s'))
	assert.Nil(t, feed(s, key('n')))
	assert.False(t, s.modal.Open())
	assert.Equal(t, session.PhaseInProgress, s.sess.Phase())
	assert.Zero(t, f.submits)
}

func TestExamSubmitFailureAllowsRetry(t *testing.T) {
	f := newFake()
	f.submitErr = &api.StatusError{Code: 500, Message: "database down"}
	s := started(t, f)

	press(s, key('s'))
	cmd := feed(s, key('y'))
	s.Update(cmd())
	assert.Equal(t, session.PhaseInProgress, s.sess.Phase())
	assert.Contains(t, s.banner, "database down")

	f.submitErr = nil
	press(s, key('s'))
	cmd = feed(s, key('y'))
	s.Update(cmd())
	assert.Equal(t, session.PhaseSubmitted, s.sess.Phase())
	assert.Equal(t, 2, f.submits)
}

func TestExamTimeUpSubmitsOnce(t *testing.T) {
	f := newFake()
	f.exam.Duration = 0
	s := started(t, f)
	press(s, key('s'))
	require.True(t, s.modal.Open())

	_, cmd := s.Update(tickMsg{loop: s.loop})
	require.NotNil(t, cmd)
	assert.False(t, s.modal.Open(), "time-up closes the modal")
	assert.Equal(t, session.PhaseSubmitting, s.sess.Phase())
	assert.Equal(t, session.TriggerTimeUp, s.sess.Trigger())

	// A second tick while submitting must not start another submission.
	_, _ = s.Update(tickMsg{loop: s.loop})
	assert.Nil(t, s.submit(session.TriggerUser))

	for _, msg := range runBatch(cmd) {
		if done, ok := msg.(submitDoneMsg); ok {
			s.Update(done)
		}
	}
	assert.Equal(t, 1, f.submits)
	assert.Equal(t, session.PhaseSubmitted, s.sess.Phase())
}

func TestExamExpiredBlocksAnswers(t *testing.T) {
	f := newFake()
	f.exam.Duration = 0
	f.submitErr = errors.New("offline")
	s := started(t, f)

	_, cmd := s.Update(tickMsg{loop: s.loop})
	for _, msg := range runBatch(cmd) {
		if done, ok := msg.(submitDoneMsg); ok {
			s.Update(done)
		}
	}
	require.Equal(t, session.PhaseInProgress, s.sess.Phase())

	feed(s, key('1'))
	_, answered := s.sess.AnswerFor(1)
	assert.False(t, answered)

	// With time expired, s submits without asking.
	cmd = press(s, key('s'))
	assert.False(t, s.modal.Open())
	assert.NotNil(t, cmd)
}

func TestExamStaleTickIgnored(t *testing.T) {
	s := started(t, newFake())
	before := s.sess.Countdown().Seconds()
	_, cmd := s.Update(tickMsg{loop: s.loop - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, before, s.sess.Countdown().Seconds())

	_, cmd = s.Update(tickMsg{loop: s.loop})
	assert.NotNil(t, cmd)
	assert.Equal(t, before-1, s.sess.Countdown().Seconds())
}

func TestExamLeave(t *testing.T) {
	s := started(t, newFake())
	assert.True(t, s.HandlesEscape())

	press(s, tea.KeyPressMsg{Code: tea.KeyEscape})
	require.True(t, s.modal.Open())
	cmd := feed(s, key('y'))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
	assert.Equal(t, session.PhaseError, s.sess.Phase())
	assert.False(t, s.HandlesEscape())
}

func TestExamLoadFailure(t *testing.T) {
	f := newFake()
	f.loadErr = &api.StatusError{Code: 404}
	s := New(&screen.Env{API: f, Log: zerolog.Nop()}, 7)

	_, cmd := s.Update(s.Init()())
	assert.Nil(t, cmd)
	assert.Equal(t, session.PhaseError, s.sess.Phase())
	assert.Contains(t, s.View(80, 24), "could not be found")

	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestExamLoadUnauthorized(t *testing.T) {
	f := newFake()
	f.loadErr = &api.StatusError{Code: 401}
	s := New(&screen.Env{API: f, Log: zerolog.Nop()}, 7)

	_, cmd := s.Update(s.Init()())
	require.NotNil(t, cmd)
	assert.IsType(t, screen.AuthExpiredMsg{}, cmd())
}

func runBatch(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runBatch(c)...)
	}
	return out
}
