package result

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk/internal/coach"
	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/llm"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/session"
)

func intPtr(i int) *int { return &i }

func testAttempt() Attempt {
	return Attempt{
		Exam: exam.Exam{ID: 4, Title: "Physics Quiz", Subject: "Physics", TotalMarks: 3},
		Questions: []exam.Question{
			{ID: 1, Text: "Unit of force?", Options: []string{"N", "J"}, Marks: 1},
			{ID: 2, Text: "Unit of energy?", Options: []string{"N", "J"}, Marks: 1},
			{ID: 3, Text: "Unit of power?", Options: []string{"W", "J"}, Marks: 1},
		},
		Result: &exam.Result{
			ID: 11, ExamID: 4, ExamTitle: "Physics Quiz", Score: 1, TotalMarks: 3, Percentage: 33.3,
			Answers: []exam.AnswerOutcome{
				{QuestionID: 1, SelectedOption: intPtr(0), Correct: true},
				{QuestionID: 2, SelectedOption: intPtr(0)},
				{QuestionID: 3},
			},
		},
	}
}

// runBatch executes cmd and, if it is a batch, each of its commands.
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

func TestResultView(t *testing.T) {
	s := New(&screen.Env{Log: zerolog.Nop()}, testAttempt())
	assert.Nil(t, s.Init(), "no coach configured")

	view := s.View(100, 40)
	assert.Contains(t, view, "Physics Quiz")
	assert.Contains(t, view, "1 / 3")
	assert.Contains(t, view, "Grade")
	assert.Contains(t, view, "1 correct")
	assert.Contains(t, view, "1 incorrect")
	assert.Contains(t, view, "1 unanswered")
	assert.Contains(t, view, "Unit of force?")
}

func TestResultPending(t *testing.T) {
	a := testAttempt()
	a.Result = nil
	a.Trigger = session.TriggerTimeUp
	s := New(&screen.Env{Log: zerolog.Nop()}, a)

	view := s.View(100, 30)
	assert.Contains(t, view, "not available yet")
	assert.Contains(t, view, "submitted automatically")
}

func TestResultFromCache(t *testing.T) {
	res := *testAttempt().Result
	s := NewFromResult(&screen.Env{Log: zerolog.Nop()}, res)

	view := s.View(100, 40)
	assert.Contains(t, view, "Physics Quiz")
	assert.Contains(t, view, "Question #2")
}

func TestResultCoachNotes(t *testing.T) {
	p := llm.NewScripted(llm.Reply{JSON: json.RawMessage(coach.SampleReply)})
	env := &screen.Env{Log: zerolog.Nop(), Coach: coach.New(p, 0)}
	s := New(env, testAttempt())

	cmd := s.Init()
	require.NotNil(t, cmd)
	assert.True(t, s.coaching)
	assert.Contains(t, s.View(100, 40), "Preparing study notes")

	var notes notesMsg
	for _, msg := range runBatch(cmd) {
		if n, ok := msg.(notesMsg); ok {
			notes = n
		}
	}
	require.NoError(t, notes.err)
	s.Update(notes)

	assert.False(t, s.coaching)
	view := s.View(100, 60)
	assert.Contains(t, view, "Study notes")
	assert.Equal(t, 1, p.Calls())
	assert.True(t, strings.Contains(p.Prompts[0].User, "Unit of energy?"))
}

func TestResultCoachFailure(t *testing.T) {
	s := New(&screen.Env{Log: zerolog.Nop()}, testAttempt())
	s.coaching = true
	s.Update(notesMsg{err: errors.New("boom")})

	assert.False(t, s.coaching)
	assert.Contains(t, s.View(100, 40), "unavailable")
}

func TestResultKeys(t *testing.T) {
	s := New(&screen.Env{Log: zerolog.Nop()}, testAttempt())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, s.offset)
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	s.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 0, s.offset)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}
