package history

import (
	"context"
	"path/filepath"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/store"
)

func testEnv(t *testing.T) *screen.Env {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return &screen.Env{Events: st.EventRepo(), Results: st.ResultRepo(), Log: zerolog.Nop()}
}

func TestHistoryEmpty(t *testing.T) {
	s := New(testEnv(t))
	s.Update(s.Init()())
	assert.Contains(t, s.View(100, 30), "No attempts")
}

func TestHistoryWithoutStore(t *testing.T) {
	s := New(&screen.Env{Log: zerolog.Nop()})
	s.Update(s.Init()())
	assert.True(t, s.loaded)
	assert.Empty(t, s.attempts)
}

func TestHistoryListsAttempts(t *testing.T) {
	env := testEnv(t)
	ctx := context.Background()

	ev := store.SessionEventData{SessionID: "s-1", ExamID: 3, ExamTitle: "Geography", Option: -1}
	ev.Action = session.ActionStart
	require.NoError(t, env.Events.AppendSessionEvent(ctx, ev))
	ev.Action, ev.Answered, ev.ResultID = session.ActionSubmitted, 2, 44
	require.NoError(t, env.Events.AppendSessionEvent(ctx, ev))
	require.NoError(t, env.Results.SaveResult(ctx, exam.Result{
		ID: 44, ExamID: 3, ExamTitle: "Geography", Score: 4, TotalMarks: 5, Percentage: 80,
	}))

	s := New(env)
	s.Update(s.Init()())
	require.Len(t, s.attempts, 1)

	view := s.View(140, 30)
	assert.Contains(t, view, "Geography")
	assert.Contains(t, view, "4/5")
	assert.Contains(t, view, "submitted")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(140, 30), "s-1")

	_, cmd := s.Update(tea.KeyPressMsg{Code: 'o', Text: "o"})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PushScreenMsg{}, cmd())
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		action string
		want   string
	}{
		{session.ActionSubmitted, "submitted"},
		{session.ActionTimeUp, "submission pending"},
		{session.ActionSubmitFailed, "submission failed"},
		{session.ActionAbandon, "abandoned"},
		{session.ActionSelect, "unfinished"},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			got, _ := outcome(store.AttemptSummary{LastAction: tt.action})
			assert.Equal(t, tt.want, got)
		})
	}
}
