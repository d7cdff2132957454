// Package exam is the exam-taking screen: one question at a time, a
// question palette, a live timer and the submit flow.
package exam

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/examdesk/examdesk/internal/api"
	"github.com/examdesk/examdesk/internal/router"
	"github.com/examdesk/examdesk/internal/screen"
	"github.com/examdesk/examdesk/internal/screens/result"
	"github.com/examdesk/examdesk/internal/session"
	"github.com/examdesk/examdesk/internal/ui/components"
	"github.com/examdesk/examdesk/internal/ui/layout"
)

// Screen runs one attempt.
type Screen struct {
	env       *screen.Env
	sess      *session.Session
	submitter *session.Submitter

	options components.OptionList
	modal   components.Confirm
	jump    components.TextInput
	jumping bool

	// loop is the ID of the live timer loop; bumping it stops the loop.
	loop   int
	banner string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.EscapeHandler = (*Screen)(nil)

// New returns a screen that loads examID and starts an attempt.
func New(env *screen.Env, examID int64) *Screen {
	opts := []session.Option{
		session.WithSaver(env.API),
		session.WithLogger(env.Log),
	}
	if env.Events != nil {
		opts = append(opts, session.WithJournal(env.Events))
	}
	if env.Now != nil {
		opts = append(opts, session.WithClock(env.Now))
	}

	var cache session.ResultCache
	if env.Results != nil {
		cache = env.Results
	}

	return &Screen{
		env:       env,
		sess:      session.New(examID, opts...),
		submitter: session.NewSubmitter(env.API, cache, env.Log),
	}
}

// Session exposes the attempt for tests.
func (s *Screen) Session() *session.Session { return s.sess }

func (s *Screen) Init() tea.Cmd {
	client, examID := s.env.API, s.sess.ExamID
	return func() tea.Msg {
		ctx := context.Background()
		e, err := client.Exam(ctx, examID)
		if err != nil {
			return loadedMsg{err: err}
		}
		qs, err := client.Questions(ctx, examID)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{exam: e, questions: qs}
	}
}

func (s *Screen) Title() string {
	if s.sess.Phase() == session.PhaseLoading || s.sess.Phase() == session.PhaseError {
		return "Exam"
	}
	return s.sess.Exam().Title
}

// HandlesEscape keeps the app from popping an attempt in progress.
func (s *Screen) HandlesEscape() bool {
	p := s.sess.Phase()
	return p == session.PhaseInProgress || p == session.PhaseSubmitting
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.modal.Open():
		return []layout.KeyHint{{Key: "y", Description: "Yes"}, {Key: "n", Description: "No"}}
	case s.jumping:
		return []layout.KeyHint{{Key: "Enter", Description: "Go"}, {Key: "Esc", Description: "Cancel"}}
	case s.sess.Phase() == session.PhaseInProgress:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "←→", Description: "Prev/Next"},
			{Key: "m", Description: "Mark"},
			{Key: "g", Description: "Go to"},
			{Key: "s", Description: "Submit"},
			{Key: "Esc", Description: "Leave"},
		}
	case s.sess.Phase() == session.PhaseError:
		return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
	}
	return nil
}

func tick(loop int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return tickMsg{loop: loop} })
}

// stopLoop invalidates the running timer loop.
func (s *Screen) stopLoop() { s.loop++ }

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		return s.handleLoaded(msg)
	case tickMsg:
		return s.handleTick(msg)
	case submitDoneMsg:
		return s.handleSubmitDone(msg)
	case components.ConfirmMsg:
		return s.handleConfirm(msg)
	case components.OptionChosenMsg:
		if err := s.sess.SelectCurrent(msg.Index); err != nil {
			s.env.Log.Debug().Err(err).Msg("select ignored")
		}
		s.syncOptions()
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleLoaded(msg loadedMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		s.sess.Fail(msg.err)
		return s, screen.CheckAuth(msg.err)
	}
	if err := s.sess.Start(*msg.exam, msg.questions); err != nil {
		return s, nil
	}
	s.syncOptions()
	s.stopLoop()
	return s, tick(s.loop)
}

func (s *Screen) handleTick(msg tickMsg) (screen.Screen, tea.Cmd) {
	if msg.loop != s.loop {
		return s, nil
	}
	p := s.sess.Phase()
	if p != session.PhaseInProgress && p != session.PhaseSubmitting {
		return s, nil
	}

	if s.sess.Tick() {
		// The clock stops at zero, so the loop ends here.
		return s, s.submit(session.TriggerTimeUp)
	}
	return s, tick(s.loop)
}

// submit freezes the session and sends it. It returns nil when a
// submission is already in flight.
func (s *Screen) submit(trigger session.Trigger) tea.Cmd {
	var (
		sub session.Submission
		ok  bool
	)
	if trigger == session.TriggerTimeUp {
		sub, ok = s.sess.TimeUp()
		s.modal = components.Confirm{}
		s.jumping = false
	} else {
		sub, ok = s.sess.BeginSubmit(trigger)
	}
	if !ok {
		return nil
	}
	s.banner = ""
	submitter := s.submitter
	return func() tea.Msg {
		res, err := submitter.Send(context.Background(), sub)
		return submitDoneMsg{res: res, err: err}
	}
}

func (s *Screen) handleSubmitDone(msg submitDoneMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		_ = s.sess.FailSubmit(msg.err)
		s.banner = "Submission failed: " + describe(msg.err) + " Press s to try again."
		return s, screen.CheckAuth(msg.err)
	}
	if err := s.sess.CompleteSubmit(msg.res); err != nil {
		return s, nil
	}
	s.stopLoop()
	return s, router.Replace(result.New(s.env, result.Attempt{
		Exam:      s.sess.Exam(),
		Questions: s.sess.Questions(),
		Result:    msg.res,
		Trigger:   s.sess.Trigger(),
	}))
}

func (s *Screen) handleConfirm(msg components.ConfirmMsg) (screen.Screen, tea.Cmd) {
	if !msg.Yes {
		return s, nil
	}
	switch msg.Tag {
	case confirmSubmit:
		return s, s.submit(session.TriggerUser)
	case confirmLeave:
		if err := s.sess.Abandon(); err != nil {
			return s, nil
		}
		s.stopLoop()
		return s, router.Pop
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.sess.Phase() {
	case session.PhaseError:
		if key == "enter" || key == "esc" {
			return s, router.Pop
		}
		return s, nil
	case session.PhaseInProgress:
	default:
		return s, nil
	}

	if s.modal.Open() {
		var cmd tea.Cmd
		s.modal, cmd = s.modal.Update(msg)
		return s, cmd
	}
	if s.jumping {
		return s.handleJumpKey(msg)
	}

	expired := s.sess.Countdown().Expired()
	switch key {
	case "esc":
		s.modal = components.NewConfirm(confirmLeave, "Leave this exam?",
			"Your attempt will be abandoned and nothing will be submitted.")
		return s, nil
	case "s":
		if expired {
			return s, s.submit(session.TriggerTimeUp)
		}
		s.modal = components.NewConfirm(confirmSubmit, "Submit exam?",
			fmt.Sprintf("Answered:   %d of %d", s.sess.AnsweredCount(), s.sess.Total()),
			fmt.Sprintf("Unanswered: %d", s.sess.UnansweredCount()),
			fmt.Sprintf("Marked:     %d", s.sess.MarkedCount()),
			"You cannot change answers after submitting.")
		return s, nil
	case "right", "n":
		s.sess.Next()
		s.syncOptions()
		return s, nil
	case "left", "p":
		s.sess.Prev()
		s.syncOptions()
		return s, nil
	case "m":
		_ = s.sess.ToggleReviewCurrent()
		return s, nil
	case "g":
		s.jumping = true
		s.jump = components.NewNumberInput("Go to question", 4)
		return s, s.jump.Focus()
	}

	if expired {
		return s, nil
	}
	var cmd tea.Cmd
	s.options, cmd = s.options.Update(msg)
	return s, cmd
}

func (s *Screen) handleJumpKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.jumping = false
		return s, nil
	case "enter":
		s.jumping = false
		n, err := s.jump.NumericValue()
		if err == nil {
			err = s.sess.Navigate(n)
		}
		if err != nil {
			s.banner = fmt.Sprintf("There is no question %q.", s.jump.Value())
			return s, nil
		}
		s.banner = ""
		s.syncOptions()
		return s, nil
	}
	var cmd tea.Cmd
	s.jump, cmd = s.jump.Update(msg)
	return s, cmd
}

// syncOptions rebuilds the option list for the current question.
func (s *Screen) syncOptions() {
	if s.sess.Total() == 0 {
		return
	}
	q := s.sess.Current()
	chosen, ok := s.sess.AnswerFor(q.ID)
	if !ok {
		chosen = -1
	}
	cursor := s.options.Cursor
	samePrompt := len(s.options.Options) == len(q.Options) && s.options.Chosen == chosen
	s.options = components.NewOptionList(q.Options, chosen)
	if samePrompt && chosen < 0 && cursor < len(q.Options) {
		s.options.Cursor = cursor
	}
}

func describe(err error) string {
	var se *api.StatusError
	switch {
	case errors.Is(err, api.ErrUnauthorized):
		return "your login has expired."
	case errors.Is(err, api.ErrNotFound):
		return "the exam no longer exists."
	case errors.As(err, &se) && se.Message != "":
		return se.Message + "."
	}
	return "the exam server could not be reached."
}

// loadError is the message shown when the attempt never started.
func loadError(err error) string {
	switch {
	case errors.Is(err, api.ErrNotFound):
		return "This exam could not be found."
	case errors.Is(err, session.ErrNoQuestions):
		return "This exam has no questions yet."
	case errors.Is(err, api.ErrUnauthorized):
		return "Your login has expired."
	case errors.Is(err, api.ErrInvalidPayload):
		return "The server sent an exam this client cannot read."
	}
	return "The exam could not be loaded."
}
