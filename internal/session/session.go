// Package session holds the state machine for a single exam attempt.
//
// A Session is owned by one goroutine (the TUI event loop or a test) and is
// not safe for concurrent use. The only work it starts in the background is
// the best-effort answer save, which never touches session state.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/store"
	"github.com/examdesk/examdesk/internal/timer"
)

// DefaultSaveTimeout bounds each best-effort answer save.
const DefaultSaveTimeout = 5 * time.Second

// AnswerSaver persists a single answer to the server.
type AnswerSaver interface {
	SaveAnswer(ctx context.Context, examID, questionID int64, option int) error
}

// Journal records attempt events locally. store.EventRepo satisfies it.
type Journal interface {
	AppendSessionEvent(ctx context.Context, data store.SessionEventData) error
}

// Option configures a Session.
type Option func(*Session)

func WithSaver(s AnswerSaver) Option {
	return func(sess *Session) { sess.saver = s }
}

func WithJournal(j Journal) Option {
	return func(sess *Session) { sess.journal = j }
}

func WithLogger(l zerolog.Logger) Option {
	return func(sess *Session) { sess.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(sess *Session) { sess.now = now }
}

func WithSaveTimeout(d time.Duration) Option {
	return func(sess *Session) { sess.saveTimeout = d }
}

// Session is one attempt at one exam.
type Session struct {
	ID     string
	ExamID int64

	exam      exam.Exam
	questions []exam.Question
	index     map[int64]int // question ID -> 0-based position

	position int // 1-based
	answers  map[int64]int
	review   map[int]bool

	phase     Phase
	countdown *timer.Countdown
	startedAt time.Time
	trigger   Trigger
	result    *exam.Result
	err       error

	saver       AnswerSaver
	journal     Journal
	log         zerolog.Logger
	now         func() time.Time
	saveTimeout time.Duration
	saves       sync.WaitGroup
}

// New returns a session in PhaseLoading for the given exam.
func New(examID int64, opts ...Option) *Session {
	s := &Session{
		ID:          uuid.NewString(),
		ExamID:      examID,
		answers:     make(map[int64]int),
		review:      make(map[int]bool),
		phase:       PhaseLoading,
		log:         zerolog.Nop(),
		now:         time.Now,
		saveTimeout: DefaultSaveTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session_id", s.ID).Int64("exam_id", examID).Logger()
	return s
}

// Start moves a loading session into PhaseInProgress with the fetched exam
// and questions. An empty question list is a load failure.
func (s *Session) Start(e exam.Exam, questions []exam.Question) error {
	if s.phase != PhaseLoading {
		return ErrNotLoading
	}
	if len(questions) == 0 {
		s.Fail(ErrNoQuestions)
		return ErrNoQuestions
	}

	s.exam = e
	s.questions = make([]exam.Question, len(questions))
	copy(s.questions, questions)
	s.index = make(map[int64]int, len(questions))
	for i, q := range s.questions {
		s.index[q.ID] = i
	}
	s.position = 1
	s.countdown = timer.New(e.Duration, nil)
	s.startedAt = s.now()
	s.phase = PhaseInProgress

	s.log.Info().Int("questions", len(questions)).Int("minutes", e.Duration).Msg("attempt started")
	s.record(ActionStart, store.SessionEventData{Option: -1, Position: 1})
	return nil
}

// Fail marks a loading session as failed. It has no effect in other phases.
func (s *Session) Fail(err error) {
	if s.phase != PhaseLoading {
		return
	}
	s.phase = PhaseError
	s.err = err
	s.log.Error().Err(err).Msg("attempt failed to load")
	s.record(ActionLoadFailed, store.SessionEventData{Option: -1, Detail: errString(err)})
}

// Abandon ends an in-progress attempt without submitting.
func (s *Session) Abandon() error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	s.phase = PhaseError
	s.err = ErrAbandoned
	s.countdown.Pause()
	s.log.Info().Int("answered", s.AnsweredCount()).Msg("attempt abandoned")
	s.record(ActionAbandon, store.SessionEventData{Option: -1, Position: s.position})
	return nil
}

// SelectOption records option as the answer to questionID, replacing any
// earlier choice, and starts a best-effort save.
func (s *Session) SelectOption(questionID int64, option int) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	i, ok := s.index[questionID]
	if !ok {
		return ErrUnknownQuestion
	}
	if option < 0 || option >= len(s.questions[i].Options) {
		return ErrInvalidOption
	}

	s.answers[questionID] = option
	s.record(ActionSelect, store.SessionEventData{QuestionID: questionID, Option: option, Position: i + 1})
	s.autosave(questionID, option)
	return nil
}

// SelectCurrent answers the question at the current position.
func (s *Session) SelectCurrent(option int) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	return s.SelectOption(s.Current().ID, option)
}

func (s *Session) autosave(questionID int64, option int) {
	if s.saver == nil {
		return
	}
	saver, examID, timeout, log := s.saver, s.exam.ID, s.saveTimeout, s.log

	s.saves.Add(1)
	go func() {
		defer s.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := saver.SaveAnswer(ctx, examID, questionID, option); err != nil {
			log.Warn().Err(err).Int64("question_id", questionID).Msg("save answer failed")
		}
	}()
}

// WaitSaves blocks until in-flight answer saves have returned.
func (s *Session) WaitSaves() {
	s.saves.Wait()
}

// ToggleReview flips the review mark on position.
func (s *Session) ToggleReview(position int) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if !s.inRange(position) {
		return ErrOutOfRange
	}
	if s.review[position] {
		delete(s.review, position)
	} else {
		s.review[position] = true
	}
	s.record(ActionReview, store.SessionEventData{Option: -1, Position: position})
	return nil
}

// ToggleReviewCurrent flips the review mark on the current position.
func (s *Session) ToggleReviewCurrent() error {
	return s.ToggleReview(s.position)
}

// Navigate moves to position. Out-of-range positions are rejected and
// leave the current position unchanged.
func (s *Session) Navigate(position int) error {
	if s.phase != PhaseInProgress {
		return ErrNotInProgress
	}
	if !s.inRange(position) {
		return ErrOutOfRange
	}
	s.position = position
	return nil
}

// Next moves forward one question, stopping at the last.
func (s *Session) Next() bool {
	if s.phase != PhaseInProgress || s.position >= len(s.questions) {
		return false
	}
	s.position++
	return true
}

// Prev moves back one question, stopping at the first.
func (s *Session) Prev() bool {
	if s.phase != PhaseInProgress || s.position <= 1 {
		return false
	}
	s.position--
	return true
}

func (s *Session) inRange(position int) bool {
	return position >= 1 && position <= len(s.questions)
}

// Tick advances the countdown by one second and reports whether time ran
// out on this tick. The clock keeps running while a submission is in flight.
func (s *Session) Tick() bool {
	if s.countdown == nil || (s.phase != PhaseInProgress && s.phase != PhaseSubmitting) {
		return false
	}
	return s.countdown.Tick()
}

// Phase returns the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Exam returns the loaded exam metadata.
func (s *Session) Exam() exam.Exam { return s.exam }

// Questions returns the ordered question list. Callers must not modify it.
func (s *Session) Questions() []exam.Question { return s.questions }

// Countdown returns the attempt clock, nil before Start.
func (s *Session) Countdown() *timer.Countdown { return s.countdown }

func (s *Session) Position() int { return s.position }

func (s *Session) Total() int { return len(s.questions) }

func (s *Session) StartedAt() time.Time { return s.startedAt }

// Result returns the server result once submitted. It may be nil when the
// server accepted the submission without returning one.
func (s *Session) Result() *exam.Result { return s.result }

// Err returns the load, abandon or most recent submission error.
func (s *Session) Err() error { return s.err }

// Trigger returns what started the latest submission.
func (s *Session) Trigger() Trigger { return s.trigger }

// Current returns the question at the current position.
func (s *Session) Current() exam.Question {
	if !s.inRange(s.position) {
		return exam.Question{}
	}
	return s.questions[s.position-1]
}

// AnswerFor returns the selected option for questionID.
func (s *Session) AnswerFor(questionID int64) (int, bool) {
	opt, ok := s.answers[questionID]
	return opt, ok
}

// AnsweredCount counts answers for questions in the current list.
func (s *Session) AnsweredCount() int {
	n := 0
	for qid := range s.answers {
		if _, ok := s.index[qid]; ok {
			n++
		}
	}
	return n
}

func (s *Session) UnansweredCount() int {
	return len(s.questions) - s.AnsweredCount()
}

// MarkedCount counts positions marked for review.
func (s *Session) MarkedCount() int {
	return len(s.review)
}

func (s *Session) IsAnswered(position int) bool {
	if !s.inRange(position) {
		return false
	}
	_, ok := s.answers[s.questions[position-1].ID]
	return ok
}

func (s *Session) IsMarked(position int) bool {
	return s.review[position]
}

// PaletteStatus returns the display status of position. The current
// position takes precedence over everything else.
func (s *Session) PaletteStatus(position int) PaletteStatus {
	answered, marked := s.IsAnswered(position), s.IsMarked(position)
	switch {
	case position == s.position:
		return StatusCurrent
	case marked && answered:
		return StatusMarkedAnswered
	case marked:
		return StatusMarked
	case answered:
		return StatusAnswered
	default:
		return StatusNotVisited
	}
}

func (s *Session) record(action string, data store.SessionEventData) {
	if s.journal == nil {
		return
	}
	data.SessionID = s.ID
	data.ExamID = s.ExamID
	data.ExamTitle = s.exam.Title
	data.Action = action
	data.Answered = s.AnsweredCount()
	if err := s.journal.AppendSessionEvent(context.Background(), data); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("journal append failed")
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
