package session

import (
	"context"
	"fmt"
	"maps"

	"github.com/rs/zerolog"

	"github.com/examdesk/examdesk/internal/exam"
	"github.com/examdesk/examdesk/internal/store"
)

// Submission is the frozen payload of one submit attempt. Unanswered
// questions are absent from Answers.
type Submission struct {
	SessionID string
	ExamID    int64
	Answers   map[int64]int
	Trigger   Trigger
}

// BeginSubmit freezes the session and returns the payload to send. It
// returns ok=false when a submission is already in flight or done, so
// concurrent triggers collapse into one network call.
func (s *Session) BeginSubmit(trigger Trigger) (Submission, bool) {
	if s.phase != PhaseInProgress {
		return Submission{}, false
	}
	s.phase = PhaseSubmitting
	s.trigger = trigger
	s.err = nil

	sub := Submission{
		SessionID: s.ID,
		ExamID:    s.ExamID,
		Answers:   maps.Clone(s.answers),
		Trigger:   trigger,
	}
	s.log.Info().Str("trigger", string(trigger)).Int("answered", len(sub.Answers)).Msg("submitting")
	s.record(ActionSubmit, store.SessionEventData{Option: -1, Detail: string(trigger)})
	return sub, true
}

// TimeUp starts an automatic submission. It is a no-op while a submission
// is already in flight.
func (s *Session) TimeUp() (Submission, bool) {
	if s.phase == PhaseInProgress {
		s.record(ActionTimeUp, store.SessionEventData{Option: -1})
	}
	return s.BeginSubmit(TriggerTimeUp)
}

// CompleteSubmit stores the server result and ends the attempt. A nil
// result means the server accepted the answers but returned no result yet.
func (s *Session) CompleteSubmit(res *exam.Result) error {
	if s.phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.phase = PhaseSubmitted
	s.result = res
	s.countdown.Pause()

	var resultID int64
	if res != nil {
		resultID = res.ID
	}
	s.log.Info().Int64("result_id", resultID).Msg("submitted")
	s.record(ActionSubmitted, store.SessionEventData{Option: -1, ResultID: resultID})
	return nil
}

// FailSubmit unfreezes the session after a failed submission. Answers are
// kept and err is held for display; the user may retry.
func (s *Session) FailSubmit(err error) error {
	if s.phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.phase = PhaseInProgress
	s.err = err
	s.log.Error().Err(err).Str("trigger", string(s.trigger)).Msg("submission failed")
	s.record(ActionSubmitFailed, store.SessionEventData{Option: -1, Detail: errString(err)})
	return nil
}

// Backend is the server side of a submission.
type Backend interface {
	// SubmitExam posts the answers. The returned result may be partial;
	// it may carry only an ID.
	SubmitExam(ctx context.Context, examID int64, answers map[int64]int) (*exam.Result, error)

	// FetchResult loads a full result by ID.
	FetchResult(ctx context.Context, resultID int64) (*exam.Result, error)
}

// ResultCache keeps results for offline history. store.ResultRepo
// satisfies it.
type ResultCache interface {
	SaveResult(ctx context.Context, r exam.Result) error
}

// Submitter sends submissions and resolves their results.
type Submitter struct {
	backend Backend
	cache   ResultCache
	log     zerolog.Logger
}

// NewSubmitter returns a Submitter. cache may be nil.
func NewSubmitter(backend Backend, cache ResultCache, log zerolog.Logger) *Submitter {
	return &Submitter{
		backend: backend,
		cache:   cache,
		log:     log.With().Str("component", "submitter").Logger(),
	}
}

// Send makes exactly one submit call for sub. If the response carries only
// a result ID, the full result is fetched. A result is never synthesized
// locally: when the server returns nothing usable, Send returns (nil, nil).
func (sb *Submitter) Send(ctx context.Context, sub Submission) (*exam.Result, error) {
	res, err := sb.backend.SubmitExam(ctx, sub.ExamID, sub.Answers)
	if err != nil {
		return nil, fmt.Errorf("submit exam %d: %w", sub.ExamID, err)
	}
	if res == nil || res.IsEmpty() {
		sb.log.Warn().Int64("exam_id", sub.ExamID).Msg("submission accepted without a result")
		return nil, nil
	}

	if !res.HasBreakdown() && res.ID != 0 {
		full, err := sb.backend.FetchResult(ctx, res.ID)
		switch {
		case err != nil:
			sb.log.Warn().Err(err).Int64("result_id", res.ID).Msg("fetch full result failed")
		case full != nil:
			res = full
		}
	}

	if sb.cache != nil && res.ID != 0 {
		if err := sb.cache.SaveResult(ctx, *res); err != nil {
			sb.log.Warn().Err(err).Int64("result_id", res.ID).Msg("cache result failed")
		}
	}
	return res, nil
}

// Submit runs the whole flow against s: freeze, send, then complete on
// success or unfreeze on failure.
func (sb *Submitter) Submit(ctx context.Context, s *Session, trigger Trigger) (*exam.Result, error) {
	var (
		sub Submission
		ok  bool
	)
	if trigger == TriggerTimeUp {
		sub, ok = s.TimeUp()
	} else {
		sub, ok = s.BeginSubmit(trigger)
	}
	if !ok {
		if s.Phase() == PhaseSubmitting {
			return nil, ErrSubmitInFlight
		}
		return nil, ErrNotInProgress
	}

	res, err := sb.Send(ctx, sub)
	if err != nil {
		_ = s.FailSubmit(err)
		return nil, err
	}
	if err := s.CompleteSubmit(res); err != nil {
		return nil, err
	}
	return res, nil
}
