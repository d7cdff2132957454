package session

import "errors"

// Phase represents the current phase of an exam attempt.
type Phase int

const (
	PhaseLoading    Phase = iota // Fetching exam and questions
	PhaseInProgress              // Answering; the only phase that accepts edits
	PhaseSubmitting              // Answers frozen, submit call in flight
	PhaseSubmitted               // Result received; terminal
	PhaseError                   // Load failed; terminal
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseInProgress:
		return "in_progress"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Trigger names what started a submission.
type Trigger string

const (
	TriggerUser   Trigger = "user"
	TriggerTimeUp Trigger = "time_up"
)

// PaletteStatus is the display state of one question in the navigation
// palette.
type PaletteStatus string

const (
	StatusCurrent        PaletteStatus = "current"
	StatusMarkedAnswered PaletteStatus = "marked-answered"
	StatusMarked         PaletteStatus = "marked"
	StatusAnswered       PaletteStatus = "answered"
	StatusNotVisited     PaletteStatus = "not-visited"
)

// Journal actions.
const (
	ActionStart        = "start"
	ActionLoadFailed   = "load_failed"
	ActionSelect       = "select"
	ActionReview       = "review"
	ActionSubmit       = "submit"
	ActionSubmitted    = "submitted"
	ActionSubmitFailed = "submit_failed"
	ActionTimeUp       = "time_up"
	ActionAbandon      = "abandon"
)

var (
	ErrNotInProgress   = errors.New("session is not in progress")
	ErrNotSubmitting   = errors.New("session is not submitting")
	ErrNotLoading      = errors.New("session has already loaded")
	ErrNoQuestions     = errors.New("exam has no questions")
	ErrOutOfRange      = errors.New("question position out of range")
	ErrUnknownQuestion = errors.New("question is not part of this exam")
	ErrInvalidOption   = errors.New("option index out of range")
	ErrSubmitInFlight  = errors.New("submission already in progress")
	ErrAbandoned       = errors.New("attempt abandoned")
)
