package exam

import (
	"github.com/examdesk/examdesk/internal/exam"
)

// loadedMsg carries the fetched exam and its questions.
type loadedMsg struct {
	exam      *exam.Exam
	questions []exam.Question
	err       error
}

// tickMsg is one second of the session's timer loop. loop identifies the
// loop that scheduled it; ticks from a stopped loop are ignored.
type tickMsg struct {
	loop int
}

// submitDoneMsg is the outcome of the single submit call.
type submitDoneMsg struct {
	res *exam.Result
	err error
}

const (
	confirmSubmit = "submit"
	confirmLeave  = "leave"
)
