package exam

import "time"

// Status is the server-assigned lifecycle status of an exam.
type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusOngoing   Status = "ONGOING"
	StatusCompleted Status = "COMPLETED"
)

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// Exam is the exam metadata returned by the detail and dashboard endpoints.
// It is treated as immutable once a session has loaded it.
type Exam struct {
	ID             int64     `json:"examId" validate:"gt=0"`
	Title          string    `json:"title" validate:"required"`
	Subject        string    `json:"subject"`
	Duration       int       `json:"duration" validate:"gte=0"` // minutes
	TotalQuestions int       `json:"totalQuestions" validate:"gte=0"`
	TotalMarks     int       `json:"totalMarks" validate:"gte=0"`
	Status         Status    `json:"status" validate:"omitempty,oneof=UPCOMING ONGOING COMPLETED"`
	ScheduledAt    Timestamp `json:"scheduledAt"`
	CreatedBy      string    `json:"createdBy,omitempty"`
}

// DurationTime returns the exam duration as a time.Duration.
func (e Exam) DurationTime() time.Duration {
	return time.Duration(e.Duration) * time.Minute
}

// EndsAt returns the close of the availability window.
func (e Exam) EndsAt() time.Time {
	return e.ScheduledAt.Add(e.DurationTime())
}

// Question is a multiple-choice question. CorrectAnswer is nil whenever the
// server withholds it, which is always the case on student endpoints.
type Question struct {
	ID            int64      `json:"questionId" validate:"gt=0"`
	Text          string     `json:"questionText" validate:"required"`
	Options       []string   `json:"options" validate:"min=2"`
	CorrectAnswer *int       `json:"correctAnswer,omitempty"`
	Subject       string     `json:"subject"`
	Difficulty    Difficulty `json:"difficulty" validate:"omitempty,oneof=EASY MEDIUM HARD"`
	Marks         int        `json:"marks" validate:"gt=0"`
}

// HideAnswer clears a withheld correct answer. The backend marks withheld
// answers with a negative index.
func (q *Question) HideAnswer() {
	if q.CorrectAnswer != nil && *q.CorrectAnswer < 0 {
		q.CorrectAnswer = nil
	}
}

// OptionLabel returns the letter used to display option i ("A" for 0).
func OptionLabel(i int) string {
	if i < 0 || i >= 26 {
		return "?"
	}
	return string(rune('A' + i))
}

// AnswerOutcome is the server's verdict on a single question.
type AnswerOutcome struct {
	QuestionID     int64 `json:"questionId"`
	SelectedOption *int  `json:"selectedOption"`
	Correct        bool  `json:"isCorrect"`
}

// Result is the server-authored outcome of one submission.
type Result struct {
	ID           int64           `json:"resultId"`
	ExamID       int64           `json:"examId"`
	ExamTitle    string          `json:"examTitle"`
	StudentID    int64           `json:"studentId"`
	StudentName  string          `json:"studentName"`
	StudentEmail string          `json:"studentEmail,omitempty"`
	Score        int             `json:"score" validate:"gte=0"`
	TotalMarks   int             `json:"totalMarks" validate:"gte=0"`
	Percentage   float64         `json:"percentage" validate:"gte=0,lte=100"`
	SubmittedAt  Timestamp       `json:"submittedAt"`
	Answers      []AnswerOutcome `json:"answers"`
}

// HasBreakdown reports whether the per-question breakdown is present.
func (r Result) HasBreakdown() bool {
	return len(r.Answers) > 0
}

// IsEmpty reports whether the server returned no usable result data at all.
func (r Result) IsEmpty() bool {
	return r.ID == 0 && r.TotalMarks == 0 && r.Score == 0 && len(r.Answers) == 0
}
