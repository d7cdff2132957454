package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/examdesk/examdesk/internal/exam"
)

func intPtr(i int) *int { return &i }

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &exam.Result{
		ID: 3, ExamID: 8, ExamTitle: "Statistics", Score: 7, TotalMarks: 10, Percentage: 70,
		Answers: []exam.AnswerOutcome{
			{QuestionID: 11, SelectedOption: intPtr(1), Correct: true},
			{QuestionID: 12, SelectedOption: intPtr(0)},
			{QuestionID: 13},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Statistics (#8)")
	assert.Contains(t, out, "7 / 10")
	assert.Contains(t, out, "Grade:      B")
	assert.Contains(t, out, "1 correct, 1 incorrect, 1 unanswered")
	assert.Contains(t, out, "question 12      A   incorrect")
}

func TestWindow(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e := exam.Exam{Duration: 60, ScheduledAt: exam.Timestamp{Time: now.Add(90 * time.Minute)}}

	assert.Contains(t, window(now, e, exam.Locked), "starts in")
	assert.Contains(t, window(now, e, exam.Available), "closes in")
	assert.Equal(t, "", window(now, exam.Exam{}, exam.Expired))
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short", 10))
	assert.Equal(t, "abcd…", clip("abcdefgh", 5))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "examdesk (devel)\n", buf.String())
}
