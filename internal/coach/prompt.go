package coach

import (
	"fmt"
	"strings"

	"github.com/examdesk/examdesk/internal/exam"
)

const systemPrompt = `You are a study coach for a student who has just finished a multiple-choice exam. You receive their score and a per-question breakdown. Be specific and encouraging. Never restate or change the score.`

func buildUserMessage(in Input) string {
	var b strings.Builder

	r := in.Result
	fmt.Fprintf(&b, "Exam: %s\n", in.ExamTitle)
	if in.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\n", in.Subject)
	}
	fmt.Fprintf(&b, "Score: %d/%d (%.1f%%, grade %s)\n", r.Score, r.TotalMarks, r.Percentage, r.Grade())
	t := r.Tally()
	fmt.Fprintf(&b, "Correct: %d, Incorrect: %d, Unanswered: %d\n", t.Correct, t.Incorrect, t.Unanswered)

	byID := make(map[int64]exam.Question, len(in.Questions))
	for _, q := range in.Questions {
		byID[q.ID] = q
	}

	b.WriteString("\nBreakdown:\n")
	for i, a := range r.Answers {
		q, ok := byID[a.QuestionID]
		text := fmt.Sprintf("question %d", a.QuestionID)
		if ok {
			text = q.Text
		}
		status := "incorrect"
		switch {
		case a.SelectedOption == nil:
			status = "unanswered"
		case a.Correct:
			status = "correct"
		}
		fmt.Fprintf(&b, "%d. [%s] %s", i+1, status, text)
		if ok && (q.Subject != "" || q.Difficulty != "") {
			fmt.Fprintf(&b, " (%s", q.Subject)
			if q.Difficulty != "" {
				fmt.Fprintf(&b, ", %s", strings.ToLower(string(q.Difficulty)))
			}
			b.WriteString(")")
		}
		b.WriteString("\n")
	}

	b.WriteString(`
Instructions:
1. Summarize the performance in 2-4 sentences.
2. List up to 5 focus topics drawn from the incorrect and unanswered questions.
3. Give up to 5 short, concrete study tips.
Use plain text only.`)

	return b.String()
}
