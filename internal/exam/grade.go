package exam

// Grade maps a percentage to a letter grade.
func Grade(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A+"
	case percentage >= 80:
		return "A"
	case percentage >= 70:
		return "B"
	case percentage >= 60:
		return "C"
	case percentage >= 50:
		return "D"
	default:
		return "F"
	}
}

// Passed reports whether a percentage earns a passing grade.
func Passed(percentage float64) bool {
	return percentage >= 50
}

// Tally counts the outcomes in a result breakdown.
type Tally struct {
	Correct    int
	Incorrect  int
	Unanswered int
}

// Total returns the number of questions tallied.
func (t Tally) Total() int {
	return t.Correct + t.Incorrect + t.Unanswered
}

// Tally counts correct, incorrect and unanswered questions in r.
func (r Result) Tally() Tally {
	var t Tally
	for _, a := range r.Answers {
		switch {
		case a.SelectedOption == nil:
			t.Unanswered++
		case a.Correct:
			t.Correct++
		default:
			t.Incorrect++
		}
	}
	return t
}

// Grade returns the letter grade for r.
func (r Result) Grade() string {
	return Grade(r.Percentage)
}
