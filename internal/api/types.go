package api

import (
	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/exam"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token string    `json:"token" validate:"required"`
	User  auth.User `json:"user"`
}

// Stats are the dashboard counters. Each role fills a subset.
type Stats struct {
	TotalExams     int `json:"totalExams"`
	UpcomingExams  int `json:"upcomingExams"`
	CompletedExams int `json:"completedExams"`
	TotalStudents  int `json:"totalStudents"`
	TotalTeachers  int `json:"totalTeachers"`
	TotalQuestions int `json:"totalQuestions"`
	TotalResults   int `json:"totalResults"`
}

// Dashboard is the student or teacher landing payload.
type Dashboard struct {
	Exams []exam.Exam `json:"exams"`
	Stats Stats       `json:"stats"`
}

type saveAnswerRequest struct {
	SelectedOption int `json:"selectedOption"`
}

type submitRequest struct {
	Answers map[int64]int `json:"answers"`
}
