package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/examdesk/examdesk/internal/auth"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, staticToken("tok-1")), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": "mock-jwt-token-3",
			"user":  map[string]any{"userId": 3, "fullName": "Ana Ruiz", "email": "ana@example.com", "role": "student"},
		})
	})

	creds, err := c.Login(context.Background(), "ana@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "mock-jwt-token-3", creds.Token)
	assert.Equal(t, auth.RoleStudent, creds.User.Role)
	assert.Equal(t, int64(3), creds.User.ID)

	_, err = c.Login(context.Background(), "ana@example.com", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "Invalid email or password", se.Message)
}

func TestLogin_ValidatesInput(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := c.Login(context.Background(), "not-an-email", "x")
	assert.Error(t, err)
	_, err = c.Login(context.Background(), "a@b.co", "")
	assert.Error(t, err)
	assert.False(t, called)
}

func TestBearerToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{"exams": []any{}, "stats": map[string]int{"totalExams": 0}})
	})
	_, err := c.StudentDashboard(context.Background())
	require.NoError(t, err)
}

func TestStudentDashboard(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/student/dashboard", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"exams": []map[string]any{
				{"examId": 1, "title": "Algebra", "subject": "Math", "duration": 60, "totalQuestions": 10, "totalMarks": 20, "status": "UPCOMING", "scheduledAt": "2026-03-01T10:00:00"},
			},
			"stats": map[string]int{"totalExams": 1, "upcomingExams": 1, "completedExams": 0},
		})
	})

	d, err := c.StudentDashboard(context.Background())
	require.NoError(t, err)
	require.Len(t, d.Exams, 1)
	assert.Equal(t, "Algebra", d.Exams[0].Title)
	assert.Equal(t, 60*time.Minute, d.Exams[0].DurationTime())
	assert.Equal(t, 1, d.Stats.UpcomingExams)
}

func TestExam_MalformedIsLoadFailure(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"examId": 4, "title": "Bad", "duration": -5})
	})
	_, err := c.Exam(context.Background(), 4)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestExam_NotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Exam not found"})
	})
	_, err := c.Exam(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestQuestions_HidesCorrectAnswer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/student/exam/2/questions", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"questionId": 11, "questionText": "2+2?", "options": []string{"3", "4", "5", "6"}, "correctAnswer": -1, "difficulty": "EASY", "marks": 1},
			{"questionId": 12, "questionText": "3*3?", "options": []string{"6", "9"}, "correctAnswer": -1, "difficulty": "MEDIUM", "marks": 2},
		})
	})

	qs, err := c.Questions(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Nil(t, qs[0].CorrectAnswer)
	assert.Equal(t, []string{"3", "4", "5", "6"}, qs[0].Options)
}

func TestQuestions_RejectsTooFewOptions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"questionId": 11, "questionText": "Only one", "options": []string{"x"}, "marks": 1},
		})
	})
	_, err := c.Questions(context.Background(), 2)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestSaveAnswer(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/student/exam/5/answers/42", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"selectedOption": 3}`, string(raw))
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.SaveAnswer(context.Background(), 5, 42, 3))
}

func TestSubmitExam(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/student/exam/5/submit", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"answers": {"41": 0, "42": 3}}`, string(raw))
		writeJSON(w, http.StatusOK, map[string]any{
			"resultId": 88, "examId": 5, "score": 3, "totalMarks": 4, "percentage": 75,
			"answers": []map[string]any{
				{"questionId": 41, "selectedOption": 0, "isCorrect": true},
				{"questionId": 42, "selectedOption": 3, "isCorrect": false},
			},
		})
	})

	res, err := c.SubmitExam(context.Background(), 5, map[int64]int{41: 0, 42: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(88), res.ID)
	assert.Equal(t, "B", res.Grade())
	assert.True(t, res.HasBreakdown())
}

func TestSubmitExam_EmptyAnswersSentAsObject(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"answers": {}}`, string(raw))
		writeJSON(w, http.StatusOK, map[string]any{"resultId": 1})
	})
	_, err := c.SubmitExam(context.Background(), 5, nil)
	require.NoError(t, err)
}

func TestSubmitExam_ServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "database down"})
	})
	_, err := c.SubmitExam(context.Background(), 5, map[int64]int{1: 1})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 500, se.Code)
	assert.True(t, se.Temporary())
	assert.Contains(t, err.Error(), "database down")
}

func TestFetchResultAndTeacherResults(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/student/results/9":
			writeJSON(w, http.StatusOK, map[string]any{"resultId": 9, "examId": 2, "percentage": 92})
		case "/teacher/exams/2/results":
			writeJSON(w, http.StatusOK, []map[string]any{
				{"resultId": 9, "studentName": "Ana", "percentage": 92},
				{"resultId": 10, "studentName": "Ben", "percentage": 41},
			})
		default:
			http.NotFound(w, r)
		}
	})

	res, err := c.FetchResult(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "A+", res.Grade())

	list, err := c.ExamResults(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ben", list[1].StudentName)

	_, err = c.FetchResult(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminEndpoints(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/admin/stats":
			writeJSON(w, http.StatusOK, map[string]int{"totalStudents": 12, "totalTeachers": 3, "totalExams": 4, "totalQuestions": 40})
		case "/admin/users":
			writeJSON(w, http.StatusOK, []map[string]any{{"userId": 1, "fullName": "Root", "email": "root@example.com", "role": "admin"}})
		}
	})

	stats, err := c.AdminStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalStudents)

	users, err := c.Users(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, auth.RoleAdmin, users[0].Role)
}

func TestForbiddenMapsToUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("Access denied"))
	})
	_, err := c.AdminStats(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "Access denied")
}

func TestTransportFailureWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, nil, WithTimeout(time.Second))
	_, err := c.StudentDashboard(context.Background())
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestContextCancel(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Exam(ctx, 1)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
