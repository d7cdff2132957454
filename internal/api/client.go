// Package api is the client for the exam server's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/examdesk/examdesk/internal/auth"
	"github.com/examdesk/examdesk/internal/exam"
)

// DefaultBaseURL is where the reference backend is deployed locally.
const DefaultBaseURL = "http://localhost:8080/exam-system/api"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 15 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// TokenSource supplies the bearer token for each request.
type TokenSource interface {
	Token() string
}

// Client calls the exam server.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	validate *validator.Validate
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "api").Logger() }
}

// New returns a client for baseURL. tokens may be nil for unauthenticated
// use (login only).
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
		tokens:   tokens,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured server root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges email and password for credentials.
func (c *Client) Login(ctx context.Context, email, password string) (auth.Credentials, error) {
	req := loginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.validate.Struct(req); err != nil {
		return auth.Credentials{}, fmt.Errorf("login: %w", err)
	}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return auth.Credentials{}, fmt.Errorf("login: %w", err)
	}
	if err := c.check(resp); err != nil {
		return auth.Credentials{}, fmt.Errorf("login: %w", err)
	}
	resp.User.Role = auth.ParseRole(string(resp.User.Role))
	return auth.NewCredentials(resp.Token, resp.User), nil
}

// StudentDashboard returns the student's exams and counters.
func (c *Client) StudentDashboard(ctx context.Context) (*Dashboard, error) {
	return c.dashboard(ctx, "/student/dashboard")
}

// TeacherDashboard returns the teacher's exams and counters.
func (c *Client) TeacherDashboard(ctx context.Context) (*Dashboard, error) {
	return c.dashboard(ctx, "/teacher/dashboard")
}

func (c *Client) dashboard(ctx context.Context, path string) (*Dashboard, error) {
	var d Dashboard
	if err := c.do(ctx, http.MethodGet, path, nil, &d); err != nil {
		return nil, fmt.Errorf("get dashboard: %w", err)
	}
	for _, e := range d.Exams {
		if err := c.check(e); err != nil {
			return nil, fmt.Errorf("get dashboard: exam %d: %w", e.ID, err)
		}
	}
	return &d, nil
}

// AdminStats returns system-wide counters.
func (c *Client) AdminStats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &s); err != nil {
		return nil, fmt.Errorf("get admin stats: %w", err)
	}
	return &s, nil
}

// Users lists all accounts (admin only).
func (c *Client) Users(ctx context.Context) ([]auth.User, error) {
	var users []auth.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].Role = auth.ParseRole(string(users[i].Role))
	}
	return users, nil
}

// Exam returns one exam's metadata.
func (c *Client) Exam(ctx context.Context, examID int64) (*exam.Exam, error) {
	var e exam.Exam
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/student/exam/%d", examID), nil, &e); err != nil {
		return nil, fmt.Errorf("get exam %d: %w", examID, err)
	}
	if err := c.check(e); err != nil {
		return nil, fmt.Errorf("get exam %d: %w", examID, err)
	}
	return &e, nil
}

// Questions returns an exam's questions in presentation order, with the
// correct answers withheld.
func (c *Client) Questions(ctx context.Context, examID int64) ([]exam.Question, error) {
	var qs []exam.Question
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/student/exam/%d/questions", examID), nil, &qs); err != nil {
		return nil, fmt.Errorf("get questions for exam %d: %w", examID, err)
	}
	for i := range qs {
		if err := c.check(qs[i]); err != nil {
			return nil, fmt.Errorf("get questions for exam %d: question %d: %w", examID, qs[i].ID, err)
		}
		qs[i].HideAnswer()
	}
	return qs, nil
}

// SaveAnswer stores one answer ahead of submission. It is best effort; the
// submit call carries every answer regardless.
func (c *Client) SaveAnswer(ctx context.Context, examID, questionID int64, option int) error {
	path := fmt.Sprintf("/student/exam/%d/answers/%d", examID, questionID)
	if err := c.do(ctx, http.MethodPut, path, saveAnswerRequest{SelectedOption: option}, nil); err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

// SubmitExam posts the answer map. The returned result may be partial.
func (c *Client) SubmitExam(ctx context.Context, examID int64, answers map[int64]int) (*exam.Result, error) {
	if answers == nil {
		answers = map[int64]int{}
	}
	var r exam.Result
	path := fmt.Sprintf("/student/exam/%d/submit", examID)
	if err := c.do(ctx, http.MethodPost, path, submitRequest{Answers: answers}, &r); err != nil {
		return nil, fmt.Errorf("submit exam %d: %w", examID, err)
	}
	if err := c.check(r); err != nil {
		return nil, fmt.Errorf("submit exam %d: %w", examID, err)
	}
	return &r, nil
}

// FetchResult returns one result with its per-question breakdown.
func (c *Client) FetchResult(ctx context.Context, resultID int64) (*exam.Result, error) {
	var r exam.Result
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/student/results/%d", resultID), nil, &r); err != nil {
		return nil, fmt.Errorf("get result %d: %w", resultID, err)
	}
	if err := c.check(r); err != nil {
		return nil, fmt.Errorf("get result %d: %w", resultID, err)
	}
	return &r, nil
}

// ExamResults lists every result for one exam (teacher only).
func (c *Client) ExamResults(ctx context.Context, examID int64) ([]exam.Result, error) {
	var rs []exam.Result
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teacher/exams/%d/results", examID), nil, &rs); err != nil {
		return nil, fmt.Errorf("get results for exam %d: %w", examID, err)
	}
	return rs, nil
}

// check validates a decoded payload against its struct tags.
func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return nil
}

// do sends one request and decodes a JSON response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	se := &StatusError{Code: resp.StatusCode}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		se.Message = eb.Error
	} else {
		se.Message = strings.TrimSpace(string(raw))
	}
	return se
}
