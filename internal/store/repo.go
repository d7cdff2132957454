package store

import (
	"context"
	"time"

	"github.com/examdesk/examdesk/internal/exam"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// SessionEventData is one entry in the exam attempt journal.
type SessionEventData struct {
	SessionID  string
	ExamID     int64
	ExamTitle  string
	Action     string
	QuestionID int64
	Option     int // -1 when not applicable
	Position   int
	Answered   int
	ResultID   int64
	Detail     string
}

// SessionEventRecord is a journal entry as read back from the store.
type SessionEventRecord struct {
	SessionEventData
	Sequence  int64
	Timestamp time.Time
}

// AttemptSummary folds the journal of one session into a single row.
type AttemptSummary struct {
	SessionID  string
	ExamID     int64
	ExamTitle  string
	StartedAt  time.Time
	LastAction string
	LastAt     time.Time
	Answered   int
	ResultID   int64
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestRecord is an LLM request event as read back from the store.
type LLMRequestRecord struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to local events.
type EventRepo interface {
	// AppendSessionEvent records one step of an exam attempt.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns journal entries, newest first.
	QuerySessionEvents(ctx context.Context, opts QueryOpts) ([]SessionEventRecord, error)

	// Attempts summarizes the most recent attempts, newest first.
	Attempts(ctx context.Context, limit int) ([]AttemptSummary, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns LLM request events, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error)
}

// ResultRepo caches server-authored results for offline viewing.
type ResultRepo interface {
	// SaveResult inserts or replaces a result keyed by its server ID.
	SaveResult(ctx context.Context, r exam.Result) error

	// Result returns a cached result, or nil if unknown.
	Result(ctx context.Context, resultID int64) (*exam.Result, error)

	// LatestForExam returns the newest cached result for an exam, or nil.
	LatestForExam(ctx context.Context, examID int64) (*exam.Result, error)

	// Results lists cached results, newest submission first.
	Results(ctx context.Context, limit int) ([]exam.Result, error)
}

// CredentialRecord is the single saved login.
type CredentialRecord struct {
	Token     string
	UserID    int64
	FullName  string
	Email     string
	Role      string
	ExpiresAt time.Time // zero when the token carries no expiry
	SavedAt   time.Time
}

// CredentialRepo stores at most one login.
type CredentialRepo interface {
	SaveCredentials(ctx context.Context, rec CredentialRecord) error

	// LoadCredentials returns the saved login, or nil if logged out.
	LoadCredentials(ctx context.Context) (*CredentialRecord, error)

	ClearCredentials(ctx context.Context) error
}
