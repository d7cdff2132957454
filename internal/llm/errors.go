package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Kind classifies provider failures for retry decisions.
type Kind int

const (
	KindUnavailable Kind = iota // network or 5xx; retryable
	KindRateLimit               // 429; retryable after RetryAfter
	KindInvalid                 // output failed JSON or schema checks; retried once
	KindTruncated               // hit MaxTokens; not retryable
)

func (k Kind) String() string {
	switch k {
	case KindRateLimit:
		return "rate limited"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	default:
		return "unavailable"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration
	Content    json.RawMessage
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return "llm: " + e.Kind.String()
	case e.Kind == KindRateLimit && e.RetryAfter > 0:
		return fmt.Sprintf("llm: %s (retry after %s): %v", e.Kind, e.RetryAfter, e.Err)
	default:
		return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, treating unclassified errors as
// KindUnavailable.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}

// ErrDisabled is returned by the factory when no provider is configured.
var ErrDisabled = errors.New("llm: no provider configured")

// classifyStatus maps an HTTP status from a provider SDK error.
func classifyStatus(status int, err error) error {
	if status == 429 {
		return &Error{Kind: KindRateLimit, Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}
