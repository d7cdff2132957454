package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is terminal: the exam or result does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the token is missing, expired or lacks access.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidPayload is returned when a response fails validation.
	ErrInvalidPayload = errors.New("invalid response payload")
)

// StatusError is a non-2xx response with the server's error message.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("server returned %d: %s", e.Code, e.Message)
}

// Unwrap maps the status onto the package sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}

// Temporary reports whether retrying the same request might succeed.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// errorBody is the server's error envelope.
type errorBody struct {
	Error string `json:"error"`
}
