package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals an empty or non-textual search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrRemoteUnavailable signals that the remote document index cannot be reached.
	ErrRemoteUnavailable = errors.New("remote index unavailable")
	// ErrRemoteError signals a failure reported by the remote document index.
	ErrRemoteError = errors.New("remote index error")
	// ErrSecondaryUnavailable signals that the ranking engine cannot be reached.
	ErrSecondaryUnavailable = errors.New("ranking engine unavailable")
	// ErrSecondaryError signals a failure reported by the ranking engine.
	ErrSecondaryError = errors.New("ranking engine error")
)

// RankerStatusError wraps ErrSecondaryError with the HTTP status and response
// body returned by the ranking engine. The body is kept for logs only and is
// never echoed to API clients.
type RankerStatusError struct {
	Status int
	Body   string
}

func (e *RankerStatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", ErrSecondaryError.Error(), e.Status, e.Body)
}

func (e *RankerStatusError) Unwrap() error { return ErrSecondaryError }

// NewRankerStatusError creates a ranking engine status error.
func NewRankerStatusError(status int, body string) error {
	return &RankerStatusError{Status: status, Body: body}
}
