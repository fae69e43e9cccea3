// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/yoop/internal/api"
)

var (
	// ErrEmptyQuery is returned by Submit for a blank prompt. Nothing is
	// sent and the orchestrator state is left alone.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrUnauthenticated is returned by Submit when the session has no user.
	ErrUnauthenticated = errors.New("not authenticated: log in first")

	// ErrTooFrequent matches every *TooFrequentError via errors.Is.
	ErrTooFrequent = errors.New("searching too frequently")

	// ErrTimeout is the failure reason when polling ends without results.
	ErrTimeout = errors.New("no results before the poll limit")

	// ErrEmptyHandle is the failure reason when create-request succeeds
	// but returns no usable request id.
	ErrEmptyHandle = errors.New("backend returned no request id")

	// ErrCancelled is what Run.Wait reports for a run that was abandoned
	// by Cancel, Close or a newer Submit. It never appears in a State.
	ErrCancelled = errors.New("search cancelled")
)

// TooFrequentError rejects a Submit inside the cooldown window.
type TooFrequentError struct {
	RetryAfter time.Duration
}

func (e *TooFrequentError) Error() string {
	return fmt.Sprintf("%v: retry in %s", ErrTooFrequent, e.RetryAfter.Round(10*time.Millisecond))
}

// Is makes errors.Is(err, ErrTooFrequent) true.
func (e *TooFrequentError) Is(target error) bool { return target == ErrTooFrequent }

// NetworkError is a failed backend call. StatusCode and Body are set when
// the backend answered with a non-2xx status; they are zero for transport
// failures.
type NetworkError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		body := e.Body
		if body == "" {
			body = "request failed"
		}
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func newNetworkError(op string, err error) *NetworkError {
	ne := &NetworkError{Op: op, Err: err}
	var se *api.StatusError
	if errors.As(err, &se) {
		ne.StatusCode = se.StatusCode
		ne.Body = se.Body
	}
	return ne
}
