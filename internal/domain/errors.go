package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors classifying every failure the workflow can surface.
// Callers match them with errors.Is; the gateway owns the mapping from
// raw GitHub API responses.
var (
	ErrUnauthorized     = errors.New("unauthorized: token is invalid or expired")
	ErrForbidden        = errors.New("forbidden: token lacks the required scope")
	ErrNotFound         = errors.New("repository not found")
	ErrRateLimited      = errors.New("rate limit exhausted")
	ErrNetwork          = errors.New("network failure")
	ErrInvalidReference = errors.New("repository is not part of the catalog")
	ErrUserAborted      = errors.New("aborted by user")
)

// RateLimitError carries the reset time announced by the API alongside
// the ErrRateLimited classification.
type RateLimitError struct {
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exhausted until %s", e.Reset.Format(time.RFC3339))
}

// Unwrap lets errors.Is(err, ErrRateLimited) succeed.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
