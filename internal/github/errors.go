package github

import (
	"errors"
	"fmt"
	"time"
)

// ErrItemNotFound indicates the requested issue, pull request, or commit
// does not exist in the repository.
var ErrItemNotFound = errors.New("github: item not found")

// RateLimitError signals that the API quota is exhausted (or inside the
// configured reserve buffer) until ResetAt. It is the throttling signal
// consumed by the pipeline; it is never shown to the operator as a failure.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exhausted, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a non-success response from the GitHub API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (%s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a missing item.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrItemNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404 || apiErr.StatusCode == 410
	}
	return false
}

// IsRateLimited checks if the error is the throttling signal.
func IsRateLimited(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}
