package web

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitError reports that the server asked the crawler to slow down.
type RateLimitError struct {
	URL     string
	ResetAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("web: rate limited by %s until %s", e.URL, e.ResetAt.Format(time.RFC3339))
}

// FetchError represents a non-success HTTP response.
type FetchError struct {
	StatusCode int
	URL        string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("web: fetch %s: status %d", e.URL, e.StatusCode)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsNotFound checks if the error indicates a missing page.
func IsNotFound(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == 404
	}
	return false
}
