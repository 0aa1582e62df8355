package web

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
const HeaderRetryAfter = "Retry-After"

// DefaultRetryAfter is used when a 429 arrives without a usable Retry-After.
const DefaultRetryAfter = 5 * time.Second

// RateLimiter throttles requests to a site.
// It combines a proactive token bucket with the reset time the server last
// announced through Retry-After.
type RateLimiter struct {
	mu        sync.Mutex
	resetTime time.Time
	bucket    *rate.Limiter
	now       func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond requests.
// A non-positive rate disables proactive throttling.
func NewRateLimiter(requestsPerSecond float64) *RateLimiter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, 1),
		now:    time.Now,
	}
}

// Wait blocks until it's safe to make a request.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	resetTime := r.resetTime
	r.mu.Unlock()

	if wait := resetTime.Sub(r.now()); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}

// CheckRateLimit inspects a response and records any requested pause.
// Returns a RateLimitError for 429 responses and for 503 responses that
// carry Retry-After, nil otherwise.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil {
		return nil
	}

	retryAfter := resp.Header.Get(HeaderRetryAfter)
	limited := resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusServiceUnavailable && retryAfter != "")
	if !limited {
		return nil
	}

	resetAt := r.now().Add(r.parseRetryAfter(retryAfter))

	r.mu.Lock()
	if resetAt.After(r.resetTime) {
		r.resetTime = resetAt
	}
	r.mu.Unlock()

	var pageURL string
	if resp.Request != nil && resp.Request.URL != nil {
		pageURL = resp.Request.URL.String()
	}
	return &RateLimitError{URL: pageURL, ResetAt: resetAt}
}

// ResetTime returns the time the server last asked the crawler to wait until.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}

func (r *RateLimiter) parseRetryAfter(value string) time.Duration {
	if value == "" {
		return DefaultRetryAfter
	}
	if seconds, err := strconv.Atoi(value); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(r.now()); d > 0 {
			return d
		}
		return 0
	}
	return DefaultRetryAfter
}
