package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is the proactive throttle rate. GitHub
	// allows 5000 authenticated calls per hour; ~1.2/sec stays under it.
	DefaultRequestsPerSecond = 1.2

	// DefaultMinRemaining is the quota reserve. Throttling triggers while
	// a few calls remain so a checked call cannot trip a hard block.
	DefaultMinRemaining = 5

	headerRateRemaining = "X-RateLimit-Remaining"
	headerRateReset     = "X-RateLimit-Reset"
)

// RateLimiter tracks the API quota reported by response headers and
// throttles proactively with a token bucket. It is an explicit state
// object owned by the client, not process-wide state.
type RateLimiter struct {
	mu           sync.Mutex
	remaining    int
	resetAt      time.Time
	known        bool
	minRemaining int
	bucket       *rate.Limiter

	// now is replaceable in tests.
	now func() time.Time
}

// NewRateLimiter creates a limiter with the given proactive rate and
// quota reserve. Non-positive arguments fall back to the defaults.
func NewRateLimiter(requestsPerSecond float64, minRemaining int) *RateLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = DefaultRequestsPerSecond
	}
	if minRemaining <= 0 {
		minRemaining = DefaultMinRemaining
	}
	return &RateLimiter{
		minRemaining: minRemaining,
		bucket:       rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		now:          time.Now,
	}
}

// Reserve blocks on the proactive bucket, then checks the reactive quota.
// It returns a *RateLimitError when the remaining quota is at or below
// the reserve and the window has not reset yet.
func (r *RateLimiter) Reserve(ctx context.Context) error {
	if err := r.bucket.Wait(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.known && r.remaining <= r.minRemaining && r.now().Before(r.resetAt) {
		return &RateLimitError{ResetAt: r.resetAt, Remaining: r.remaining}
	}
	return nil
}

// Update refreshes quota state from the rate-limit headers GitHub sends
// with every response.
func (r *RateLimiter) Update(h http.Header) {
	if h == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := h.Get(headerRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			r.remaining = val
			r.known = true
		}
	}

	if reset := h.Get(headerRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetAt = time.Unix(val, 0)
		}
	}
}

// Remaining returns the last reported remaining quota.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// ResetAt returns the last reported quota reset time.
func (r *RateLimiter) ResetAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetAt
}
