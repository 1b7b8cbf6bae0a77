package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestNewRateLimiter_Defaults(t *testing.T) {
	r := NewRateLimiter(0, 0)
	if r.minRemaining != DefaultMinRemaining {
		t.Errorf("minRemaining = %d, want %d", r.minRemaining, DefaultMinRemaining)
	}

	r = NewRateLimiter(-1, -1)
	if r.minRemaining != DefaultMinRemaining {
		t.Errorf("minRemaining = %d, want %d", r.minRemaining, DefaultMinRemaining)
	}
}

func TestRateLimiter_Update(t *testing.T) {
	r := NewRateLimiter(100, 5)

	reset := time.Now().Add(30 * time.Minute).Unix()
	h := http.Header{}
	h.Set("X-RateLimit-Remaining", "42")
	h.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

	r.Update(h)

	if r.Remaining() != 42 {
		t.Errorf("Remaining() = %d, want 42", r.Remaining())
	}
	if got := r.ResetAt(); !got.Equal(time.Unix(reset, 0)) {
		t.Errorf("ResetAt() = %v, want %v", got, time.Unix(reset, 0))
	}
}

func TestRateLimiter_Update_IgnoresGarbage(t *testing.T) {
	r := NewRateLimiter(100, 5)

	h := http.Header{}
	h.Set("X-RateLimit-Remaining", "not a number")
	h.Set("X-RateLimit-Reset", "also bad")
	r.Update(h)

	if r.known {
		t.Error("garbage headers marked the quota as known")
	}

	r.Update(nil)
}

func TestRateLimiter_Reserve(t *testing.T) {
	// High bucket rate so tests never actually wait.
	newLimiter := func(remaining int, resetIn time.Duration, now time.Time) *RateLimiter {
		r := NewRateLimiter(1000, 5)
		r.now = func() time.Time { return now }
		h := http.Header{}
		h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(resetIn).Unix(), 10))
		r.Update(h)
		return r
	}
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("unknown quota passes", func(t *testing.T) {
		r := NewRateLimiter(1000, 5)
		if err := r.Reserve(context.Background()); err != nil {
			t.Errorf("Reserve() error: %v", err)
		}
	})

	t.Run("plenty of quota passes", func(t *testing.T) {
		r := newLimiter(4000, time.Hour, now)
		if err := r.Reserve(context.Background()); err != nil {
			t.Errorf("Reserve() error: %v", err)
		}
	})

	t.Run("quota inside reserve throttles", func(t *testing.T) {
		r := newLimiter(3, time.Hour, now)
		err := r.Reserve(context.Background())
		if err == nil {
			t.Fatal("Reserve() = nil error with depleted quota")
		}
		var rlErr *RateLimitError
		if !errors.As(err, &rlErr) {
			t.Fatalf("Reserve() error = %T, want *RateLimitError", err)
		}
		if !rlErr.ResetAt.Equal(now.Add(time.Hour)) {
			t.Errorf("ResetAt = %v, want %v", rlErr.ResetAt, now.Add(time.Hour))
		}
		if rlErr.Remaining != 3 {
			t.Errorf("Remaining = %d, want 3", rlErr.Remaining)
		}
	})

	t.Run("depleted quota passes after the window resets", func(t *testing.T) {
		r := newLimiter(0, -time.Minute, now)
		if err := r.Reserve(context.Background()); err != nil {
			t.Errorf("Reserve() error after reset: %v", err)
		}
	})

	t.Run("cancelled context aborts the bucket wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := NewRateLimiter(0.001, 5)
		if err := r.Reserve(ctx); err == nil {
			t.Error("Reserve() = nil error with cancelled context")
		}
	})
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", ErrItemNotFound, true},
		{"wrapped sentinel", fmt.Errorf("#42: %w", ErrItemNotFound), true},
		{"api 404", &APIError{StatusCode: 404}, true},
		{"api 410", &APIError{StatusCode: 410}, true},
		{"api 500", &APIError{StatusCode: 500}, false},
		{"rate limit", &RateLimitError{}, false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRateLimited(t *testing.T) {
	rl := &RateLimitError{ResetAt: time.Now(), Remaining: 0}
	if !IsRateLimited(rl) {
		t.Error("IsRateLimited() = false for *RateLimitError")
	}
	if !IsRateLimited(fmt.Errorf("fetch: %w", rl)) {
		t.Error("IsRateLimited() = false for wrapped *RateLimitError")
	}
	if IsRateLimited(errors.New("boom")) {
		t.Error("IsRateLimited() = true for unrelated error")
	}
	if IsRateLimited(nil) {
		t.Error("IsRateLimited() = true for nil")
	}
}
