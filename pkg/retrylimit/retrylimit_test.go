package retrylimit

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func fastPolicy(attempts int) Policy {
	p := DefaultPolicy()
	p.Attempts = attempts
	p.BaseDelay = time.Millisecond
	p.RateLimitDelay = time.Millisecond
	p.Jitter = false
	return p
}

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	err := fastPolicy(5).Do(context.Background(), nil, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDoStopsOnFatal(t *testing.T) {
	sentinel := errors.New("bad input")
	calls := 0
	err := fastPolicy(5).Do(context.Background(), nil, func(context.Context) error {
		calls++
		return Fatal(sentinel)
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("fatal error should not be retried, got %d calls", calls)
	}
}

func TestDoReturnsLastError(t *testing.T) {
	sentinel := errors.New("still down")
	retries := 0
	p := fastPolicy(2)
	p.OnRetry = func(int, error) { retries++ }

	err := p.Do(context.Background(), nil, func(context.Context) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected wrapped sentinel, got %v", err)
	}
	if retries != 1 {
		t.Errorf("expected one retry callback, got %d", retries)
	}
}

func TestLimiterBacksOffOnRateLimit(t *testing.T) {
	lim := NewAdaptiveLimiter(8, 1, 10, 1, 0.5)
	_ = fastPolicy(2).Do(context.Background(), lim, func(context.Context) error {
		return &StatusError{Code: http.StatusTooManyRequests, URL: "https://example.test"}
	})

	if got := lim.CurrentLimit(); got >= 8 {
		t.Errorf("expected limiter to back off below 8 rps, got %.2f", got)
	}
}

func TestLimiterStaysWithinBounds(t *testing.T) {
	lim := NewAdaptiveLimiter(2, 1, 3, 5, 0.1)
	for i := 0; i < 5; i++ {
		lim.RateLimited()
	}
	if got := lim.CurrentLimit(); got != 1 {
		t.Errorf("limit = %.2f, want floor 1", got)
	}
}

func TestOverloaded(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{&StatusError{Code: http.StatusTooManyRequests}, true},
		{&StatusError{Code: http.StatusBadGateway}, true},
		{&StatusError{Code: http.StatusNotFound}, false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := Overloaded(tt.err); got != tt.want {
			t.Errorf("Overloaded(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestDoHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := fastPolicy(3).Do(ctx, nil, func(context.Context) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
