// Package retrylimit wraps calls to remote catalog providers with an adaptive
// rate limit and a bounded retry policy. Errors carrying an HTTP status code
// steer both: 429 and 5xx slow the limiter down, anything marked Fatal stops
// retrying at once.
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 10, 1, 0.5)
//	p := retrylimit.DefaultPolicy()
//	p.Attempts = 2
//	err := p.Do(ctx, lim, func(ctx context.Context) error {
//	    return search(ctx, query)
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// recoverAfter is how long the limiter must go without a failure before
// successes start raising the rate again.
const recoverAfter = 10 * time.Second

// AdaptiveLimiter is a token bucket whose rate climbs on success and drops
// on overload. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.RWMutex
	limiter   *rate.Limiter
	floor     rate.Limit
	ceiling   rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
}

// NewAdaptiveLimiter starts at initial requests per second and stays within
// [floor, ceiling]. Each success adds stepUp, each overload multiplies the
// rate by stepDown.
func NewAdaptiveLimiter(initial, floor, ceiling, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if floor <= 0 {
		floor = 1
	}
	if initial < floor {
		initial = floor
	}
	if ceiling < initial {
		ceiling = initial
	}
	if stepDown <= 0 || stepDown >= 1 {
		stepDown = 0.5
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		floor:    floor,
		ceiling:  ceiling,
		stepUp:   stepUp,
		stepDown: stepDown,
	}
}

// Wait blocks until a token is available or ctx ends.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate unless a failure was seen recently.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > recoverAfter {
		a.setLocked(a.limiter.Limit() + a.stepUp)
	}
}

// RateLimited lowers the rate after an overload response.
func (a *AdaptiveLimiter) RateLimited() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLocked(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// CurrentLimit returns the current requests per second.
func (a *AdaptiveLimiter) CurrentLimit() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLocked(limit rate.Limit) {
	limit = min(max(limit, a.floor), a.ceiling)
	if limit == a.limiter.Limit() {
		return
	}
	a.limiter.SetLimit(limit)
	a.limiter.SetBurst(burstFor(limit))
}

func burstFor(limit rate.Limit) int {
	return max(1, int(limit))
}

// HTTPError is implemented by errors that carry an HTTP status code.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is an HTTPError for providers that talk HTTP directly.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string   { return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL) }
func (e *StatusError) StatusCode() int { return e.Code }

// FatalError stops a Policy from retrying.
type FatalError struct {
	Err error
}

func (f *FatalError) Error() string { return f.Err.Error() }
func (f *FatalError) Unwrap() error { return f.Err }

// Fatal marks err as not worth retrying. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// Overloaded reports whether err is a 429 or 5xx response.
func Overloaded(err error) bool {
	code, ok := statusOf(err)
	return ok && (code == http.StatusTooManyRequests || (code >= 500 && code < 600))
}

func statusOf(err error) (int, bool) {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode(), true
	}
	return 0, false
}

// Policy is a bounded exponential backoff.
type Policy struct {
	Attempts  int
	BaseDelay time.Duration
	MaxDelay  time.Duration
	// RateLimitDelay replaces the backoff after a 429; the limiter already
	// slowed down.
	RateLimitDelay time.Duration
	Jitter         bool
	// Overloaded decides which errors slow the limiter. Defaults to the
	// package-level Overloaded.
	Overloaded func(error) bool
	OnRetry    func(attempt int, err error)
}

// DefaultPolicy makes three attempts starting at half a second.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:       3,
		BaseDelay:      500 * time.Millisecond,
		MaxDelay:       10 * time.Second,
		RateLimitDelay: 100 * time.Millisecond,
		Jitter:         true,
		Overloaded:     Overloaded,
	}
}

// Do runs fn until it succeeds, returns a Fatal error, ctx ends or the
// attempts run out. lim may be nil. The final error wraps the last failure.
func (p Policy) Do(ctx context.Context, lim *AdaptiveLimiter, fn func(context.Context) error) error {
	attempts := max(p.Attempts, 1)
	overloaded := p.Overloaded
	if overloaded == nil {
		overloaded = Overloaded
	}

	delay := p.BaseDelay
	var last error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if lim != nil {
			if err := lim.Wait(ctx); err != nil {
				return err
			}
		}

		err := fn(ctx)
		if err == nil {
			if lim != nil {
				lim.Success()
			}
			return nil
		}
		var fatal *FatalError
		if errors.As(err, &fatal) {
			return fatal.Err
		}
		last = err

		if overloaded(err) && lim != nil {
			lim.RateLimited()
		}
		if attempt >= attempts {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		wait := delay
		if code, _ := statusOf(err); code == http.StatusTooManyRequests {
			wait = p.RateLimitDelay
		} else {
			if p.Jitter {
				wait = jitter(wait)
			}
			delay = min(delay*2, max(p.MaxDelay, p.BaseDelay))
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", attempts, last)
}

// jitter adds up to 25% to d.
func jitter(d time.Duration) time.Duration {
	if d < 4 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d/4)))
}
