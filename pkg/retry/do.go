// Package retry re-runs an operation a bounded number of times, waiting
// between attempts under context control.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Func is a retryable operation. It must respect the provided context.
type Func func(ctx context.Context) error

// Backoff yields the wait after attempt n; n starts at 0.
type Backoff func(n int) time.Duration

// Fixed waits the same interval between attempts.
func Fixed(interval time.Duration) Backoff {
	return func(int) time.Duration { return interval }
}

// Exponential doubles the wait each attempt, capped at limit when given.
func Exponential(base time.Duration, limit ...time.Duration) Backoff {
	var max time.Duration
	if len(limit) > 0 {
		max = limit[0]
	}
	return func(n int) time.Duration {
		d := base * time.Duration(1<<n)
		if max > 0 && d > max {
			return max
		}
		return d
	}
}

// Jitter perturbs a backoff duration.
type Jitter func(time.Duration) time.Duration

// NoJitter leaves the duration unchanged.
func NoJitter(d time.Duration) time.Duration {
	return d
}

// FullJitter draws a random duration in [0, d).
func FullJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(d)))
}

type config struct {
	attempts int
	backoff  Backoff
	jitter   Jitter
}

// Option configures one Do call.
type Option func(*config)

// WithMaxAttempts sets the total attempt count, first try included.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.attempts = n
		}
	}
}

// WithBackoff sets the backoff strategy.
func WithBackoff(b Backoff) Option {
	return func(c *config) {
		if b != nil {
			c.backoff = b
		}
	}
}

// WithJitter sets the jitter strategy.
func WithJitter(j Jitter) Option {
	return func(c *config) {
		if j != nil {
			c.jitter = j
		}
	}
}

// Do runs fn until it succeeds, the attempts run out, or the context is done.
// Context cancellation is never retried.
func Do(ctx context.Context, fn Func, opts ...Option) error {
	cfg := config{attempts: 3, backoff: Fixed(time.Second), jitter: NoJitter}
	for _, opt := range opts {
		opt(&cfg)
	}

	var lastErr error
	for n := 0; n < cfg.attempts; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) || errors.Is(lastErr, context.DeadlineExceeded) {
			return lastErr
		}
		if n == cfg.attempts-1 {
			break
		}
		if err := sleep(ctx, cfg.jitter(cfg.backoff(n))); err != nil {
			return err
		}
	}
	return lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
