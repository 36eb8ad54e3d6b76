// Package retry runs an operation until it succeeds, a non retryable error occurs or the attempt
// budget is exhausted.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ServerDelay is implemented by errors which carry a delay suggested by the remote server, e.g. the
// retry_after field of a Discord 429 response.
type ServerDelay interface {
	RetryAfter() time.Duration
}

type Policy struct {
	MaxAttempts int

	// Retryable reports whether err may be retried. A nil Retryable retries every error.
	Retryable func(err error) bool

	// Delay returns the wait before the next attempt. attempt starts at 1.
	Delay func(attempt int, err error) time.Duration

	// Sleep waits for d or until ctx is done. Defaults to a timer based sleep.
	Sleep func(ctx context.Context, d time.Duration) error

	// MaxDelay stops retrying when the next delay is longer. Zero means no bound.
	MaxDelay time.Duration
}

// DelayTooLongError is returned when the next delay exceeds Policy.MaxDelay. It wraps the last
// error of fn.
type DelayTooLongError struct {
	Delay time.Duration
	Err   error
}

func (e *DelayTooLongError) Error() string {
	return fmt.Sprintf("retry delay %s is too long: %v", e.Delay, e.Err)
}

func (e *DelayTooLongError) Unwrap() error {
	return e.Err
}

// Do calls fn at most MaxAttempts times. It returns nil on the first success, otherwise the last
// error of fn or the context error when ctx is done while waiting.
func Do(ctx context.Context, policy Policy, fn func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.Delay == nil {
		policy.Delay = Exponential(time.Second)
	}
	if policy.Sleep == nil {
		policy.Sleep = Sleep
	}

	var err error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		if policy.Retryable != nil && !policy.Retryable(err) {
			return err
		}

		if attempt == policy.MaxAttempts {
			break
		}

		delay := policy.Delay(attempt, err)
		if policy.MaxDelay > 0 && delay > policy.MaxDelay {
			return &DelayTooLongError{Delay: delay, Err: err}
		}

		if sleepErr := policy.Sleep(ctx, delay); sleepErr != nil {
			return sleepErr
		}
	}

	return err
}

// Exponential returns a delay source of base, 2*base, 4*base... without jitter.
func Exponential(base time.Duration) func(int, error) time.Duration {
	return func(attempt int, _ error) time.Duration {
		b := backoff.NewExponentialBackOff()
		b.InitialInterval = base
		b.Multiplier = 2
		b.RandomizationFactor = 0
		b.MaxInterval = base << 10
		b.MaxElapsedTime = 0
		b.Reset()

		d := b.NextBackOff()
		for i := 1; i < attempt; i++ {
			d = b.NextBackOff()
		}

		return d
	}
}

// ServerOr prefers the delay supplied by the server and uses fallback otherwise.
func ServerOr(fallback func(int, error) time.Duration) func(int, error) time.Duration {
	return func(attempt int, err error) time.Duration {
		var sd ServerDelay
		if errors.As(err, &sd) {
			if d := sd.RetryAfter(); d > 0 {
				return d
			}
		}

		return fallback(attempt, err)
	}
}

func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
