// Package retry repeats an operation with exponential backoff and jitter.
// Used when the service dials its backing stores at startup and when a
// journal transaction hits a serialization failure.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// transientError marks an error worth another attempt.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

// Transient marks err as retryable under a policy that does not retry
// everything. Nil stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err was marked with Transient.
func IsTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

// Policy describes how an operation is repeated.
type Policy struct {
	// Attempts is the total number of tries, the first one included.
	Attempts int

	// Initial is the pause after the first failure; each later pause is
	// Multiplier times longer, up to Max.
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64

	// Jitter spreads each pause by up to ±Jitter of its length.
	Jitter float64

	// RetryAll retries every error. Otherwise only Transient errors are.
	RetryAll bool

	// OnRetry, if set, is called before each pause.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Startup is the policy for dialing a backing store that may still be
// starting next to the service. Every error is retried.
func Startup(onRetry func(attempt int, err error, delay time.Duration)) Policy {
	return Policy{
		Attempts:   6,
		Initial:    500 * time.Millisecond,
		Max:        8 * time.Second,
		Multiplier: 2,
		Jitter:     0.2,
		RetryAll:   true,
		OnRetry:    onRetry,
	}
}

// Journal is the policy for a single journal transaction. Only Transient
// errors are retried.
func Journal() Policy {
	return Policy{
		Attempts:   3,
		Initial:    50 * time.Millisecond,
		Max:        time.Second,
		Multiplier: 2,
		Jitter:     0.05,
	}
}

// Do runs op until it succeeds, fails with an error the policy does not
// retry, runs out of attempts or ctx ends. The returned error is op's last
// error with any Transient mark removed.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	attempts := max(p.Attempts, 1)

	var last error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if last != nil {
				return last
			}
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		last = unmark(err)

		if !p.RetryAll && !IsTransient(err) {
			return last
		}
		if attempt >= attempts {
			return last
		}

		delay := p.delay(attempt)
		if p.OnRetry != nil {
			p.OnRetry(attempt, last, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return last
		case <-timer.C:
		}
	}
}

// delay is the pause after the given failed attempt.
func (p Policy) delay(attempt int) time.Duration {
	d := float64(p.Initial) * math.Pow(max(p.Multiplier, 1), float64(attempt-1))
	if p.Max > 0 && d > float64(p.Max) {
		d = float64(p.Max)
	}
	if p.Jitter > 0 {
		d += d * p.Jitter * (rand.Float64()*2 - 1)
	}
	return time.Duration(max(d, 0))
}

func unmark(err error) error {
	if t, ok := err.(*transientError); ok {
		return t.err
	}
	return err
}
