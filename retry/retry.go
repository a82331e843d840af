/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package retry provides backoff policies and a helper for repeating fallible operations.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// IsRetryable tells whether the error is transient and the operation may be repeated.
type IsRetryable func(error) bool

// RetryableFunc does some work that may be repeated.
type RetryableFunc func(ctx context.Context) error

// Notify is called before every repetition with the error of the failed attempt and the delay before the next one.
type Notify = backoff.Notify

// Policy creates a new backoff for every DoWithRetry call.
type Policy interface {
	NewBackOff() backoff.BackOff
}

// PolicyFunc is an adapter to allow the use of ordinary functions as Policy.
type PolicyFunc func() backoff.BackOff

// NewBackOff implements Policy.
func (f PolicyFunc) NewBackOff() backoff.BackOff {
	return f()
}

// DoWithRetry calls fn until it succeeds, the policy gives up, the error is not retryable or ctx is done.
// A nil isRetryable treats every error as retryable. notify may be nil.
// The error of the last attempt is returned, unless ctx is done before the next attempt, then ctx.Err() is returned.
func DoWithRetry(ctx context.Context, policy Policy, isRetryable IsRetryable, notify Notify, fn RetryableFunc) error {
	bctx := backoff.WithContext(policy.NewBackOff(), ctx)
	operation := func() error {
		err := fn(bctx.Context())
		if err != nil && isRetryable != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.RetryNotify(operation, bctx, notify)
}

// ExponentialBackoffPolicy repeats with delays growing by Multiplier up to MaxInterval.
type ExponentialBackoffPolicy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64

	// MaxRetryAttempts limits the number of repetitions, 0 means no limit.
	MaxRetryAttempts int
}

// NewExponentialBackoffPolicy returns an exponential policy with the default multiplier and max interval.
func NewExponentialBackoffPolicy(initialInterval time.Duration, maxRetryAttempts int) ExponentialBackoffPolicy {
	return ExponentialBackoffPolicy{InitialInterval: initialInterval, MaxRetryAttempts: maxRetryAttempts}
}

// NewBackOff implements Policy.
func (p ExponentialBackoffPolicy) NewBackOff() backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = p.InitialInterval
	if p.MaxInterval > 0 {
		eb.MaxInterval = p.MaxInterval
	}
	if p.Multiplier > 0 {
		eb.Multiplier = p.Multiplier
	}
	// Elapsed time is bounded by attempts and the context.
	eb.MaxElapsedTime = 0
	return withMaxRetries(eb, p.MaxRetryAttempts)
}

// ConstantBackoffPolicy repeats with the same delay.
type ConstantBackoffPolicy struct {
	Interval time.Duration

	// MaxRetryAttempts limits the number of repetitions, 0 means no limit.
	MaxRetryAttempts int
}

// NewConstantBackoffPolicy returns a constant policy.
func NewConstantBackoffPolicy(interval time.Duration, maxRetryAttempts int) ConstantBackoffPolicy {
	return ConstantBackoffPolicy{Interval: interval, MaxRetryAttempts: maxRetryAttempts}
}

// NewBackOff implements Policy.
func (p ConstantBackoffPolicy) NewBackOff() backoff.BackOff {
	return withMaxRetries(backoff.NewConstantBackOff(p.Interval), p.MaxRetryAttempts)
}

func withMaxRetries(b backoff.BackOff, maxRetryAttempts int) backoff.BackOff {
	if maxRetryAttempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(maxRetryAttempts))
	}
	b.Reset()
	return b
}
