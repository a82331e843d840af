/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/acronis/go-apputil/lrucache"
)

// TokenBucketLimiter implements the token bucket algorithm.
// The bucket holds up to maxBurst+1 tokens and is refilled at the given rate.
type TokenBucketLimiter struct {
	getLimiter func(key string) *rate.Limiter
}

// NewTokenBucketLimiter creates a new token bucket limiter.
// When maxKeys is 0 all keys share one bucket. keysMetrics collects statistics of the per-key store and may be nil.
func NewTokenBucketLimiter(maxRate Rate, maxBurst, maxKeys int, keysMetrics lrucache.MetricsCollector) (*TokenBucketLimiter, error) {
	if err := maxRate.Validate(); err != nil {
		return nil, err
	}
	if maxBurst < 0 {
		return nil, fmt.Errorf("max burst should not be negative, got %d", maxBurst)
	}
	limit := rate.Every(maxRate.Duration / time.Duration(maxRate.Count))
	newLimiter := func() *rate.Limiter {
		return rate.NewLimiter(limit, maxBurst+1)
	}

	if maxKeys == 0 {
		lim := newLimiter()
		return &TokenBucketLimiter{getLimiter: func(string) *rate.Limiter { return lim }}, nil
	}

	store, err := lrucache.New[string, *rate.Limiter](maxKeys, keysMetrics)
	if err != nil {
		return nil, fmt.Errorf("new LRU in-memory store for keys: %w", err)
	}
	return &TokenBucketLimiter{
		getLimiter: func(key string) *rate.Limiter {
			lim, _ := store.GetOrAdd(key, newLimiter)
			return lim
		},
	}, nil
}

// Allow implements Limiter.
func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	lim := l.getLimiter(key)
	now := time.Now()
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return false, 0, nil
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0, nil
	}
	// The reservation is not used, give the token back.
	r.CancelAt(now)
	return false, delay, nil
}
