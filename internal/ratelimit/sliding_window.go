/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/RussellLuo/slidingwindow"

	"github.com/acronis/go-apputil/lrucache"
)

// SlidingWindowLimiter implements the sliding window algorithm.
type SlidingWindowLimiter struct {
	getLimiter func(key string) *slidingwindow.Limiter
	maxRate    Rate
}

// NewSlidingWindowLimiter creates a new sliding window limiter.
// When maxKeys is 0 all keys share one window. keysMetrics collects statistics of the per-key store and may be nil.
func NewSlidingWindowLimiter(maxRate Rate, maxKeys int, keysMetrics lrucache.MetricsCollector) (*SlidingWindowLimiter, error) {
	if err := maxRate.Validate(); err != nil {
		return nil, err
	}
	newLimiter := func() *slidingwindow.Limiter {
		lim, _ := slidingwindow.NewLimiter(
			maxRate.Duration, int64(maxRate.Count), func() (slidingwindow.Window, slidingwindow.StopFunc) {
				return slidingwindow.NewLocalWindow()
			})
		return lim
	}

	if maxKeys == 0 {
		lim := newLimiter()
		return &SlidingWindowLimiter{maxRate: maxRate, getLimiter: func(string) *slidingwindow.Limiter { return lim }}, nil
	}

	store, err := lrucache.New[string, *slidingwindow.Limiter](maxKeys, keysMetrics)
	if err != nil {
		return nil, fmt.Errorf("new LRU in-memory store for keys: %w", err)
	}
	return &SlidingWindowLimiter{
		maxRate: maxRate,
		getLimiter: func(key string) *slidingwindow.Limiter {
			lim, _ := store.GetOrAdd(key, newLimiter)
			return lim
		},
	}, nil
}

// Allow implements Limiter.
func (l *SlidingWindowLimiter) Allow(_ context.Context, key string) (allow bool, retryAfter time.Duration, err error) {
	if l.getLimiter(key).Allow() {
		return true, 0, nil
	}
	now := time.Now()
	return false, now.Truncate(l.maxRate.Duration).Add(l.maxRate.Duration).Sub(now), nil
}
