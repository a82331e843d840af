/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/acronis/go-apputil/internal/ratelimit"
	"github.com/acronis/go-apputil/log"
	"github.com/acronis/go-apputil/lrucache"
)

// KeyFunc extracts the throttling key from a value. Values with different keys are throttled independently.
type KeyFunc[T any] func(value T) string

// RateThrottler calls the action with values that fit into the configured rate and drops the rest.
// Unlike Throttler it allows several calls per period and keeps a separate budget for every key.
// All methods are safe for concurrent use.
type RateThrottler[T any] struct {
	limiter ratelimit.Limiter
	keyFunc KeyFunc[T]
	logger  log.FieldLogger
	metrics MetricsCollector
	stats   stats

	mu      sync.RWMutex
	action  Action[T]
	stopped bool
}

// NewRateThrottler creates a new RateThrottler.
// keyFunc may be nil, then all values share one budget. The action may be nil and set later with SetAction.
// opts.Clock is not used, the limiters work on the wall clock.
func NewRateThrottler[T any](cfg *RateConfig, keyFunc KeyFunc[T], action Action[T], opts Opts) (*RateThrottler[T], error) {
	limiter, err := newLimiter(cfg, keyFunc != nil, opts.KeysMetricsCollector)
	if err != nil {
		return nil, err
	}
	if keyFunc == nil {
		keyFunc = func(T) string { return "" }
	}
	opts.applyDefaults()
	return &RateThrottler[T]{
		limiter: limiter,
		keyFunc: keyFunc,
		action:  action,
		logger:  opts.Logger.With(log.String("throttler", opts.Name), log.String("rate", cfg.Rate.String())),
		metrics: opts.MetricsCollector,
	}, nil
}

func newLimiter(cfg *RateConfig, keyed bool, keysMetrics lrucache.MetricsCollector) (ratelimit.Limiter, error) {
	rate := ratelimit.Rate{Count: cfg.Rate.Count, Duration: cfg.Rate.Duration}
	maxKeys := 0
	if keyed {
		maxKeys = cfg.MaxKeys
		if maxKeys == 0 {
			maxKeys = DefaultRateMaxKeys
		}
	}
	switch cfg.Alg {
	case RateAlgLeakyBucket, "":
		if maxKeys == 0 {
			// The memory store needs room for the single shared key.
			maxKeys = 1
		}
		return ratelimit.NewLeakyBucketLimiter(rate, cfg.Burst, maxKeys)
	case RateAlgSlidingWindow:
		return ratelimit.NewSlidingWindowLimiter(rate, maxKeys, keysMetrics)
	case RateAlgTokenBucket:
		return ratelimit.NewTokenBucketLimiter(rate, cfg.Burst, maxKeys, keysMetrics)
	}
	return nil, fmt.Errorf("unknown rate limiting algorithm %q", cfg.Alg)
}

// SetAction replaces the action. With a nil action allowed calls still consume the budget of their key.
func (rt *RateThrottler[T]) SetAction(action Action[T]) {
	rt.mu.Lock()
	rt.action = action
	rt.mu.Unlock()
}

// Call calls the action with the value synchronously if it fits into the rate of its key.
// Otherwise the value is dropped and retryAfter estimates when the key will have budget again.
// Calls after Stop are dropped with zero retryAfter.
// Only limiter errors are returned, panics of the action are not recovered.
func (rt *RateThrottler[T]) Call(ctx context.Context, value T) (allowed bool, retryAfter time.Duration, err error) {
	rt.mu.RLock()
	stopped := rt.stopped
	rt.mu.RUnlock()
	if stopped {
		rt.drop("call on stopped throttler is dropped")
		return false, 0, nil
	}

	key := rt.keyFunc(value)
	allowed, retryAfter, err = rt.limiter.Allow(ctx, key)
	if err != nil {
		return false, 0, fmt.Errorf("rate limit key %q: %w", key, err)
	}
	if !allowed {
		rt.drop("call is dropped", log.String("key", key), log.Duration("retry_after", retryAfter))
		return false, retryAfter, nil
	}

	rt.stats.passed.Inc()
	rt.metrics.IncPassed()
	rt.mu.RLock()
	action := rt.action
	rt.mu.RUnlock()
	if action != nil {
		action(value)
	}
	return true, 0, nil
}

// Stop makes all further calls no-ops. Stop is idempotent.
func (rt *RateThrottler[T]) Stop() {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.stopped {
		return
	}
	rt.stopped = true
	rt.logger.Debug("throttler stopped")
}

// Stats returns counters of the throttler.
func (rt *RateThrottler[T]) Stats() Stats {
	return rt.stats.get()
}

func (rt *RateThrottler[T]) drop(msg string, fields ...log.Field) {
	rt.stats.dropped.Inc()
	rt.metrics.IncDropped()
	rt.logger.Debug(msg, fields...)
}
