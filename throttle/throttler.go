/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"go.uber.org/atomic"

	"github.com/acronis/go-apputil/clock"
	"github.com/acronis/go-apputil/log"
	"github.com/acronis/go-apputil/lrucache"
)

// Action is a function the throttler calls with the value of a passed call.
type Action[T any] func(value T)

// Opts contains optional parameters for constructing throttlers.
type Opts struct {
	// Clock schedules restoring of readiness. The real clock is used by default.
	Clock clock.Clock

	// Logger is used for debug logging. Nothing is logged by default.
	Logger log.FieldLogger

	// MetricsCollector collects passed and dropped calls. Disabled by default.
	MetricsCollector MetricsCollector

	// Name identifies the throttler in logs. A random unique id is used by default.
	Name string

	// KeysMetricsCollector collects statistics of the per-key limiters store of RateThrottler.
	// It is used by the sliding_window and token_bucket algorithms, the leaky_bucket store does not report metrics.
	KeysMetricsCollector lrucache.MetricsCollector
}

func (o *Opts) applyDefaults() {
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	if o.Logger == nil {
		o.Logger = log.NewDisabledLogger()
	}
	if o.MetricsCollector == nil {
		o.MetricsCollector = disabledMetrics{}
	}
	if o.Name == "" {
		o.Name = xid.New().String()
	}
}

// Stats contains counters of a throttler.
type Stats struct {
	Passed  int64
	Dropped int64
}

type stats struct {
	passed  atomic.Int64
	dropped atomic.Int64
}

func (s *stats) get() Stats {
	return Stats{Passed: s.passed.Load(), Dropped: s.dropped.Load()}
}

// Throttler calls the action at most once per interval with the value of the first call in the window.
// All methods are safe for concurrent use.
type Throttler[T any] struct {
	interval time.Duration
	clock    clock.Clock
	logger   log.FieldLogger
	metrics  MetricsCollector

	mu         sync.Mutex
	action     Action[T]
	ready      bool
	resetTimer clock.Timer
	stopped    bool

	stats stats
}

// New creates a new Throttler. The action may be nil and set later with SetAction.
func New[T any](interval time.Duration, action Action[T]) (*Throttler[T], error) {
	return NewWithOpts[T](interval, action, Opts{})
}

// NewWithOpts creates a new Throttler with an ability to specify optional parameters.
func NewWithOpts[T any](interval time.Duration, action Action[T], opts Opts) (*Throttler[T], error) {
	if interval < 0 {
		return nil, fmt.Errorf("interval should not be negative, got %s", interval)
	}
	opts.applyDefaults()
	return &Throttler[T]{
		interval: interval,
		clock:    opts.Clock,
		logger:   opts.Logger.With(log.String("throttler", opts.Name)),
		metrics:  opts.MetricsCollector,
		action:   action,
		ready:    true,
	}, nil
}

// NewFromConfig creates a new Throttler which interval is taken from the configuration.
func NewFromConfig[T any](cfg *Config, action Action[T], opts Opts) (*Throttler[T], error) {
	return NewWithOpts[T](time.Duration(cfg.Interval), action, opts)
}

// Interval returns the configured interval.
func (t *Throttler[T]) Interval() time.Duration {
	return t.interval
}

// SetAction replaces the action. A nil action makes passed calls no-ops (they still open a new window).
func (t *Throttler[T]) SetAction(action Action[T]) {
	t.mu.Lock()
	t.action = action
	t.mu.Unlock()
}

// Ready reports whether the next call will pass.
func (t *Throttler[T]) Ready() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ready && !t.stopped
}

// Call calls the action with the value synchronously if the throttler is ready and reports whether it did.
// A passed call starts a new window, readiness is restored once the interval elapses.
// Calls within the window and calls after Stop are dropped.
func (t *Throttler[T]) Call(value T) bool {
	t.mu.Lock()
	if t.stopped || !t.ready {
		t.mu.Unlock()
		t.stats.dropped.Inc()
		t.metrics.IncDropped()
		t.logger.Debug("call is dropped")
		return false
	}
	t.ready = false
	t.resetTimer = t.clock.AfterFunc(t.interval, t.restore)
	action := t.action
	t.mu.Unlock()

	t.stats.passed.Inc()
	t.metrics.IncPassed()
	if action != nil {
		action(value)
	}
	return true
}

// Stop cancels the scheduled restoring of readiness and makes all further calls no-ops. Stop is idempotent.
func (t *Throttler[T]) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	if t.resetTimer != nil {
		t.resetTimer.Stop()
		t.resetTimer = nil
	}
	t.logger.Debug("throttler stopped")
}

// Stats returns counters of the throttler.
func (t *Throttler[T]) Stats() Stats {
	return t.stats.get()
}

func (t *Throttler[T]) restore() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.ready = true
	t.resetTimer = nil
}
