/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package debounce

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/xid"
	"go.uber.org/atomic"

	"github.com/acronis/go-apputil/clock"
	"github.com/acronis/go-apputil/log"
)

// Action is a function the Debouncer calls with the last value.
type Action[T any] func(value T)

// Opts contains optional parameters for constructing Debouncer.
type Opts struct {
	// Clock schedules the delayed invocations. The real clock is used by default.
	Clock clock.Clock

	// Logger is used for debug logging. Nothing is logged by default.
	Logger log.FieldLogger

	// MetricsCollector collects calls, fires and cancellations. Disabled by default.
	MetricsCollector MetricsCollector

	// Name identifies the debouncer in logs. A random unique id is used by default.
	Name string
}

// Stats contains counters of a Debouncer.
type Stats struct {
	Calls         int64
	Fires         int64
	Cancellations int64
}

// Debouncer calls the action with the most recent value once the delay has passed since the last Call.
// All methods are safe for concurrent use.
type Debouncer[T any] struct {
	delay   time.Duration
	clock   clock.Clock
	logger  log.FieldLogger
	metrics MetricsCollector

	mu      sync.Mutex
	action  Action[T]
	timer   clock.Timer
	gen     uint64
	value   T
	stopped bool

	calls         atomic.Int64
	fires         atomic.Int64
	cancellations atomic.Int64
}

// New creates a new Debouncer. The action may be nil and set later with SetAction.
func New[T any](delay time.Duration, action Action[T]) (*Debouncer[T], error) {
	return NewWithOpts[T](delay, action, Opts{})
}

// NewWithOpts creates a new Debouncer with an ability to specify optional parameters.
func NewWithOpts[T any](delay time.Duration, action Action[T], opts Opts) (*Debouncer[T], error) {
	if delay < 0 {
		return nil, fmt.Errorf("delay should not be negative, got %s", delay)
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = log.NewDisabledLogger()
	}
	if opts.MetricsCollector == nil {
		opts.MetricsCollector = disabledMetrics{}
	}
	if opts.Name == "" {
		opts.Name = xid.New().String()
	}
	return &Debouncer[T]{
		delay:   delay,
		clock:   opts.Clock,
		logger:  opts.Logger.With(log.String("debouncer", opts.Name)),
		metrics: opts.MetricsCollector,
		action:  action,
	}, nil
}

// NewFromConfig creates a new Debouncer which delay is taken from the configuration.
func NewFromConfig[T any](cfg *Config, action Action[T], opts Opts) (*Debouncer[T], error) {
	return NewWithOpts[T](time.Duration(cfg.Delay), action, opts)
}

// Delay returns the configured delay.
func (d *Debouncer[T]) Delay() time.Duration {
	return d.delay
}

// SetAction replaces the action. A nil action makes the pending invocation (if any) a no-op.
func (d *Debouncer[T]) SetAction(action Action[T]) {
	d.mu.Lock()
	d.action = action
	d.mu.Unlock()
}

// Call cancels the pending invocation and schedules the action to be called with the value
// after the delay. Calls made after Stop are ignored.
// Even with zero delay the action is never called synchronously.
func (d *Debouncer[T]) Call(value T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		d.logger.Debug("call on stopped debouncer is ignored")
		return
	}
	d.calls.Inc()
	d.metrics.IncCalls()
	d.cancelPending()

	d.gen++
	gen := d.gen
	d.value = value
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending invocation. It reports whether there was one.
// Unlike Stop, it leaves the debouncer usable.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelPending()
}

// Flush calls the action with the pending value right now in the caller's goroutine
// instead of waiting for the delay. It reports whether there was a pending invocation.
func (d *Debouncer[T]) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	action, value := d.takeValue()
	d.mu.Unlock()

	d.invoke(action, value)
	return true
}

// Pending reports whether an invocation is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending invocation and makes all further calls no-ops.
// It reports whether a pending invocation was cancelled. Stop is idempotent.
func (d *Debouncer[T]) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return false
	}
	d.stopped = true
	cancelled := d.cancelPending()
	d.logger.Debug("debouncer stopped", log.Bool("pending_cancelled", cancelled))
	return cancelled
}

// Stats returns counters of the debouncer.
func (d *Debouncer[T]) Stats() Stats {
	return Stats{
		Calls:         d.calls.Load(),
		Fires:         d.fires.Load(),
		Cancellations: d.cancellations.Load(),
	}
}

// cancelPending must be called with d.mu held.
func (d *Debouncer[T]) cancelPending() bool {
	if d.timer == nil {
		return false
	}
	// Stop may fail if the timer callback is already running and waits for the lock,
	// the generation bump below makes it a no-op.
	d.timer.Stop()
	d.timer = nil
	d.gen++
	var zero T
	d.value = zero
	d.cancellations.Inc()
	d.metrics.IncCancellations()
	return true
}

// takeValue must be called with d.mu held.
func (d *Debouncer[T]) takeValue() (Action[T], T) {
	value := d.value
	var zero T
	d.value = zero
	return d.action, value
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	action, value := d.takeValue()
	d.mu.Unlock()

	d.invoke(action, value)
}

func (d *Debouncer[T]) invoke(action Action[T], value T) {
	if action == nil {
		d.logger.Debug("no action is set, value is dropped")
		return
	}
	d.fires.Inc()
	d.metrics.IncFires()
	action(value)
}
