/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package clocktest

import (
	"sort"
	"sync"
	"time"

	"github.com/acronis/go-apputil/clock"
)

type fakeTimer struct {
	c       *FakeClock
	at      time.Time
	seq     uint64
	f       func()
	stopped bool
	fired   bool
}

// Stop implements clock.Timer.
func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.c.removeTimer(t)
	return true
}

// FakeClock is a clock.Clock which time moves only when Advance is called.
// Scheduled callbacks are called synchronously by Advance in the order of their deadlines.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*fakeTimer
}

var _ clock.Clock = (*FakeClock)(nil)

// NewFakeClock creates a new FakeClock that starts at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f to be called when the fake time reaches Now()+d.
// Non-positive durations are fired on the next Advance call (including Advance(0)), never synchronously.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &fakeTimer{c: c, at: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].at.Equal(c.timers[j].at) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].at.Before(c.timers[j].at)
	})
	return t
}

// Advance moves the fake time forward and fires all callbacks whose deadline is reached.
// Callbacks scheduled by fired callbacks are fired too if their deadline falls into the advanced window.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	for len(c.timers) > 0 && !c.timers[0].at.After(target) {
		t := c.timers[0]
		c.timers = c.timers[1:]
		t.fired = true
		if t.at.After(c.now) {
			c.now = t.at
		}
		c.mu.Unlock()
		t.f()
		c.mu.Lock()
	}
	c.now = target
	c.mu.Unlock()
}

// PendingTimers returns the number of scheduled callbacks that have not fired yet.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *FakeClock) removeTimer(t *fakeTimer) {
	for i := range c.timers {
		if c.timers[i] == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
