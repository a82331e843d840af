/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package clock provides the timer service used by the timing utilities of this library.
// It exists so that time-dependent code can be driven by a fake clock in tests (see clocktest package).
package clock

import "time"

// Timer is a handle of the scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing.
	// It returns false if the callback has already fired or been stopped.
	Stop() bool
}

// Clock can tell the current time and schedule callbacks.
type Clock interface {
	Now() time.Time

	// AfterFunc waits for the duration to elapse and then calls f in its own goroutine.
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

// New returns a Clock backed by the standard time package.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
