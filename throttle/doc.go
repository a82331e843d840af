/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package throttle limits how often an action is called.
//
// Throttler lets the first call of every interval window through (the action is called synchronously)
// and drops all other calls of the window:
//
//	t, _ := throttle.New(time.Second, func(pos Position) { render(pos) })
//	defer t.Stop()
//	t.Call(p1) // render(p1) is called immediately
//	t.Call(p2) // dropped, the window is not over yet
//
// RateThrottler generalizes this to N calls per period per key using leaky bucket,
// sliding window or token bucket algorithms.
package throttle
