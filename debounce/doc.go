/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package debounce delays calling an action until a quiet period of no further calls has elapsed.
//
// Every Call cancels the pending invocation (if any) and schedules a new one after the delay,
// so a burst of calls results in a single invocation with the value of the last call:
//
//	d, _ := debounce.New(300*time.Millisecond, func(query string) { search(query) })
//	defer d.Stop()
//	d.Call("g")
//	d.Call("go")
//	d.Call("gopher") // search("gopher") is called once, 300ms after this call
//
// The action runs in the goroutine of the timer. Its panics are not recovered.
package debounce
