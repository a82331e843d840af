/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package ratelimit implements keyed rate limiting algorithms used by throttle.RateThrottler:
// leaky bucket (GCRA), sliding window and token bucket.
// Limiters never queue: a call either fits into the rate or is rejected with an estimated retry-after.
package ratelimit
