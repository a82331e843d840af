/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package lrucache provides a bounded in-memory cache with LRU eviction and Prometheus metrics.
// The library uses it to keep per-key state (e.g. rate limiters of throttle.RateThrottler) under control.
package lrucache
