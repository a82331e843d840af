/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package testutil

import (
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertCounterValue asserts that the collector exposes exactly one counter or gauge with the wanted value.
// Vectors with a single child (e.g. curried or label-less ones) are accepted too.
func AssertCounterValue(t assert.TestingT, c prometheus.Collector, want int) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if n := promtestutil.CollectAndCount(c); n != 1 {
		return assert.Fail(t, "collector should expose exactly one metric", "got %d", n)
	}
	return assert.Equal(t, want, int(promtestutil.ToFloat64(c)))
}

// RequireCounterValue calls AssertCounterValue and fails the test immediately in case of error.
func RequireCounterValue(t require.TestingT, c prometheus.Collector, want int) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if AssertCounterValue(t, c, want) {
		return
	}
	t.FailNow()
}
