/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/acronis/go-apputil/lrucache"
	"github.com/acronis/go-apputil/testutil"
)

type SlidingWindowLimiterTestSuite struct {
	suite.Suite
}

func TestSlidingWindowLimiter(t *testing.T) {
	suite.Run(t, new(SlidingWindowLimiterTestSuite))
}

func (ts *SlidingWindowLimiterTestSuite) TestAllowSequential() {
	limiter, err := NewSlidingWindowLimiter(Rate{Count: 2, Duration: time.Minute}, 100, nil)
	ts.Require().NoError(err)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		allow, retryAfter, allowErr := limiter.Allow(ctx, "search")
		ts.NoError(allowErr)
		ts.True(allow)
		ts.Zero(retryAfter)
	}

	allow, retryAfter, err := limiter.Allow(ctx, "search")
	ts.NoError(err)
	ts.False(allow)
	ts.Greater(retryAfter, time.Duration(0))
	ts.LessOrEqual(retryAfter, time.Minute)

	allow, _, err = limiter.Allow(ctx, "save")
	ts.NoError(err)
	ts.True(allow)
}

func (ts *SlidingWindowLimiterTestSuite) TestSharedWindow() {
	limiter, err := NewSlidingWindowLimiter(Rate{Count: 1, Duration: time.Minute}, 0, nil)
	ts.Require().NoError(err)

	ctx := context.Background()
	allow, _, err := limiter.Allow(ctx, "search")
	ts.NoError(err)
	ts.True(allow)

	allow, _, err = limiter.Allow(ctx, "save")
	ts.NoError(err)
	ts.False(allow)
}

func (ts *SlidingWindowLimiterTestSuite) TestKeysMetrics() {
	keysMetrics := lrucache.NewPrometheusMetrics()
	limiter, err := NewSlidingWindowLimiter(Rate{Count: 5, Duration: time.Minute}, 1, keysMetrics)
	ts.Require().NoError(err)

	ctx := context.Background()
	for _, key := range []string{"search", "search", "save"} {
		_, _, err = limiter.Allow(ctx, key)
		ts.Require().NoError(err)
	}

	testutil.RequireCounterValue(ts.T(), keysMetrics.EntriesAmount, 1)
	testutil.RequireCounterValue(ts.T(), keysMetrics.HitsTotal, 1)
	testutil.RequireCounterValue(ts.T(), keysMetrics.MissesTotal, 2)
	testutil.RequireCounterValue(ts.T(), keysMetrics.EvictionsTotal, 1)
}
