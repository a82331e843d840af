/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package throttle

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-apputil/clock/clocktest"
	"github.com/acronis/go-apputil/log/logtest"
	"github.com/acronis/go-apputil/testutil"
)

type firedValue struct {
	at    time.Duration
	value string
}

type throttlerFixture struct {
	clk   *clocktest.FakeClock
	start time.Time
	fired []firedValue
}

func newThrottlerFixture(t *testing.T, interval time.Duration, opts Opts) (*Throttler[string], *throttlerFixture) {
	t.Helper()
	f := &throttlerFixture{start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.clk = clocktest.NewFakeClock(f.start)
	opts.Clock = f.clk
	th, err := NewWithOpts[string](interval, func(value string) {
		f.fired = append(f.fired, firedValue{at: f.clk.Now().Sub(f.start), value: value})
	}, opts)
	require.NoError(t, err)
	return th, f
}

func TestNew(t *testing.T) {
	_, err := New[int](-time.Second, nil)
	require.EqualError(t, err, "interval should not be negative, got -1s")

	th, err := New[int](time.Second, nil)
	require.NoError(t, err)
	require.Equal(t, time.Second, th.Interval())
	require.True(t, th.Ready())
}

func TestThrottler_Call(t *testing.T) {
	t.Run("first call in window passes", func(t *testing.T) {
		th, f := newThrottlerFixture(t, time.Second, Opts{})

		require.True(t, th.Call("x"))
		require.Equal(t, []firedValue{{at: 0, value: "x"}}, f.fired)
		require.False(t, th.Ready())

		f.clk.Advance(500 * time.Millisecond)
		require.False(t, th.Call("y"))

		f.clk.Advance(700 * time.Millisecond)
		require.True(t, th.Ready())
		require.True(t, th.Call("z"))

		require.Equal(t, []firedValue{
			{at: 0, value: "x"},
			{at: 1200 * time.Millisecond, value: "z"},
		}, f.fired)
		require.Equal(t, Stats{Passed: 2, Dropped: 1}, th.Stats())
	})

	t.Run("readiness is restored once per passed call", func(t *testing.T) {
		th, f := newThrottlerFixture(t, time.Second, Opts{})

		th.Call("a")
		for i := 0; i < 5; i++ {
			th.Call("dropped")
		}
		require.Equal(t, 1, f.clk.PendingTimers())

		f.clk.Advance(time.Second)
		require.True(t, th.Ready())
		require.Zero(t, f.clk.PendingTimers())
	})

	t.Run("action is called synchronously", func(t *testing.T) {
		th, f := newThrottlerFixture(t, time.Minute, Opts{})
		require.True(t, th.Call("sync"))
		require.Len(t, f.fired, 1)
	})

	t.Run("zero interval restores on the next tick", func(t *testing.T) {
		th, f := newThrottlerFixture(t, 0, Opts{})
		require.True(t, th.Call("a"))
		require.False(t, th.Call("b"))
		f.clk.Advance(0)
		require.True(t, th.Call("c"))
		require.Len(t, f.fired, 2)
	})

	t.Run("dropped call is logged", func(t *testing.T) {
		logRecorder := logtest.NewRecorder()
		th, _ := newThrottlerFixture(t, time.Second, Opts{Logger: logRecorder, Name: "clicks"})

		th.Call("a")
		th.Call("b")

		entry, found := logRecorder.FindEntry("call is dropped")
		require.True(t, found)
		_, found = entry.FindField("throttler")
		require.True(t, found)
	})
}

func TestThrottler_SetAction(t *testing.T) {
	t.Run("nil action still opens a window", func(t *testing.T) {
		th, f := newThrottlerFixture(t, time.Second, Opts{})
		th.SetAction(nil)

		require.True(t, th.Call("a"))
		require.False(t, th.Call("b"))
		require.Empty(t, f.fired)
	})

	t.Run("replaced action is used by the next passed call", func(t *testing.T) {
		th, f := newThrottlerFixture(t, time.Second, Opts{})
		var got []string
		th.SetAction(func(value string) { got = append(got, value) })

		th.Call("a")
		require.Equal(t, []string{"a"}, got)
		require.Empty(t, f.fired)
	})
}

func TestThrottler_ActionPanic(t *testing.T) {
	clk := clocktest.NewFakeClock(time.Now())
	th, err := NewWithOpts[string](time.Second, func(string) { panic("action failed") }, Opts{Clock: clk})
	require.NoError(t, err)

	require.PanicsWithValue(t, "action failed", func() { th.Call("x") })
	require.False(t, th.Ready(), "the window is opened before the action is called")
	require.Equal(t, 1, clk.PendingTimers())
	require.Equal(t, Stats{Passed: 1}, th.Stats())

	require.False(t, th.Call("y"))
	clk.Advance(time.Second)
	require.True(t, th.Ready())
}

func TestThrottler_Stop(t *testing.T) {
	th, f := newThrottlerFixture(t, time.Second, Opts{})

	th.Call("a")
	require.Equal(t, 1, f.clk.PendingTimers())

	th.Stop()
	th.Stop()
	require.Zero(t, f.clk.PendingTimers())
	require.False(t, th.Ready())

	f.clk.Advance(time.Hour)
	require.False(t, th.Call("b"))
	require.Len(t, f.fired, 1)
}

func TestThrottler_Metrics(t *testing.T) {
	metrics := NewPrometheusMetrics()
	th, f := newThrottlerFixture(t, time.Second, Opts{MetricsCollector: metrics})

	th.Call("a")
	th.Call("b")
	th.Call("c")
	f.clk.Advance(time.Second)
	th.Call("d")

	testutil.RequireCounterValue(t, metrics.CallsTotal.WithLabelValues(resultPassed), 2)
	testutil.RequireCounterValue(t, metrics.CallsTotal.WithLabelValues(resultDropped), 2)
}

func TestThrottler_Concurrent(t *testing.T) {
	clk := clocktest.NewFakeClock(time.Now())
	var mu sync.Mutex
	var passed []int
	th, err := NewWithOpts[int](time.Second, func(v int) {
		mu.Lock()
		passed = append(passed, v)
		mu.Unlock()
	}, Opts{Clock: clk})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			th.Call(v)
		}(i)
	}
	wg.Wait()

	require.Len(t, passed, 1)
	require.Equal(t, Stats{Passed: 1, Dropped: 49}, th.Stats())
}

func TestThrottler_RealClock(t *testing.T) {
	th, err := New[int](20*time.Millisecond, nil)
	require.NoError(t, err)
	defer th.Stop()

	require.True(t, th.Call(1))
	require.False(t, th.Call(2))
	require.Eventually(t, th.Ready, 5*time.Second, 5*time.Millisecond)
	require.True(t, th.Call(3))
}
