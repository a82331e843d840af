/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package debounce

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

type debouncerFixture struct {
	clk   *clocktest.FakeClock
	start time.Time
	fired []firedValue
}

func newDebouncerFixture(t *testing.T, delay time.Duration, opts Opts) (*Debouncer[string], *debouncerFixture) {
	t.Helper()
	f := &debouncerFixture{start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.clk = clocktest.NewFakeClock(f.start)
	opts.Clock = f.clk
	d, err := NewWithOpts[string](delay, func(value string) {
		f.fired = append(f.fired, firedValue{at: f.clk.Now().Sub(f.start), value: value})
	}, opts)
	require.NoError(t, err)
	return d, f
}

func TestNew(t *testing.T) {
	_, err := New[int](-time.Second, nil)
	require.EqualError(t, err, "delay should not be negative, got -1s")

	d, err := New[int](time.Second, nil)
	require.NoError(t, err)
	require.Equal(t, time.Second, d.Delay())
	require.False(t, d.Pending())
}

func TestDebouncer_Call(t *testing.T) {
	t.Run("burst fires once with the last value", func(t *testing.T) {
		d, f := newDebouncerFixture(t, 300*time.Millisecond, Opts{})

		d.Call("a")
		f.clk.Advance(100 * time.Millisecond)
		d.Call("b")
		f.clk.Advance(50 * time.Millisecond)
		d.Call("c")
		f.clk.Advance(299 * time.Millisecond)
		require.Empty(t, f.fired)
		require.True(t, d.Pending())

		f.clk.Advance(time.Second)
		require.Equal(t, []firedValue{{at: 450 * time.Millisecond, value: "c"}}, f.fired)
		require.False(t, d.Pending())
		require.Equal(t, Stats{Calls: 3, Fires: 1, Cancellations: 2}, d.Stats())
	})

	t.Run("spaced calls fire once per call", func(t *testing.T) {
		d, f := newDebouncerFixture(t, 100*time.Millisecond, Opts{})

		d.Call("x")
		f.clk.Advance(150 * time.Millisecond)
		d.Call("y")
		f.clk.Advance(150 * time.Millisecond)
		d.Call("z")
		f.clk.Advance(150 * time.Millisecond)

		require.Equal(t, []firedValue{
			{at: 100 * time.Millisecond, value: "x"},
			{at: 250 * time.Millisecond, value: "y"},
			{at: 400 * time.Millisecond, value: "z"},
		}, f.fired)
	})

	t.Run("zero delay is asynchronous", func(t *testing.T) {
		d, f := newDebouncerFixture(t, 0, Opts{})

		d.Call("now")
		require.Empty(t, f.fired)
		require.True(t, d.Pending())

		f.clk.Advance(0)
		require.Equal(t, []firedValue{{at: 0, value: "now"}}, f.fired)
	})

	t.Run("at most one pending timer", func(t *testing.T) {
		d, f := newDebouncerFixture(t, time.Second, Opts{})
		for i := 0; i < 10; i++ {
			d.Call("v")
			require.Equal(t, 1, f.clk.PendingTimers())
		}
	})
}

func TestDebouncer_SetAction(t *testing.T) {
	t.Run("unset action before fire is a no-op", func(t *testing.T) {
		logRecorder := logtest.NewRecorder()
		d, f := newDebouncerFixture(t, time.Second, Opts{Logger: logRecorder, Name: "search"})

		d.Call("lost")
		d.SetAction(nil)
		require.NotPanics(t, func() { f.clk.Advance(time.Second) })
		require.Empty(t, f.fired)
		require.False(t, d.Pending())
		require.Zero(t, d.Stats().Fires)

		entry, found := logRecorder.FindEntry("no action is set, value is dropped")
		require.True(t, found)
		_, found = entry.FindField("debouncer")
		require.True(t, found)
	})

	t.Run("action is read at fire time", func(t *testing.T) {
		d, f := newDebouncerFixture(t, time.Second, Opts{})
		var got []string
		d.Call("v1")
		d.SetAction(func(value string) { got = append(got, value) })
		f.clk.Advance(time.Second)
		require.Equal(t, []string{"v1"}, got)
		require.Empty(t, f.fired)
	})
}

func TestDebouncer_Cancel(t *testing.T) {
	d, f := newDebouncerFixture(t, time.Second, Opts{})

	require.False(t, d.Cancel())

	d.Call("a")
	require.True(t, d.Cancel())
	require.False(t, d.Pending())
	f.clk.Advance(time.Hour)
	require.Empty(t, f.fired)

	// Still usable after Cancel.
	d.Call("b")
	f.clk.Advance(time.Second)
	require.Len(t, f.fired, 1)
	require.Equal(t, "b", f.fired[0].value)
}

func TestDebouncer_Flush(t *testing.T) {
	d, f := newDebouncerFixture(t, time.Second, Opts{})

	require.False(t, d.Flush())

	d.Call("a")
	f.clk.Advance(200 * time.Millisecond)
	require.True(t, d.Flush())
	require.Equal(t, []firedValue{{at: 200 * time.Millisecond, value: "a"}}, f.fired)
	require.False(t, d.Pending())

	f.clk.Advance(time.Hour)
	require.Len(t, f.fired, 1)
}

func TestDebouncer_Stop(t *testing.T) {
	d, f := newDebouncerFixture(t, time.Second, Opts{})

	d.Call("a")
	require.True(t, d.Stop())
	require.False(t, d.Stop())
	require.Zero(t, f.clk.PendingTimers())

	d.Call("b")
	require.False(t, d.Pending())
	f.clk.Advance(time.Hour)
	require.Empty(t, f.fired)
	require.Equal(t, Stats{Calls: 1, Cancellations: 1}, d.Stats())
}

func TestDebouncer_ActionPanic(t *testing.T) {
	clk := clocktest.NewFakeClock(time.Now())
	d, err := NewWithOpts[string](time.Second, func(string) { panic("action failed") }, Opts{Clock: clk})
	require.NoError(t, err)

	d.Call("x")
	require.PanicsWithValue(t, "action failed", func() { clk.Advance(time.Second) })
	require.False(t, d.Pending())
	require.Zero(t, clk.PendingTimers())
	require.Equal(t, int64(1), d.Stats().Fires)

	// The debouncer stays usable.
	var got []string
	d.SetAction(func(v string) { got = append(got, v) })
	d.Call("y")
	clk.Advance(time.Second)
	require.Equal(t, []string{"y"}, got)
}

func TestDebouncer_StaleTimerDoesNotFire(t *testing.T) {
	// Simulates a timer that could not be stopped because its callback was already running.
	clk := clocktest.NewFakeClock(time.Now())
	var fired []int
	d, err := NewWithOpts[int](time.Second, func(v int) { fired = append(fired, v) }, Opts{Clock: clk})
	require.NoError(t, err)

	d.Call(1)
	staleGen := d.gen
	d.Call(2)
	d.fire(staleGen)
	require.Empty(t, fired)

	clk.Advance(time.Second)
	require.Equal(t, []int{2}, fired)
}

func TestDebouncer_Metrics(t *testing.T) {
	metrics := NewPrometheusMetrics()
	d, f := newDebouncerFixture(t, time.Second, Opts{MetricsCollector: metrics})

	d.Call("a")
	d.Call("b")
	f.clk.Advance(time.Second)
	d.Call("c")
	d.Cancel()

	testutil.RequireCounterValue(t, metrics.CallsTotal, 3)
	testutil.RequireCounterValue(t, metrics.FiresTotal, 1)
	testutil.RequireCounterValue(t, metrics.CancellationsTotal, 2)
}

func TestDebouncer_RealClock(t *testing.T) {
	var mu sync.Mutex
	var got []int
	done := make(chan struct{})
	d, err := New[int](20*time.Millisecond, func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
		close(done)
	})
	require.NoError(t, err)
	defer d.Stop()

	for i := 1; i <= 5; i++ {
		d.Call(i)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		require.FailNow(t, "action was not called")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []int{5}, got)
}
