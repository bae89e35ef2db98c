package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndNames(t *testing.T) {
	s := New()
	s.Add("sync", time.Hour, func(ctx context.Context) {})
	s.Add("retention", time.Hour, func(ctx context.Context) {})

	assert.ElementsMatch(t, []string{"sync", "retention"}, s.Names())
}

func TestAddReplacesSameName(t *testing.T) {
	s := New()

	var first, second int64
	s.Add("sync", 10*time.Millisecond, func(ctx context.Context) { atomic.AddInt64(&first, 1) })
	require.True(t, s.Start("sync"))

	time.Sleep(50 * time.Millisecond)
	s.Add("sync", 10*time.Millisecond, func(ctx context.Context) { atomic.AddInt64(&second, 1) })

	// The replacement is registered but not started
	firstRuns := atomic.LoadInt64(&first)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, firstRuns, atomic.LoadInt64(&first))
	assert.Zero(t, atomic.LoadInt64(&second))

	require.True(t, s.Start("sync"))
	time.Sleep(50 * time.Millisecond)
	assert.Positive(t, atomic.LoadInt64(&second))

	assert.Len(t, s.Names(), 1)
	s.StopAll()
}

func TestStartUnknownJob(t *testing.T) {
	s := New()
	assert.False(t, s.Start("missing"))
	assert.False(t, s.Stop("missing"))
}

func TestStopHaltsTicks(t *testing.T) {
	s := New()

	var runs int64
	s.Add("sync", 10*time.Millisecond, func(ctx context.Context) { atomic.AddInt64(&runs, 1) })
	require.True(t, s.Start("sync"))

	time.Sleep(50 * time.Millisecond)
	require.True(t, s.Stop("sync"))

	stopped := atomic.LoadInt64(&runs)
	assert.Positive(t, stopped)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt64(&runs))
}

func TestRemoveStopsJob(t *testing.T) {
	s := New()

	var runs int64
	s.Add("sync", 10*time.Millisecond, func(ctx context.Context) { atomic.AddInt64(&runs, 1) })
	require.True(t, s.Start("sync"))

	time.Sleep(50 * time.Millisecond)
	s.Remove("sync")

	stopped := atomic.LoadInt64(&runs)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt64(&runs))
	assert.Empty(t, s.Names())
}

func TestSlowRunDoesNotOverlap(t *testing.T) {
	s := New()

	var active, maxActive int64
	s.Add("slow", 10*time.Millisecond, func(ctx context.Context) {
		n := atomic.AddInt64(&active, 1)
		if n > atomic.LoadInt64(&maxActive) {
			atomic.StoreInt64(&maxActive, n)
		}
		time.Sleep(60 * time.Millisecond)
		atomic.AddInt64(&active, -1)
	})

	require.True(t, s.Start("slow"))
	time.Sleep(200 * time.Millisecond)
	s.StopAll()

	assert.Equal(t, int64(1), atomic.LoadInt64(&maxActive))
}

func TestPanicDoesNotKillJob(t *testing.T) {
	s := New()

	var runs int64
	s.Add("flaky", 10*time.Millisecond, func(ctx context.Context) {
		if atomic.AddInt64(&runs, 1) == 1 {
			panic("boom")
		}
	})

	require.True(t, s.Start("flaky"))
	time.Sleep(80 * time.Millisecond)
	s.StopAll()

	assert.Greater(t, atomic.LoadInt64(&runs), int64(1))
}
