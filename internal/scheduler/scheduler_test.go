package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDaily_BeforeTarget(t *testing.T) {
	now := time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC)
	next := NextDaily(now, 9)
	assert.Equal(t, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), next)
}

func TestNextDaily_AfterTargetRollsToTomorrow(t *testing.T) {
	now := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	next := NextDaily(now, 9)
	assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), next)
}

func TestNextDaily_ExactlyAtTargetRollsToTomorrow(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	next := NextDaily(now, 9)
	assert.Equal(t, time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC), next)
}

// Across the spring-forward transition the target keeps its wall-clock hour.
func TestNextDaily_SpringForward(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// 2024-03-10 02:00 CST -> 03:00 CDT. Late evening before the shift.
	now := time.Date(2024, 3, 9, 22, 0, 0, 0, chicago)
	next := NextDaily(now, 9)

	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 10, next.Day())
	// The elapsed interval is one hour short of a normal day.
	assert.Equal(t, 10*time.Hour, next.Sub(now))
}

func TestNextDaily_FallBack(t *testing.T) {
	chicago, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	// 2024-11-03 02:00 CDT -> 01:00 CST.
	now := time.Date(2024, 11, 2, 22, 0, 0, 0, chicago)
	next := NextDaily(now, 9)

	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 3, next.Day())
	assert.Equal(t, 12*time.Hour, next.Sub(now))
}

func TestEvery_RunsImmediatelyThenOnTicks(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	err := Every(ctx, 5*time.Millisecond, "test", func(context.Context) error {
		if runs.Add(1) >= 3 {
			cancel()
		}
		return nil
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, runs.Load(), int32(3))
}

// Task errors are logged and the schedule keeps going.
func TestEvery_TaskErrorDoesNotStopSchedule(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	err := Every(ctx, 5*time.Millisecond, "test", func(context.Context) error {
		if runs.Add(1) >= 2 {
			cancel()
		}
		return errors.New("tick failed")
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, runs.Load(), int32(2))
}

func TestEvery_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var runs atomic.Int32
	err := Every(ctx, time.Hour, "test", func(context.Context) error {
		runs.Add(1)
		return nil
	})

	require.NoError(t, err)
	// A canceled context suppresses even the immediate first run.
	assert.Equal(t, int32(0), runs.Load())
}

func TestDailyAt_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		done <- DailyAt(ctx, 9, time.UTC, "test", func(context.Context) error {
			t.Error("task must not run with canceled context")
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("DailyAt did not return after cancellation")
	}
}
