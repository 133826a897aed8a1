package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/purplemusic/catalog/internal/logger"
)

func TestQueue_RunsTasks(t *testing.T) {
	q := NewQueue(8, 2, logger.Discard())
	q.Start(context.Background())

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.True(t, q.Enqueue("count", func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, int32(5), ran.Load())
}

func TestQueue_StopDrainsPending(t *testing.T) {
	q := NewQueue(4, 1, logger.Discard())

	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		require.True(t, q.Enqueue("pending", func(context.Context) error {
			ran.Add(1)
			return nil
		}))
	}
	assert.False(t, q.Enqueue("overflow", func(context.Context) error { return nil }), "queue is full")
	assert.Equal(t, 4, q.Len())

	// tasks still run when the parent context is already cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Start(ctx)
	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, int32(4), ran.Load())

	assert.False(t, q.Enqueue("late", func(context.Context) error { return nil }))
	require.NoError(t, q.Stop(context.Background()), "second stop is a no-op")
}

func TestQueue_FailuresAndPanicsDoNotKillWorkers(t *testing.T) {
	q := NewQueue(4, 1, logger.Discard())
	q.Start(context.Background())

	var ran atomic.Int32
	q.Enqueue("fails", func(context.Context) error { return errors.New("boom") })
	q.Enqueue("panics", func(context.Context) error { panic("bad task") })
	q.Enqueue("ok", func(context.Context) error {
		ran.Add(1)
		return nil
	})
	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, int32(1), ran.Load())
}

func TestQueue_StopDeadlineCancelsTasks(t *testing.T) {
	q := NewQueue(2, 1, logger.Discard())
	q.Start(context.Background())

	started := make(chan struct{})
	q.Enqueue("slow", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, q.Stop(ctx), context.DeadlineExceeded)
}

func TestScheduler_RunsUntilStopped(t *testing.T) {
	s := NewScheduler(logger.Discard())

	var ticks, failures atomic.Int32
	s.Every("tick", 5*time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	})
	s.Every("flaky", 5*time.Millisecond, func(context.Context) error {
		failures.Add(1)
		if failures.Load() == 1 {
			panic("first run panics")
		}
		return errors.New("keeps failing")
	})
	s.Every("disabled", 0, func(context.Context) error {
		t.Error("job with zero interval must not run")
		return nil
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool {
		return ticks.Load() >= 3 && failures.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
	s.Stop()

	after := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, ticks.Load(), "no runs after Stop")
}

func TestScheduler_StopsWithContext(t *testing.T) {
	s := NewScheduler(logger.Discard())
	var ticks atomic.Int32
	s.Every("tick", time.Millisecond, func(context.Context) error {
		ticks.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return ticks.Load() > 0 }, time.Second, time.Millisecond)
	cancel()
	s.Stop()
}
