package sessions

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (s *countingSweeper) SweepExpired(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return 0, s.err
}

func waitForCalls(t *testing.T, s *countingSweeper, want int32) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if s.calls.Load() >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected at least %d sweeps, got %d", want, s.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestCleaner_SweepsImmediatelyAndOnTicks(t *testing.T) {
	sweeper := &countingSweeper{}
	cleaner := NewCleaner(sweeper, 20*time.Millisecond)

	cleaner.Start(context.Background())
	defer cleaner.Stop()

	waitForCalls(t, sweeper, 3)
}

func TestCleaner_StartIsIdempotent(t *testing.T) {
	sweeper := &countingSweeper{}
	cleaner := NewCleaner(sweeper, time.Hour)

	cleaner.Start(context.Background())
	cleaner.Start(context.Background())
	defer cleaner.Stop()

	waitForCalls(t, sweeper, 1)
	// Only the immediate sweep of a single loop runs with an hour interval.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), sweeper.calls.Load())
}

func TestCleaner_SweepFailureKeepsTheSchedule(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("redis down")}
	cleaner := NewCleaner(sweeper, 20*time.Millisecond)

	cleaner.Start(context.Background())
	defer cleaner.Stop()

	waitForCalls(t, sweeper, 3)
}

func TestCleaner_StopWaitsAndCanRestart(t *testing.T) {
	sweeper := &countingSweeper{}
	cleaner := NewCleaner(sweeper, 10*time.Millisecond)

	cleaner.Start(context.Background())
	waitForCalls(t, sweeper, 1)
	cleaner.Stop()

	stopped := sweeper.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, sweeper.calls.Load())

	// Stop on a stopped cleaner is a no-op.
	cleaner.Stop()

	cleaner.Start(context.Background())
	defer cleaner.Stop()
	waitForCalls(t, sweeper, stopped+1)
}
