package sessions

import (
	"context"
	"sync"
	"time"

	"github.com/dkotenko/user-accounts/internal/logger"
)

// Sweeper deletes expired session tokens in one pass.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Cleaner runs SweepExpired on a fixed interval in a background
// goroutine. One Cleaner exists per process; Start is idempotent so a
// second call cannot double-schedule the sweep.
type Cleaner struct {
	sweeper  Sweeper
	interval time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewCleaner creates a Cleaner sweeping at the given interval.
func NewCleaner(sweeper Sweeper, interval time.Duration) *Cleaner {
	return &Cleaner{sweeper: sweeper, interval: interval}
}

// Start launches the sweep loop. The first sweep runs immediately,
// subsequent ones on every interval tick. Calling Start on a running
// Cleaner is a no-op.
func (c *Cleaner) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return
	}
	c.running = true

	ctx, c.cancel = context.WithCancel(ctx)
	c.done = make(chan struct{})

	go c.loop(ctx)
}

func (c *Cleaner) loop(ctx context.Context) {
	defer close(c.done)

	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

// sweep runs one pass. Failures are logged and never stop the schedule.
func (c *Cleaner) sweep(ctx context.Context) {
	deleted, err := c.sweeper.SweepExpired(ctx)
	if err != nil {
		logger.Log.Errorw("session sweep failed", "error", err)
		return
	}
	if deleted > 0 {
		logger.Log.Infow("session sweep", "deleted", deleted)
	}
}

// Stop cancels the loop and waits for it to exit. Safe to call on a
// stopped Cleaner.
func (c *Cleaner) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return
	}
	c.cancel()
	<-c.done
	c.running = false
}
