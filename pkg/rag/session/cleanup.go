package session

import (
	"context"
	"sync"
	"time"
)

const DefaultCleanupInterval = 10 * time.Minute

// CleanupService periodically removes expired sessions.
type CleanupService struct {
	manager  *Manager
	interval time.Duration
	onSweep  func(ctx context.Context, removed int)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewCleanupService creates a sweeper. onSweep, if set, is called after every
// sweep that removed at least one session.
func NewCleanupService(manager *Manager, interval time.Duration, onSweep func(ctx context.Context, removed int)) *CleanupService {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupService{
		manager:  manager,
		interval: interval,
		onSweep:  onSweep,
	}
}

// Start launches the sweep loop. Calling Start on a running service is a no-op.
func (c *CleanupService) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}

	cleanupCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(cleanupCtx, c.done)
}

// Stop cancels the loop and waits for it to exit.
func (c *CleanupService) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.running = false
	c.mu.Unlock()

	cancel()
	<-done
}

func (c *CleanupService) run(ctx context.Context, done chan struct{}) {
	defer close(done)

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

func (c *CleanupService) sweep(ctx context.Context) {
	removed := c.manager.SweepExpired(c.manager.Now())
	if removed > 0 && c.onSweep != nil {
		c.onSweep(ctx, removed)
	}
}
