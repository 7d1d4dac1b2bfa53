// Package sessioncleanup purges call sessions whose expiry has passed.
package sessioncleanup

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hrygo/sitevoice/store"
)

// DefaultInterval is the default interval between cleanup runs.
const DefaultInterval = time.Hour

// Store is the store operation the runner needs.
type Store interface {
	DeleteCallSessions(ctx context.Context, delete *store.DeleteCallSession) (int64, error)
}

// Config holds configuration for the runner.
type Config struct {
	Interval time.Duration // Interval between cleanup runs (default: 1h)
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Runner periodically deletes expired call sessions.
type Runner struct {
	store  Store
	config Config

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

// NewRunner creates a new cleanup runner.
func NewRunner(st Store, config Config) *Runner {
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Runner{store: st, config: config}
}

// Start begins the periodic cleanup in a goroutine. Starting a running runner is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return
	}
	r.running = true
	r.stopChan = make(chan struct{})
	r.done = make(chan struct{})

	go r.run(ctx, r.stopChan, r.done)

	slog.Info("call session cleanup started", "interval", r.config.Interval)
}

// Stop stops the runner and waits for the current run to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	close(r.stopChan)
	done := r.done
	r.running = false
	r.mu.Unlock()

	<-done
	slog.Info("call session cleanup stopped")
}

// IsRunning returns whether the runner is active.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// RunOnce deletes every session that has expired by now.
func (r *Runner) RunOnce(ctx context.Context) (int64, error) {
	now := r.config.Now().Unix()
	return r.store.DeleteCallSessions(ctx, &store.DeleteCallSession{ExpiredBefore: &now})
}

func (r *Runner) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	r.runAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			r.runAndLog(ctx)
		}
	}
}

func (r *Runner) runAndLog(ctx context.Context) {
	deleted, err := r.RunOnce(ctx)
	if err != nil {
		slog.Error("call session cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("call session cleanup completed", "deleted", deleted)
	}
}
