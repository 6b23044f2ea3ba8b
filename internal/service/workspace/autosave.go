package workspace

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Autosave runs tick on a fixed interval while a document is open.
// At most one loop is active; missed ticks are dropped by time.Ticker,
// so a slow save never queues up a burst of follow-up saves.
type Autosave struct {
	interval time.Duration
	tick     func(ctx context.Context)
	logger   *slog.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewAutosave creates a stopped scheduler.
func NewAutosave(interval time.Duration, tick func(ctx context.Context), logger *slog.Logger) *Autosave {
	return &Autosave{
		interval: interval,
		tick:     tick,
		logger:   logger,
	}
}

// Start (re)starts the loop. A previous loop is stopped first.
func (a *Autosave) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.loop(a.stop, a.done)
	a.logger.Debug("autosave started", "interval", a.interval)
}

// Stop ends the loop and waits for an in-progress tick. Safe to call
// multiple times.
func (a *Autosave) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

// Running reports whether a loop is active.
func (a *Autosave) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stop != nil
}

func (a *Autosave) stopLocked() {
	if a.stop == nil {
		return
	}
	close(a.stop)
	<-a.done
	a.stop = nil
	a.done = nil
	a.logger.Debug("autosave stopped")
}

func (a *Autosave) loop(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.tick(context.Background())
		case <-stop:
			return
		}
	}
}
