package leads

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper runs the store's ageing/purge pass on a fixed interval,
// independent of request traffic.
type Sweeper struct {
	store    *Store
	interval time.Duration
}

// NewSweeper creates a Sweeper. interval <= 0 gets the 90s default.
func NewSweeper(store *Store, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = 90 * time.Second
	}
	return &Sweeper{store: store, interval: interval}
}

// Run sweeps until the context is cancelled. It blocks; callers run it in
// its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	zap.L().Info("leads: sweeper started", zap.Duration("interval", s.interval))
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("leads: sweeper stopped")
			return
		case <-ticker.C:
			s.store.SweepOnce()
		}
	}
}
