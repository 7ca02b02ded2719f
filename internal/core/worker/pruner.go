package worker

import (
	"context"
	"log/slog"
	"time"
)

// JobPruneTarget is a job store without native expiry.
type JobPruneTarget interface {
	DeleteJobsOlderThan(ctx context.Context, before time.Time) (int, error)
}

// Pruner deletes async jobs past their retention period.
type Pruner struct {
	retention time.Duration
	target    JobPruneTarget
	now       func() time.Time
}

// NewPruner creates a new Pruner worker.
func NewPruner(retention time.Duration, target JobPruneTarget) *Pruner {
	return &Pruner{
		retention: retention,
		target:    target,
		now:       time.Now,
	}
}

// Interval is how often Start prunes: 10% of retention, between 1 minute and 1 hour.
func (p *Pruner) Interval() time.Duration {
	interval := min(p.retention/10, 1*time.Hour)
	return max(interval, 1*time.Minute)
}

// Start runs the pruner loop.
func (p *Pruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		return // Retention disabled
	}

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	// Initial prune
	p.Prune(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Prune(ctx)
		}
	}
}

// Prune deletes jobs last updated before now minus retention.
func (p *Pruner) Prune(ctx context.Context) int {
	deleted, err := p.target.DeleteJobsOlderThan(ctx, p.now().Add(-p.retention))
	if err != nil {
		slog.Error("Failed to prune jobs", "error", err)
		return 0
	}
	if deleted > 0 {
		slog.Debug("Pruned expired jobs", "count", deleted)
	}
	return deleted
}
