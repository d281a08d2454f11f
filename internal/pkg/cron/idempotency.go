package cron

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper drops expired entries from a store.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type IdempotencyJobs struct {
	sweeper  Sweeper
	interval time.Duration
}

func NewIdempotencyJobs(sweeper Sweeper, interval time.Duration) *IdempotencyJobs {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &IdempotencyJobs{sweeper: sweeper, interval: interval}
}

func (j *IdempotencyJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_idempotency_keys", j.interval, j.SweepExpiredKeys)
}

func (j *IdempotencyJobs) SweepExpiredKeys(ctx context.Context) error {
	removed, err := j.sweeper.Sweep(ctx)
	if err != nil {
		return err
	}
	if removed > 0 {
		slog.InfoContext(ctx, "Expired idempotency keys removed", "count", removed)
	}
	return nil
}
