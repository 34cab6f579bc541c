// Package janitor prunes refresh tokens that are revoked or past their
// expiry. Dead tokens are already unusable, this just keeps the table
// from growing without bound.
package janitor

import (
	"context"
	"log/slog"
	"time"
)

type TokenPruner interface {
	DeleteDead(ctx context.Context, now time.Time) (int64, error)
}

type Janitor struct {
	pruner   TokenPruner
	interval time.Duration
	logger   *slog.Logger
}

func New(pruner TokenPruner, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		pruner:   pruner,
		interval: interval,
		logger:   logger.With("component", "janitor"),
	}
}

func (j *Janitor) Start(ctx context.Context) error {
	j.logger.Info("janitor started", "interval", j.interval)

	j.prune(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("janitor stopped")
			return ctx.Err()
		case <-ticker.C:
			j.prune(ctx)
		}
	}
}

func (j *Janitor) prune(ctx context.Context) {
	pruneCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	deleted, err := j.pruner.DeleteDead(pruneCtx, time.Now().UTC())
	if err != nil {
		j.logger.Error("prune failed", "error", err)
		return
	}
	if deleted > 0 {
		j.logger.Info("pruned dead refresh tokens", "count", deleted)
	}
}
