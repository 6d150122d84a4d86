package jobs

import (
	"context"

	"go.uber.org/zap"
)

type staleEventCompleter interface {
	CompleteStale(ctx context.Context) (int64, error)
}

// EventSweeper marks events whose date has passed as completed so stored
// statuses follow the calendar.
func EventSweeper(events staleEventCompleter, logger *zap.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		n, err := events.CompleteStale(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("completed stale events", zap.Int64("count", n))
		}
		return nil
	}
}
