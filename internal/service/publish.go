package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"ridersclub/backend/internal/events"
)

const publishTimeout = 5 * time.Second

// publish sends ev after the owning transaction committed. Failures are
// logged and never reach the caller.
func publish(ctx context.Context, p events.Publisher, logger *zap.Logger, ev events.Event) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := p.Publish(ctx, ev); err != nil {
		logger.Warn("failed to publish event", zap.String("type", ev.Type), zap.String("key", ev.Key), zap.Error(err))
	}
}
