package events

import (
	"context"

	"go.uber.org/zap"
)

// LogPublisher writes events to the application log. Used when no broker
// is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info("domain event",
		zap.String("type", event.Type),
		zap.String("key", event.Key),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
