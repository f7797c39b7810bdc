package messaging

import (
	"context"
	"log/slog"

	"github.com/bibbank/collections/internal/domain/event"
	"github.com/bibbank/collections/internal/domain/port"
)

// Compile-time interface check
var _ port.EventPublisher = (*LogEventPublisher)(nil)

// LogEventPublisher implements port.EventPublisher by logging events. It is
// used when no Kafka brokers are configured, typically in local runs.
type LogEventPublisher struct {
	logger *slog.Logger
}

// NewLogEventPublisher creates a publisher that writes to logger.
func NewLogEventPublisher(logger *slog.Logger) *LogEventPublisher {
	return &LogEventPublisher{logger: logger}
}

func (p *LogEventPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	for _, evt := range events {
		p.logger.InfoContext(ctx, "domain event",
			"event_type", evt.EventType(),
			"event_id", evt.EventID(),
			"aggregate_id", evt.AggregateID(),
			"occurred_at", evt.OccurredAt(),
		)
	}
	return nil
}
