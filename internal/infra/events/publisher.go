package events

import (
	"context"

	"ordermgmt/internal/domain/model"
	"ordermgmt/internal/infra/logger"
)

// Publisher delivers one outbox event to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev model.OutboxEvent) error
	Close() error
}

// LogPublisher writes events to the log. Default for local runs.
type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("component", "log_publisher")}
}

func (p *LogPublisher) Publish(ctx context.Context, ev model.OutboxEvent) error {
	p.log.Info("order event",
		"event_id", ev.ID,
		"event_type", string(ev.EventType),
		"code", ev.AggregateID,
		"payload", ev.Payload,
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
