package events

import (
	"context"
	"time"

	"ordermgmt/internal/infra/logger"
	"ordermgmt/internal/repository"
)

// Relay moves outbox events to a Publisher.
type Relay struct {
	repo      repository.OutboxRepository
	pub       Publisher
	log       *logger.Logger
	tick      time.Duration
	batchSize int
	now       func() time.Time
}

const defaultTick = time.Second

// NewRelay falls back to a one second tick when tick is not positive.
func NewRelay(repo repository.OutboxRepository, pub Publisher, log *logger.Logger, tick time.Duration, batchSize int) *Relay {
	if tick <= 0 {
		tick = defaultTick
	}
	return &Relay{
		repo:      repo,
		pub:       pub,
		log:       log.With("component", "outbox_relay"),
		tick:      tick,
		batchSize: batchSize,
		now:       time.Now,
	}
}

// Run polls until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.Flush(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Flush publishes one batch and returns how many events went out. An event
// that fails to publish stops the batch so later events of the same order are
// not delivered ahead of it.
func (r *Relay) Flush(ctx context.Context) int {
	events, err := r.repo.ListUnpublished(ctx, r.batchSize)
	if err != nil {
		r.log.Error("failed to fetch outbox events", "error", err)
		return 0
	}

	sent := 0
	for _, ev := range events {
		if err := r.pub.Publish(ctx, ev); err != nil {
			r.log.Warn("failed to publish event", "event_id", ev.ID, "code", ev.AggregateID, "error", err)
			return sent
		}
		if err := r.repo.MarkPublished(ctx, ev.ID, r.now()); err != nil {
			r.log.Error("failed to mark event as published", "event_id", ev.ID, "error", err)
			return sent
		}
		sent++
	}
	return sent
}
