package repository

import (
	"context"
	"time"

	"ordermgmt/internal/domain/model"
)

type OutboxRepository interface {
	Create(ctx context.Context, ev model.OutboxEvent) error

	//oldest first
	ListUnpublished(ctx context.Context, limit int) ([]model.OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64, at time.Time) error
}
