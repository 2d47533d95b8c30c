package repository

import (
	"context"

	"ordermgmt/internal/domain/model"
)

type OrderLineRepository interface {
	CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) ([]model.OrderLine, error)
	Create(ctx context.Context, line model.OrderLine) (model.OrderLine, error)
	FindByID(ctx context.Context, lineID int64) (model.OrderLine, error)
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	Delete(ctx context.Context, lineID int64) error
	DeleteByOrderID(ctx context.Context, orderID int64) (int64, error)
}
