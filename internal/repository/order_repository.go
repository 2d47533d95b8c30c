package repository

import (
	"context"

	"ordermgmt/internal/domain/model"

	"github.com/shopspring/decimal"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByCode(ctx context.Context, code string) (model.Order, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Order, error)

	//returns ErrDuplicate when the code is taken
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	Delete(ctx context.Context, orderID int64) error
}
