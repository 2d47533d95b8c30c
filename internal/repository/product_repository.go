package repository

import (
	"context"
	"errors"

	"ordermgmt/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a write hits a unique constraint.
	ErrDuplicate = errors.New("duplicate key")
)

// Read-only catalog. Each call returns a point-in-time snapshot.
type CatalogReader interface {
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	FindProductByName(ctx context.Context, name string) (model.Product, bool, error)
}

// Product lookups used inside an order unit of work.
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByName(ctx context.Context, name string) (model.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
}
