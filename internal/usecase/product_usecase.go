package usecase

import (
	"context"
	"strings"

	"ordermgmt/internal/domain/model"
	repo "ordermgmt/internal/repository"
)

type ProductUsecase struct {
	catalog repo.CatalogReader
}

// DI
func NewProductUsecase(catalog repo.CatalogReader) *ProductUsecase {
	return &ProductUsecase{catalog: catalog}
}

func (u *ProductUsecase) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := u.catalog.GetAllProducts(ctx)
	if err != nil {
		return []model.Product{}, storeFailure("list products", err)
	}
	return products, nil
}

func (u *ProductUsecase) FindByName(ctx context.Context, name string) (model.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Product{}, model.ErrUnknownProduct
	}
	p, found, err := u.catalog.FindProductByName(ctx, name)
	if err != nil {
		return model.Product{}, storeFailure("find product", err)
	}
	if !found {
		return model.Product{}, model.ErrUnknownProduct
	}
	return p, nil
}
