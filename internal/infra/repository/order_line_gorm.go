package repository

import (
	"context"

	"ordermgmt/internal/domain/model"
	repo "ordermgmt/internal/repository"

	"gorm.io/gorm"
)

type OrderLineGormRepository struct {
	db *gorm.DB
}

func NewOrderLineGormRepository(db *gorm.DB) *OrderLineGormRepository {
	return &OrderLineGormRepository{db: db}
}

func (r *OrderLineGormRepository) CreateBulk(ctx context.Context, orderID int64, lines []model.OrderLine) ([]model.OrderLine, error) {
	if len(lines) == 0 {
		return []model.OrderLine{}, nil
	}
	out := make([]model.OrderLine, len(lines))
	copy(out, lines)
	for i := range out {
		out[i].OrderID = orderID
	}
	if err := r.db.WithContext(ctx).Create(&out).Error; err != nil {
		return []model.OrderLine{}, err
	}
	return out, nil
}

func (r *OrderLineGormRepository) Create(ctx context.Context, line model.OrderLine) (model.OrderLine, error) {
	if err := r.db.WithContext(ctx).Create(&line).Error; err != nil {
		return model.OrderLine{}, err
	}
	return line, nil
}

func (r *OrderLineGormRepository) FindByID(ctx context.Context, lineID int64) (model.OrderLine, error) {
	var l model.OrderLine
	err := r.db.WithContext(ctx).Where("id = ?", lineID).First(&l).Error
	if isNotFound(err) {
		return model.OrderLine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderLine{}, err
	}
	return l, nil
}

// Oldest first.
func (r *OrderLineGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderLine, error) {
	var lines []model.OrderLine
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id asc").Find(&lines).Error
	if err != nil {
		return []model.OrderLine{}, err
	}
	return lines, nil
}

func (r *OrderLineGormRepository) Delete(ctx context.Context, lineID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.OrderLine{}, lineID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderLineGormRepository) DeleteByOrderID(ctx context.Context, orderID int64) (int64, error) {
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&model.OrderLine{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

var _ repo.OrderLineRepository = (*OrderLineGormRepository)(nil)
