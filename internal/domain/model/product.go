package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Catalog entry. Read-only to the order subsystem.
type Product struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Stock     int64           `gorm:"not null;default:0" json:"stock"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ProductRef points at a catalog product by id, or by name when ID is zero.
type ProductRef struct {
	ID   int64  `json:"product_id,omitempty"`
	Name string `json:"product_name,omitempty"`
}

func (r ProductRef) IsZero() bool {
	return r.ID <= 0 && r.Name == ""
}
