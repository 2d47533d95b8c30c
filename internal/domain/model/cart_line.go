package model

import "github.com/shopspring/decimal"

// CartLine is a transient candidate line. Subtotal is fixed at the price seen
// when the line was added.
type CartLine struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
