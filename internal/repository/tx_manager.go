package repository

import "context"

// Repositories bound to one transaction.
type TxRepos interface {
	Orders() OrderRepository
	OrderLines() OrderLineRepository
	Products() ProductRepository
	Outbox() OutboxRepository
}

// WithinTx commits when fn returns nil and rolls back otherwise.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
