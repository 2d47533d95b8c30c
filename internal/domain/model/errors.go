package model

import "errors"

var (
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrUnknownProduct    = errors.New("unknown product")
	ErrEmptyCart         = errors.New("empty cart")
	ErrOrderNotFound     = errors.New("order not found")
	ErrLineNotFound      = errors.New("line not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidSession    = errors.New("invalid session")

	// ErrStoreFailure wraps transactional or connectivity failures of the store.
	ErrStoreFailure = errors.New("store failure")
)
