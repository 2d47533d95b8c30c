package usecase

import (
	"errors"
	"fmt"

	"ordermgmt/internal/domain/model"
)

// errCodeTaken means the generated order code already exists; the caller
// retries with a new code in a new unit of work.
var errCodeTaken = errors.New("order code taken")

var kinds = []error{
	model.ErrInvalidQuantity,
	model.ErrUnknownProduct,
	model.ErrEmptyCart,
	model.ErrOrderNotFound,
	model.ErrLineNotFound,
	model.ErrInsufficientStock,
	model.ErrInvalidSession,
	model.ErrStoreFailure,
	errCodeTaken,
}

// storeFailure tags err as ErrStoreFailure unless it already carries a kind.
func storeFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return err
		}
	}
	return fmt.Errorf("%s: %w: %w", op, model.ErrStoreFailure, err)
}
