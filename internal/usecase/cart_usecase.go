package usecase

import (
	"context"

	"ordermgmt/internal/domain/cart"
	"ordermgmt/internal/domain/model"
	repo "ordermgmt/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase drives the per-session carts and hands them to the order engine.
type CartUsecase struct {
	carts   *cart.Registry
	catalog repo.CatalogReader
	orders  *OrderUsecase
}

// DI
func NewCartUsecase(carts *cart.Registry, catalog repo.CatalogReader, orders *OrderUsecase) *CartUsecase {
	return &CartUsecase{carts: carts, catalog: catalog, orders: orders}
}

type AddCandidateInput struct {
	Product  model.ProductRef
	Quantity int64
}

type CartOutput struct {
	Lines []model.CartLine `json:"lines"`
	Total decimal.Decimal  `json:"total"`
}

func (u *CartUsecase) AddCandidate(ctx context.Context, sess model.Session, in AddCandidateInput) (CartOutput, error) {
	if !sess.Valid() {
		return CartOutput{}, model.ErrInvalidSession
	}
	if in.Quantity <= 0 {
		return CartOutput{}, model.ErrInvalidQuantity
	}

	products, err := u.catalog.GetAllProducts(ctx)
	if err != nil {
		return CartOutput{}, storeFailure("read catalog", err)
	}

	c := u.carts.Get(sess.ID)
	if _, err := c.AddCandidate(cart.NewSnapshot(products), in.Product, in.Quantity); err != nil {
		return CartOutput{}, err
	}
	return view(c), nil
}

func (u *CartUsecase) View(sess model.Session) (CartOutput, error) {
	if !sess.Valid() {
		return CartOutput{}, model.ErrInvalidSession
	}
	return view(u.carts.Get(sess.ID)), nil
}

func (u *CartUsecase) Clear(sess model.Session) error {
	if !sess.Valid() {
		return model.ErrInvalidSession
	}
	u.carts.Get(sess.ID).Clear()
	return nil
}

// Checkout commits the cart as an order and, on success only, removes the
// committed lines from the cart.
func (u *CartUsecase) Checkout(ctx context.Context, sess model.Session) (OrderOutput, error) {
	if !sess.Valid() {
		return OrderOutput{}, model.ErrInvalidSession
	}
	c := u.carts.Get(sess.ID)
	lines, gen := c.Snapshot()

	out, err := u.orders.CreateFromCart(ctx, sess, lines)
	if err != nil {
		return OrderOutput{}, err
	}
	//lines added while the order was being written stay in the cart
	c.Consume(gen, len(lines))
	return out, nil
}

func view(c *cart.Cart) CartOutput {
	return CartOutput{Lines: c.Lines(), Total: c.Total()}
}
