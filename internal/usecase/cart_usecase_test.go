package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ordermgmt/internal/domain/cart"
	"ordermgmt/internal/domain/model"
	"ordermgmt/internal/infra/logger"
	infraRepo "ordermgmt/internal/infra/repository"
	repo "ordermgmt/internal/repository"
	"ordermgmt/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	engineFixture
	catalog *CatalogReaderMock
	carts   *cart.Registry
	uc      *usecase.CartUsecase
}

func newCartFixture(t *testing.T, opts ...cart.Option) cartFixture {
	t.Helper()
	e := newEngine(t, nil)
	f := cartFixture{
		engineFixture: e,
		catalog:       &CatalogReaderMock{},
		carts:         cart.NewRegistry(opts...),
	}
	f.catalog.On("GetAllProducts", mock.Anything).Return([]model.Product{e.x, e.y, e.z}, nil).Maybe()
	f.uc = usecase.NewCartUsecase(f.carts, f.catalog, e.uc)
	return f
}

func TestCartUsecase_AddAndView(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.uc.AddCandidate(ctx, f.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: f.x.ID}, Quantity: 2})
	require.NoError(t, err)
	out, err := f.uc.AddCandidate(ctx, f.sess, usecase.AddCandidateInput{Product: model.ProductRef{Name: "ProductY"}, Quantity: 1})
	require.NoError(t, err)

	assert.Len(t, out.Lines, 2)
	assert.Equal(t, "25.00", out.Total.StringFixed(2))

	other, err := f.uc.View(model.NewUserSession(99))
	require.NoError(t, err)
	assert.Empty(t, other.Lines)
	assert.True(t, other.Total.IsZero())
}

func TestCartUsecase_AddErrors(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	_, err := f.uc.AddCandidate(ctx, f.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: f.x.ID}, Quantity: 0})
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = f.uc.AddCandidate(ctx, f.sess, usecase.AddCandidateInput{Product: model.ProductRef{Name: "Nope"}, Quantity: 1})
	assert.ErrorIs(t, err, model.ErrUnknownProduct)

	_, err = f.uc.AddCandidate(ctx, model.Session{}, usecase.AddCandidateInput{Product: model.ProductRef{ID: f.x.ID}, Quantity: 1})
	assert.ErrorIs(t, err, model.ErrInvalidSession)

	view, err := f.uc.View(f.sess)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartUsecase_CatalogFailure(t *testing.T) {
	f := newCartFixture(t)
	f.catalog.ExpectedCalls = nil
	f.catalog.On("GetAllProducts", mock.Anything).Return(nil, errors.New("db down"))

	_, err := f.uc.AddCandidate(context.Background(), f.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: 1}, Quantity: 1})
	assert.ErrorIs(t, err, model.ErrStoreFailure)
}

func TestCartUsecase_StockLimit(t *testing.T) {
	f := newCartFixture(t, cart.WithStockLimit())

	_, err := f.uc.AddCandidate(context.Background(), f.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: f.x.ID}, Quantity: 101})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)
}

func TestCartUsecase_CheckoutClearsOnSuccess(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()
	_, err := f.uc.AddCandidate(ctx, f.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: f.x.ID}, Quantity: 2})
	require.NoError(t, err)
	_, err = f.uc.AddCandidate(ctx, f.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: f.y.ID}, Quantity: 1})
	require.NoError(t, err)

	order, err := f.uc.Checkout(ctx, f.sess)
	require.NoError(t, err)
	assert.Equal(t, "25.00", order.Total.StringFixed(2))
	assert.Len(t, order.Lines, 2)

	view, err := f.uc.View(f.sess)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
}

func TestCartUsecase_CheckoutEmptyCart(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.uc.Checkout(context.Background(), f.sess)
	assert.ErrorIs(t, err, model.ErrEmptyCart)
	assert.Zero(t, countRows(t, f.gdb, &model.Order{}))
}

func TestCartUsecase_CheckoutFailureKeepsCart(t *testing.T) {
	f := newCartFixture(t)
	ctx := context.Background()

	// product known to the catalog snapshot but not to the order store
	ghost := model.Product{ID: 999, Name: "Ghost", UnitPrice: f.x.UnitPrice, Stock: 1}
	f.catalog.ExpectedCalls = nil
	f.catalog.On("GetAllProducts", mock.Anything).Return([]model.Product{ghost}, nil)

	_, err := f.uc.AddCandidate(ctx, f.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: 999}, Quantity: 1})
	require.NoError(t, err)

	_, err = f.uc.Checkout(ctx, f.sess)
	assert.ErrorIs(t, err, model.ErrUnknownProduct)

	view, err := f.uc.View(f.sess)
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}

// hookTxManager runs hook once before the first unit of work starts.
type hookTxManager struct {
	next repo.TransactionManager
	once sync.Once
	hook func()
}

func (m *hookTxManager) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.once.Do(func() {
		if m.hook != nil {
			m.hook()
		}
	})
	return m.next.WithinTx(ctx, fn)
}

func TestCartUsecase_CheckoutKeepsLinesAddedDuringCommit(t *testing.T) {
	e := newEngine(t, nil)
	ctx := context.Background()

	tx := &hookTxManager{next: infraRepo.NewTxManagerGorm(e.gdb)}
	clock := fixedClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	orders := usecase.NewOrderUsecase(tx, usecase.NewOrderCodeGenerator(), clock, logger.Nop(), 3)

	catalog := &CatalogReaderMock{}
	catalog.On("GetAllProducts", mock.Anything).Return([]model.Product{e.x, e.y, e.z}, nil)
	uc := usecase.NewCartUsecase(cart.NewRegistry(), catalog, orders)

	_, err := uc.AddCandidate(ctx, e.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: e.x.ID}, Quantity: 2})
	require.NoError(t, err)

	var addErr error
	tx.hook = func() {
		_, addErr = uc.AddCandidate(ctx, e.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: e.z.ID}, Quantity: 4})
	}

	order, err := uc.Checkout(ctx, e.sess)
	require.NoError(t, err)
	require.NoError(t, addErr)
	assert.Len(t, order.Lines, 1)
	assert.Equal(t, "20.00", order.Total.StringFixed(2))

	view, err := uc.View(e.sess)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, e.z.ID, view.Lines[0].ProductID)
	assert.Equal(t, int64(4), view.Lines[0].Quantity)
}

func TestCartUsecase_Clear(t *testing.T) {
	f := newCartFixture(t)
	_, err := f.uc.AddCandidate(context.Background(), f.sess, usecase.AddCandidateInput{Product: model.ProductRef{ID: f.x.ID}, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, f.uc.Clear(f.sess))
	require.NoError(t, f.uc.Clear(f.sess))

	view, err := f.uc.View(f.sess)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	assert.ErrorIs(t, f.uc.Clear(model.Session{}), model.ErrInvalidSession)
}

func TestProductUsecase(t *testing.T) {
	catalog := &CatalogReaderMock{}
	catalog.On("FindProductByName", mock.Anything, "ProductX").Return(productX, true, nil)
	catalog.On("FindProductByName", mock.Anything, "Nope").Return(nil, false, nil)
	catalog.On("GetAllProducts", mock.Anything).Return(nil, errors.New("db down"))
	uc := usecase.NewProductUsecase(catalog)
	ctx := context.Background()

	p, err := uc.FindByName(ctx, " ProductX ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.ID)

	_, err = uc.FindByName(ctx, "Nope")
	assert.ErrorIs(t, err, model.ErrUnknownProduct)

	_, err = uc.FindByName(ctx, "  ")
	assert.ErrorIs(t, err, model.ErrUnknownProduct)

	_, err = uc.ListProducts(ctx)
	assert.ErrorIs(t, err, model.ErrStoreFailure)
}
