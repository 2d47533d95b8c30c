package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ordermgmt/internal/domain/model"
	"ordermgmt/internal/infra/logger"
	repo "ordermgmt/internal/repository"

	"github.com/shopspring/decimal"
)

// OrderUsecase owns orders and their lines. After every structural change the
// order total is recomputed from the lines currently stored, never adjusted
// incrementally.
type OrderUsecase struct {
	tx           repo.TransactionManager
	codes        CodeGenerator
	clock        Clock
	log          *logger.Logger
	codeAttempts int
}

func NewOrderUsecase(tx repo.TransactionManager, codes CodeGenerator, clock Clock, log *logger.Logger, codeAttempts int) *OrderUsecase {
	if codeAttempts <= 0 {
		codeAttempts = 1
	}
	return &OrderUsecase{
		tx:           tx,
		codes:        codes,
		clock:        clock,
		log:          log.With("component", "order_engine"),
		codeAttempts: codeAttempts,
	}
}

type OrderLineOutput struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int64           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	Code      string            `json:"code"`
	UserID    int64             `json:"user_id"`
	Total     decimal.Decimal   `json:"total"`
	CreatedAt time.Time         `json:"created_at"`
	Lines     []OrderLineOutput `json:"lines"`
}

// CreateFromCart persists a new order and one line per cart line. The cart is
// left untouched.
func (u *OrderUsecase) CreateFromCart(ctx context.Context, sess model.Session, lines []model.CartLine) (OrderOutput, error) {
	if !sess.Valid() {
		return OrderOutput{}, model.ErrInvalidSession
	}
	if len(lines) == 0 {
		return OrderOutput{}, model.ErrEmptyCart
	}

	cartTotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity <= 0 {
			return OrderOutput{}, model.ErrInvalidQuantity
		}
		if l.ProductID <= 0 {
			return OrderOutput{}, model.ErrUnknownProduct
		}
		cartTotal = cartTotal.Add(l.Subtotal)
	}

	for attempt := 1; attempt <= u.codeAttempts; attempt++ {
		now := u.clock.Now()
		code := u.codes.NewCode(now)

		out, err := u.createOnce(ctx, sess, lines, code, cartTotal, now)
		if errors.Is(err, errCodeTaken) {
			u.log.Warn("order code collision", "code", code, "attempt", attempt)
			continue
		}
		if err != nil {
			return OrderOutput{}, u.fail("create order", err)
		}

		u.log.Info("order created", "code", out.Code, "lines", len(out.Lines), "total", out.Total.StringFixed(2))
		return out, nil
	}

	err := fmt.Errorf("create order: %w: no free order code after %d attempts", model.ErrStoreFailure, u.codeAttempts)
	u.log.Error("order code generation exhausted", "attempts", u.codeAttempts)
	return OrderOutput{}, err
}

func (u *OrderUsecase) createOnce(ctx context.Context, sess model.Session, lines []model.CartLine, code string, cartTotal decimal.Decimal, now time.Time) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		taken, err := r.Orders().ExistsByCode(ctx, code)
		if err != nil {
			return err
		}
		if taken {
			return errCodeTaken
		}

		//all products must resolve before anything is written
		ids := make([]int64, 0, len(lines))
		for _, l := range lines {
			ids = append(ids, l.ProductID)
		}
		products, err := productsByID(ctx, r, ids)
		if err != nil {
			return err
		}

		order := model.Order{
			Code:      code,
			UserID:    sess.UserID,
			Total:     cartTotal,
			CreatedAt: now,
			UpdatedAt: now,
		}
		order.ID, err = r.Orders().Create(ctx, order)
		if errors.Is(err, repo.ErrDuplicate) {
			return errCodeTaken
		}
		if err != nil {
			return err
		}

		toCreate := make([]model.OrderLine, 0, len(lines))
		for _, l := range lines {
			toCreate = append(toCreate, model.OrderLine{
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
				CreatedAt: now,
			})
		}
		created, err := r.OrderLines().CreateBulk(ctx, order.ID, toCreate)
		if err != nil {
			return err
		}

		total := sumLines(created, products)
		if !total.Equal(cartTotal) {
			//cart prices are stale; the stored lines win
			u.log.Warn("cart total differs from catalog prices", "code", code,
				"cart_total", cartTotal.StringFixed(2), "total", total.StringFixed(2))
			if err := r.Orders().UpdateTotal(ctx, order.ID, total); err != nil {
				return err
			}
		}
		order.Total = total

		if err := emit(ctx, r, model.EventOrderCreated, orderEvent{
			Code:   order.Code,
			UserID: order.UserID,
			Total:  order.Total,
			Lines:  len(created),
		}, now); err != nil {
			return err
		}

		out = toOrderOutput(order, created, products)
		return nil
	})
	return out, err
}

// AddLine links a new line to the order and recomputes its total.
func (u *OrderUsecase) AddLine(ctx context.Context, code string, ref model.ProductRef, quantity int64) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByCode(ctx, code)
		if err == repo.ErrNotFound {
			return model.ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if quantity <= 0 {
			return model.ErrInvalidQuantity
		}
		product, err := resolveProduct(ctx, r, ref)
		if err != nil {
			return err
		}

		now := u.clock.Now()
		line, err := r.OrderLines().Create(ctx, model.OrderLine{
			OrderID:   order.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}

		lines, products, total, err := recompute(ctx, r, order.ID)
		if err != nil {
			return err
		}
		if err := r.Orders().UpdateTotal(ctx, order.ID, total); err != nil {
			return err
		}
		order.Total = total

		if err := emit(ctx, r, model.EventOrderLineAdded, orderEvent{
			Code:      order.Code,
			UserID:    order.UserID,
			Total:     total,
			Lines:     len(lines),
			LineID:    line.ID,
			ProductID: product.ID,
			Quantity:  quantity,
		}, now); err != nil {
			return err
		}

		out = toOrderOutput(order, lines, products)
		return nil
	})
	if err != nil {
		return OrderOutput{}, u.fail("add line", err)
	}

	u.log.Info("order line added", "code", out.Code, "total", out.Total.StringFixed(2))
	return out, nil
}

// RemoveLine deletes the line and recomputes the owning order's total.
// It reports false, without error, when the line does not exist.
func (u *OrderUsecase) RemoveLine(ctx context.Context, lineID int64) (bool, error) {
	removed := false
	var code string

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		line, err := r.OrderLines().FindByID(ctx, lineID)
		if err == repo.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		order, err := r.Orders().FindByID(ctx, line.OrderID)
		if err != nil {
			return err
		}

		if err := r.OrderLines().Delete(ctx, line.ID); err != nil {
			return err
		}

		lines, _, total, err := recompute(ctx, r, order.ID)
		if err != nil {
			return err
		}
		if err := r.Orders().UpdateTotal(ctx, order.ID, total); err != nil {
			return err
		}

		if err := emit(ctx, r, model.EventOrderLineRemoved, orderEvent{
			Code:      order.Code,
			UserID:    order.UserID,
			Total:     total,
			Lines:     len(lines),
			LineID:    line.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}, u.clock.Now()); err != nil {
			return err
		}

		removed = true
		code = order.Code
		return nil
	})
	if err != nil {
		return false, u.fail("remove line", err)
	}

	if removed {
		u.log.Info("order line removed", "code", code, "line_id", lineID)
	}
	return removed, nil
}

// FindLine is the hard-error counterpart of RemoveLine's false.
func (u *OrderUsecase) FindLine(ctx context.Context, lineID int64) (OrderLineOutput, error) {
	var out OrderLineOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		line, err := r.OrderLines().FindByID(ctx, lineID)
		if err == repo.ErrNotFound {
			return model.ErrLineNotFound
		}
		if err != nil {
			return err
		}
		products, err := productsByID(ctx, r, []int64{line.ProductID})
		if err != nil {
			return err
		}
		out = toLineOutput(line, products[line.ProductID])
		return nil
	})
	if err != nil {
		return OrderLineOutput{}, storeFailure("find line", err)
	}
	return out, nil
}

// FindByCode loads the order and its lines and returns the total recomputed
// from them. The stored total is not rewritten.
func (u *OrderUsecase) FindByCode(ctx context.Context, code string) (OrderOutput, error) {
	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByCode(ctx, code)
		if err == repo.ErrNotFound {
			return model.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		lines, products, total, err := recompute(ctx, r, order.ID)
		if err != nil {
			return err
		}
		if !total.Equal(order.Total) {
			u.log.Warn("stored order total is stale", "code", order.Code,
				"stored", order.Total.StringFixed(2), "recomputed", total.StringFixed(2))
		}
		order.Total = total

		out = toOrderOutput(order, lines, products)
		return nil
	})
	if err != nil {
		return OrderOutput{}, storeFailure("find order", err)
	}
	return out, nil
}

// FindByUser lists the user's orders, newest first, with totals as stored.
func (u *OrderUsecase) FindByUser(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, model.ErrInvalidSession
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return err
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			lines, err := r.OrderLines().ListByOrderID(ctx, o.ID)
			if err != nil {
				return err
			}
			products, err := productsByID(ctx, r, productIDs(lines))
			if err != nil {
				return err
			}
			outs = append(outs, toOrderOutput(o, lines, products))
		}
		return nil
	})
	if err != nil {
		return []OrderOutput{}, storeFailure("list orders", err)
	}
	return outs, nil
}

// DeleteByCode removes the order and all of its lines. A missing order is a
// no-op.
func (u *OrderUsecase) DeleteByCode(ctx context.Context, code string) error {
	deleted := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByCode(ctx, code)
		if err == repo.ErrNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		n, err := r.OrderLines().DeleteByOrderID(ctx, order.ID)
		if err != nil {
			return err
		}
		if err := r.Orders().Delete(ctx, order.ID); err != nil {
			return err
		}

		if err := emit(ctx, r, model.EventOrderDeleted, orderEvent{
			Code:   order.Code,
			UserID: order.UserID,
			Total:  decimal.Zero,
			Lines:  int(n),
		}, u.clock.Now()); err != nil {
			return err
		}

		deleted = true
		return nil
	})
	if err != nil {
		return u.fail("delete order", err)
	}

	if deleted {
		u.log.Info("order deleted", "code", code)
	}
	return nil
}

func (u *OrderUsecase) fail(op string, err error) error {
	err = storeFailure(op, err)
	if errors.Is(err, model.ErrStoreFailure) {
		u.log.Error(op+" failed", "error", err)
	}
	return err
}

// recompute prices every line currently linked to the order.
func recompute(ctx context.Context, r repo.TxRepos, orderID int64) ([]model.OrderLine, map[int64]model.Product, decimal.Decimal, error) {
	lines, err := r.OrderLines().ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	products, err := productsByID(ctx, r, productIDs(lines))
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	return lines, products, sumLines(lines, products), nil
}

func sumLines(lines []model.OrderLine, products map[int64]model.Product) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(lineTotal(l, products[l.ProductID]))
	}
	return total
}

func lineTotal(l model.OrderLine, p model.Product) decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(l.Quantity))
}

// productsByID fails with ErrUnknownProduct when any id is missing.
func productsByID(ctx context.Context, r repo.TxRepos, ids []int64) (map[int64]model.Product, error) {
	out := make(map[int64]model.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	products, err := r.Products().FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		out[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			return nil, fmt.Errorf("%w: product %d", model.ErrUnknownProduct, id)
		}
	}
	return out, nil
}

func productIDs(lines []model.OrderLine) []int64 {
	seen := make(map[int64]struct{}, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

func resolveProduct(ctx context.Context, r repo.TxRepos, ref model.ProductRef) (model.Product, error) {
	if ref.IsZero() {
		return model.Product{}, model.ErrUnknownProduct
	}
	var (
		p   model.Product
		err error
	)
	if ref.ID > 0 {
		p, err = r.Products().FindByID(ctx, ref.ID)
	} else {
		p, err = r.Products().FindByName(ctx, ref.Name)
	}
	if err == repo.ErrNotFound {
		return model.Product{}, model.ErrUnknownProduct
	}
	return p, err
}

type orderEvent struct {
	Code       string          `json:"code"`
	UserID     int64           `json:"user_id"`
	Total      decimal.Decimal `json:"total"`
	Lines      int             `json:"lines"`
	LineID     int64           `json:"line_id,omitempty"`
	ProductID  int64           `json:"product_id,omitempty"`
	Quantity   int64           `json:"quantity,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func emit(ctx context.Context, r repo.TxRepos, typ model.OrderEventType, ev orderEvent, now time.Time) error {
	ev.OccurredAt = now
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.Outbox().Create(ctx, model.OutboxEvent{
		AggregateID: ev.Code,
		EventType:   typ,
		Payload:     string(payload),
		CreatedAt:   now,
	})
}

func toLineOutput(l model.OrderLine, p model.Product) OrderLineOutput {
	return OrderLineOutput{
		ID:          l.ID,
		ProductID:   l.ProductID,
		ProductName: p.Name,
		UnitPrice:   p.UnitPrice,
		Quantity:    l.Quantity,
		LineTotal:   lineTotal(l, p),
	}
}

func toOrderOutput(o model.Order, lines []model.OrderLine, products map[int64]model.Product) OrderOutput {
	outLines := make([]OrderLineOutput, 0, len(lines))
	for _, l := range lines {
		outLines = append(outLines, toLineOutput(l, products[l.ProductID]))
	}

	return OrderOutput{
		ID:        o.ID,
		Code:      o.Code,
		UserID:    o.UserID,
		Total:     o.Total,
		CreatedAt: o.CreatedAt,
		Lines:     outLines,
	}
}
