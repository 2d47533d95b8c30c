// Package cart holds the in-memory staging area for candidate order lines.
package cart

import (
	"fmt"
	"sync"
	"time"

	"ordermgmt/internal/domain/model"

	"github.com/shopspring/decimal"
)

type Option func(*Cart)

// WithStockLimit rejects candidates that would take the cart's quantity of a
// product above the stock in the catalog snapshot.
func WithStockLimit() Option {
	return func(c *Cart) { c.enforceStock = true }
}

func withClock(now func() time.Time) Option {
	return func(c *Cart) { c.now = now }
}

type Cart struct {
	mu           sync.Mutex
	lines        []model.CartLine
	enforceStock bool
	now          func() time.Time
	touched      time.Time
	gen          uint64 // bumped by Clear and Consume
}

func New(opts ...Option) *Cart {
	c := &Cart{now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	c.touched = c.now()
	return c
}

// AddCandidate appends a line priced at the catalog price seen now. Later price
// changes do not re-price it.
func (c *Cart) AddCandidate(catalog Catalog, ref model.ProductRef, quantity int64) (model.CartLine, error) {
	if quantity <= 0 {
		return model.CartLine{}, model.ErrInvalidQuantity
	}
	p, ok := catalog.Lookup(ref)
	if !ok {
		return model.CartLine{}, model.ErrUnknownProduct
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enforceStock {
		inCart := int64(0)
		for _, l := range c.lines {
			if l.ProductID == p.ID {
				inCart += l.Quantity
			}
		}
		if quantity > p.Stock-inCart {
			return model.CartLine{}, fmt.Errorf("%w: %s has %d available, %d requested",
				model.ErrInsufficientStock, p.Name, p.Stock, inCart+quantity)
		}
	}

	line := model.CartLine{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.UnitPrice,
		Quantity:    quantity,
		Subtotal:    p.UnitPrice.Mul(decimal.NewFromInt(quantity)),
	}
	c.lines = append(c.lines, line)
	c.touched = c.now()
	return line, nil
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
	c.gen++
	c.touched = c.now()
}

// Snapshot returns a copy of the lines and the generation they belong to.
// Pass both back to Consume once the lines have been turned into an order.
func (c *Cart) Snapshot() ([]model.CartLine, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out, c.gen
}

// Consume drops the first n lines of generation gen. Lines added after the
// snapshot stay. Nothing happens if the cart was cleared or consumed in
// between.
func (c *Cart) Consume(gen uint64, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	if n > len(c.lines) {
		n = len(c.lines)
	}
	c.lines = append([]model.CartLine(nil), c.lines[n:]...)
	c.gen++
	c.touched = c.now()
}

func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

func (c *Cart) touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touched = c.now()
}

func (c *Cart) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}
