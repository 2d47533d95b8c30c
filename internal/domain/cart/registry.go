package cart

import (
	"sync"
	"time"
)

// Registry keeps one cart per session.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
	opts  []Option
	now   func() time.Time
}

func NewRegistry(opts ...Option) *Registry {
	return &Registry{
		carts: make(map[string]*Cart),
		opts:  opts,
		now:   time.Now,
	}
}

// Get returns the session's cart, creating an empty one on first use. Every
// Get counts as activity for Sweep.
func (r *Registry) Get(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[sessionID]
	if !ok {
		c = New(append([]Option{withClock(r.now)}, r.opts...)...)
		r.carts[sessionID] = c
		return c
	}
	c.touch()
	return c
}

func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, sessionID)
}

// Sweep drops carts untouched for longer than idle and returns how many went.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, c := range r.carts {
		if c.idleSince().Before(cutoff) {
			delete(r.carts, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
