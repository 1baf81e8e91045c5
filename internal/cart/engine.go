package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/clientstore"
	"github.com/artisanmarket/storefront/internal/notify"
)

// Engine owns per-user cart state. Every mutation updates the
// in-memory cart first, then writes it through to the client store.
// Persistence is best-effort: a failed write is logged, never returned,
// so all operations are total.
type Engine struct {
	store    clientstore.Store
	notifier notify.Notifier
	logger   *log.Logger

	mu    sync.Mutex
	carts map[string]*Cart
}

func NewEngine(store clientstore.Store, notifier notify.Notifier, logger *log.Logger) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		logger:   logger,
		carts:    make(map[string]*Cart),
	}
}

// Get returns a copy of the user's current cart, restoring it from the
// client store on first access.
func (e *Engine) Get(ctx context.Context, userID string) Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.load(ctx, userID).clone()
}

// AddItem merges into an existing line item for the same product or
// appends a new one. Quantities below one count as one.
func (e *Engine) AddItem(ctx context.Context, userID string, product catalog.Product, quantity int) Cart {
	if quantity < 1 {
		quantity = 1
	}

	e.mu.Lock()
	c := e.load(ctx, userID)
	if i := c.findItem(product.ID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, LineItem{Product: product, Quantity: quantity})
	}
	e.persist(ctx, userID, c)
	out := c.clone()
	e.mu.Unlock()

	e.notifier.Notify(userID, fmt.Sprintf("%s added to cart", product.Name))
	return out
}

// RemoveItem deletes the line item for productID. Removing an absent
// product is a no-op, not an error.
func (e *Engine) RemoveItem(ctx context.Context, userID, productID string) Cart {
	e.mu.Lock()
	c := e.load(ctx, userID)
	removed := ""
	if i := c.findItem(productID); i >= 0 {
		removed = c.Items[i].Product.Name
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		e.persist(ctx, userID, c)
	}
	out := c.clone()
	e.mu.Unlock()

	if removed != "" {
		e.notifier.Notify(userID, fmt.Sprintf("%s removed from cart", removed))
	}
	return out
}

// UpdateQuantity replaces the quantity for productID. A quantity of
// zero or less removes the line item. Unknown ids are a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) Cart {
	if quantity <= 0 {
		return e.RemoveItem(ctx, userID, productID)
	}

	e.mu.Lock()
	c := e.load(ctx, userID)
	if i := c.findItem(productID); i >= 0 {
		c.Items[i].Quantity = quantity
		e.persist(ctx, userID, c)
	}
	out := c.clone()
	e.mu.Unlock()

	return out
}

// Clear empties the cart.
func (e *Engine) Clear(ctx context.Context, userID string) {
	e.mu.Lock()
	c := e.load(ctx, userID)
	c.Items = nil
	e.persist(ctx, userID, c)
	e.mu.Unlock()

	e.notifier.Notify(userID, "cart cleared")
}

// load must be called with e.mu held.
func (e *Engine) load(ctx context.Context, userID string) *Cart {
	if c, ok := e.carts[userID]; ok {
		return c
	}

	c := &Cart{}
	raw, err := e.store.Get(ctx, clientstore.CartKey(userID))
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, c); err != nil {
			// malformed saved state falls back to an empty cart
			e.logger.Printf("cart: discarding malformed saved cart for user %s: %v", userID, err)
			*c = Cart{}
		}
	case err != clientstore.ErrNotFound:
		e.logger.Printf("cart: load for user %s: %v", userID, err)
	}

	e.carts[userID] = c
	return c
}

// persist must be called with e.mu held.
func (e *Engine) persist(ctx context.Context, userID string, c *Cart) {
	raw, err := json.Marshal(c)
	if err != nil {
		e.logger.Printf("cart: marshal for user %s: %v", userID, err)
		return
	}
	if err := e.store.Set(ctx, clientstore.CartKey(userID), raw); err != nil {
		e.logger.Printf("cart: persist for user %s: %v", userID, err)
	}
}
