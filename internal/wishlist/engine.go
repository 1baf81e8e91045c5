// Package wishlist keeps the set of products a user saved for later.
// A product id appears at most once; operations are total and mirror
// the cart engine's best-effort write-through persistence.
package wishlist

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

type Engine struct {
	store    clientstore.Store
	notifier notify.Notifier
	logger   *log.Logger

	mu    sync.Mutex
	lists map[string][]catalog.Product
}

func NewEngine(store clientstore.Store, notifier notify.Notifier, logger *log.Logger) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
		logger:   logger,
		lists:    make(map[string][]catalog.Product),
	}
}

// Get returns a copy of the user's wishlist.
func (e *Engine) Get(ctx context.Context, userID string) []catalog.Product {
	e.mu.Lock()
	defer e.mu.Unlock()

	return cloneList(e.load(ctx, userID))
}

// Add inserts the product snapshot unless it is already saved.
func (e *Engine) Add(ctx context.Context, userID string, product catalog.Product) []catalog.Product {
	e.mu.Lock()
	list := e.load(ctx, userID)
	added := false
	if indexOf(list, product.ID) < 0 {
		list = append(list, product)
		e.lists[userID] = list
		e.persist(ctx, userID, list)
		added = true
	}
	out := cloneList(list)
	e.mu.Unlock()

	if added {
		e.notifier.Notify(userID, fmt.Sprintf("%s added to wishlist", product.Name))
	}
	return out
}

// Remove deletes the product if present; absent ids are a no-op.
func (e *Engine) Remove(ctx context.Context, userID, productID string) []catalog.Product {
	e.mu.Lock()
	list := e.load(ctx, userID)
	removed := ""
	if i := indexOf(list, productID); i >= 0 {
		removed = list[i].Name
		list = append(list[:i], list[i+1:]...)
		e.lists[userID] = list
		e.persist(ctx, userID, list)
	}
	out := cloneList(list)
	e.mu.Unlock()

	if removed != "" {
		e.notifier.Notify(userID, fmt.Sprintf("%s removed from wishlist", removed))
	}
	return out
}

// Toggle removes the product when saved, adds it otherwise.
func (e *Engine) Toggle(ctx context.Context, userID string, product catalog.Product) []catalog.Product {
	if e.Contains(ctx, userID, product.ID) {
		return e.Remove(ctx, userID, product.ID)
	}
	return e.Add(ctx, userID, product)
}

// Contains reports whether the product is saved.
func (e *Engine) Contains(ctx context.Context, userID, productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return indexOf(e.load(ctx, userID), productID) >= 0
}

// Clear empties the wishlist.
func (e *Engine) Clear(ctx context.Context, userID string) {
	e.mu.Lock()
	e.lists[userID] = nil
	e.persist(ctx, userID, nil)
	e.mu.Unlock()

	e.notifier.Notify(userID, "wishlist cleared")
}

// load must be called with e.mu held.
func (e *Engine) load(ctx context.Context, userID string) []catalog.Product {
	if list, ok := e.lists[userID]; ok {
		return list
	}

	var list []catalog.Product
	raw, err := e.store.Get(ctx, clientstore.WishlistKey(userID))
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &list); err != nil {
			e.logger.Printf("wishlist: discarding malformed saved list for user %s: %v", userID, err)
			list = nil
		}
	case err != clientstore.ErrNotFound:
		e.logger.Printf("wishlist: load for user %s: %v", userID, err)
	}

	e.lists[userID] = list
	return list
}

// persist must be called with e.mu held.
func (e *Engine) persist(ctx context.Context, userID string, list []catalog.Product) {
	if list == nil {
		list = []catalog.Product{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		e.logger.Printf("wishlist: marshal for user %s: %v", userID, err)
		return
	}
	if err := e.store.Set(ctx, clientstore.WishlistKey(userID), raw); err != nil {
		e.logger.Printf("wishlist: persist for user %s: %v", userID, err)
	}
}

func indexOf(list []catalog.Product, productID string) int {
	for i := range list {
		if list[i].ID == productID {
			return i
		}
	}
	return -1
}

func cloneList(list []catalog.Product) []catalog.Product {
	cp := make([]catalog.Product, len(list))
	copy(cp, list)
	return cp
}
