// Package browsing tracks the recently-viewed product history and the
// product comparison list, both persisted per user in the client
// store.
package browsing

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/artisanmarket/storefront/internal/catalog"
	"github.com/artisanmarket/storefront/internal/clientstore"
)

const (
	// RecentLimit caps the recently-viewed history.
	RecentLimit = 6
	// CompareLimit caps the comparison list.
	CompareLimit = 4
)

type Tracker struct {
	store  clientstore.Store
	logger *log.Logger

	mu sync.Mutex
}

func NewTracker(store clientstore.Store, logger *log.Logger) *Tracker {
	return &Tracker{store: store, logger: logger}
}

// RecordView puts the product at the front of the recently-viewed
// list, de-duplicated by id and capped at RecentLimit entries.
func (t *Tracker) RecordView(ctx context.Context, userID string, product catalog.Product) []catalog.Product {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.load(ctx, clientstore.RecentKey(userID))
	list = removeByID(list, product.ID)
	list = append([]catalog.Product{product}, list...)
	if len(list) > RecentLimit {
		list = list[:RecentLimit]
	}
	t.persist(ctx, clientstore.RecentKey(userID), list)
	return list
}

// RecentlyViewed returns the most-recent-first view history.
func (t *Tracker) RecentlyViewed(ctx context.Context, userID string) []catalog.Product {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.load(ctx, clientstore.RecentKey(userID))
}

// AddToComparison adds the product to the comparison list. Returns
// false when the list is full or the product is already present.
func (t *Tracker) AddToComparison(ctx context.Context, userID string, product catalog.Product) ([]catalog.Product, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := t.load(ctx, clientstore.CompareKey(userID))
	for _, p := range list {
		if p.ID == product.ID {
			return list, false
		}
	}
	if len(list) >= CompareLimit {
		return list, false
	}
	list = append(list, product)
	t.persist(ctx, clientstore.CompareKey(userID), list)
	return list, true
}

// RemoveFromComparison drops the product from the comparison list.
func (t *Tracker) RemoveFromComparison(ctx context.Context, userID, productID string) []catalog.Product {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := removeByID(t.load(ctx, clientstore.CompareKey(userID)), productID)
	t.persist(ctx, clientstore.CompareKey(userID), list)
	return list
}

// Comparison returns the current comparison list.
func (t *Tracker) Comparison(ctx context.Context, userID string) []catalog.Product {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.load(ctx, clientstore.CompareKey(userID))
}

func (t *Tracker) load(ctx context.Context, key string) []catalog.Product {
	raw, err := t.store.Get(ctx, key)
	if err != nil {
		if err != clientstore.ErrNotFound {
			t.logger.Printf("browsing: load %s: %v", key, err)
		}
		return nil
	}

	var list []catalog.Product
	if err := json.Unmarshal(raw, &list); err != nil {
		t.logger.Printf("browsing: discarding malformed state at %s: %v", key, err)
		return nil
	}
	return list
}

func (t *Tracker) persist(ctx context.Context, key string, list []catalog.Product) {
	if list == nil {
		list = []catalog.Product{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		t.logger.Printf("browsing: marshal %s: %v", key, err)
		return
	}
	if err := t.store.Set(ctx, key, raw); err != nil {
		t.logger.Printf("browsing: persist %s: %v", key, err)
	}
}

func removeByID(list []catalog.Product, productID string) []catalog.Product {
	out := list[:0]
	for _, p := range list {
		if p.ID != productID {
			out = append(out, p)
		}
	}
	return out
}
