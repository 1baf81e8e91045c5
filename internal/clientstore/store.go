// Package clientstore provides the durable key-value store backing
// per-user session state: cart, wishlist, recently viewed products and
// the comparison list. Values are JSON blobs; writes are
// last-writer-wins with no transactions.
package clientstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no value exists under the key.
var ErrNotFound = errors.New("clientstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Key builders for the fixed per-user layout.

func CartKey(userID string) string { return "cart:" + userID }

func WishlistKey(userID string) string { return "wishlist:" + userID }

func RecentKey(userID string) string { return "recent:" + userID }

func CompareKey(userID string) string { return "compare:" + userID }
