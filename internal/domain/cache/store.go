// Package cache defines the key-value gateway the service layer uses for
// full-collection snapshots. The store is injected, never global, so tests
// can assert exact snapshot contents after each operation.
package cache

import "context"

// Store is the cache gateway contract. Keys are static strings per collection
// (one snapshot per entity type). No expiry contract is part of this interface;
// the backing implementation decides lifetime.
type Store interface {
	// Exist reports whether a value is present under key.
	Exist(ctx context.Context, key string) bool

	// Get returns the value stored under key, if any.
	Get(ctx context.Context, key string) (any, bool)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value any)
}

// Snapshot returns the typed collection cached under key.
// A value of the wrong type counts as a miss so the caller falls back to the
// database (a process upgrade may leave stale shapes behind).
func Snapshot[T any](ctx context.Context, store Store, key string) ([]T, bool) {
	v, ok := store.Get(ctx, key)
	if !ok {
		return nil, false
	}
	items, ok := v.([]T)
	return items, ok
}
