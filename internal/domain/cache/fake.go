package cache

import (
	"context"
	"sync"
)

// FakeStore is a map-backed Store for tests. It lets tests seed a snapshot,
// simulate a cold cache, and assert exact snapshot contents after an operation.
type FakeStore struct {
	mu     sync.RWMutex
	values map[string]any

	// SetCalls counts Set invocations, so tests can assert a write
	// did not rewrite the cache.
	SetCalls int
}

// NewFakeStore creates an empty FakeStore.
func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string]any)}
}

// Exist implements Store.
func (f *FakeStore) Exist(_ context.Context, key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.values[key]
	return ok
}

// Get implements Store.
func (f *FakeStore) Get(_ context.Context, key string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[key]
	return v, ok
}

// Set implements Store.
func (f *FakeStore) Set(_ context.Context, key string, value any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	f.SetCalls++
}

// Delete removes a key (test helper, not part of Store).
func (f *FakeStore) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, key)
}
