// Package cache provides the in-process snapshot store backed by sturdyc.
package cache

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// Config holds cache store configuration. Snapshot keys are few and
// long-lived; capacity mainly bounds accidental key growth.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// DefaultConfig returns defaults sized for full-table snapshots.
func DefaultConfig() Config {
	return Config{
		Capacity:           1024,
		NumShards:          16,
		TTL:                12 * time.Hour,
		EvictionPercentage: 10,
	}
}

// Store adapts a sturdyc client to the domain cache contract.
type Store struct {
	client *sturdyc.Client[any]
}

// NewStore creates a sturdyc-backed store.
func NewStore(cfg Config) *Store {
	client := sturdyc.New[any](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)
	return &Store{client: client}
}

func (s *Store) Exist(_ context.Context, key string) bool {
	_, ok := s.client.Get(key)
	return ok
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	return s.client.Get(key)
}

func (s *Store) Set(_ context.Context, key string, value any) {
	s.client.Set(key, value)
}
