package claimtypes

import (
	"context"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/domain/cache"
)

// SnapshotKey is the cache key for the full claim-type collection.
const SnapshotKey = "snapshot:claim-types"

// Service provides cached reads over the claim-type lookup.
// The collection is small and effectively static, so it keeps an independent
// cache lifetime from the services that join its names in.
type Service struct {
	repo  Repository
	store cache.Store
}

// NewService creates a claim-type service.
func NewService(repo Repository, store cache.Store) *Service {
	return &Service{repo: repo, store: store}
}

// GetAll returns all claim types through the read-through cache.
func (s *Service) GetAll(ctx context.Context) ([]ClaimType, error) {
	if snap, ok := cache.Snapshot[ClaimType](ctx, s.store, SnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, SnapshotKey, rows)
	return rows, nil
}

// GetByID returns one claim type. Lookups go through GetAll so cache
// population happens exactly once per cold start.
func (s *Service) GetByID(ctx context.Context, id int64) (*ClaimType, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("claim type id must be positive").WithDetail("id", id)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			ct := all[i]
			return &ct, nil
		}
	}
	return nil, apperror.NewNotFound("claim type", id)
}
