package insurers

import (
	"context"
	"strings"
	"time"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/core/tx"
	"claimsdesk/internal/domain/cache"
	"claimsdesk/pkg/logger"
)

// SnapshotKey is the cache key for the full insurer collection.
const SnapshotKey = "snapshot:insurance-companies"

// Service provides cached CRUD over insurance companies.
type Service struct {
	repo  Repository
	store cache.Store
	txm   tx.Manager
	clock func() time.Time
}

// NewService creates an insurer service.
func NewService(repo Repository, store cache.Store, txm tx.Manager) *Service {
	return &Service{repo: repo, store: store, txm: txm, clock: time.Now}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// GetAll returns all insurers through the read-through cache.
func (s *Service) GetAll(ctx context.Context) ([]InsuranceCompany, error) {
	if snap, ok := cache.Snapshot[InsuranceCompany](ctx, s.store, SnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, SnapshotKey, rows)
	return rows, nil
}

// GetByID returns one insurer, resolved through GetAll.
func (s *Service) GetByID(ctx context.Context, id int64) (*InsuranceCompany, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("insurance company id must be positive").WithDetail("id", id)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			company := all[i]
			return &company, nil
		}
	}
	return nil, apperror.NewNotFound("insurance company", id)
}

// nameInUse checks name uniqueness against the cached collection.
// Absence is the expected benign outcome here, not an error.
func (s *Service) nameInUse(ctx context.Context, name string, excludeID int64) (bool, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for i := range all {
		if all[i].ID != excludeID && strings.EqualFold(all[i].Name, name) {
			return true, nil
		}
	}
	return false, nil
}

// Create inserts a new insurer. Name is unique across the catalog.
func (s *Service) Create(ctx context.Context, company *InsuranceCompany) error {
	if err := company.Validate(ctx); err != nil {
		return err
	}

	inUse, err := s.nameInUse(ctx, company.Name, 0)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.NewDuplicate("insurance company", "name", company.Name)
	}

	now := s.clock().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Insert(ctx, company)
	})
	if err != nil {
		return err
	}

	if s.store.Exist(ctx, SnapshotKey) {
		if snap, ok := cache.Snapshot[InsuranceCompany](ctx, s.store, SnapshotKey); ok {
			s.store.Set(ctx, SnapshotKey, append(snap, *company))
		}
	}

	logger.Info(ctx, "insurance company created", "insurer_id", company.ID, "name", company.Name)
	return nil
}

// Update modifies name/enabled flag and mirrors the change onto the snapshot.
func (s *Service) Update(ctx context.Context, company InsuranceCompany) error {
	if err := company.Validate(ctx); err != nil {
		return err
	}

	current, err := s.GetByID(ctx, company.ID)
	if err != nil {
		return err
	}

	inUse, err := s.nameInUse(ctx, company.Name, company.ID)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.NewDuplicate("insurance company", "name", company.Name)
	}

	current.Name = company.Name
	current.IsEnabled = company.IsEnabled
	current.UpdatedAt = s.clock().UTC()

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, *current)
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[InsuranceCompany](ctx, s.store, SnapshotKey); ok {
		for i := range snap {
			if snap[i].ID == current.ID {
				snap[i].Name = current.Name
				snap[i].IsEnabled = current.IsEnabled
				snap[i].UpdatedAt = current.UpdatedAt
			}
		}
		s.store.Set(ctx, SnapshotKey, snap)
	}

	return nil
}

// Delete removes an insurer from database and snapshot.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[InsuranceCompany](ctx, s.store, SnapshotKey); ok {
		kept := snap[:0:0]
		for _, c := range snap {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		s.store.Set(ctx, SnapshotKey, kept)
	}

	logger.Info(ctx, "insurance company deleted", "insurer_id", id)
	return nil
}
