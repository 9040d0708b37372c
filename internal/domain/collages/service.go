package collages

import (
	"context"
	"time"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/core/tx"
	"claimsdesk/internal/domain/cache"
	"claimsdesk/internal/domain/claimtypes"
	"claimsdesk/pkg/logger"
)

// SnapshotKey is the cache key for the full collage collection.
const SnapshotKey = "snapshot:insurance-collages"

// Service provides cached CRUD over collages and composes claim-type metadata
// and the reconciled document list into aggregate views.
type Service struct {
	repo       Repository
	store      cache.Store
	txm        tx.Manager
	claimTypes *claimtypes.Service
	docs       *DocumentService
	clock      func() time.Time
}

// NewService creates a collage service.
func NewService(repo Repository, store cache.Store, txm tx.Manager, claimTypes *claimtypes.Service, docs *DocumentService) *Service {
	return &Service{repo: repo, store: store, txm: txm, claimTypes: claimTypes, docs: docs, clock: time.Now}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// GetAll returns all collages through the read-through cache.
func (s *Service) GetAll(ctx context.Context) ([]Collage, error) {
	if snap, ok := cache.Snapshot[Collage](ctx, s.store, SnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, SnapshotKey, rows)
	return rows, nil
}

// GetByID returns one collage, resolved through GetAll.
func (s *Service) GetByID(ctx context.Context, id int64) (*Collage, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("collage id must be positive").WithDetail("id", id)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			collage := all[i]
			return &collage, nil
		}
	}
	return nil, apperror.NewNotFound("collage", id)
}

// GetView returns the aggregate view of one collage: the collage row, its
// claim-type name and its ordered documents. The metadata joins run on every
// call so the composed services keep their own cache lifetimes.
func (s *Service) GetView(ctx context.Context, id int64) (*View, error) {
	collage, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &View{Collage: *collage}

	ct, err := s.claimTypes.GetByID(ctx, collage.ClaimTypeID)
	if err == nil {
		view.ClaimTypeName = ct.Name
	} else if !apperror.IsNotFound(err) {
		return nil, err
	}

	docs, err := s.docs.GetByCollage(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Documents = docs

	return view, nil
}

// GetByScope returns the aggregate views of all collages of one insurer +
// claim type.
func (s *Service) GetByScope(ctx context.Context, insurerID, claimTypeID int64) ([]View, error) {
	if insurerID <= 0 {
		return nil, apperror.NewValidation("insurance company id must be positive").WithDetail("id", insurerID)
	}
	if claimTypeID <= 0 {
		return nil, apperror.NewValidation("claim type id must be positive").WithDetail("id", claimTypeID)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var views []View
	for _, c := range all {
		if c.InsurerID != insurerID || c.ClaimTypeID != claimTypeID {
			continue
		}
		view, err := s.GetView(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Create inserts a new collage and reconciles its initial document list.
func (s *Service) Create(ctx context.Context, collage *Collage, docs []CollageDocument) error {
	if err := collage.Validate(ctx); err != nil {
		return err
	}

	now := s.clock().UTC()
	collage.CreatedAt = now
	collage.UpdatedAt = now

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Insert(ctx, collage)
	})
	if err != nil {
		return err
	}

	if s.store.Exist(ctx, SnapshotKey) {
		if snap, ok := cache.Snapshot[Collage](ctx, s.store, SnapshotKey); ok {
			s.store.Set(ctx, SnapshotKey, append(snap, *collage))
		}
	}

	if len(docs) > 0 {
		if err := s.docs.Reconcile(ctx, collage.ID, docs); err != nil {
			return err
		}
	}

	logger.Info(ctx, "collage created", "collage_id", collage.ID, "name", collage.Name)
	return nil
}

// Update modifies the collage row and, when docs is non-nil, reconciles the
// document list in the same call.
func (s *Service) Update(ctx context.Context, collage Collage, docs []CollageDocument) error {
	if err := collage.Validate(ctx); err != nil {
		return err
	}

	current, err := s.GetByID(ctx, collage.ID)
	if err != nil {
		return err
	}
	if current.InsurerID != collage.InsurerID {
		return apperror.NewValidation("collage does not belong to this insurance company").
			WithDetail("collage_id", collage.ID).
			WithDetail("insurer_id", collage.InsurerID)
	}

	current.Name = collage.Name
	current.ClaimTypeID = collage.ClaimTypeID
	current.Columns = collage.Columns
	current.UpdatedAt = s.clock().UTC()

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, *current)
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[Collage](ctx, s.store, SnapshotKey); ok {
		for i := range snap {
			if snap[i].ID == current.ID {
				snap[i].Name = current.Name
				snap[i].ClaimTypeID = current.ClaimTypeID
				snap[i].Columns = current.Columns
				snap[i].UpdatedAt = current.UpdatedAt
			}
		}
		s.store.Set(ctx, SnapshotKey, snap)
	}

	if docs != nil {
		return s.docs.Reconcile(ctx, collage.ID, docs)
	}
	return nil
}

// Delete removes a collage. Its documents are detached first by reconciling
// the list to empty, so the child snapshot stays consistent.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.docs.Reconcile(ctx, id, nil); err != nil {
		return err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[Collage](ctx, s.store, SnapshotKey); ok {
		kept := snap[:0:0]
		for _, c := range snap {
			if c.ID != id {
				kept = append(kept, c)
			}
		}
		s.store.Set(ctx, SnapshotKey, kept)
	}

	logger.Info(ctx, "collage deleted", "collage_id", id)
	return nil
}
