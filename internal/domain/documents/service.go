package documents

import (
	"context"
	"time"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/core/tx"
	"claimsdesk/internal/domain/cache"
	"claimsdesk/pkg/logger"
)

// SnapshotKey is the cache key for the full probatory-document collection.
const SnapshotKey = "snapshot:probatory-documents"

// Service provides cached CRUD over the probatory-document catalog.
// Reads are served from a read-through snapshot; every write that reaches the
// database replays the same change onto the snapshot when one exists.
type Service struct {
	repo  Repository
	store cache.Store
	txm   tx.Manager
	clock func() time.Time
}

// NewService creates a probatory-document service.
func NewService(repo Repository, store cache.Store, txm tx.Manager) *Service {
	return &Service{repo: repo, store: store, txm: txm, clock: time.Now}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// GetAll returns the catalog through the read-through cache.
func (s *Service) GetAll(ctx context.Context) ([]ProbatoryDocument, error) {
	if snap, ok := cache.Snapshot[ProbatoryDocument](ctx, s.store, SnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, SnapshotKey, rows)
	return rows, nil
}

// GetByID returns one catalog entry, resolved through GetAll.
func (s *Service) GetByID(ctx context.Context, id int64) (*ProbatoryDocument, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("probatory document id must be positive").WithDetail("id", id)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			doc := all[i]
			return &doc, nil
		}
	}
	return nil, apperror.NewNotFound("probatory document", id)
}

// Create inserts a new catalog entry and appends it to the snapshot.
func (s *Service) Create(ctx context.Context, doc *ProbatoryDocument) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	now := s.clock().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Insert(ctx, doc)
	})
	if err != nil {
		return err
	}

	if s.store.Exist(ctx, SnapshotKey) {
		if snap, ok := cache.Snapshot[ProbatoryDocument](ctx, s.store, SnapshotKey); ok {
			s.store.Set(ctx, SnapshotKey, append(snap, *doc))
		}
	}

	logger.Info(ctx, "probatory document created", "document_id", doc.ID)
	return nil
}

// Update modifies name/orientation of an existing entry and mirrors the
// change onto its snapshot counterpart by explicit field copy.
func (s *Service) Update(ctx context.Context, doc ProbatoryDocument) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	current, err := s.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}

	current.Name = doc.Name
	current.Orientation = doc.Orientation
	current.UpdatedAt = s.clock().UTC()

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, *current)
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[ProbatoryDocument](ctx, s.store, SnapshotKey); ok {
		for i := range snap {
			if snap[i].ID == current.ID {
				snap[i].Name = current.Name
				snap[i].Orientation = current.Orientation
				snap[i].UpdatedAt = current.UpdatedAt
			}
		}
		s.store.Set(ctx, SnapshotKey, snap)
	}

	return nil
}

// Delete removes a catalog entry from database and snapshot.
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

	if snap, ok := cache.Snapshot[ProbatoryDocument](ctx, s.store, SnapshotKey); ok {
		kept := snap[:0:0]
		for _, d := range snap {
			if d.ID != id {
				kept = append(kept, d)
			}
		}
		s.store.Set(ctx, SnapshotKey, kept)
	}

	logger.Info(ctx, "probatory document deleted", "document_id", id)
	return nil
}
