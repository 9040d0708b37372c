package collages

import (
	"context"
	"sort"
	"time"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/core/tx"
	"claimsdesk/internal/domain/cache"
	"claimsdesk/internal/domain/reconcile"
	"claimsdesk/pkg/logger"
)

// DocumentSnapshotKey is the cache key for the full collage-document collection.
const DocumentSnapshotKey = "snapshot:collage-probatory-documents"

// DocumentService reconciles the ordered document list of one collage.
type DocumentService struct {
	repo  DocumentRepository
	store cache.Store
	txm   tx.Manager
	clock func() time.Time
}

// NewDocumentService creates a collage-document service.
func NewDocumentService(repo DocumentRepository, store cache.Store, txm tx.Manager) *DocumentService {
	return &DocumentService{repo: repo, store: store, txm: txm, clock: time.Now}
}

// WithClock overrides the time source (tests).
func (s *DocumentService) WithClock(clock func() time.Time) *DocumentService {
	s.clock = clock
	return s
}

// GetAll returns every row across all collages through the read-through cache.
func (s *DocumentService) GetAll(ctx context.Context) ([]CollageDocument, error) {
	if snap, ok := cache.Snapshot[CollageDocument](ctx, s.store, DocumentSnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, DocumentSnapshotKey, rows)
	return rows, nil
}

// GetByCollage returns one collage's documents ordered by sort priority.
func (s *DocumentService) GetByCollage(ctx context.Context, collageID int64) ([]CollageDocument, error) {
	if collageID <= 0 {
		return nil, apperror.NewValidation("collage id must be positive").WithDetail("id", collageID)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var rows []CollageDocument
	for _, d := range all {
		if d.CollageID == collageID {
			rows = append(rows, d)
		}
	}
	sortByPriority(rows)
	return rows, nil
}

// Reconcile replaces the document list of one collage with requested.
// An empty requested list detaches every document (used when a collage is
// deleted).
func (s *DocumentService) Reconcile(ctx context.Context, collageID int64, requested []CollageDocument) error {
	if collageID <= 0 {
		return apperror.NewValidation("collage id must be positive").WithDetail("id", collageID)
	}
	for i := range requested {
		if requested[i].ProbatoryDocumentID <= 0 {
			return apperror.NewValidation("probatory document id must be positive").
				WithDetail("index", i)
		}
		requested[i].CollageID = collageID
	}
	requested = reconcile.Dedupe(requested, func(d CollageDocument) int64 { return d.ProbatoryDocumentID })
	reconcile.NormalizePriorities(requested, func(d *CollageDocument, p int) { d.SortPriority = p })

	current, err := s.GetByCollage(ctx, collageID)
	if err != nil {
		return err
	}

	diff := reconcile.Partition(current, requested, reconcile.Options[CollageDocument, int64]{
		Key: func(d CollageDocument) int64 { return d.ProbatoryDocumentID },
		Changed: func(cur, req CollageDocument) bool {
			return cur.SortPriority != req.SortPriority
		},
		Merge: func(cur, req CollageDocument) CollageDocument {
			cur.SortPriority = req.SortPriority
			return cur
		},
	})
	if diff.Empty() {
		return nil
	}

	now := s.clock().UTC()
	for i := range diff.Added {
		diff.Added[i].CreatedAt = now
		diff.Added[i].UpdatedAt = now
	}
	for i := range diff.Updated {
		diff.Updated[i].UpdatedAt = now
	}

	var inserted []CollageDocument
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if len(diff.Removed) > 0 {
			ids := make([]int64, len(diff.Removed))
			for i, d := range diff.Removed {
				ids[i] = d.ID
			}
			if err := s.repo.Delete(ctx, ids); err != nil {
				return err
			}
		}
		if len(diff.Added) > 0 {
			var err error
			inserted, err = s.repo.Insert(ctx, diff.Added)
			if err != nil {
				return err
			}
		}
		if len(diff.Updated) > 0 {
			if err := s.repo.Update(ctx, diff.Updated); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	diff.Added = inserted

	if snap, ok := cache.Snapshot[CollageDocument](ctx, s.store, DocumentSnapshotKey); ok {
		snap = reconcile.MirrorRemove(snap, diff.Removed, CollageDocument.key)
		snap = append(snap, diff.Added...)
		reconcile.MirrorUpdate(snap, diff.Updated, CollageDocument.key, func(target *CollageDocument, upd CollageDocument) {
			target.SortPriority = upd.SortPriority
			target.UpdatedAt = now
		})
		s.store.Set(ctx, DocumentSnapshotKey, snap)
	}

	logger.Info(ctx, "collage documents reconciled",
		"collage_id", collageID,
		"added", len(diff.Added),
		"updated", len(diff.Updated),
		"removed", len(diff.Removed),
	)
	return nil
}

func sortByPriority(rows []CollageDocument) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SortPriority < rows[j].SortPriority
	})
}
