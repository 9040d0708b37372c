package insurerdocs

import (
	"context"
	"sort"
	"time"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/core/tx"
	"claimsdesk/internal/domain/cache"
	"claimsdesk/internal/domain/documents"
	"claimsdesk/internal/domain/reconcile"
	"claimsdesk/pkg/logger"
)

// SnapshotKey is the cache key for the full insurer-document collection.
const SnapshotKey = "snapshot:insurer-probatory-documents"

// Service reconciles the probatory-document list of one insurer + claim type
// against the database and the cached full-collection snapshot.
type Service struct {
	repo     Repository
	store    cache.Store
	txm      tx.Manager
	catalog  *documents.Service
	clock    func() time.Time
}

// NewService creates an insurer-document service.
func NewService(repo Repository, store cache.Store, txm tx.Manager, catalog *documents.Service) *Service {
	return &Service{repo: repo, store: store, txm: txm, catalog: catalog, clock: time.Now}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// GetAll returns every row across all scopes through the read-through cache.
func (s *Service) GetAll(ctx context.Context) ([]InsurerDocument, error) {
	if snap, ok := cache.Snapshot[InsurerDocument](ctx, s.store, SnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, SnapshotKey, rows)
	return rows, nil
}

// GetByScope returns the documents of one insurer + claim type, enriched with
// catalog metadata. The raw list is cached; the metadata join runs on every
// call so the catalog keeps its own cache lifetime.
func (s *Service) GetByScope(ctx context.Context, scope Scope) ([]View, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	rows, err := s.byScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]documents.ProbatoryDocument, len(catalog))
	for _, d := range catalog {
		byID[d.ID] = d
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		v := View{InsurerDocument: row}
		if doc, ok := byID[row.ProbatoryDocumentID]; ok {
			v.DocumentName = doc.Name
			v.DocumentOrientation = string(doc.Orientation)
		}
		views = append(views, v)
	}
	return views, nil
}

// Reconcile replaces the document list of one scope with requested.
// An empty requested list removes every row in the scope. Sort priorities are
// recomputed from array order; caller-supplied values are ignored.
func (s *Service) Reconcile(ctx context.Context, scope Scope, requested []InsurerDocument) error {
	if err := validateScope(scope); err != nil {
		return err
	}
	for i := range requested {
		if requested[i].ProbatoryDocumentID <= 0 {
			return apperror.NewValidation("probatory document id must be positive").
				WithDetail("index", i)
		}
		requested[i].InsurerID = scope.InsurerID
		requested[i].ClaimTypeID = scope.ClaimTypeID
	}
	requested = reconcile.Dedupe(requested, func(d InsurerDocument) int64 { return d.ProbatoryDocumentID })
	reconcile.NormalizePriorities(requested, func(d *InsurerDocument, p int) { d.SortPriority = p })

	current, err := s.byScope(ctx, scope)
	if err != nil {
		return err
	}

	diff := reconcile.Partition(current, requested, reconcile.Options[InsurerDocument, int64]{
		Key: func(d InsurerDocument) int64 { return d.ProbatoryDocumentID },
		Changed: func(cur, req InsurerDocument) bool {
			return cur.SortPriority != req.SortPriority || cur.GroupID != req.GroupID
		},
		Merge: func(cur, req InsurerDocument) InsurerDocument {
			cur.SortPriority = req.SortPriority
			cur.GroupID = req.GroupID
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

	// Delete, insert, update in one transaction; a failed commit leaves the
	// snapshot untouched so cache and database never diverge silently.
	var inserted []InsurerDocument
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if len(diff.Removed) > 0 {
			if err := s.repo.Delete(ctx, rowIDs(diff.Removed)); err != nil {
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

	s.mirror(ctx, diff, now)

	logger.Info(ctx, "insurer documents reconciled",
		"insurer_id", scope.InsurerID,
		"claim_type_id", scope.ClaimTypeID,
		"added", len(diff.Added),
		"updated", len(diff.Updated),
		"removed", len(diff.Removed),
	)
	return nil
}

// byScope filters the cached full collection down to one scope.
func (s *Service) byScope(ctx context.Context, scope Scope) ([]InsurerDocument, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var rows []InsurerDocument
	for _, d := range all {
		if d.InsurerID == scope.InsurerID && d.ClaimTypeID == scope.ClaimTypeID {
			rows = append(rows, d)
		}
	}
	// Mirrored snapshots keep rows in insertion position; the read
	// surface promises priority order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].SortPriority < rows[j].SortPriority
	})
	return rows, nil
}

// mirror replays the diff onto the snapshot. A cache miss is never populated
// by a write; only an existing snapshot is kept consistent.
func (s *Service) mirror(ctx context.Context, diff reconcile.Diff[InsurerDocument], now time.Time) {
	snap, ok := cache.Snapshot[InsurerDocument](ctx, s.store, SnapshotKey)
	if !ok {
		return
	}

	snap = reconcile.MirrorRemove(snap, diff.Removed, InsurerDocument.key)
	snap = append(snap, diff.Added...)
	reconcile.MirrorUpdate(snap, diff.Updated, InsurerDocument.key, func(target *InsurerDocument, upd InsurerDocument) {
		target.GroupID = upd.GroupID
		target.SortPriority = upd.SortPriority
		// Field copy above leaves timestamps alone; re-apply explicitly.
		target.UpdatedAt = now
	})

	s.store.Set(ctx, SnapshotKey, snap)
}

func rowIDs(docs []InsurerDocument) []int64 {
	ids := make([]int64, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids
}

func validateScope(scope Scope) error {
	if scope.InsurerID <= 0 {
		return apperror.NewValidation("insurance company id must be positive").WithDetail("id", scope.InsurerID)
	}
	if scope.ClaimTypeID <= 0 {
		return apperror.NewValidation("claim type id must be positive").WithDetail("id", scope.ClaimTypeID)
	}
	return nil
}
