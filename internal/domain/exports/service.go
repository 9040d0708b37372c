package exports

import (
	"context"
	"sort"
	"time"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/core/tx"
	"claimsdesk/internal/domain/cache"
	"claimsdesk/internal/domain/collages"
	"claimsdesk/internal/domain/documents"
	"claimsdesk/internal/domain/reconcile"
	"claimsdesk/pkg/logger"
)

// Cache keys for the export lookup and layout collections.
const (
	TypesSnapshotKey = "snapshot:export-document-types"
	SnapshotKey      = "snapshot:insurance-export-documents"
)

// Service reconciles the export layout of one insurer + claim type
// against the database and the cached full-collection snapshot.
type Service struct {
	repo    Repository
	types   TypeRepository
	store   cache.Store
	txm     tx.Manager
	catalog *documents.Service
	albums  *collages.Service
	clock   func() time.Time
}

// NewService creates an export layout service.
func NewService(repo Repository, types TypeRepository, store cache.Store, txm tx.Manager, catalog *documents.Service, albums *collages.Service) *Service {
	return &Service{repo: repo, types: types, store: store, txm: txm, catalog: catalog, albums: albums, clock: time.Now}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// GetTypes returns the export type lookup through the read-through cache.
func (s *Service) GetTypes(ctx context.Context) ([]ExportType, error) {
	if snap, ok := cache.Snapshot[ExportType](ctx, s.store, TypesSnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.types.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, TypesSnapshotKey, rows)
	return rows, nil
}

// GetAll returns every layout row across all scopes through the
// read-through cache.
func (s *Service) GetAll(ctx context.Context) ([]ExportDocument, error) {
	if snap, ok := cache.Snapshot[ExportDocument](ctx, s.store, SnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, SnapshotKey, rows)
	return rows, nil
}

// GetByScope returns the export layout of one insurer + claim type,
// enriched with the export type name and the referenced entity's name.
// The raw list is cached; the name joins run on every call.
func (s *Service) GetByScope(ctx context.Context, scope Scope) ([]View, error) {
	if err := validateScope(scope); err != nil {
		return nil, err
	}

	rows, err := s.byScope(ctx, scope)
	if err != nil {
		return nil, err
	}

	types, err := s.GetTypes(ctx)
	if err != nil {
		return nil, err
	}
	typeNames := make(map[int64]string, len(types))
	for _, t := range types {
		typeNames[t.ID] = t.Name
	}

	docNames, collageNames, err := s.refNames(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		v := View{ExportDocument: row, TypeName: typeNames[row.ExportTypeID]}
		switch row.Ref.Kind {
		case RefDocument:
			v.RefName = docNames[row.Ref.ID]
		case RefCollage:
			v.RefName = collageNames[row.Ref.ID]
		}
		views = append(views, v)
	}
	return views, nil
}

// Reconcile replaces the export layout of one scope with requested.
// An empty requested list removes every row in the scope. Sort priorities
// are recomputed from array order; caller-supplied values are ignored.
func (s *Service) Reconcile(ctx context.Context, scope Scope, requested []ExportDocument) error {
	if err := validateScope(scope); err != nil {
		return err
	}
	for i := range requested {
		if requested[i].ExportTypeID <= 0 {
			return apperror.NewValidation("export document type id must be positive").
				WithDetail("index", i)
		}
		if err := requested[i].Ref.Validate(); err != nil {
			return err
		}
		requested[i].InsurerID = scope.InsurerID
		requested[i].ClaimTypeID = scope.ClaimTypeID
	}
	requested = reconcile.Dedupe(requested, ExportDocument.natural)
	reconcile.NormalizePriorities(requested, func(d *ExportDocument, p int) { d.SortPriority = p })

	current, err := s.byScope(ctx, scope)
	if err != nil {
		return err
	}

	diff := reconcile.Partition(current, requested, reconcile.Options[ExportDocument, naturalKey]{
		Key: ExportDocument.natural,
		Changed: func(cur, req ExportDocument) bool {
			return cur.SortPriority != req.SortPriority
		},
		Merge: func(cur, req ExportDocument) ExportDocument {
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

	var inserted []ExportDocument
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

	logger.Info(ctx, "export layout reconciled",
		"insurer_id", scope.InsurerID,
		"claim_type_id", scope.ClaimTypeID,
		"added", len(diff.Added),
		"updated", len(diff.Updated),
		"removed", len(diff.Removed),
	)
	return nil
}

func (s *Service) byScope(ctx context.Context, scope Scope) ([]ExportDocument, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	var rows []ExportDocument
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

// refNames loads the display names of everything a Ref can point at.
func (s *Service) refNames(ctx context.Context) (docs map[int64]string, albums map[int64]string, err error) {
	catalog, err := s.catalog.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	docs = make(map[int64]string, len(catalog))
	for _, d := range catalog {
		docs[d.ID] = d.Name
	}

	all, err := s.albums.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	albums = make(map[int64]string, len(all))
	for _, c := range all {
		albums[c.ID] = c.Name
	}
	return docs, albums, nil
}

// mirror replays the diff onto the snapshot. A cache miss is never
// populated by a write; only an existing snapshot is kept consistent.
func (s *Service) mirror(ctx context.Context, diff reconcile.Diff[ExportDocument], now time.Time) {
	snap, ok := cache.Snapshot[ExportDocument](ctx, s.store, SnapshotKey)
	if !ok {
		return
	}

	snap = reconcile.MirrorRemove(snap, diff.Removed, ExportDocument.key)
	snap = append(snap, diff.Added...)
	reconcile.MirrorUpdate(snap, diff.Updated, ExportDocument.key, func(target *ExportDocument, upd ExportDocument) {
		target.SortPriority = upd.SortPriority
		target.UpdatedAt = now
	})

	s.store.Set(ctx, SnapshotKey, snap)
}

func rowIDs(docs []ExportDocument) []int64 {
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
