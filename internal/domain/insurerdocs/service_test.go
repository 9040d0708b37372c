package insurerdocs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsdesk/internal/domain/cache"
	"claimsdesk/internal/domain/documents"
)

// memRepo is an in-memory Repository tracking write counts.
type memRepo struct {
	rows    []InsurerDocument
	nextID  int64
	inserts int
	updates int
	deletes int
	failAll bool
}

func newMemRepo(rows ...InsurerDocument) *memRepo {
	r := &memRepo{nextID: 100}
	for _, row := range rows {
		if row.ID == 0 {
			r.nextID++
			row.ID = r.nextID
		}
		r.rows = append(r.rows, row)
	}
	return r
}

var errRepoDown = errors.New("repository down")

func (r *memRepo) ListAll(context.Context) ([]InsurerDocument, error) {
	if r.failAll {
		return nil, errRepoDown
	}
	return append([]InsurerDocument(nil), r.rows...), nil
}

func (r *memRepo) Insert(_ context.Context, docs []InsurerDocument) ([]InsurerDocument, error) {
	if r.failAll {
		return nil, errRepoDown
	}
	r.inserts++
	out := make([]InsurerDocument, len(docs))
	for i, d := range docs {
		r.nextID++
		d.ID = r.nextID
		r.rows = append(r.rows, d)
		out[i] = d
	}
	return out, nil
}

func (r *memRepo) Update(_ context.Context, docs []InsurerDocument) error {
	if r.failAll {
		return errRepoDown
	}
	r.updates++
	for _, d := range docs {
		for i := range r.rows {
			if r.rows[i].ID == d.ID {
				r.rows[i] = d
			}
		}
	}
	return nil
}

func (r *memRepo) Delete(_ context.Context, ids []int64) error {
	if r.failAll {
		return errRepoDown
	}
	r.deletes++
	kept := r.rows[:0]
	for _, row := range r.rows {
		drop := false
		for _, id := range ids {
			if row.ID == id {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

// txStub runs the function directly; no real transaction in unit tests.
type txStub struct{}

func (txStub) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type docsRepoStub struct{ docs []documents.ProbatoryDocument }

func (r docsRepoStub) ListAll(context.Context) ([]documents.ProbatoryDocument, error) {
	return r.docs, nil
}
func (docsRepoStub) Insert(context.Context, *documents.ProbatoryDocument) error { return nil }
func (docsRepoStub) Update(context.Context, documents.ProbatoryDocument) error  { return nil }
func (docsRepoStub) Delete(context.Context, int64) error                        { return nil }

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newService(repo *memRepo, store *cache.FakeStore) *Service {
	catalog := documents.NewService(docsRepoStub{docs: []documents.ProbatoryDocument{
		{ID: 1, Name: "Driver licence", Orientation: documents.OrientationPortrait},
		{ID: 2, Name: "Circulation card", Orientation: documents.OrientationPortrait},
		{ID: 3, Name: "Claim form", Orientation: documents.OrientationLandscape},
	}}, cache.NewFakeStore(), txStub{})
	return NewService(repo, store, txStub{}, catalog).
		WithClock(func() time.Time { return fixedNow })
}

func seedRows(scope Scope, docIDs ...int64) []InsurerDocument {
	rows := make([]InsurerDocument, len(docIDs))
	for i, id := range docIDs {
		rows[i] = InsurerDocument{
			InsurerID:           scope.InsurerID,
			ClaimTypeID:         scope.ClaimTypeID,
			ProbatoryDocumentID: id,
			SortPriority:        i + 1,
		}
	}
	return rows
}

func requested(docIDs ...int64) []InsurerDocument {
	rows := make([]InsurerDocument, len(docIDs))
	for i, id := range docIDs {
		rows[i] = InsurerDocument{ProbatoryDocumentID: id}
	}
	return rows
}

func snapshotScope(t *testing.T, store cache.Store, scope Scope) []InsurerDocument {
	t.Helper()
	snap, ok := cache.Snapshot[InsurerDocument](context.Background(), store, SnapshotKey)
	require.True(t, ok)
	var rows []InsurerDocument
	for _, d := range snap {
		if d.InsurerID == scope.InsurerID && d.ClaimTypeID == scope.ClaimTypeID {
			rows = append(rows, d)
		}
	}
	return rows
}

func TestReconcile_RemovesMissingFromDatabaseAndCache(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo(seedRows(scope, 1, 2, 3)...)
	store := cache.NewFakeStore()
	svc := newService(repo, store)
	ctx := context.Background()

	// Warm the snapshot through a read.
	_, err := svc.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Reconcile(ctx, scope, requested(1, 2)))

	assert.Len(t, repo.rows, 2)
	rows := snapshotScope(t, store, scope)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].ProbatoryDocumentID)
	assert.Equal(t, int64(2), rows[1].ProbatoryDocumentID)
}

func TestReconcile_SwapAppliesPrioritiesAndTimestamp(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo(seedRows(scope, 1, 2)...)
	store := cache.NewFakeStore()
	svc := newService(repo, store)
	ctx := context.Background()

	_, err := svc.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Reconcile(ctx, scope, requested(2, 1)))

	assert.Equal(t, 0, repo.inserts)
	assert.Equal(t, 0, repo.deletes)
	assert.Equal(t, 1, repo.updates)

	byDoc := make(map[int64]InsurerDocument)
	for _, row := range snapshotScope(t, store, scope) {
		byDoc[row.ProbatoryDocumentID] = row
	}
	assert.Equal(t, 2, byDoc[1].SortPriority)
	assert.Equal(t, 1, byDoc[2].SortPriority)
	// Mirror re-applies the modification timestamp explicitly.
	assert.Equal(t, fixedNow, byDoc[1].UpdatedAt)
	assert.Equal(t, fixedNow, byDoc[2].UpdatedAt)
}

func TestReconcile_AddedRowsReceiveGeneratedIDs(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo()
	store := cache.NewFakeStore()
	svc := newService(repo, store)
	ctx := context.Background()

	_, err := svc.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Reconcile(ctx, scope, requested(1, 2)))

	rows := snapshotScope(t, store, scope)
	require.Len(t, rows, 2)
	for i, row := range rows {
		assert.NotZero(t, row.ID, "snapshot row must carry the generated primary key")
		assert.Equal(t, i+1, row.SortPriority)
		assert.Equal(t, fixedNow, row.CreatedAt)
	}
}

func TestReconcile_SecondIdenticalCallWritesNothing(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo()
	store := cache.NewFakeStore()
	svc := newService(repo, store)
	ctx := context.Background()

	require.NoError(t, svc.Reconcile(ctx, scope, requested(1, 2, 3)))

	dbWrites := repo.inserts + repo.updates + repo.deletes
	cacheWrites := store.SetCalls

	require.NoError(t, svc.Reconcile(ctx, scope, requested(1, 2, 3)))

	assert.Equal(t, dbWrites, repo.inserts+repo.updates+repo.deletes)
	assert.Equal(t, cacheWrites, store.SetCalls)
}

func TestReconcile_ColdCacheIsNotPopulatedByWrite(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo()
	store := cache.NewFakeStore()
	svc := newService(repo, store)
	ctx := context.Background()

	require.NoError(t, svc.Reconcile(ctx, scope, requested(1)))

	// Reconcile read through GetAll (one Set to populate) and then mirrored
	// the diff onto the now-existing snapshot (second Set). The snapshot
	// matches the database afterwards.
	rows := snapshotScope(t, store, scope)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, store.SetCalls)

	// With database and request already in agreement, a reconcile against a
	// fresh cold store populates the snapshot exactly once via the read and
	// never rewrites it from the (empty) diff.
	repo2 := newMemRepo(seedRows(scope, 1)...)
	store2 := cache.NewFakeStore()
	require.NoError(t, newService(repo2, store2).Reconcile(ctx, scope, requested(1)))
	assert.Equal(t, 1, store2.SetCalls)
}

func TestReconcile_EmptyRequestRemovesScopeOnly(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	other := Scope{InsurerID: 9, ClaimTypeID: 2}
	repo := newMemRepo(append(seedRows(scope, 1, 2), seedRows(other, 1, 2)...)...)
	store := cache.NewFakeStore()
	svc := newService(repo, store)
	ctx := context.Background()

	_, err := svc.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Reconcile(ctx, scope, nil))

	assert.Empty(t, snapshotScope(t, store, scope))
	assert.Len(t, snapshotScope(t, store, other), 2)
	assert.Len(t, repo.rows, 2)

	// No existing children: the empty upsert is a no-op.
	deletesBefore := repo.deletes
	require.NoError(t, svc.Reconcile(ctx, scope, nil))
	assert.Equal(t, deletesBefore, repo.deletes)
}

func TestReconcile_PersistFailureSkipsMirror(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo(seedRows(scope, 1, 2)...)
	store := cache.NewFakeStore()
	svc := newService(repo, store)
	ctx := context.Background()

	_, err := svc.GetAll(ctx)
	require.NoError(t, err)
	setsAfterWarm := store.SetCalls

	repo.failAll = true
	err = svc.Reconcile(ctx, scope, requested(2, 1))
	require.ErrorIs(t, err, errRepoDown)

	// Snapshot untouched: same content, no extra Set.
	assert.Equal(t, setsAfterWarm, store.SetCalls)
	rows := snapshotScope(t, store, scope)
	assert.Equal(t, 1, rows[0].SortPriority)
	assert.Equal(t, 2, rows[1].SortPriority)
}

func TestReconcile_ReadBackOrderMatchesRequest(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo(seedRows(scope, 3, 1)...)
	store := cache.NewFakeStore()
	svc := newService(repo, store)
	ctx := context.Background()

	order := []int64{2, 3, 1}
	require.NoError(t, svc.Reconcile(ctx, scope, requested(order...)))

	views, err := svc.GetByScope(ctx, scope)
	require.NoError(t, err)
	require.Len(t, views, 3)

	// Slice order itself must match the request, even though the mirror
	// keeps reordered rows at their old snapshot positions.
	for i, docID := range order {
		assert.Equal(t, docID, views[i].ProbatoryDocumentID)
		assert.Equal(t, i+1, views[i].SortPriority)
	}
}

func TestReconcile_DuplicateRequestKeepsDensePriorities(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo()
	svc := newService(repo, cache.NewFakeStore())

	require.NoError(t, svc.Reconcile(context.Background(), scope, requested(1, 1, 2)))

	require.Len(t, repo.rows, 2)
	assert.Equal(t, int64(1), repo.rows[0].ProbatoryDocumentID)
	assert.Equal(t, 1, repo.rows[0].SortPriority)
	assert.Equal(t, int64(2), repo.rows[1].ProbatoryDocumentID)
	assert.Equal(t, 2, repo.rows[1].SortPriority)
}

func TestGetByScope_EnrichesWithCatalogMetadata(t *testing.T) {
	scope := Scope{InsurerID: 1, ClaimTypeID: 2}
	repo := newMemRepo(seedRows(scope, 1, 3)...)
	svc := newService(repo, cache.NewFakeStore())

	views, err := svc.GetByScope(context.Background(), scope)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Driver licence", views[0].DocumentName)
	assert.Equal(t, "Claim form", views[1].DocumentName)
	assert.Equal(t, "landscape", views[1].DocumentOrientation)
}

func TestReconcile_RejectsInvalidScopeAndKeys(t *testing.T) {
	svc := newService(newMemRepo(), cache.NewFakeStore())
	ctx := context.Background()

	assert.Error(t, svc.Reconcile(ctx, Scope{InsurerID: 0, ClaimTypeID: 1}, nil))
	assert.Error(t, svc.Reconcile(ctx, Scope{InsurerID: 1, ClaimTypeID: -1}, nil))
	assert.Error(t, svc.Reconcile(ctx, Scope{InsurerID: 1, ClaimTypeID: 1}, requested(0)))
}
