package collages

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsdesk/internal/domain/cache"
	"claimsdesk/internal/domain/claimtypes"
)

type memCollageRepo struct {
	rows   []Collage
	nextID int64
}

func (r *memCollageRepo) ListAll(context.Context) ([]Collage, error) {
	return append([]Collage(nil), r.rows...), nil
}

func (r *memCollageRepo) Insert(_ context.Context, c *Collage) error {
	r.nextID++
	c.ID = r.nextID
	r.rows = append(r.rows, *c)
	return nil
}

func (r *memCollageRepo) Update(_ context.Context, c Collage) error {
	for i := range r.rows {
		if r.rows[i].ID == c.ID {
			r.rows[i] = c
		}
	}
	return nil
}

func (r *memCollageRepo) Delete(_ context.Context, id int64) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.ID != id {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type memDocRepo struct {
	rows   []CollageDocument
	nextID int64
}

func (r *memDocRepo) ListAll(context.Context) ([]CollageDocument, error) {
	return append([]CollageDocument(nil), r.rows...), nil
}

func (r *memDocRepo) Insert(_ context.Context, docs []CollageDocument) ([]CollageDocument, error) {
	out := make([]CollageDocument, len(docs))
	for i, d := range docs {
		r.nextID++
		d.ID = r.nextID
		r.rows = append(r.rows, d)
		out[i] = d
	}
	return out, nil
}

func (r *memDocRepo) Update(_ context.Context, docs []CollageDocument) error {
	for _, d := range docs {
		for i := range r.rows {
			if r.rows[i].ID == d.ID {
				r.rows[i] = d
			}
		}
	}
	return nil
}

func (r *memDocRepo) Delete(_ context.Context, ids []int64) error {
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

type txStub struct{}

func (txStub) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type claimTypeRepoStub struct{}

func (claimTypeRepoStub) ListAll(context.Context) ([]claimtypes.ClaimType, error) {
	return []claimtypes.ClaimType{
		{ID: 1, Name: "Auto"},
		{ID: 2, Name: "Theft"},
	}, nil
}

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memCollageRepo, *memDocRepo) {
	t.Helper()
	collageRepo := &memCollageRepo{}
	docRepo := &memDocRepo{}
	clock := func() time.Time { return fixedNow }

	ct := claimtypes.NewService(claimTypeRepoStub{}, cache.NewFakeStore())
	docs := NewDocumentService(docRepo, cache.NewFakeStore(), txStub{}).WithClock(clock)
	svc := NewService(collageRepo, cache.NewFakeStore(), txStub{}, ct, docs).WithClock(clock)
	return svc, collageRepo, docRepo
}

func TestCreate_ReconcilesInitialDocumentList(t *testing.T) {
	svc, _, docRepo := newTestService(t)
	ctx := context.Background()

	collage := &Collage{InsurerID: 1, ClaimTypeID: 1, Name: "Front damage", Columns: 2}
	docs := []CollageDocument{{ProbatoryDocumentID: 7}, {ProbatoryDocumentID: 8}}

	require.NoError(t, svc.Create(ctx, collage, docs))
	assert.NotZero(t, collage.ID)

	require.Len(t, docRepo.rows, 2)
	assert.Equal(t, collage.ID, docRepo.rows[0].CollageID)
	assert.Equal(t, 1, docRepo.rows[0].SortPriority)
	assert.Equal(t, 2, docRepo.rows[1].SortPriority)
}

func TestGetView_ComposesClaimTypeAndOrderedDocuments(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	collage := &Collage{InsurerID: 1, ClaimTypeID: 2, Name: "Theft set", Columns: 3}
	require.NoError(t, svc.Create(ctx, collage, []CollageDocument{
		{ProbatoryDocumentID: 5},
		{ProbatoryDocumentID: 3},
	}))

	view, err := svc.GetView(ctx, collage.ID)
	require.NoError(t, err)

	assert.Equal(t, "Theft", view.ClaimTypeName)
	require.Len(t, view.Documents, 2)
	assert.Equal(t, int64(5), view.Documents[0].ProbatoryDocumentID)
	assert.Equal(t, int64(3), view.Documents[1].ProbatoryDocumentID)
}

func TestUpdate_ReordersDocuments(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	collage := &Collage{InsurerID: 1, ClaimTypeID: 1, Name: "Set", Columns: 2}
	require.NoError(t, svc.Create(ctx, collage, []CollageDocument{
		{ProbatoryDocumentID: 5},
		{ProbatoryDocumentID: 3},
	}))

	updated := *collage
	updated.Name = "Renamed set"
	require.NoError(t, svc.Update(ctx, updated, []CollageDocument{
		{ProbatoryDocumentID: 3},
		{ProbatoryDocumentID: 5},
	}))

	view, err := svc.GetView(ctx, collage.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed set", view.Name)
	assert.Equal(t, int64(3), view.Documents[0].ProbatoryDocumentID)
	assert.Equal(t, int64(5), view.Documents[1].ProbatoryDocumentID)
}

func TestUpdate_RejectsForeignInsurer(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	collage := &Collage{InsurerID: 1, ClaimTypeID: 1, Name: "Set", Columns: 1}
	require.NoError(t, svc.Create(ctx, collage, nil))

	foreign := *collage
	foreign.InsurerID = 2
	assert.Error(t, svc.Update(ctx, foreign, nil))
}

func TestDelete_DetachesDocumentsFirst(t *testing.T) {
	svc, collageRepo, docRepo := newTestService(t)
	ctx := context.Background()

	keep := &Collage{InsurerID: 1, ClaimTypeID: 1, Name: "Keep", Columns: 1}
	drop := &Collage{InsurerID: 1, ClaimTypeID: 1, Name: "Drop", Columns: 1}
	require.NoError(t, svc.Create(ctx, keep, []CollageDocument{{ProbatoryDocumentID: 1}}))
	require.NoError(t, svc.Create(ctx, drop, []CollageDocument{{ProbatoryDocumentID: 2}, {ProbatoryDocumentID: 3}}))

	require.NoError(t, svc.Delete(ctx, drop.ID))

	assert.Len(t, collageRepo.rows, 1)
	require.Len(t, docRepo.rows, 1)
	assert.Equal(t, keep.ID, docRepo.rows[0].CollageID)

	_, err := svc.GetByID(ctx, drop.ID)
	assert.Error(t, err)
}
