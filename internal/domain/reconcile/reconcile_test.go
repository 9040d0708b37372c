package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doc is a minimal child record for engine tests: natural key DocID within
// one scope, mutable SortPriority and GroupID.
type doc struct {
	ID           int64
	DocID        int64
	GroupID      int64
	SortPriority int
}

func docOptions() Options[doc, int64] {
	return Options[doc, int64]{
		Key: func(d doc) int64 { return d.DocID },
		Changed: func(cur, req doc) bool {
			return cur.SortPriority != req.SortPriority || cur.GroupID != req.GroupID
		},
		Merge: func(cur, req doc) doc {
			cur.SortPriority = req.SortPriority
			cur.GroupID = req.GroupID
			return cur
		},
	}
}

func keys(docs []doc) []int64 {
	out := make([]int64, len(docs))
	for i, d := range docs {
		out[i] = d.DocID
	}
	return out
}

func TestPartition_RemovalOnly(t *testing.T) {
	// current = [doc1 sp1, doc2 sp2, doc3 sp3], requested = [doc1, doc2]
	current := []doc{
		{ID: 11, DocID: 1, SortPriority: 1},
		{ID: 12, DocID: 2, SortPriority: 2},
		{ID: 13, DocID: 3, SortPriority: 3},
	}
	requested := []doc{{DocID: 1}, {DocID: 2}}
	NormalizePriorities(requested, func(d *doc, p int) { d.SortPriority = p })

	diff := Partition(current, requested, docOptions())

	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Updated)
	require.Len(t, diff.Removed, 1)
	assert.Equal(t, int64(3), diff.Removed[0].DocID)
	assert.Equal(t, int64(13), diff.Removed[0].ID)
}

func TestPartition_SwappedPrioritiesUpdateBoth(t *testing.T) {
	// current = [doc1 sp1, doc2 sp2], requested = [doc2, doc1]
	current := []doc{
		{ID: 11, DocID: 1, SortPriority: 1},
		{ID: 12, DocID: 2, SortPriority: 2},
	}
	requested := []doc{{DocID: 2}, {DocID: 1}}
	NormalizePriorities(requested, func(d *doc, p int) { d.SortPriority = p })

	diff := Partition(current, requested, docOptions())

	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Removed)
	require.Len(t, diff.Updated, 2)
	// Updated preserves current order; priorities come from the request.
	assert.Equal(t, int64(1), diff.Updated[0].DocID)
	assert.Equal(t, 2, diff.Updated[0].SortPriority)
	assert.Equal(t, int64(2), diff.Updated[1].DocID)
	assert.Equal(t, 1, diff.Updated[1].SortPriority)
	// Identity survives the merge.
	assert.Equal(t, int64(11), diff.Updated[0].ID)
	assert.Equal(t, int64(12), diff.Updated[1].ID)
}

func TestPartition_ColdScopeAddsAllInRequestOrder(t *testing.T) {
	requested := []doc{{DocID: 1}, {DocID: 2}}
	NormalizePriorities(requested, func(d *doc, p int) { d.SortPriority = p })

	diff := Partition(nil, requested, docOptions())

	assert.Empty(t, diff.Updated)
	assert.Empty(t, diff.Removed)
	require.Len(t, diff.Added, 2)
	assert.Equal(t, []int64{1, 2}, keys(diff.Added))
	assert.Equal(t, 1, diff.Added[0].SortPriority)
	assert.Equal(t, 2, diff.Added[1].SortPriority)
}

func TestPartition_IdenticalInputIsEmptyDiff(t *testing.T) {
	current := []doc{
		{ID: 11, DocID: 1, GroupID: 4, SortPriority: 1},
		{ID: 12, DocID: 2, GroupID: 4, SortPriority: 2},
	}
	requested := []doc{{DocID: 1, GroupID: 4}, {DocID: 2, GroupID: 4}}
	NormalizePriorities(requested, func(d *doc, p int) { d.SortPriority = p })

	diff := Partition(current, requested, docOptions())

	assert.True(t, diff.Empty())
}

func TestPartition_EmptyRequestRemovesEverything(t *testing.T) {
	current := []doc{
		{ID: 11, DocID: 1, SortPriority: 1},
		{ID: 12, DocID: 2, SortPriority: 2},
	}

	diff := Partition(current, nil, docOptions())

	assert.Empty(t, diff.Added)
	assert.Empty(t, diff.Updated)
	assert.Equal(t, []int64{1, 2}, keys(diff.Removed))

	// And the degenerate case: nothing on either side.
	assert.True(t, Partition[doc, int64](nil, nil, docOptions()).Empty())
}

func TestPartition_PartitionsAreDisjoint(t *testing.T) {
	current := []doc{
		{ID: 11, DocID: 1, SortPriority: 1},
		{ID: 12, DocID: 2, SortPriority: 2},
		{ID: 13, DocID: 3, SortPriority: 3},
		{ID: 14, DocID: 4, SortPriority: 4},
	}
	// doc1 unchanged, doc2 moves, doc3/doc4 dropped, doc5 new.
	requested := []doc{{DocID: 1}, {DocID: 5}, {DocID: 2}}
	NormalizePriorities(requested, func(d *doc, p int) { d.SortPriority = p })

	diff := Partition(current, requested, docOptions())

	seen := make(map[int64]string)
	for _, d := range diff.Added {
		seen[d.DocID] = "added"
	}
	for _, d := range diff.Updated {
		require.NotContains(t, seen, d.DocID)
		seen[d.DocID] = "updated"
	}
	for _, d := range diff.Removed {
		require.NotContains(t, seen, d.DocID)
		seen[d.DocID] = "removed"
	}

	assert.Equal(t, map[int64]string{
		5: "added",
		2: "updated",
		3: "removed",
		4: "removed",
	}, seen)
	// doc1 matched with identical fields: no partition writes it.
	assert.NotContains(t, seen, int64(1))
}

func TestPartition_DuplicateRequestedKeyKeepsFirst(t *testing.T) {
	requested := []doc{{DocID: 7, GroupID: 1}, {DocID: 7, GroupID: 2}}
	NormalizePriorities(requested, func(d *doc, p int) { d.SortPriority = p })

	diff := Partition(nil, requested, docOptions())

	require.Len(t, diff.Added, 1)
	assert.Equal(t, int64(1), diff.Added[0].GroupID)
	assert.Equal(t, 1, diff.Added[0].SortPriority)
}

func TestDedupe_KeepsDensePriorities(t *testing.T) {
	requested := []doc{
		{DocID: 1, GroupID: 1},
		{DocID: 1, GroupID: 2},
		{DocID: 2},
	}

	requested = Dedupe(requested, func(d doc) int64 { return d.DocID })
	NormalizePriorities(requested, func(d *doc, p int) { d.SortPriority = p })

	// The repeated key must not burn a priority slot: [1,1,2] yields
	// priorities 1 and 2, not 1 and 3.
	require.Equal(t, []int64{1, 2}, keys(requested))
	assert.Equal(t, int64(1), requested[0].GroupID)
	assert.Equal(t, 1, requested[0].SortPriority)
	assert.Equal(t, 2, requested[1].SortPriority)
}

func TestNormalizePriorities_OverwritesClientValues(t *testing.T) {
	items := []doc{
		{DocID: 1, SortPriority: 99},
		{DocID: 2, SortPriority: 0},
		{DocID: 3, SortPriority: -5},
	}

	NormalizePriorities(items, func(d *doc, p int) { d.SortPriority = p })

	for i, d := range items {
		assert.Equal(t, i+1, d.SortPriority)
	}
}

func TestMirrorRemove(t *testing.T) {
	snapshot := []doc{
		{ID: 11, DocID: 1},
		{ID: 12, DocID: 2},
		{ID: 13, DocID: 3},
	}
	removed := []doc{{ID: 12, DocID: 2}}

	got := MirrorRemove(snapshot, removed, func(d doc) int64 { return d.DocID })

	assert.Equal(t, []int64{1, 3}, keys(got))

	// No removals: snapshot returned as-is.
	same := MirrorRemove(snapshot, nil, func(d doc) int64 { return d.DocID })
	assert.Equal(t, keys(snapshot), keys(same))
}

func TestMirrorUpdate_AppliesInPlaceAndPreservesOtherFields(t *testing.T) {
	snapshot := []doc{
		{ID: 11, DocID: 1, GroupID: 9, SortPriority: 1},
		{ID: 12, DocID: 2, GroupID: 9, SortPriority: 2},
	}
	updated := []doc{{ID: 11, DocID: 1, GroupID: 9, SortPriority: 5}}

	MirrorUpdate(snapshot, updated, func(d doc) int64 { return d.DocID }, func(snap *doc, upd doc) {
		snap.SortPriority = upd.SortPriority
		snap.GroupID = upd.GroupID
	})

	assert.Equal(t, 5, snapshot[0].SortPriority)
	assert.Equal(t, int64(9), snapshot[0].GroupID)
	assert.Equal(t, int64(11), snapshot[0].ID)
	// Untouched counterpart stays untouched.
	assert.Equal(t, 2, snapshot[1].SortPriority)
}
