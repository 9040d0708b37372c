package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincache "claimsdesk/internal/domain/cache"
)

type row struct {
	ID   int64
	Name string
}

func TestStore_ExistGetSet(t *testing.T) {
	store := NewStore(DefaultConfig())
	ctx := context.Background()

	assert.False(t, store.Exist(ctx, "snapshot:rows"))
	_, ok := store.Get(ctx, "snapshot:rows")
	assert.False(t, ok)

	store.Set(ctx, "snapshot:rows", []row{{ID: 1, Name: "a"}})

	assert.True(t, store.Exist(ctx, "snapshot:rows"))
	got, ok := store.Get(ctx, "snapshot:rows")
	require.True(t, ok)
	assert.Equal(t, []row{{ID: 1, Name: "a"}}, got)
}

func TestStore_SetOverwrites(t *testing.T) {
	store := NewStore(DefaultConfig())
	ctx := context.Background()

	store.Set(ctx, "k", []row{{ID: 1}})
	store.Set(ctx, "k", []row{{ID: 1}, {ID: 2}})

	snap, ok := domaincache.Snapshot[row](ctx, store, "k")
	require.True(t, ok)
	assert.Len(t, snap, 2)
}

func TestStore_TypedSnapshotMismatchIsMiss(t *testing.T) {
	store := NewStore(DefaultConfig())
	ctx := context.Background()

	store.Set(ctx, "k", "not a slice")
	_, ok := domaincache.Snapshot[row](ctx, store, "k")
	assert.False(t, ok)
}
