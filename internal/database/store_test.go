package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	id, err := store.Insert(ctx, CollectionMembers, map[string]any{"name": "Asha", "photo": "p.jpg"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	other, err := store.Insert(ctx, CollectionEvents, map[string]any{"title": "Camp"})
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	doc, err := store.GetByID(ctx, CollectionMembers, id)
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Equal(t, "Asha", doc.Fields["name"])

	_, err = store.GetByID(ctx, CollectionEvents, id)
	assert.ErrorIs(t, err, ErrNotFound, "ids are scoped to their collection")

	require.NoError(t, store.Update(ctx, CollectionMembers, id, map[string]any{"photo": "q.jpg"}))
	doc, err = store.GetByID(ctx, CollectionMembers, id)
	require.NoError(t, err)
	assert.Equal(t, "Asha", doc.Fields["name"], "update merges")
	assert.Equal(t, "q.jpg", doc.Fields["photo"])

	assert.ErrorIs(t, store.Update(ctx, CollectionMembers, "missing", map[string]any{"a": "b"}), ErrNotFound)
	assert.ErrorIs(t, store.Update(ctx, CollectionMembers, id, map[string]any{"a": nil}), ErrInvalidArgument)
	_, err = store.Insert(ctx, CollectionMembers, map[string]any{"a": nil})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	docs, err := store.ListAll(ctx, CollectionMembers)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	n, err := store.Count(ctx, CollectionEvents)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, store.Delete(ctx, CollectionMembers, id))
	assert.ErrorIs(t, store.Delete(ctx, CollectionMembers, id), ErrNotFound)

	docs, err = store.ListAll(ctx, CollectionMembers)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteNumbersRoundTrip(t *testing.T) {
	store, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	id, err := store.Insert(ctx, CollectionEvents, map[string]any{
		"beneficiaries": 12,
		"images":        []string{"a", "b"},
	})
	require.NoError(t, err)

	doc, err := store.GetByID(ctx, CollectionEvents, id)
	require.NoError(t, err)
	assert.EqualValues(t, 12, doc.Fields["beneficiaries"])
	assert.Equal(t, []any{"a", "b"}, doc.Fields["images"])
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbName := "trustsite_test_" + time.Now().Format("150405")
	store, err := NewMongoStore(ctx, uri, dbName)
	require.NoError(t, err)
	defer func() {
		_ = store.db.Drop(context.Background())
		store.Close()
	}()

	exerciseStore(t, store)
}
