package docstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "data", "database.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestStore_CreateAndRead(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, Document{Title: "Pricing", Content: "Plans and prices.", MimeType: "text/plain"})
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	content, err := store.ReadContent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Plans and prices.", content)

	title, processed, err := store.ReadStatus(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Pricing", title)
	assert.False(t, processed)

	doc, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", doc.MimeType)
}

func TestStore_WriteStatus(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, Document{Title: "Doc", Content: "x"})
	require.NoError(t, err)

	require.NoError(t, store.WriteStatus(ctx, id, true))

	_, processed, err := store.ReadStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestStore_NotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.ReadContent(ctx, "99")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, _, err = store.ReadStatus(ctx, "99")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	assert.ErrorIs(t, store.WriteStatus(ctx, "99", true), ErrDocumentNotFound)
}

func TestStore_NullContentReadsEmpty(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO Documents (id, title, createdAt, updatedAt) VALUES (7, 'Empty', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`)
	require.NoError(t, err)

	content, err := store.ReadContent(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "", content)
}

func TestStore_ListIDs(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := store.Create(ctx, Document{Title: title, Content: title})
		require.NoError(t, err)
	}
	require.NoError(t, store.WriteStatus(ctx, "2", true))

	all, err := store.ListIDs(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, all)

	processed, err := store.ListIDs(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, processed)
}

func TestStore_Health(t *testing.T) {
	store := setupTestStore(t)
	assert.NoError(t, store.Health(context.Background()))
}
