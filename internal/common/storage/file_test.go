package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreSetGetDel(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "payment-method.draft.v2.user-a", `{"sessionId":"s1"}`))
	val, err := store.Get(ctx, "payment-method.draft.v2.user-a")
	require.NoError(t, err)
	assert.Equal(t, `{"sessionId":"s1"}`, val)

	require.NoError(t, store.Set(ctx, "payment-method.draft.v2.user-a", "overwritten"))
	val, err = store.Get(ctx, "payment-method.draft.v2.user-a")
	require.NoError(t, err)
	assert.Equal(t, "overwritten", val)

	require.NoError(t, store.Del(ctx, "payment-method.draft.v2.user-a"))
	_, err = store.Get(ctx, "payment-method.draft.v2.user-a")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing key is not an error.
	require.NoError(t, store.Del(ctx, "payment-method.draft.v2.user-a"))
}

func TestFileStoreKeysByPrefix(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "payment-method.draft.v2.a", "1"))
	require.NoError(t, store.Set(ctx, "payment-method.sessionId.a", "2"))
	require.NoError(t, store.Set(ctx, "payroll-area.draft.v2.a", "3"))

	keys, err := store.Keys(ctx, "payment-method.")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"payment-method.draft.v2.a",
		"payment-method.sessionId.a",
	}, keys)
}

func TestFileStoreUnsafeKeyCharacters(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	// User identifiers can carry slashes; they must not escape the
	// storage directory.
	key := "payment-method.draft.v2.org/team/user"
	require.NoError(t, store.Set(ctx, key, "v"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), string(filepath.Separator))

	val, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	keys, err := store.Keys(ctx, "payment-method.")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
