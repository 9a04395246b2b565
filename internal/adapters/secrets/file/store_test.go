package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/summ/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRejectsInvalidKeys(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	testCases := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "blank", key: "  "},
		{name: "absolute", key: "/etc/passwd"},
		{name: "parent", key: ".."},
		{name: "traversal", key: "../summ/session"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := store.Put(context.Background(), tc.key, "value")
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestStorePutGetOverwriteAndPermissions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	store := NewStore(root)
	key := "summ/gemini/api_key"

	require.NoError(t, store.Put(context.Background(), key, "first"))
	require.NoError(t, store.Put(context.Background(), key, "second"))

	got, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, "second", got)

	info, err := os.Stat(filepath.Join(root, "summ", "gemini", "api_key"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(secretMode), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Join(root, "summ", "gemini"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not survive a write")
}

func TestStoreGetMissingSecret(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())

	_, err := store.Get(context.Background(), "summ/session")
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteIsIdempotent(t *testing.T) {
	t.Parallel()

	store := NewStore(t.TempDir())
	key := "summ/session"

	require.NoError(t, store.Put(context.Background(), key, "token"))
	require.NoError(t, store.Delete(context.Background(), key))
	require.NoError(t, store.Delete(context.Background(), key))

	_, err := store.Get(context.Background(), key)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreHonoursCanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore(t.TempDir())
	require.ErrorIs(t, store.Put(ctx, "summ/session", "token"), context.Canceled)
	_, err := store.Get(ctx, "summ/session")
	require.ErrorIs(t, err, context.Canceled)
}
