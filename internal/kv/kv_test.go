package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/amterp/kanboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	fileStore, err := NewFileStore(config.NewPaths(t.TempDir()))
	require.NoError(t, err)

	sqliteStore, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "board.db"))
	require.NoError(t, err)

	stores := map[string]Store{
		"memory": NewMemoryStore(0),
		"file":   fileStore,
		"sqlite": sqliteStore,
	}

	if url := os.Getenv("KANBOARD_TEST_REDIS"); url != "" {
		redisStore, err := OpenRedis(ctx, url)
		require.NoError(t, err)
		stores["redis"] = redisStore
	}

	t.Cleanup(func() {
		for _, s := range stores {
			s.Close()
		}
	})
	return stores
}

func TestStore_Conformance(t *testing.T) {
	ctx := context.Background()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := "kanboard-test-" + name

			_, err := store.Get(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Set(ctx, key, []byte(`{"columns":[]}`)))
			got, err := store.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `{"columns":[]}`, string(got))

			// Overwrite wins
			require.NoError(t, store.Set(ctx, key, []byte(`{"columns":[1]}`)))
			got, err = store.Get(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, `{"columns":[1]}`, string(got))

			require.NoError(t, store.Delete(ctx, key))
			_, err = store.Get(ctx, key)
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting a missing key is not an error
			assert.NoError(t, store.Delete(ctx, key))
		})
	}
}

func TestMemoryStore_Quota(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(4)

	err := store.Set(ctx, "k", []byte("too long"))
	assert.True(t, errors.Is(err, ErrQuotaExceeded))

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound, "rejected write must not be stored")

	assert.NoError(t, store.Set(ctx, "k", []byte("ok")))
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(0)

	value := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(config.NewPaths(dir))
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, "board-state", []byte("{}")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "board-state.json", entries[0].Name())
}

func TestSQLiteStore_InMemory(t *testing.T) {
	ctx := context.Background()
	store, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set(ctx, "a", []byte("1")))
	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()
	paths := config.NewPaths(t.TempDir())

	for _, backend := range []string{config.BackendFile, config.BackendSQLite, config.BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			settings := config.DefaultSettings()
			settings.Backend = backend

			store, err := Open(ctx, settings, paths)
			require.NoError(t, err)
			defer store.Close()

			require.NoError(t, store.Set(ctx, "k", []byte("v")))
		})
	}

	settings := config.DefaultSettings()
	settings.Backend = "browser"
	_, err := Open(ctx, settings, paths)
	assert.Error(t, err)
}
