package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores_SetGetExpire(t *testing.T) {
	stores := map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json")),
	}
	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			_, ok, err := store.Get(KeyToken)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, store.Set(KeyToken, "tok", time.Time{}))
			require.NoError(t, store.Set(KeyUserID, "u1", time.Time{}))

			got, ok, err := store.Get(KeyToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "tok", got)

			require.NoError(t, store.Expire(KeyToken))
			require.NoError(t, store.Expire(KeyToken))

			_, ok, _ = store.Get(KeyToken)
			assert.False(t, ok)
			got, ok, _ = store.Get(KeyUserID)
			assert.True(t, ok)
			assert.Equal(t, "u1", got)
		})
	}
}

func TestMemoryStore_EntriesExpire(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(KeyToken, "tok", now.Add(time.Minute)))
	_, ok, _ := store.Get(KeyToken)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = store.Get(KeyToken)
	assert.False(t, ok)
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := NewFileStore(path)
	first.now = func() time.Time { return now }
	require.NoError(t, first.Set(KeyToken, "tok", now.Add(time.Hour)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	second := NewFileStore(path)
	second.now = func() time.Time { return now.Add(30 * time.Minute) }
	got, ok, err := second.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", got)

	second.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, ok, err = second.Get(KeyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFileStore(path).Get(KeyToken)
	assert.Error(t, err)
}
