package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveRead(t *testing.T) {
	store, err := NewLocalStorage(filepath.Join(t.TempDir(), "kv"))
	require.NoError(t, err)

	_, found, err := store.Read("ghs_students.json")
	require.NoError(t, err)
	assert.False(t, found)

	name, err := store.Save("ghs_students.json", []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "ghs_students.json", name)

	_, err = store.Save("ghs_students.json", []byte(`[{"id":"1"}]`))
	require.NoError(t, err)

	data, found, err := store.Read("ghs_students.json")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"1"}]`, string(data))

	entries, err := os.ReadDir(filepath.Dir(store.Path("ghs_students.json")))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("old.csv", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save("fresh.csv", []byte("b"))
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path("old.csv"), past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)

	_, found, err := store.Read("fresh.csv")
	require.NoError(t, err)
	assert.True(t, found)
}
