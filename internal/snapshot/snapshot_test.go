package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "snapshots"))
	require.NoError(t, err)
	return store
}

func strPtr(s string) *string { return &s }

func TestSaveAndPop(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("/a/b.txt", strPtr("original")))

	content, ok, err := store.Pop("/a/b.txt")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotNil(t, content)
	assert.Equal(t, "original", *content)
}

func TestPopIsLIFO(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("/f.txt", strPtr("v1")))
	require.NoError(t, store.Save("/f.txt", strPtr("v2")))
	require.NoError(t, store.Save("/f.txt", strPtr("v3")))

	for _, want := range []string{"v3", "v2", "v1"} {
		content, ok, err := store.Pop("/f.txt")
		require.NoError(t, err)
		require.True(t, ok)
		require.NotNil(t, content)
		assert.Equal(t, want, *content)
	}

	_, ok, err := store.Pop("/f.txt")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAbsentFileSnapshot(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("/new.txt", nil))

	content, ok, err := store.Pop("/new.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, content)
}

func TestPopOnEmptyStore(t *testing.T) {
	store := newTestStore(t)

	content, ok, err := store.Pop("/never-saved.txt")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, content)
}

func TestPathsAreIndependent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save("/a.txt", strPtr("aaa")))
	require.NoError(t, store.Save("/b.txt", strPtr("bbb")))

	content, ok, err := store.Pop("/b.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bbb", *content)

	content, ok, err = store.Pop("/a.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aaa", *content)
}

func TestStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save("/f.txt", strPtr("persisted")))

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	content, ok, err := reopened.Pop("/f.txt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", *content)
}

func TestPopRemovesContentFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Save("/f.txt", strPtr("x")))

	_, _, err = store.Pop("/f.txt")
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, "index.json", e.Name())
	}
}
