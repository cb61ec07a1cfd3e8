package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBackend_OpenAndReadAt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_0.map"), []byte("hello"), 0o644))

	b := NewLocalBackend(dir)
	r, err := b.Open("node_0.map")
	require.NoError(t, err)
	defer r.Close()

	assert.EqualValues(t, 5, r.Size())
	buf := make([]byte, 5)
	n, err := r.ReadAt(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

// Open takes a name relative to the backend's base path; callers must
// not prepend that base path themselves.
func TestLocalBackend_OpenIsRelativeToBasePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_0.map"), []byte("x"), 0o644))

	b := NewLocalBackend(dir)
	_, err := b.Open("node_0.map")
	require.NoError(t, err)

	_, err = b.Open(dir + "/node_0.map")
	assert.Error(t, err)
}

func TestLocalBackend_ListSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "neighbors_0.bin"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "node_0.map"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))

	b := NewLocalBackend(dir)
	names, err := b.List("")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"neighbors_0.bin", "node_0.map"}, names)
}

func TestLocalBackend_OpenMissingFile(t *testing.T) {
	b := NewLocalBackend(t.TempDir())
	_, err := b.Open("missing.map")
	assert.Error(t, err)
}
