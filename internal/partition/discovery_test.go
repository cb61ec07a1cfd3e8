package partition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/23skdu/graphserving/internal/storage"
)

// fakeBackend is a minimal storage.Backend that joins a fixed base path
// internally, mirroring LocalBackend/S3Backend, so callers that
// mistakenly re-prepend a base path get a miss.
type fakeBackend struct {
	basePath string
	names    []string
}

func (b *fakeBackend) Open(name string) (storage.Reader, error) { return nil, assert.AnError }

func (b *fakeBackend) List(dir string) ([]string, error) {
	if dir != "" {
		return nil, assert.AnError
	}
	return b.names, nil
}

func TestDiscoverSuffixes_DoesNotDoublePrefixBasePath(t *testing.T) {
	backend := &fakeBackend{
		basePath: "data/graph",
		names:    []string{"neighbors_0.bin", "neighbors_1.bin", "node_0.map"},
	}

	suffixes, err := DiscoverSuffixes(backend, []uint32{0, 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, suffixes)
}

func TestDiscoverSuffixes_FiltersByAssignedPrefix(t *testing.T) {
	backend := &fakeBackend{names: []string{"neighbors_0_a.bin", "neighbors_2_a.bin"}}

	suffixes, err := DiscoverSuffixes(backend, []uint32{0})
	require.NoError(t, err)
	assert.Equal(t, []string{"0_a"}, suffixes)
}

func TestDiscoverSuffixes_DedupesRepeatedSuffix(t *testing.T) {
	backend := &fakeBackend{names: []string{"neighbors_0.bin", "neighbors_0.idx"}}

	suffixes, err := DiscoverSuffixes(backend, []uint32{0})
	require.NoError(t, err)
	assert.Equal(t, []string{"0"}, suffixes)
}

func TestParsePrefix(t *testing.T) {
	v, err := ParsePrefix("0_003")
	require.NoError(t, err)
	assert.EqualValues(t, 0, v)

	_, err = ParsePrefix("abc")
	assert.Error(t, err)
}
