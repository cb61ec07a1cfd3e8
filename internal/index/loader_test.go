package index

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/23skdu/graphserving/internal/graph"
	"github.com/23skdu/graphserving/internal/storage"
)

// memBackend is a minimal in-memory storage.Backend for exercising Load
// without touching the filesystem. Like LocalBackend and S3Backend, it
// joins its own basePath internally, so a caller that mistakenly
// re-prepends one gets a miss rather than a silent pass.
type memBackend struct {
	basePath string
	files    map[string][]byte
}

func newMemBackend() *memBackend { return &memBackend{files: make(map[string][]byte)} }

func newMemBackendAt(basePath string) *memBackend {
	return &memBackend{basePath: basePath, files: make(map[string][]byte)}
}

// put stores data under the file's full path, i.e. basePath joined with
// the relative name that a caller would pass to Open/List.
func (m *memBackend) put(name string, data []byte) {
	m.files[m.join(name)] = data
}

func (m *memBackend) join(name string) string {
	if m.basePath == "" {
		return name
	}
	return m.basePath + "/" + name
}

func (m *memBackend) Open(name string) (storage.Reader, error) {
	data, ok := m.files[m.join(name)]
	if !ok {
		return nil, assert.AnError
	}
	return &memReader{data: data}, nil
}

func (m *memBackend) List(dir string) ([]string, error) {
	prefix := m.join(dir)
	var names []string
	for name := range m.files {
		names = append(names, strings.TrimPrefix(name, prefix+"/"))
	}
	return names, nil
}

type memReader struct{ data []byte }

func (r *memReader) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(r.data).ReadAt(p, off)
}
func (r *memReader) Close() error { return nil }
func (r *memReader) Size() int64  { return int64(len(r.data)) }

func nodeMapRecord(globalID uint64, localIndex uint64, nodeType int32) []byte {
	buf := make([]byte, recordSize)
	binary.LittleEndian.PutUint64(buf[0:8], globalID)
	binary.LittleEndian.PutUint64(buf[8:16], localIndex)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(nodeType))
	return buf
}

func TestLoad_DoesNotDoublePrefixBasePath(t *testing.T) {
	backend := newMemBackendAt("data/graph")
	var buf bytes.Buffer
	buf.Write(nodeMapRecord(10, 0, 1))
	backend.put("node_0.map", buf.Bytes())

	idx, err := Load(backend, []string{"0"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, idx.NumNodes())
}

func TestLoad_SinglePartition(t *testing.T) {
	backend := newMemBackend()
	var buf bytes.Buffer
	buf.Write(nodeMapRecord(10, 0, 1))
	buf.Write(nodeMapRecord(20, 1, 2))
	backend.put("node_0.map", buf.Bytes())

	idx, err := Load(backend, []string{"0"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, idx.NumNodes())

	off, count, ok := idx.Find(graph.NodeId(10))
	require.True(t, ok)
	require.EqualValues(t, 1, count)
	p, local := idx.At(off, 0)
	assert.EqualValues(t, 0, p)
	assert.EqualValues(t, 0, local)
}

func TestLoad_ReplicatedAcrossPartitions(t *testing.T) {
	backend := newMemBackend()
	var buf0, buf1 bytes.Buffer
	buf0.Write(nodeMapRecord(10, 0, 1))
	buf1.Write(nodeMapRecord(10, 0, 1))
	backend.put("node_a.map", buf0.Bytes())
	backend.put("node_b.map", buf1.Bytes())

	idx, err := Load(backend, []string{"a", "b"}, zap.NewNop())
	require.NoError(t, err)

	_, count, ok := idx.Find(graph.NodeId(10))
	require.True(t, ok)
	assert.EqualValues(t, 2, count)
}

func TestLoad_CorruptSize(t *testing.T) {
	backend := newMemBackend()
	backend.put("node_0.map", []byte{1, 2, 3})

	_, err := Load(backend, []string{"0"}, zap.NewNop())
	assert.Error(t, err)
}

func TestLoad_CorruptLocalIndex(t *testing.T) {
	backend := newMemBackend()
	var buf bytes.Buffer
	buf.Write(nodeMapRecord(10, 5, 0)) // local_index should be 0 at position 0
	backend.put("node_0.map", buf.Bytes())

	_, err := Load(backend, []string{"0"}, zap.NewNop())
	assert.Error(t, err)
}
