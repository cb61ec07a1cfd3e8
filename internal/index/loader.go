package index

import (
	"encoding/binary"
	"fmt"

	graphserrors "github.com/23skdu/graphserving/internal/errors"
	"github.com/23skdu/graphserving/internal/graph"
	"github.com/23skdu/graphserving/internal/metrics"
	"github.com/23skdu/graphserving/internal/storage"
	"go.uber.org/zap"
)

// recordSize is the fixed width, in bytes, of one node-map record:
// u64 global_id, u64 local_index, i32 node_type.
const recordSize = 20

// Load reads "node_<suffix>.map" for each suffix, in the order given
// (callers pass suffixes already sorted lexicographically — the sorted
// position is the partition index), and builds the node location index.
// Names are resolved relative to backend's own base path; callers must
// not prepend one themselves. Any open or short-read failure is fatal.
func Load(backend storage.Backend, suffixes []string, logger *zap.Logger) (*Index, error) {
	b := NewBuilder()

	for p, suffix := range suffixes {
		name := fmt.Sprintf("node_%s.map", suffix)
		if err := loadPartition(b, backend, name, graph.PartitionIndex(p)); err != nil {
			return nil, err
		}
	}

	idx := b.Build()
	metrics.IndexNodesLoaded.Set(float64(idx.NumNodes()))
	metrics.IndexRunSlotsTotal.Set(float64(idx.NumSlots()))
	metrics.PartitionsLoaded.Set(float64(len(suffixes)))
	logger.Info("node location index built",
		zap.Int("partitions", len(suffixes)),
		zap.Int("nodes", idx.NumNodes()),
		zap.Int("run_slots", idx.NumSlots()),
	)
	return idx, nil
}

func loadPartition(b *Builder, backend storage.Backend, name string, p graph.PartitionIndex) error {
	r, err := backend.Open(name)
	if err != nil {
		return graphserrors.WrapStorageError(err, "loadPartition", "failed to open node-map file "+name)
	}
	defer r.Close()

	size := r.Size()
	if size%recordSize != 0 {
		return graphserrors.NewCorruptionError("loadPartition", fmt.Sprintf("node-map file %s size %d is not a multiple of %d", name, size, recordSize))
	}
	count := size / recordSize

	buf := make([]byte, recordSize)
	for i := int64(0); i < count; i++ {
		n, err := r.ReadAt(buf, i*recordSize)
		if err != nil || n != recordSize {
			return graphserrors.WrapStorageError(err, "loadPartition", fmt.Sprintf("short read of node-map record %d in %s", i, name))
		}

		globalID := graph.NodeId(binary.LittleEndian.Uint64(buf[0:8]))
		localIndex := graph.LocalIndex(binary.LittleEndian.Uint64(buf[8:16]))
		// node_type occupies buf[16:20]; read but not asserted here — the
		// partition's own GetNodeType is authoritative.
		_ = int32(binary.LittleEndian.Uint32(buf[16:20]))

		if int64(localIndex) != i {
			return graphserrors.NewCorruptionError("loadPartition", fmt.Sprintf("record %d in %s has local_index=%d, want %d", i, name, localIndex, i))
		}

		b.Insert(globalID, p, localIndex)
	}
	return nil
}
