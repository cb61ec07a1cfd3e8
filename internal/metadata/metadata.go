// Package metadata holds the immutable, once-loaded summary of the whole
// graph: version, counts, and per-partition weight
// vectors for nodes and edges by type.
package metadata

// Metadata is a read-only snapshot loaded once at startup.
type Metadata struct {
	Version string

	NodeCount        uint64
	EdgeCount        uint64
	NodeTypeCount    uint32
	EdgeTypeCount    uint32
	NodeFeatureCount uint32
	EdgeFeatureCount uint32
	PartitionCount   uint32

	// NodeWeights[p] holds one weight per node type for partition p.
	NodeWeights [][]float32
	// EdgeWeights[p] holds one weight per edge type for partition p.
	EdgeWeights [][]float32

	// NodeCountByType[t] is the total node count for type t.
	NodeCountByType []uint64
	// EdgeCountByType[t] is the total edge count for type t.
	EdgeCountByType []uint64
}

// Snapshot is the flattened reply shape used by get_metadata:
// per-partition weight vectors are laid out partition-major, type-minor
// into one flat array each, matching every other RPC reply array shape.
type Snapshot struct {
	Version string

	NodeCount        uint64
	EdgeCount        uint64
	NodeTypeCount    uint32
	EdgeTypeCount    uint32
	NodeFeatureCount uint32
	EdgeFeatureCount uint32
	PartitionCount   uint32

	NodeWeights []float32 // len == PartitionCount * NodeTypeCount
	EdgeWeights []float32 // len == PartitionCount * EdgeTypeCount

	NodeCountByType []uint64
	EdgeCountByType []uint64
}

// Snapshot flattens Metadata into the RPC reply shape.
func (m *Metadata) Snapshot() Snapshot {
	s := Snapshot{
		Version:          m.Version,
		NodeCount:        m.NodeCount,
		EdgeCount:        m.EdgeCount,
		NodeTypeCount:    m.NodeTypeCount,
		EdgeTypeCount:    m.EdgeTypeCount,
		NodeFeatureCount: m.NodeFeatureCount,
		EdgeFeatureCount: m.EdgeFeatureCount,
		PartitionCount:   m.PartitionCount,
		NodeCountByType:  m.NodeCountByType,
		EdgeCountByType:  m.EdgeCountByType,
	}
	for _, w := range m.NodeWeights {
		s.NodeWeights = append(s.NodeWeights, w...)
	}
	for _, w := range m.EdgeWeights {
		s.EdgeWeights = append(s.EdgeWeights, w...)
	}
	return s
}
