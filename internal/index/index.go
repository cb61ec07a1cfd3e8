// Package index implements the node location index: the in-memory
// structure mapping a global node id to the ordered list of
// (partition_index, local_index) pairs this server holds for it.
//
// Every node's run of pairs lives in a pair of flat, append-only arrays
// addressed by an offset recorded in a hash map, rather than one owned
// slice per node. The two conceptually parallel arrays (internal_indices,
// partitions_indices) are fused into one []uint64 of packed
// (partition, local) pairs — cache-friendlier than two separate slices.
// See DESIGN.md for the rationale behind this layout choice.
package index

import "github.com/23skdu/graphserving/internal/graph"

// Index is immutable after Build/Load returns.
type Index struct {
	offsets map[graph.NodeId]uint32
	pairs   []uint64
	counts  []uint32
}

// NewBuilder starts an empty index under construction.
func NewBuilder() *Builder {
	return &Builder{
		offsets: make(map[graph.NodeId]uint32),
	}
}

// Builder accumulates runs while partitions are loaded in sorted order.
// Not safe for concurrent use; loading proceeds one partition at a time.
type Builder struct {
	offsets map[graph.NodeId]uint32
	pairs   []uint64
	counts  []uint32
}

// Insert records one more (partition, local) occurrence for id. If id is
// already known, its run is copied to the end of the arrays with the new
// pair appended (append-only growth; the old run becomes dead space).
func (b *Builder) Insert(id graph.NodeId, p graph.PartitionIndex, local graph.LocalIndex) {
	packed := graph.PackPair(p, local)

	off, ok := b.offsets[id]
	if !ok {
		newOffset := uint32(len(b.pairs))
		b.pairs = append(b.pairs, packed)
		b.counts = append(b.counts, 1)
		b.offsets[id] = newOffset
		return
	}

	oldCount := b.counts[off]
	newOffset := uint32(len(b.pairs))
	for k := uint32(0); k < oldCount; k++ {
		b.pairs = append(b.pairs, b.pairs[off+k])
	}
	b.pairs = append(b.pairs, packed)
	newCount := oldCount + 1
	for k := uint32(0); k < newCount; k++ {
		b.counts = append(b.counts, newCount)
	}
	b.offsets[id] = newOffset
}

// Build finalizes the index. The Builder must not be used afterward.
func (b *Builder) Build() *Index {
	return &Index{offsets: b.offsets, pairs: b.pairs, counts: b.counts}
}

// NumNodes returns the number of distinct node ids known so far.
func (b *Builder) NumNodes() int { return len(b.offsets) }

// NumSlots returns the total number of run slots recorded so far,
// including abandoned runs left behind by growth.
func (b *Builder) NumSlots() int { return len(b.pairs) }

// Find returns the run for id: an offset into At and its length. ok is
// false if id is unknown to this server.
func (idx *Index) Find(id graph.NodeId) (offset uint32, count uint32, ok bool) {
	off, found := idx.offsets[id]
	if !found {
		return 0, 0, false
	}
	return off, idx.counts[off], true
}

// At returns the k-th pair of a run starting at offset.
func (idx *Index) At(offset uint32, k uint32) (graph.PartitionIndex, graph.LocalIndex) {
	return graph.UnpackPair(idx.pairs[offset+k])
}

// NumNodes returns the number of distinct node ids in the index.
func (idx *Index) NumNodes() int { return len(idx.offsets) }

// NumSlots returns the total number of run slots, including dead space
// left behind by run copies during loading.
func (idx *Index) NumSlots() int { return len(idx.pairs) }
