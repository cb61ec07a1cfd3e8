// Package memio is a reference Partition implementation that
// keeps every record already decoded in memory as struct-of-slices, one
// entry per local index. It exists to exercise the query composer in
// tests and as a worked example of the contract; a production shard
// would instead memory-map columnar files straight off disk.
package memio

import (
	"math"
	"math/rand"
	"sort"

	"github.com/23skdu/graphserving/internal/graph"
)

// sparseVec holds one sparse feature's row: a shared dimension plus this
// row's nonzero indices and their packed byte values.
type sparseVec struct {
	Dim     int64
	Indices []int64
	Values  []byte
}

type nodeRecord struct {
	Type    graph.Type
	Dense   map[graph.FeatureId][]byte
	Sparse  map[graph.FeatureId]sparseVec
	Strings map[graph.FeatureId][]byte
}

type edgeRecord struct {
	Dst     graph.NodeId
	Type    graph.Type
	Weight  float32
	Dense   map[graph.FeatureId][]byte
	Sparse  map[graph.FeatureId]sparseVec
	Strings map[graph.FeatureId][]byte
}

// Partition is an in-memory shard: nodes[local] and edges[local] are
// dense arrays addressed directly by graph.LocalIndex.
type Partition struct {
	nodes []nodeRecord
	edges [][]edgeRecord
}

// Builder assembles a Partition one node/edge at a time, in local-index
// order, mirroring how a loader would decode a shard's files.
type Builder struct {
	p Partition
}

// NewBuilder starts an empty shard.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddNode appends a new node, returning its assigned local index.
func (b *Builder) AddNode(nodeType graph.Type) graph.LocalIndex {
	local := graph.LocalIndex(len(b.p.nodes))
	b.p.nodes = append(b.p.nodes, nodeRecord{
		Type:    nodeType,
		Dense:   make(map[graph.FeatureId][]byte),
		Sparse:  make(map[graph.FeatureId]sparseVec),
		Strings: make(map[graph.FeatureId][]byte),
	})
	b.p.edges = append(b.p.edges, nil)
	return local
}

// SetDenseFeature stores the raw bytes for one dense feature column of a node.
func (b *Builder) SetDenseFeature(local graph.LocalIndex, id graph.FeatureId, value []byte) {
	b.p.nodes[local].Dense[id] = value
}

// SetSparseFeature stores one sparse feature row for a node.
func (b *Builder) SetSparseFeature(local graph.LocalIndex, id graph.FeatureId, dim int64, indices []int64, values []byte) {
	b.p.nodes[local].Sparse[id] = sparseVec{Dim: dim, Indices: indices, Values: values}
}

// SetStringFeature stores one string/byte-blob feature for a node.
func (b *Builder) SetStringFeature(local graph.LocalIndex, id graph.FeatureId, value []byte) {
	b.p.nodes[local].Strings[id] = value
}

// AddEdge appends an outgoing edge from local, with optional dense/sparse/
// string feature maps (any may be nil).
func (b *Builder) AddEdge(local graph.LocalIndex, dst graph.NodeId, edgeType graph.Type, weight float32, dense map[graph.FeatureId][]byte, sparse map[graph.FeatureId]struct {
	Dim     int64
	Indices []int64
	Values  []byte
}, strings map[graph.FeatureId][]byte) {
	sv := make(map[graph.FeatureId]sparseVec, len(sparse))
	for id, s := range sparse {
		sv[id] = sparseVec{Dim: s.Dim, Indices: s.Indices, Values: s.Values}
	}
	if dense == nil {
		dense = map[graph.FeatureId][]byte{}
	}
	if strings == nil {
		strings = map[graph.FeatureId][]byte{}
	}
	b.p.edges[local] = append(b.p.edges[local], edgeRecord{
		Dst: dst, Type: edgeType, Weight: weight, Dense: dense, Sparse: sv, Strings: strings,
	})
}

// Build finalizes the shard. The Builder must not be reused afterward.
func (b *Builder) Build() *Partition {
	return &b.p
}

// NumNodes reports how many local indices this shard holds.
func (p *Partition) NumNodes() int { return len(p.nodes) }

func (p *Partition) GetNodeType(local graph.LocalIndex) graph.Type {
	if int(local) >= len(p.nodes) {
		return graph.DefaultType
	}
	return p.nodes[local].Type
}

func (p *Partition) HasNodeFeatures(local graph.LocalIndex) bool {
	return int(local) < len(p.nodes) && len(p.nodes[local].Dense) > 0
}

func (p *Partition) GetNodeFeature(local graph.LocalIndex, features []graph.FeatureMeta, dest []byte) error {
	rec := p.nodes[local]
	var cursor uint32
	for _, f := range features {
		v := rec.Dense[f.ID]
		copy(dest[cursor:cursor+f.Size], v)
		cursor += f.Size
	}
	return nil
}

func (p *Partition) findEdge(local graph.LocalIndex, dstGlobal graph.NodeId, edgeType graph.Type) (edgeRecord, bool) {
	for _, e := range p.edges[local] {
		if e.Dst == dstGlobal && e.Type == edgeType {
			return e, true
		}
	}
	return edgeRecord{}, false
}

func (p *Partition) GetEdgeFeature(local graph.LocalIndex, dstGlobal graph.NodeId, edgeType graph.Type, features []graph.FeatureMeta, dest []byte) (bool, error) {
	e, ok := p.findEdge(local, dstGlobal, edgeType)
	if !ok {
		return false, nil
	}
	var cursor uint32
	for _, f := range features {
		v := e.Dense[f.ID]
		copy(dest[cursor:cursor+f.Size], v)
		cursor += f.Size
	}
	return true, nil
}

func (p *Partition) GetNodeSparseFeature(local graph.LocalIndex, featureIDs []graph.FeatureId, rowID int64, dims []int64, outIndices [][]int64, outValues [][]byte) (bool, error) {
	rec := p.nodes[local]
	found := false
	for i, id := range featureIDs {
		sv, ok := rec.Sparse[id]
		if !ok {
			continue
		}
		found = true
		if dims[i] == 0 {
			dims[i] = sv.Dim
		}
		outIndices[i] = append(outIndices[i], sv.Indices...)
		outValues[i] = append(outValues[i], sv.Values...)
	}
	return found, nil
}

func (p *Partition) GetEdgeSparseFeature(local graph.LocalIndex, dstGlobal graph.NodeId, edgeType graph.Type, featureIDs []graph.FeatureId, rowID int64, dims []int64, outIndices [][]int64, outValues [][]byte) (bool, error) {
	e, ok := p.findEdge(local, dstGlobal, edgeType)
	if !ok {
		return false, nil
	}
	found := false
	for i, id := range featureIDs {
		sv, ok := e.Sparse[id]
		if !ok {
			continue
		}
		found = true
		if dims[i] == 0 {
			dims[i] = sv.Dim
		}
		outIndices[i] = append(outIndices[i], sv.Indices...)
		outValues[i] = append(outValues[i], sv.Values...)
	}
	return found, nil
}

func (p *Partition) GetNodeStringFeature(local graph.LocalIndex, featureIDs []graph.FeatureId, dimsForRow []int64, outValues *[]byte) (bool, error) {
	rec := p.nodes[local]
	found := false
	for i, id := range featureIDs {
		v := rec.Strings[id]
		if v != nil {
			found = true
		}
		dimsForRow[i] = int64(len(v))
		*outValues = append(*outValues, v...)
	}
	return found, nil
}

func (p *Partition) GetEdgeStringFeature(local graph.LocalIndex, dstGlobal graph.NodeId, edgeType graph.Type, featureIDs []graph.FeatureId, dimsForRow []int64, outValues *[]byte) (bool, error) {
	e, ok := p.findEdge(local, dstGlobal, edgeType)
	if !ok {
		return false, nil
	}
	found := false
	for i, id := range featureIDs {
		v := e.Strings[id]
		if v != nil {
			found = true
		}
		dimsForRow[i] = int64(len(v))
		*outValues = append(*outValues, v...)
	}
	return found, nil
}

func typeMatches(edgeTypes []graph.Type, t graph.Type) bool {
	if len(edgeTypes) == 0 {
		return true
	}
	i := sort.Search(len(edgeTypes), func(i int) bool { return edgeTypes[i] >= t })
	return i < len(edgeTypes) && edgeTypes[i] == t
}

func (p *Partition) NeighborCount(local graph.LocalIndex, edgeTypes []graph.Type) uint64 {
	var n uint64
	for _, e := range p.edges[local] {
		if typeMatches(edgeTypes, e.Type) {
			n++
		}
	}
	return n
}

func (p *Partition) FullNeighbor(local graph.LocalIndex, edgeTypes []graph.Type, outIDs *[]graph.NodeId, outTypes *[]graph.Type, outWeights *[]float32) uint64 {
	var n uint64
	for _, e := range p.edges[local] {
		if !typeMatches(edgeTypes, e.Type) {
			continue
		}
		*outIDs = append(*outIDs, e.Dst)
		*outTypes = append(*outTypes, e.Type)
		*outWeights = append(*outWeights, e.Weight)
		n++
	}
	return n
}

// SampleNeighbor implements weighted reservoir sampling using the A-Chao
// algorithm, which tolerates being invoked repeatedly against the same
// reservoir across several shards holding different edges for the same
// node: shardWeight is the running total weight seen across all calls so
// far for this node, so composing calls across partitions yields a
// correct combined weighted sample without a merge step.
func (p *Partition) SampleNeighbor(seed int64, local graph.LocalIndex, edgeTypes []graph.Type, count int, outIDs []graph.NodeId, outTypes []graph.Type, outWeights []float32, shardWeight *float32, defaultID graph.NodeId, defaultWeight float32, defaultType graph.Type) {
	if count <= 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed ^ int64(local)))
	for _, e := range p.edges[local] {
		if !typeMatches(edgeTypes, e.Type) || e.Weight <= 0 {
			continue
		}
		total := *shardWeight + e.Weight
		if *shardWeight == 0 {
			// first item ever seen: fill every reservoir slot with it
			for i := 0; i < count; i++ {
				outIDs[i] = e.Dst
				outTypes[i] = e.Type
				outWeights[i] = e.Weight
			}
		} else {
			pReplace := float64(count) * float64(e.Weight) / float64(total)
			for i := 0; i < count; i++ {
				if rng.Float64() < pReplace/float64(count) {
					outIDs[i] = e.Dst
					outTypes[i] = e.Type
					outWeights[i] = e.Weight
				}
			}
		}
		*shardWeight = total
	}
	if *shardWeight == 0 {
		for i := 0; i < count; i++ {
			outIDs[i] = defaultID
			outTypes[i] = defaultType
			outWeights[i] = defaultWeight
		}
	}
}

// UniformSampleNeighbor draws count neighbors uniformly at random, with
// or without replacement, using reservoir sampling (Algorithm R) for the
// without-replacement case so it composes across shards the same way
// SampleNeighbor does.
func (p *Partition) UniformSampleNeighbor(withoutReplacement bool, seed int64, local graph.LocalIndex, edgeTypes []graph.Type, count int, outIDs []graph.NodeId, outTypes []graph.Type, shardCount *uint64, defaultID graph.NodeId, defaultType graph.Type) {
	if count <= 0 {
		return
	}
	rng := rand.New(rand.NewSource(seed ^ int64(local) ^ math.MaxInt32))
	for _, e := range p.edges[local] {
		if !typeMatches(edgeTypes, e.Type) {
			continue
		}
		seenBefore := *shardCount
		*shardCount++
		if withoutReplacement {
			if seenBefore < uint64(count) {
				outIDs[seenBefore] = e.Dst
				outTypes[seenBefore] = e.Type
				continue
			}
			j := rng.Int63n(int64(*shardCount))
			if j < int64(count) {
				outIDs[j] = e.Dst
				outTypes[j] = e.Type
			}
			continue
		}
		for i := 0; i < count; i++ {
			if rng.Intn(int(*shardCount)) == 0 {
				outIDs[i] = e.Dst
				outTypes[i] = e.Type
			}
		}
	}
	if *shardCount == 0 {
		for i := 0; i < count; i++ {
			outIDs[i] = defaultID
			outTypes[i] = defaultType
		}
	}
}
