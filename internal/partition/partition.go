// Package partition defines the trait that every loaded shard must
// satisfy so the query composer can implement all six query families
// uniformly. The on-disk encoding behind an implementation is
// out of scope here beyond the node-map file (see internal/index); this
// package only fixes the Go interface the composer programs against.
package partition

import "github.com/23skdu/graphserving/internal/graph"

// Partition is the per-shard operation surface consumed by the query
// composer. Every method is keyed by a local index and must be total for
// any local index in [0, count).
type Partition interface {
	// GetNodeType returns the node's type, or graph.DefaultType if unset.
	GetNodeType(local graph.LocalIndex) graph.Type

	// HasNodeFeatures reports whether this local copy carries dense
	// feature data at all.
	HasNodeFeatures(local graph.LocalIndex) bool

	// GetNodeFeature fills dest in feature-list order. dest must be
	// exactly graph.TotalSize(features) bytes long.
	GetNodeFeature(local graph.LocalIndex, features []graph.FeatureMeta, dest []byte) error

	// GetEdgeFeature fills dest for the edge (local -> dstGlobal, edgeType)
	// and reports whether it was found on this local copy.
	GetEdgeFeature(local graph.LocalIndex, dstGlobal graph.NodeId, edgeType graph.Type, features []graph.FeatureMeta, dest []byte) (bool, error)

	// GetNodeSparseFeature writes a sparse row for each requested feature
	// id into outIndices/outValues (one slice per feature), sets any
	// dimension it learns into dims (shared, idempotent across
	// partitions), and reports whether local carried the feature set.
	GetNodeSparseFeature(local graph.LocalIndex, featureIDs []graph.FeatureId, rowID int64, dims []int64, outIndices [][]int64, outValues [][]byte) (bool, error)

	// GetEdgeSparseFeature is the edge-keyed analogue of
	// GetNodeSparseFeature.
	GetEdgeSparseFeature(local graph.LocalIndex, dstGlobal graph.NodeId, edgeType graph.Type, featureIDs []graph.FeatureId, rowID int64, dims []int64, outIndices [][]int64, outValues [][]byte) (bool, error)

	// GetNodeStringFeature writes each requested feature's byte length
	// into dimsForRow (length len(featureIDs)) and appends the feature
	// bytes to outValues, in order.
	GetNodeStringFeature(local graph.LocalIndex, featureIDs []graph.FeatureId, dimsForRow []int64, outValues *[]byte) (bool, error)

	// GetEdgeStringFeature is the edge-keyed analogue of
	// GetNodeStringFeature.
	GetEdgeStringFeature(local graph.LocalIndex, dstGlobal graph.NodeId, edgeType graph.Type, featureIDs []graph.FeatureId, dimsForRow []int64, outValues *[]byte) (bool, error)

	// NeighborCount sums the number of neighbors reachable over the
	// given edge types (sorted ascending); pass nil/empty for all types.
	NeighborCount(local graph.LocalIndex, edgeTypes []graph.Type) uint64

	// FullNeighbor appends every neighbor of local matching edgeTypes to
	// the out slices and returns how many were appended.
	FullNeighbor(local graph.LocalIndex, edgeTypes []graph.Type, outIDs *[]graph.NodeId, outTypes *[]graph.Type, outWeights *[]float32) uint64

	// SampleNeighbor performs weighted reservoir sampling of count
	// neighbors into the out slices (already sized and default-filled by
	// the caller), accumulating the total sampling weight observed into
	// shardWeight.
	SampleNeighbor(seed int64, local graph.LocalIndex, edgeTypes []graph.Type, count int, outIDs []graph.NodeId, outTypes []graph.Type, outWeights []float32, shardWeight *float32, defaultID graph.NodeId, defaultWeight float32, defaultType graph.Type)

	// UniformSampleNeighbor is the unweighted analogue of SampleNeighbor.
	UniformSampleNeighbor(withoutReplacement bool, seed int64, local graph.LocalIndex, edgeTypes []graph.Type, count int, outIDs []graph.NodeId, outTypes []graph.Type, shardCount *uint64, defaultID graph.NodeId, defaultType graph.Type)
}
