// Package composer implements the six query families as twelve request
// handlers: the core glue that walks the node location index, calls
// partition operations, and assembles replies. Handler bodies follow a
// worker-pool-over-contiguous-ranges shape.
package composer

import "github.com/23skdu/graphserving/internal/graph"

// GetNodeTypesRequest is the input to get_node_types.
type GetNodeTypesRequest struct {
	NodeIDs []graph.NodeId
}

// GetNodeTypesResponse pairs each found node's request offset with its
// resolved type. Offsets are strictly increasing.
type GetNodeTypesResponse struct {
	Offsets []int32
	Types   []graph.Type
}

// GetNodeFeaturesRequest is the input to get_node_features.
type GetNodeFeaturesRequest struct {
	NodeIDs  []graph.NodeId
	Features []graph.FeatureMeta
}

// GetNodeFeaturesResponse holds one fv_size-byte row per found node,
// concatenated in offset order.
type GetNodeFeaturesResponse struct {
	Offsets       []int32
	FeatureValues []byte
}

// GetEdgeFeaturesRequest is the input to get_edge_features.
// NodeIDs has length 2*len(Types): sources first, then destinations.
type GetEdgeFeaturesRequest struct {
	NodeIDs  []graph.NodeId
	Types    []graph.Type
	Features []graph.FeatureMeta
}

// GetEdgeFeaturesResponse mirrors GetNodeFeaturesResponse, keyed by edge
// offset instead of node offset.
type GetEdgeFeaturesResponse struct {
	Offsets       []int32
	FeatureValues []byte
}

// GetNodeSparseFeaturesRequest is the input to get_node_sparse_features.
type GetNodeSparseFeaturesRequest struct {
	NodeIDs    []graph.NodeId
	FeatureIDs []graph.FeatureId
}

// GetNodeSparseFeaturesResponse holds one shared dimension per requested
// feature, plus indices/values concatenated feature-major.
type GetNodeSparseFeaturesResponse struct {
	Dimensions    []int64
	Indices       []int64
	Values        []byte
	IndicesCounts []int64 // length == len(FeatureIDs)
	ValuesCounts  []int64 // length == len(FeatureIDs)
}

// GetEdgeSparseFeaturesRequest is the input to get_edge_sparse_features.
type GetEdgeSparseFeaturesRequest struct {
	NodeIDs    []graph.NodeId
	Types      []graph.Type
	FeatureIDs []graph.FeatureId
}

// GetEdgeSparseFeaturesResponse is the edge-keyed analogue of
// GetNodeSparseFeaturesResponse. Unlike the node case, IndicesCounts and
// ValuesCounts nest worker-major then feature-minor — an
// observable, intentional difference from the node reply.
type GetEdgeSparseFeaturesResponse struct {
	Dimensions    []int64
	Indices       []int64
	Values        []byte
	IndicesCounts []int64 // length == workers * len(FeatureIDs)
	ValuesCounts  []int64
}

// GetNodeStringFeaturesRequest is the input to get_node_string_features.
type GetNodeStringFeaturesRequest struct {
	NodeIDs    []graph.NodeId
	FeatureIDs []graph.FeatureId
}

// GetNodeStringFeaturesResponse: Dimensions has length
// len(FeatureIDs)*len(NodeIDs); slice [f*o, f*(o+1)) is node o's per-feature
// byte lengths. Values is one concatenated byte stream in offset order.
type GetNodeStringFeaturesResponse struct {
	Dimensions []int64
	Values     []byte
}

// GetEdgeStringFeaturesRequest is the input to get_edge_string_features.
type GetEdgeStringFeaturesRequest struct {
	NodeIDs    []graph.NodeId
	Types      []graph.Type
	FeatureIDs []graph.FeatureId
}

// GetEdgeStringFeaturesResponse is the edge-keyed analogue of
// GetNodeStringFeaturesResponse.
type GetEdgeStringFeaturesResponse struct {
	Dimensions []int64
	Values     []byte
}

// GetNeighborCountsRequest is the input to get_neighbor_counts.
// EdgeTypes must be sorted ascending.
type GetNeighborCountsRequest struct {
	NodeIDs   []graph.NodeId
	EdgeTypes []graph.Type
}

// GetNeighborCountsResponse holds one count per requested node, in
// request order, 0 for nodes absent from this server.
type GetNeighborCountsResponse struct {
	NeighborCounts []uint64
}

// GetNeighborsRequest is the input to get_neighbors.
type GetNeighborsRequest struct {
	NodeIDs   []graph.NodeId
	EdgeTypes []graph.Type
}

// GetNeighborsResponse concatenates neighbor triples node-major then
// partition-major then partition-natural-order; NeighborCounts[i] is the
// number of neighbor entries contributed by node i.
type GetNeighborsResponse struct {
	NeighborCounts []uint64
	NodeIDs        []graph.NodeId
	EdgeTypes      []graph.Type
	EdgeWeights    []float32
}

// WeightedSampleNeighborsRequest is the input to
// weighted_sample_neighbors.
type WeightedSampleNeighborsRequest struct {
	NodeIDs           []graph.NodeId
	EdgeTypes         []graph.Type // sorted ascending
	Count             int
	Seed              int64
	DefaultNodeID     graph.NodeId
	DefaultEdgeType   graph.Type
	DefaultNodeWeight float32
}

// WeightedSampleNeighborsResponse arrays are sized
// nodes_found*Count, pre-filled with the request defaults; ShardWeights
// has length nodes_found.
type WeightedSampleNeighborsResponse struct {
	NeighborIDs     []graph.NodeId
	NeighborTypes   []graph.Type
	NeighborWeights []float32
	ShardWeights    []float32
}

// UniformSampleNeighborsRequest is the input to uniform_sample_neighbors.
type UniformSampleNeighborsRequest struct {
	NodeIDs            []graph.NodeId
	EdgeTypes          []graph.Type // sorted ascending
	Count              int
	Seed               int64
	WithoutReplacement bool
	DefaultNodeID      graph.NodeId
	DefaultEdgeType    graph.Type
}

// UniformSampleNeighborsResponse is the unweighted analogue of
// WeightedSampleNeighborsResponse.
type UniformSampleNeighborsResponse struct {
	NeighborIDs   []graph.NodeId
	NeighborTypes []graph.Type
	ShardCounts   []uint64
}
