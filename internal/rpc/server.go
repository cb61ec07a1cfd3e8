package rpc

import (
	"context"

	"github.com/23skdu/graphserving/internal/composer"
	"github.com/23skdu/graphserving/internal/metadata"
)

// Empty is the request type for the one RPC that takes no arguments.
type Empty struct{}

// ServerAPI is the Go method surface the hand-registered ServiceDesc
// dispatches to; Server implements it by delegating to a *composer.Composer.
type ServerAPI interface {
	GetNodeTypes(context.Context, *composer.GetNodeTypesRequest) (*composer.GetNodeTypesResponse, error)
	GetNodeFeatures(context.Context, *composer.GetNodeFeaturesRequest) (*composer.GetNodeFeaturesResponse, error)
	GetEdgeFeatures(context.Context, *composer.GetEdgeFeaturesRequest) (*composer.GetEdgeFeaturesResponse, error)
	GetNodeSparseFeatures(context.Context, *composer.GetNodeSparseFeaturesRequest) (*composer.GetNodeSparseFeaturesResponse, error)
	GetEdgeSparseFeatures(context.Context, *composer.GetEdgeSparseFeaturesRequest) (*composer.GetEdgeSparseFeaturesResponse, error)
	GetNodeStringFeatures(context.Context, *composer.GetNodeStringFeaturesRequest) (*composer.GetNodeStringFeaturesResponse, error)
	GetEdgeStringFeatures(context.Context, *composer.GetEdgeStringFeaturesRequest) (*composer.GetEdgeStringFeaturesResponse, error)
	GetNeighborCounts(context.Context, *composer.GetNeighborCountsRequest) (*composer.GetNeighborCountsResponse, error)
	GetNeighbors(context.Context, *composer.GetNeighborsRequest) (*composer.GetNeighborsResponse, error)
	WeightedSampleNeighbors(context.Context, *composer.WeightedSampleNeighborsRequest) (*composer.WeightedSampleNeighborsResponse, error)
	UniformSampleNeighbors(context.Context, *composer.UniformSampleNeighborsRequest) (*composer.UniformSampleNeighborsResponse, error)
	GetMetadata(context.Context, *Empty) (*metadata.Snapshot, error)
}

// Server adapts a *composer.Composer to ServerAPI.
type Server struct {
	c *composer.Composer
}

// NewServer wraps a Composer as an RPC service implementation.
func NewServer(c *composer.Composer) *Server {
	return &Server{c: c}
}

func (s *Server) GetNodeTypes(ctx context.Context, req *composer.GetNodeTypesRequest) (*composer.GetNodeTypesResponse, error) {
	return s.c.GetNodeTypes(ctx, req)
}

func (s *Server) GetNodeFeatures(ctx context.Context, req *composer.GetNodeFeaturesRequest) (*composer.GetNodeFeaturesResponse, error) {
	return s.c.GetNodeFeatures(ctx, req)
}

func (s *Server) GetEdgeFeatures(ctx context.Context, req *composer.GetEdgeFeaturesRequest) (*composer.GetEdgeFeaturesResponse, error) {
	return s.c.GetEdgeFeatures(ctx, req)
}

func (s *Server) GetNodeSparseFeatures(ctx context.Context, req *composer.GetNodeSparseFeaturesRequest) (*composer.GetNodeSparseFeaturesResponse, error) {
	return s.c.GetNodeSparseFeatures(ctx, req)
}

func (s *Server) GetEdgeSparseFeatures(ctx context.Context, req *composer.GetEdgeSparseFeaturesRequest) (*composer.GetEdgeSparseFeaturesResponse, error) {
	return s.c.GetEdgeSparseFeatures(ctx, req)
}

func (s *Server) GetNodeStringFeatures(ctx context.Context, req *composer.GetNodeStringFeaturesRequest) (*composer.GetNodeStringFeaturesResponse, error) {
	return s.c.GetNodeStringFeatures(ctx, req)
}

func (s *Server) GetEdgeStringFeatures(ctx context.Context, req *composer.GetEdgeStringFeaturesRequest) (*composer.GetEdgeStringFeaturesResponse, error) {
	return s.c.GetEdgeStringFeatures(ctx, req)
}

func (s *Server) GetNeighborCounts(ctx context.Context, req *composer.GetNeighborCountsRequest) (*composer.GetNeighborCountsResponse, error) {
	return s.c.GetNeighborCounts(ctx, req)
}

func (s *Server) GetNeighbors(ctx context.Context, req *composer.GetNeighborsRequest) (*composer.GetNeighborsResponse, error) {
	return s.c.GetNeighbors(ctx, req)
}

func (s *Server) WeightedSampleNeighbors(ctx context.Context, req *composer.WeightedSampleNeighborsRequest) (*composer.WeightedSampleNeighborsResponse, error) {
	return s.c.WeightedSampleNeighbors(ctx, req)
}

func (s *Server) UniformSampleNeighbors(ctx context.Context, req *composer.UniformSampleNeighborsRequest) (*composer.UniformSampleNeighborsResponse, error) {
	return s.c.UniformSampleNeighbors(ctx, req)
}

func (s *Server) GetMetadata(ctx context.Context, _ *Empty) (*metadata.Snapshot, error) {
	return s.c.GetMetadata(ctx)
}
