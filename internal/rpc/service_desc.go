package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// unaryHandler turns one ServerAPI method into a grpc.MethodDesc.Handler:
// it decodes the request with the codec grpc selected for the call,
// invokes the interceptor chain if any, and otherwise calls method
// directly. Every RPC below is built from this one generic so adding a
// thirteenth query family means adding one MethodDesc line, not another
// hand-written decode/dispatch block.
func unaryHandler[Req any, Resp any](method func(*Server, context.Context, *Req) (*Resp, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(*Server)
		if interceptor == nil {
			return method(s, ctx, in)
		}
		fullMethod, _ := grpc.Method(ctx)
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return method(s, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc is the hand-registered gRPC service description for the
// twelve graph-serving RPCs, bound to the "gob" codec.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: "graphserving.GraphServing",
	HandlerType: (*ServerAPI)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetNodeTypes", Handler: unaryHandler((*Server).GetNodeTypes)},
		{MethodName: "GetNodeFeatures", Handler: unaryHandler((*Server).GetNodeFeatures)},
		{MethodName: "GetEdgeFeatures", Handler: unaryHandler((*Server).GetEdgeFeatures)},
		{MethodName: "GetNodeSparseFeatures", Handler: unaryHandler((*Server).GetNodeSparseFeatures)},
		{MethodName: "GetEdgeSparseFeatures", Handler: unaryHandler((*Server).GetEdgeSparseFeatures)},
		{MethodName: "GetNodeStringFeatures", Handler: unaryHandler((*Server).GetNodeStringFeatures)},
		{MethodName: "GetEdgeStringFeatures", Handler: unaryHandler((*Server).GetEdgeStringFeatures)},
		{MethodName: "GetNeighborCounts", Handler: unaryHandler((*Server).GetNeighborCounts)},
		{MethodName: "GetNeighbors", Handler: unaryHandler((*Server).GetNeighbors)},
		{MethodName: "WeightedSampleNeighbors", Handler: unaryHandler((*Server).WeightedSampleNeighbors)},
		{MethodName: "UniformSampleNeighbors", Handler: unaryHandler((*Server).UniformSampleNeighbors)},
		{MethodName: "GetMetadata", Handler: unaryHandler((*Server).GetMetadata)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "internal/rpc/service_desc.go",
}

// RegisterGraphServingServer registers srv on s under ServiceDesc.
func RegisterGraphServingServer(s *grpc.Server, srv *Server) {
	s.RegisterService(&ServiceDesc, srv)
}
