package main

import (
	"errors"

	"google.golang.org/grpc"
)

// BuildGRPCServerOptions returns the grpc.ServerOption slice for the
// server's transport, combining keepalive with the message-size and
// flow-control limits that bound how large a single batched feature or
// neighbor-sampling request/reply can be. Reuses BuildKeepaliveParams/
// BuildKeepalivePolicy from config.go rather than re-deriving the same
// two structs here.
func (c *Config) BuildGRPCServerOptions() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.KeepaliveParams(BuildKeepaliveParams(c)),
		grpc.KeepaliveEnforcementPolicy(BuildKeepalivePolicy(c)),

		// Concurrency limit
		grpc.MaxConcurrentStreams(c.GRPCMaxConcurrentStreams),

		// HTTP/2 flow control windows
		grpc.InitialWindowSize(c.GRPCInitialWindowSize),
		grpc.InitialConnWindowSize(c.GRPCInitialConnWindowSize),

		// Message size limits — batched requests (GetNodeFeatures,
		// GetNeighbors, the sampling RPCs) can carry thousands of node
		// ids in, and thousands of concatenated feature rows or
		// neighbor triples back out.
		grpc.MaxRecvMsgSize(c.GRPCMaxRecvMsgSize),
		grpc.MaxSendMsgSize(c.GRPCMaxSendMsgSize),
	}
}

// ValidateGRPCConfig checks that the gRPC transport limits are internally
// consistent. Called from ValidateConfig at startup, not just by tests.
func (c *Config) ValidateGRPCConfig() error {
	if c.GRPCMaxConcurrentStreams == 0 {
		return errors.New("grpc_max_concurrent_streams must be > 0")
	}
	if c.GRPCInitialWindowSize < 0 {
		return errors.New("grpc_initial_window_size must be >= 0")
	}
	if c.GRPCInitialConnWindowSize < 0 {
		return errors.New("grpc_initial_conn_window_size must be >= 0")
	}
	if c.GRPCMaxRecvMsgSize < 0 {
		return errors.New("grpc_max_recv_msg_size must be >= 0")
	}
	if c.GRPCMaxSendMsgSize < 0 {
		return errors.New("grpc_max_send_msg_size must be >= 0")
	}
	return nil
}
