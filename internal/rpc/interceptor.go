package rpc

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

// RequestIDUnaryInterceptor stamps every inbound RPC with a fresh
// correlation id drawn from google/uuid and logs its method name and
// outcome.
func RequestIDUnaryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		reqID := uuid.New().String()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("rpc failed",
				zap.String("request_id", reqID),
				zap.String("method", info.FullMethod),
				zap.Error(err),
			)
			return resp, err
		}
		logger.Debug("rpc completed",
			zap.String("request_id", reqID),
			zap.String("method", info.FullMethod),
		)
		return resp, nil
	}
}
