package rpc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc"
)

func TestRequestIDUnaryInterceptor_PassesThroughResponse(t *testing.T) {
	interceptor := RequestIDUnaryInterceptor(zaptest.NewLogger(t))

	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/graphserving.GraphServing/GetMetadata"}

	resp, err := interceptor(context.Background(), nil, info, handler)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestRequestIDUnaryInterceptor_PropagatesError(t *testing.T) {
	interceptor := RequestIDUnaryInterceptor(zaptest.NewLogger(t))

	wantErr := errors.New("boom")
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, wantErr
	}
	info := &grpc.UnaryServerInfo{FullMethod: "/graphserving.GraphServing/GetNodeTypes"}

	_, err := interceptor(context.Background(), nil, info, handler)
	assert.ErrorIs(t, err, wantErr)
}
