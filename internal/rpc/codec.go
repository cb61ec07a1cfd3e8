// Package rpc hand-registers a grpc.ServiceDesc binding the twelve
// query-composer operations to RPC method names, since no protobuf
// toolchain is available to generate client/server stubs from a .proto
// file. This package uses a gob-based grpc.Codec so requests and
// responses can still travel over standard gRPC framing and
// interceptors without a wire format to standardize on.
package rpc

import (
	"bytes"
	"encoding/gob"

	"google.golang.org/grpc/encoding"
)

const codecName = "gob"

func init() {
	encoding.RegisterCodec(gobCodec{})
}

// gobCodec implements google.golang.org/grpc/encoding.Codec using
// encoding/gob, so the hand-registered ServiceDesc's Go struct request
// and reply types need no generated marshaling code.
type gobCodec struct{}

func (gobCodec) Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gobCodec) Unmarshal(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

func (gobCodec) Name() string { return codecName }
