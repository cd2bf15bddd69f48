// Package boardv1connect contains the Connect procedures, clients and
// handlers of the board.v1 API. The code is maintained by hand against
// api/board/v1/board.proto; TestProceduresMatchIDL fails when the two drift.
//
// Messages are plain Go structs, so the default protobuf codecs are replaced
// with a JSON codec on both sides. Handlers built here accept and emit
// application/json; clients built here send it.
package boardv1connect

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
	"github.com/klauspost/compress/gzip"
)

// JSONCodec marshals messages with encoding/json. It is registered under the
// name "json", replacing the protojson codec connect installs by default.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

const compressionGzip = "gzip"

func gzipCompression() (func() connect.Decompressor, func() connect.Compressor) {
	return func() connect.Decompressor { return &gzip.Reader{} },
		func() connect.Compressor { return gzip.NewWriter(nil) }
}

// HandlerOptions returns the options every board handler is built with.
func HandlerOptions() []connect.HandlerOption {
	decompressor, compressor := gzipCompression()
	return []connect.HandlerOption{
		connect.WithCodec(JSONCodec{}),
		connect.WithCompression(compressionGzip, decompressor, compressor),
	}
}

// ClientOptions returns the options every board client is built with.
// Requests are sent gzip compressed.
func ClientOptions() []connect.ClientOption {
	decompressor, compressor := gzipCompression()
	return []connect.ClientOption{
		connect.WithCodec(JSONCodec{}),
		connect.WithAcceptCompression(compressionGzip, decompressor, compressor),
		connect.WithSendCompression(compressionGzip),
	}
}
