/*
Package api implements the single-RPC gRPC front door onto a node's
Sequencer: RunStmt in, a transaction's results (or a client-visible
error) out.

	┌────────── CLIENT (pkg/client, cmd/calvindb run) ──────────┐
	│  CalvinDBClient.RunStmt(ctx, query)                        │
	└──────────────────────────┬──────────────────────────────┘
	                           │ gRPC, JSON-coded (api/proto.Codec)
	┌──────────────────────────▼──────────────────────────────┐
	│                    api.Server                              │
	│  MetricsInterceptor -> Server.RunStmt -> Sequencer.RunStmt │
	└────────────────────────────────────────────────────────┘

There is no protoc-generated marshaler in this tree — see api/proto for
why — so the server is built with grpc.ForceServerCodec (api/proto's JSON
codec) in place of the default protobuf codec, registered through
api/proto's hand-written RegisterCalvinDBServer, and every RPC is instrumented by
MetricsInterceptor rather than a handwritten per-method metrics call.

Authentication (mTLS, join tokens, certificate rotation) is explicitly
out of scope for this core.

# See Also

  - api/proto for the wire types and hand-written ServiceDesc
  - pkg/sequencer for what RunStmt ultimately calls
  - pkg/client for the corresponding client wrapper
*/
package api
