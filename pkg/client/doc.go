/*
Package client is a thin Go wrapper around the RunStmt RPC.

	┌──────────────────── APPLICATION CODE ──────────────────────┐
	│  c, err := client.NewClient("node-a:7477")                  │
	│  resp, err := c.RunStmt(ctx, "SELECT * FROM t WHERE id = 1")│
	└──────────────────┬───────────────────────────────────────┘
	                   │ gRPC, JSON-coded (api/proto.Codec)
	┌──────────────────▼──── node-a ─────────────────────────────┐
	│                    pkg/api.Server                           │
	└────────────────────────────────────────────────────────┘

No mTLS, no certificate exchange: authentication is out of scope for
this core. cmd/calvindb's run and bench subcommands are this package's
only non-test callers.

# See Also

  - pkg/api for the server side of this connection
  - api/proto for the wire types and codec
*/
package client
