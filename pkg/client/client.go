// Package client provides a thin Go wrapper around the RunStmt RPC, for
// use by cmd/calvindb's run and bench subcommands.
package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	apiproto "github.com/calvindb/calvindb/api/proto"
	"github.com/calvindb/calvindb/pkg/types"
)

// Client wraps a gRPC connection to one CalvinDB node.
type Client struct {
	conn   *grpc.ClientConn
	client apiproto.CalvinDBClient
}

// NewClient dials addr and returns a Client ready to submit statements.
// Authentication is out of scope for this core, so the connection is
// plaintext; the JSON codec from api/proto is forced on every call to
// match the server's wire format.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(apiproto.Codec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("client: dial %s: %w", addr, err)
	}

	return &Client{
		conn:   conn,
		client: apiproto.NewCalvinDBClient(conn),
	}, nil
}

// RunStmt submits query to the connected node and returns the resulting
// rows (for a SELECT) or an empty result (for an INSERT/UPDATE).
func (c *Client) RunStmt(ctx context.Context, query string) (types.RunStmtResponse, error) {
	resp, err := c.client.RunStmt(ctx, &apiproto.RunStmtRequest{Query: query})
	if err != nil {
		return types.RunStmtResponse{}, err
	}

	out := types.RunStmtResponse{UUID: resp.UUID}
	for _, r := range resp.Results {
		out.Results = append(out.Results, types.RecordStorage{Val: r.Val})
	}
	return out, nil
}

// Close tears down the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
