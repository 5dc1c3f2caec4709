// Package proto holds the wire types and gRPC service plumbing for the
// single RunStmt RPC this core exposes. There are no .proto sources in
// this tree: the retrieved pack did not carry any, and hand-authoring
// protobuf-generated code without running protoc is not something
// anyone should try to get right by inspection. Instead this package
// wires google.golang.org/grpc's public codec API directly, the same
// grpc.ServiceDesc/grpc.UnaryHandler plumbing protoc-gen-go-grpc itself
// emits, with a JSON encoding.Codec standing in for protobuf wire
// encoding. See DESIGN.md for the full rationale.
package proto

import (
	"encoding/json"

	"github.com/calvindb/calvindb/pkg/types"
)

// RunStmtRequest is the wire request for the RunStmt RPC.
type RunStmtRequest struct {
	Query string `json:"query"`
}

// RunStmtResponse is the wire response for the RunStmt RPC.
type RunStmtResponse struct {
	UUID    string          `json:"uuid"`
	Results []RecordStorage `json:"results,omitempty"`
}

// RecordStorage mirrors types.RecordStorage on the wire.
type RecordStorage struct {
	Val uint64 `json:"val"`
}

// GetQuery returns the request's query string, or "" for a nil request.
func (r *RunStmtRequest) GetQuery() string {
	if r == nil {
		return ""
	}
	return r.Query
}

// ResponseFromDomain converts a types.RunStmtResponse into its wire
// representation.
func ResponseFromDomain(resp types.RunStmtResponse) *RunStmtResponse {
	out := &RunStmtResponse{UUID: resp.UUID}
	for _, r := range resp.Results {
		out.Results = append(out.Results, RecordStorage{Val: r.Val})
	}
	return out
}

// Codec is a JSON-based grpc/encoding.Codec. It implements the same
// Marshal/Unmarshal/Name contract as the protobuf codec grpc registers
// by default, so it plugs into grpc.NewServer and grpc.NewClient exactly
// the way a generated codec would, via grpc.ForceServerCodec/
// grpc.ForceCodec.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return "json"
}
