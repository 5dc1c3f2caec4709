package api

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"

	apiproto "github.com/calvindb/calvindb/api/proto"
	"github.com/calvindb/calvindb/pkg/analyzer"
	"github.com/calvindb/calvindb/pkg/log"
	"github.com/calvindb/calvindb/pkg/record"
	"github.com/calvindb/calvindb/pkg/sequencer"
)

// virtualNodeHeader carries the informational virtual-node tag of the
// first record a statement touches. Nothing routes on it;
// it exists so a caller can observe how records would partition across
// a cluster without this node doing any actual cross-node forwarding.
const virtualNodeHeader = "x-calvindb-virtual-node"

func init() {
	encoding.RegisterCodec(apiproto.Codec{})
}

// Server implements the CalvinDB gRPC service (api/proto.CalvinDBServer)
// by forwarding RunStmt calls to a node's Sequencer.
type Server struct {
	apiproto.UnimplementedCalvinDBServer
	seq    *sequencer.Sequencer
	grpc   *grpc.Server
	logger zerolog.Logger
}

// NewServer returns a Server that dispatches RunStmt to seq. The
// returned grpc.Server uses the JSON codec from api/proto in place of
// protobuf, registered via ForceServerCodec since this tree carries no
// protoc-generated marshaler.
func NewServer(seq *sequencer.Sequencer) *Server {
	grpcServer := grpc.NewServer(
		grpc.ForceServerCodec(apiproto.Codec{}),
		grpc.ChainUnaryInterceptor(MetricsInterceptor()),
	)

	s := &Server{
		seq:    seq,
		grpc:   grpcServer,
		logger: log.WithComponent("api"),
	}
	apiproto.RegisterCalvinDBServer(grpcServer, s)
	return s
}

// RunStmt implements apiproto.CalvinDBServer.
func (s *Server) RunStmt(ctx context.Context, req *apiproto.RunStmtRequest) (*apiproto.RunStmtResponse, error) {
	setVirtualNodeHeader(ctx, req.GetQuery())

	resp, err := s.seq.RunStmt(ctx, req.GetQuery())
	if err != nil {
		return nil, err
	}
	return apiproto.ResponseFromDomain(resp), nil
}

// setVirtualNodeHeader best-effort parses query and, if it touches at
// least one record, attaches that record's virtual node as a response
// header. A query this node can't yet parse just gets no header; the
// real parse error still surfaces normally from RunStmt below.
func setVirtualNodeHeader(ctx context.Context, query string) {
	stmt, err := analyzer.Analyze(query)
	if err != nil {
		return
	}
	lockSet := stmt.LockSet()
	if len(lockSet) == 0 {
		return
	}
	vn := record.VirtualNode(lockSet[0])
	_ = grpc.SetHeader(ctx, metadata.Pairs(virtualNodeHeader, strconv.Itoa(int(vn))))
}

// Start listens on addr and serves until the listener is closed or Stop
// is called. It blocks; callers typically run it in a goroutine.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("api: listen on %s: %w", addr, err)
	}
	s.logger.Info().Str("addr", addr).Msg("gRPC API listening")
	return s.grpc.Serve(lis)
}

// Stop gracefully drains in-flight RPCs and shuts the server down.
func (s *Server) Stop() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
}
