package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "calvindb.CalvinDB"

// CalvinDBServer is the server-side contract for the RunStmt RPC.
type CalvinDBServer interface {
	RunStmt(ctx context.Context, req *RunStmtRequest) (*RunStmtResponse, error)
}

// UnimplementedCalvinDBServer can be embedded by server implementations
// to satisfy CalvinDBServer even before every method is filled in, the
// same forward-compatibility trick protoc-gen-go-grpc bakes into its
// generated Unimplemented types.
type UnimplementedCalvinDBServer struct{}

func (UnimplementedCalvinDBServer) RunStmt(context.Context, *RunStmtRequest) (*RunStmtResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RunStmt not implemented")
}

func runStmtHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RunStmtRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalvinDBServer).RunStmt(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + ServiceName + "/RunStmt",
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalvinDBServer).RunStmt(ctx, req.(*RunStmtRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// serviceDesc is the hand-written equivalent of what protoc-gen-go-grpc
// emits per service: the method table grpc.Server dispatches incoming
// unary calls through.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalvinDBServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RunStmt",
			Handler:    runStmtHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "calvindb.proto",
}

// RegisterCalvinDBServer registers srv's RunStmt implementation against
// s, the same call shape a generated RegisterCalvinDBServer would have.
func RegisterCalvinDBServer(s grpc.ServiceRegistrar, srv CalvinDBServer) {
	s.RegisterService(&serviceDesc, srv)
}

// CalvinDBClient is the client-side contract for the RunStmt RPC.
type CalvinDBClient interface {
	RunStmt(ctx context.Context, in *RunStmtRequest, opts ...grpc.CallOption) (*RunStmtResponse, error)
}

type calvinDBClient struct {
	cc grpc.ClientConnInterface
}

// NewCalvinDBClient wraps cc in a CalvinDBClient, the same shape a
// generated NewCalvinDBClient constructor has.
func NewCalvinDBClient(cc grpc.ClientConnInterface) CalvinDBClient {
	return &calvinDBClient{cc: cc}
}

func (c *calvinDBClient) RunStmt(ctx context.Context, in *RunStmtRequest, opts ...grpc.CallOption) (*RunStmtResponse, error) {
	out := new(RunStmtResponse)
	err := c.cc.Invoke(ctx, "/"+ServiceName+"/RunStmt", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
