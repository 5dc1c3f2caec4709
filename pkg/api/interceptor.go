package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/calvindb/calvindb/pkg/metrics"
)

// MetricsInterceptor instruments every unary RPC with
// calvindb_api_requests_total and calvindb_api_request_duration_seconds.
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		timer := metrics.NewTimer()
		resp, err := handler(ctx, req)

		status := "success"
		if err != nil {
			status = grpcStatusLabel(err)
		}
		metrics.APIRequestsTotal.WithLabelValues(status).Inc()
		timer.ObserveDurationVec(metrics.APIRequestDuration, status)
		return resp, err
	}
}

func grpcStatusLabel(err error) string {
	if s, ok := status.FromError(err); ok {
		return s.Code().String()
	}
	return "error"
}
