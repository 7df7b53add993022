package httpapi

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/ruben-888/poynts-ai-portal-sub002/internal/obs"
)

// healthServer exposes readiness over the standard gRPC health protocol so
// platform probes (Cloud Run, k8s) can use grpc_health_probe directly.
type healthServer struct {
	healthpb.UnimplementedHealthServer

	readiness readinessChecker
}

// NewGRPCServer builds the gRPC server carrying the health service.
func NewGRPCServer(r readinessChecker) *grpc.Server {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, &healthServer{readiness: r})
	return srv
}

// Check evaluates readiness. On failure the serving status is NOT_SERVING.
func (s *healthServer) Check(ctx context.Context, _ *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if err := s.readiness.Check(ctx); err != nil {
		obs.SetReady(false)
		return &healthpb.HealthCheckResponse{
			Status: healthpb.HealthCheckResponse_NOT_SERVING,
		}, nil
	}
	obs.SetReady(true)
	return &healthpb.HealthCheckResponse{
		Status: healthpb.HealthCheckResponse_SERVING,
	}, nil
}

// Watch streams the serving status on a fixed interval until the client
// goes away.
func (s *healthServer) Watch(req *healthpb.HealthCheckRequest, ws healthpb.Health_WatchServer) error {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	send := func() error {
		resp, err := s.Check(ws.Context(), req)
		if err != nil {
			return err
		}
		return ws.Send(resp)
	}

	if err := send(); err != nil {
		return status.Error(codes.Unavailable, "stream closed")
	}
	for {
		select {
		case <-ws.Context().Done():
			return nil
		case <-ticker.C:
			if err := send(); err != nil {
				return status.Error(codes.Unavailable, "stream closed")
			}
		}
	}
}
