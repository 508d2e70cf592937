package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/andrescamacho/colony-go/internal/application/colony"
)

// StatusProvider reports the running colony's status
type StatusProvider interface {
	Status() colony.Status
}

// DaemonServer serves the health and status services on a unix socket
type DaemonServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
}

// NewDaemonServer listens on socketPath, replacing a stale socket file
func NewDaemonServer(socketPath string, status StatusProvider) (*DaemonServer, error) {
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return NewDaemonServerWithListener(listener, status), nil
}

// NewDaemonServerWithListener serves on an existing listener
func NewDaemonServerWithListener(listener net.Listener, status StatusProvider) *DaemonServer {
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	registerStatusServer(grpcServer, &statusService{provider: status})

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(statusServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &DaemonServer{listener: listener, grpcServer: grpcServer, health: hs}
}

// Addr returns the listening address
func (s *DaemonServer) Addr() net.Addr {
	return s.listener.Addr()
}

// SetServing flips the reported health of the daemon
func (s *DaemonServer) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(statusServiceName, status)
}

// Serve blocks until ctx is cancelled, then stops gracefully
func (s *DaemonServer) Serve(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		if err := s.grpcServer.Serve(s.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		return nil
	}
}
