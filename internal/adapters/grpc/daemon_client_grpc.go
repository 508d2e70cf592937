package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/colony-go/internal/application/colony"
)

// DaemonClientGRPC talks to a running daemon
type DaemonClientGRPC struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

// NewDaemonClientGRPC connects to the daemon's unix socket
// (e.g. "/tmp/colony-daemon.sock")
func NewDaemonClientGRPC(socketPath string, opts ...grpc.DialOption) (*DaemonClientGRPC, error) {
	return newDaemonClient("unix:"+socketPath, opts...)
}

func newDaemonClient(target string, opts ...grpc.DialOption) (*DaemonClientGRPC, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClientGRPC{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

// Close closes the gRPC connection
func (c *DaemonClientGRPC) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Health returns the serving status of the daemon, e.g. "SERVING"
func (c *DaemonClientGRPC) Health(ctx context.Context) (string, error) {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return "", fmt.Errorf("failed to check daemon health: %w", err)
	}
	return resp.GetStatus().String(), nil
}

// Status fetches the colony status
func (c *DaemonClientGRPC) Status(ctx context.Context) (colony.Status, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, getStatusMethod, &emptypb.Empty{}, out); err != nil {
		return colony.Status{}, fmt.Errorf("failed to get daemon status: %w", err)
	}
	return structToStatus(out), nil
}
