package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"

	"github.com/alfredjeanlab/readygate/internal/model"
)

// GRPCClient implements GateClient over the gRPC health service. The gate
// maps to the serving status of model.GateHealthService, so only Enabled is
// populated in the returned status.
type GRPCClient struct {
	conn   *grpc.ClientConn
	client healthpb.HealthClient
	token  string
}

// NewGRPCClient connects to the given gRPC address and returns a client.
func NewGRPCClient(addr, token string) (*GRPCClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial: %w", err)
	}
	return &GRPCClient{
		conn:   conn,
		client: healthpb.NewHealthClient(conn),
		token:  token,
	}, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func (c *GRPCClient) Health(ctx context.Context) (string, error) {
	resp, err := c.client.Check(c.withToken(ctx), &healthpb.HealthCheckRequest{})
	if err != nil {
		return "", err
	}
	if resp.GetStatus() == healthpb.HealthCheckResponse_SERVING {
		return "ok", nil
	}
	return resp.GetStatus().String(), nil
}

func (c *GRPCClient) Gate(ctx context.Context) (*model.GateStatus, error) {
	resp, err := c.client.Check(c.withToken(ctx), &healthpb.HealthCheckRequest{Service: model.GateHealthService})
	if err != nil {
		return nil, err
	}
	return &model.GateStatus{Enabled: resp.GetStatus() == healthpb.HealthCheckResponse_SERVING}, nil
}

func (c *GRPCClient) withToken(ctx context.Context) context.Context {
	if c.token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+c.token)
}
