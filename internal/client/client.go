// Package client talks to a running readygate server, over HTTP/JSON by
// default or over the gRPC health service.
package client

import (
	"context"

	"github.com/alfredjeanlab/readygate/internal/model"
)

// GateClient is what the CLI uses to query a served gate. HTTPClient
// returns the full status; GRPCClient only knows whether the gate is
// enabled.
type GateClient interface {
	Health(ctx context.Context) (string, error)
	Gate(ctx context.Context) (*model.GateStatus, error)
	Close() error
}
