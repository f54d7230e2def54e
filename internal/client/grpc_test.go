package client

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/alfredjeanlab/readygate/internal/control"
	"github.com/alfredjeanlab/readygate/internal/server"
)

// startGateServer serves a real gate over gRPC and returns the button that
// drives it.
func startGateServer(t *testing.T, token string) (*control.Button, string) {
	t.Helper()
	button := control.NewButton("", "Good luck")
	gs := server.NewGateServer(1, 2, button, slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := server.NewGRPCServer(gs, token)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(lis) //nolint:errcheck
	t.Cleanup(srv.Stop)
	return button, lis.Addr().String()
}

func TestGRPCClient(t *testing.T) {
	button, addr := startGateServer(t, "secret")

	c, err := NewGRPCClient(addr, "secret")
	if err != nil {
		t.Fatalf("NewGRPCClient: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if got != "ok" {
		t.Errorf("Health = %q, want ok", got)
	}

	st, err := c.Gate(ctx)
	if err != nil {
		t.Fatalf("Gate: %v", err)
	}
	if st.Enabled {
		t.Error("gate should be disabled before the first write")
	}

	button.Set(true, "Good luck", time.Now())
	st, err = c.Gate(ctx)
	if err != nil {
		t.Fatalf("Gate: %v", err)
	}
	if !st.Enabled {
		t.Error("gate should be enabled after the button is")
	}
}

func TestGRPCClient_WrongToken(t *testing.T) {
	button, addr := startGateServer(t, "secret")
	button.Set(true, "Good luck", time.Now())

	for _, token := range []string{"wrong", ""} {
		t.Run("token="+token, func(t *testing.T) {
			c, err := NewGRPCClient(addr, token)
			if err != nil {
				t.Fatalf("NewGRPCClient: %v", err)
			}
			defer c.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if _, err := c.Gate(ctx); status.Code(err) != codes.Unauthenticated {
				t.Fatalf("expected Unauthenticated, got %v", err)
			}
			// Server health needs no token.
			if got, err := c.Health(ctx); err != nil || got != "ok" {
				t.Errorf("Health = %q, %v", got, err)
			}
		})
	}
}
