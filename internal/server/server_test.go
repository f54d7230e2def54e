package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/alfredjeanlab/readygate/internal/control"
	"github.com/alfredjeanlab/readygate/internal/model"
)

func newTestServer(t *testing.T) (*GateServer, *control.Button) {
	t.Helper()
	button := control.NewButton("Start", "Good luck")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGateServer(12, 7, button, logger), button
}

func TestHandleHealth(t *testing.T) {
	gs, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	gs.NewHTTPHandler("secret").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestHandleGetGate(t *testing.T) {
	gs, button := newTestServer(t)
	button.Set(false, "Attempts exhausted!", time.Now())

	rec := httptest.NewRecorder()
	gs.NewHTTPHandler("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/gate", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got model.GateStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.RoomID != 12 || got.UserID != 7 {
		t.Errorf("ids = (%d, %d), want (12, 7)", got.RoomID, got.UserID)
	}
	if got.Enabled || got.Tooltip != "Attempts exhausted!" || got.Label != "Start" {
		t.Errorf("status = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("updated_at should be set after the first write")
	}
}

func TestHandleGetGate_RequiresToken(t *testing.T) {
	gs, _ := newTestServer(t)
	handler := gs.NewHTTPHandler("secret")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/gate", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without token: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/gate", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("with token: status = %d, want 200", rec.Code)
	}
}

// serveGRPC starts gs on a loopback listener and returns a health client.
func serveGRPC(t *testing.T, gs *GateServer, token string) healthpb.HealthClient {
	t.Helper()
	srv := NewGRPCServer(gs, token)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(lis) //nolint:errcheck
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func TestGRPCHealthFollowsGate(t *testing.T) {
	gs, button := newTestServer(t)
	client := serveGRPC(t, gs, "secret")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Overall server health needs no token.
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Check(\"\"): %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("server status = %v, want SERVING", resp.GetStatus())
	}

	// The gate service does.
	if _, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: GateService}); err == nil {
		t.Fatal("expected Unauthenticated without token")
	}

	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer secret")
	check := func() healthpb.HealthCheckResponse_ServingStatus {
		t.Helper()
		resp, err := client.Check(authed, &healthpb.HealthCheckRequest{Service: GateService})
		if err != nil {
			t.Fatalf("Check(gate): %v", err)
		}
		return resp.GetStatus()
	}

	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("before first tick: %v, want NOT_SERVING", got)
	}
	button.Set(true, "Good luck", time.Now())
	if got := check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("enabled: %v, want SERVING", got)
	}
	button.Set(false, "No time left!", time.Now())
	if got := check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("disabled: %v, want NOT_SERVING", got)
	}
}

func TestGRPCWatchRequiresToken(t *testing.T) {
	gs, button := newTestServer(t)
	client := serveGRPC(t, gs, "secret")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, tc := range []struct {
		name string
		ctx  context.Context
	}{
		{"NoToken", ctx},
		{"WrongToken", metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer nope")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stream, err := client.Watch(tc.ctx, &healthpb.HealthCheckRequest{Service: GateService})
			if err == nil {
				_, err = stream.Recv()
			}
			if status.Code(err) != codes.Unauthenticated {
				t.Fatalf("Watch(gate) err = %v, want Unauthenticated", err)
			}
		})
	}

	// Watching the whole server stays open to load balancers.
	stream, err := client.Watch(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		t.Fatalf("Watch(\"\"): %v", err)
	}
	if resp, err := stream.Recv(); err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("Watch(\"\") = %v, %v; want SERVING", resp, err)
	}

	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer secret")
	stream, err = client.Watch(authed, &healthpb.HealthCheckRequest{Service: GateService})
	if err != nil {
		t.Fatalf("Watch(gate): %v", err)
	}
	if resp, err := stream.Recv(); err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("first Watch(gate) = %v, %v; want NOT_SERVING", resp, err)
	}
	button.Set(true, "Good luck", time.Now())
	if resp, err := stream.Recv(); err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("Watch(gate) after enable = %v, %v; want SERVING", resp, err)
	}
}
