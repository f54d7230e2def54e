// Package server exposes a served gate over HTTP (status and an SSE stream
// of transitions) and gRPC (health checks that follow the gate).
package server

import (
	"encoding/json"
	"log/slog"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/alfredjeanlab/readygate/internal/control"
	"github.com/alfredjeanlab/readygate/internal/events"
	"github.com/alfredjeanlab/readygate/internal/model"
)

// GateService is the gRPC health service name whose status follows the gate.
const GateService = model.GateHealthService

// GateServer publishes the state of one start button.
type GateServer struct {
	roomID int64
	userID int64
	button *control.Button
	sseHub *sseHub
	health *health.Server
	logger *slog.Logger
}

// NewGateServer wires a server to the button. Every enabled transition is
// fanned out to SSE clients and mirrored into the gRPC health status.
func NewGateServer(roomID, userID int64, button *control.Button, logger *slog.Logger) *GateServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &GateServer{
		roomID: roomID,
		userID: userID,
		button: button,
		sseHub: newSSEHub(),
		health: health.NewServer(),
		logger: logger,
	}
	s.health.SetServingStatus(GateService, healthpb.HealthCheckResponse_NOT_SERVING)
	button.OnChange(s.buttonChanged)
	return s
}

// Status returns the current button state.
func (s *GateServer) Status() model.GateStatus {
	return s.statusFrom(s.button.Snapshot())
}

func (s *GateServer) statusFrom(snap control.Snapshot) model.GateStatus {
	return model.GateStatus{
		RoomID:    s.roomID,
		UserID:    s.userID,
		Label:     snap.Label,
		Enabled:   snap.Enabled,
		Tooltip:   snap.Tooltip,
		UpdatedAt: snap.UpdatedAt,
	}
}

func (s *GateServer) buttonChanged(snap control.Snapshot) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if snap.Enabled {
		st = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(GateService, st)

	payload, err := json.Marshal(s.statusFrom(snap))
	if err != nil {
		s.logger.Warn("server: failed to marshal gate status", "error", err)
		return
	}
	s.sseHub.broadcast(events.GateTopic(s.roomID), payload)
}

// Shutdown marks every health service NOT_SERVING so clients stop routing
// to this instance.
func (s *GateServer) Shutdown() {
	s.health.Shutdown()
}
