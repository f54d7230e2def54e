package model

import "time"

// GateStatus is the published state of one start button, as served over
// HTTP and streamed to watchers.
type GateStatus struct {
	RoomID    int64     `json:"room_id"`
	UserID    int64     `json:"user_id"`
	Label     string    `json:"label"`
	Enabled   bool      `json:"enabled"`
	Tooltip   string    `json:"tooltip"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GateHealthService is the gRPC health service name whose status follows
// the gate: SERVING while the start button is enabled.
const GateHealthService = "readygate.v1.Gate"
