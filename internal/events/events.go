// Package events defines the room event bus: the topics a gate loop
// listens on, the payloads carried on them, and NATS-backed transports.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/alfredjeanlab/readygate/internal/model"
)

// Topic suffixes under rooms.<room_id>.
const (
	suffixScore     = "score.updated"
	suffixSelection = "selection.changed"
	suffixRoom      = "updated"
	suffixGate      = "gate.changed"
)

// ScoreTopic carries ScoreUpdated for a room.
func ScoreTopic(roomID int64) string { return roomTopic(roomID, suffixScore) }

// SelectionTopic carries SelectionChanged for a room.
func SelectionTopic(roomID int64) string { return roomTopic(roomID, suffixSelection) }

// RoomTopic carries RoomUpdated for a room.
func RoomTopic(roomID int64) string { return roomTopic(roomID, suffixRoom) }

// GateTopic carries GateChanged for a room.
func GateTopic(roomID int64) string { return roomTopic(roomID, suffixGate) }

func roomTopic(roomID int64, suffix string) string {
	return fmt.Sprintf("rooms.%d.%s", roomID, suffix)
}

// ScoreUpdated is published when a play completes and the participant's
// aggregate score changes.
type ScoreUpdated struct {
	Score model.AggregateScore `json:"score"`
}

// SelectionChanged is published when the participant changes mods or the
// loaded track.
type SelectionChanged struct {
	UserID        int64       `json:"user_id"`
	Mods          []model.Mod `json:"mods"`
	TrackLengthMS int64       `json:"track_length_ms"`
}

// Selection converts the payload into a model.Selection.
func (e SelectionChanged) Selection() model.Selection {
	return model.Selection{
		Mods:        e.Mods,
		TrackLength: time.Duration(e.TrackLengthMS) * time.Millisecond,
	}
}

// RoomUpdated is published when the room's deadline or quota changes.
type RoomUpdated struct {
	Room model.RoomState `json:"room"`
}

// GateChanged is published by a gate loop whenever its decision flips.
type GateChanged struct {
	LoopID  string    `json:"loop_id"`
	RoomID  int64     `json:"room_id"`
	UserID  int64     `json:"user_id"`
	Enabled bool      `json:"enabled"`
	Reason  string    `json:"reason,omitempty"`
	Tooltip string    `json:"tooltip"`
	At      time.Time `json:"at"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the event bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// NoopPublisher drops every event. Loops use it when nothing listens for
// gate changes.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
