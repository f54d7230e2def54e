// Package store reads the room state and aggregate scores a gate loop
// starts from. The room service owns this data; readygate never writes it.
package store

import (
	"context"
	"errors"

	"github.com/alfredjeanlab/readygate/internal/model"
)

// ErrNotFound is returned when a room does not exist.
var ErrNotFound = errors.New("store: not found")

// Store defines the read interface for room session state.
type Store interface {
	// GetRoom returns the room's deadline and attempt quota.
	GetRoom(ctx context.Context, roomID int64) (model.RoomState, error)
	// GetAggregateScore returns the participant's per-item attempts, ordered
	// by playlist item. A participant with no plays gets an empty score.
	GetAggregateScore(ctx context.Context, roomID, userID int64) (model.AggregateScore, error)

	Close() error
}
