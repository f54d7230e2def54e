package model

import "time"

// RoomState is the session state of a timed playlist room. It is owned by
// the room service; the gate only reads it.
type RoomState struct {
	ID          int64          `json:"id"`
	EndDate     Opt[time.Time] `json:"end_date"`     // absent when the room has no deadline
	MaxAttempts Opt[int]       `json:"max_attempts"` // absent means unlimited
}

// ItemAttempts is the number of plays the participant has made on one
// playlist item.
type ItemAttempts struct {
	PlaylistItemID int64 `json:"playlist_item_id"`
	Attempts       int   `json:"attempts"`
}

// AggregateScore is the participant's accumulated result across a room's
// playlist. Each update replaces the previous snapshot as a whole.
type AggregateScore struct {
	RoomID               int64          `json:"room_id"`
	UserID               int64          `json:"user_id"`
	PlaylistItemAttempts []ItemAttempts `json:"playlist_item_attempts"`
}

// TotalAttempts sums attempts across all playlist items. Counts are taken
// as given; negative values are not rejected.
func (s AggregateScore) TotalAttempts() int {
	total := 0
	for _, a := range s.PlaylistItemAttempts {
		total += a.Attempts
	}
	return total
}
