package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alfredjeanlab/readygate/internal/model"
	"github.com/alfredjeanlab/readygate/internal/store"
)

// executor is the read side of both *sql.DB and *sql.Tx.
type executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryGetRoom(ctx context.Context, db executor, roomID int64) (model.RoomState, error) {
	var (
		endDate     sql.NullTime
		maxAttempts sql.NullInt32
	)
	err := db.QueryRowContext(ctx,
		`SELECT end_date, max_attempts FROM rooms WHERE id = $1`, roomID,
	).Scan(&endDate, &maxAttempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RoomState{}, fmt.Errorf("room %d: %w", roomID, store.ErrNotFound)
		}
		return model.RoomState{}, fmt.Errorf("get room %d: %w", roomID, err)
	}

	room := model.RoomState{ID: roomID}
	if endDate.Valid {
		room.EndDate = model.Some(endDate.Time)
	}
	if maxAttempts.Valid {
		room.MaxAttempts = model.Some(int(maxAttempts.Int32))
	}
	return room, nil
}

func queryGetAggregateScore(ctx context.Context, db executor, roomID, userID int64) (model.AggregateScore, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT playlist_item_id, attempts
		FROM playlist_item_attempts
		WHERE room_id = $1 AND user_id = $2
		ORDER BY playlist_item_id`,
		roomID, userID,
	)
	if err != nil {
		return model.AggregateScore{}, fmt.Errorf("get attempts for room %d user %d: %w", roomID, userID, err)
	}
	defer rows.Close()

	score := model.AggregateScore{
		RoomID:               roomID,
		UserID:               userID,
		PlaylistItemAttempts: []model.ItemAttempts{},
	}
	for rows.Next() {
		var a model.ItemAttempts
		if err := rows.Scan(&a.PlaylistItemID, &a.Attempts); err != nil {
			return model.AggregateScore{}, fmt.Errorf("scan attempts: %w", err)
		}
		score.PlaylistItemAttempts = append(score.PlaylistItemAttempts, a)
	}
	if err := rows.Err(); err != nil {
		return model.AggregateScore{}, fmt.Errorf("iterate attempts: %w", err)
	}
	return score, nil
}
