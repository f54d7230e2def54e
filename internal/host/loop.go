// Package host runs a readiness gate the way a UI frame loop would: one
// goroutine that ticks the gate at a fixed interval and applies room, score
// and selection events between ticks.
//
// Every event is applied on the loop goroutine, so a score update is always
// visible to the next tick and the gate itself needs no locking.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/readygate/internal/control"
	"github.com/alfredjeanlab/readygate/internal/events"
	"github.com/alfredjeanlab/readygate/internal/gate"
	"github.com/alfredjeanlab/readygate/internal/idgen"
	"github.com/alfredjeanlab/readygate/internal/model"
	"github.com/alfredjeanlab/readygate/internal/rate"
	"github.com/alfredjeanlab/readygate/internal/store"
)

// DefaultTickInterval is how often the gate is re-evaluated.
const DefaultTickInterval = 100 * time.Millisecond

// Control is the action control a loop drives. Each tick writes the
// enabled flag and its tooltip together, stamped with the loop clock.
type Control interface {
	BaseTooltip() string
	Set(enabled bool, tooltip string, at time.Time)
}

// LoopConfig configures a Loop.
type LoopConfig struct {
	RoomID int64
	UserID int64

	// Control receives the enabled flag and tooltip. Required.
	Control Control

	// Store, when set, provides the room state and aggregate score the loop
	// starts from. Without it the loop starts from InitialRoom and waits
	// for events.
	Store       store.Store
	InitialRoom model.RoomState

	// InitialSelection is used until the first selection event.
	InitialSelection model.Selection

	// Publisher receives a GateChanged event on every transition.
	// Default: events.NoopPublisher.
	Publisher events.Publisher

	// Rate computes the playback multiplier. Default: rate.Default.
	Rate rate.Func

	// TickInterval defaults to DefaultTickInterval.
	TickInterval time.Duration

	// Now defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Loop owns one gate and the session snapshots it reads.
type Loop struct {
	cfg     LoopConfig
	id      string
	logger  *slog.Logger
	session *session
	pending *control.Pending
	gate    *gate.Gate

	published bool
	last      gate.Evaluation
}

// session holds the latest snapshots and implements gate.Inputs.
type session struct {
	room      model.RoomState
	selection model.Selection
}

func (s *session) Room() model.RoomState          { return s.room }
func (s *session) Mods() []model.Mod              { return s.selection.Mods }
func (s *session) ContentDuration() time.Duration { return s.selection.TrackLength }

// NewLoop creates a loop. Call Run to start it.
func NewLoop(cfg LoopConfig) *Loop {
	if cfg.Publisher == nil {
		cfg.Publisher = &events.NoopPublisher{}
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.InitialRoom.ID == 0 {
		cfg.InitialRoom.ID = cfg.RoomID
	}

	id := idgen.MustNew(idgen.KindLoop)
	logger := cfg.Logger.With("loop_id", id, "room_id", cfg.RoomID, "user_id", cfg.UserID)
	sess := &session{room: cfg.InitialRoom, selection: cfg.InitialSelection}
	pending := &control.Pending{Base: cfg.Control.BaseTooltip()}

	return &Loop{
		cfg:     cfg,
		id:      id,
		logger:  logger,
		session: sess,
		pending: pending,
		gate: gate.New(sess, pending, &gate.Config{
			Rate:   cfg.Rate,
			Now:    cfg.Now,
			Logger: logger,
		}),
	}
}

// ID returns the loop's correlation ID.
func (l *Loop) ID() string {
	return l.id
}

// Run loads the starting state, subscribes to the room's events and ticks
// the gate until ctx is cancelled or a subscription closes.
func (l *Loop) Run(ctx context.Context, sub events.Subscriber) error {
	if err := l.load(ctx); err != nil {
		return err
	}

	scores, cancelScores, err := sub.Subscribe(events.ScoreTopic(l.cfg.RoomID))
	if err != nil {
		return fmt.Errorf("host: subscribe scores: %w", err)
	}
	defer cancelScores()

	selections, cancelSelections, err := sub.Subscribe(events.SelectionTopic(l.cfg.RoomID))
	if err != nil {
		return fmt.Errorf("host: subscribe selections: %w", err)
	}
	defer cancelSelections()

	rooms, cancelRooms, err := sub.Subscribe(events.RoomTopic(l.cfg.RoomID))
	if err != nil {
		return fmt.Errorf("host: subscribe room: %w", err)
	}
	defer cancelRooms()

	l.logger.Info("host: loop started", "tick_interval", l.cfg.TickInterval)
	l.tick(ctx)

	ticker := time.NewTicker(l.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("host: loop stopping")
			return nil
		case <-ticker.C:
			l.tick(ctx)
		case raw, ok := <-scores:
			if !ok {
				l.logger.Info("host: score subscription closed")
				return nil
			}
			l.applyScore(raw)
		case raw, ok := <-selections:
			if !ok {
				l.logger.Info("host: selection subscription closed")
				return nil
			}
			l.applySelection(raw)
		case raw, ok := <-rooms:
			if !ok {
				l.logger.Info("host: room subscription closed")
				return nil
			}
			l.applyRoom(raw)
		}
	}
}

// load reads the starting room state and score. The stored score counts
// as the first score update.
func (l *Loop) load(ctx context.Context) error {
	if l.cfg.Store == nil {
		return nil
	}
	room, err := l.cfg.Store.GetRoom(ctx, l.cfg.RoomID)
	if err != nil {
		return fmt.Errorf("host: load room: %w", err)
	}
	l.session.room = room

	score, err := l.cfg.Store.GetAggregateScore(ctx, l.cfg.RoomID, l.cfg.UserID)
	if err != nil {
		return fmt.Errorf("host: load score: %w", err)
	}
	l.gate.ScoreChanged(score)
	l.logger.Info("host: loaded room state",
		"end_date", room.EndDate.OrElse(time.Time{}),
		"max_attempts", room.MaxAttempts.OrElse(-1),
		"total_attempts", score.TotalAttempts())
	return nil
}

func (l *Loop) tick(ctx context.Context) {
	ev := l.gate.Tick()
	tooltip := l.gate.TooltipFor(ev)
	at := l.cfg.Now()
	l.cfg.Control.Set(l.pending.Enabled, tooltip, at)

	if l.published && ev.State == l.last.State && ev.Reason == l.last.Reason {
		return
	}
	l.published = true
	l.last = ev

	l.logger.Info("host: gate changed", "state", ev.State, "reason", ev.Reason)
	change := events.GateChanged{
		LoopID:  l.id,
		RoomID:  l.cfg.RoomID,
		UserID:  l.cfg.UserID,
		Enabled: ev.State == gate.Enabled,
		Reason:  string(ev.Reason),
		Tooltip: tooltip,
		At:      at.UTC(),
	}
	if err := l.cfg.Publisher.Publish(ctx, events.GateTopic(l.cfg.RoomID), change); err != nil {
		l.logger.Warn("host: failed to publish gate change", "error", err)
	}
}

func (l *Loop) applyScore(raw []byte) {
	var ev events.ScoreUpdated
	if err := json.Unmarshal(raw, &ev); err != nil {
		l.logger.Warn("host: bad score payload", "error", err)
		return
	}
	if ev.Score.UserID != l.cfg.UserID {
		return
	}
	l.gate.ScoreChanged(ev.Score)
}

func (l *Loop) applySelection(raw []byte) {
	var ev events.SelectionChanged
	if err := json.Unmarshal(raw, &ev); err != nil {
		l.logger.Warn("host: bad selection payload", "error", err)
		return
	}
	if ev.UserID != l.cfg.UserID {
		return
	}
	l.session.selection = ev.Selection()
}

// applyRoom replaces the room snapshot. The cached attempts flag keeps its
// value until the next score update.
func (l *Loop) applyRoom(raw []byte) {
	var ev events.RoomUpdated
	if err := json.Unmarshal(raw, &ev); err != nil {
		l.logger.Warn("host: bad room payload", "error", err)
		return
	}
	if ev.Room.ID != 0 && ev.Room.ID != l.cfg.RoomID {
		return
	}
	ev.Room.ID = l.cfg.RoomID
	l.session.room = ev.Room
}
