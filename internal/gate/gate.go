// Package gate decides whether the start action of a playlist room is
// enabled for the local participant.
//
// A Gate combines two checks. The attempts check is cached and refreshed
// only when a new aggregate score arrives. The time check is recomputed on
// every tick from the room deadline, the active mods and the loaded track.
// A Gate is not safe for concurrent use; it belongs to the goroutine that
// ticks it and delivers its score updates.
package gate

import (
	"log/slog"
	"time"

	"github.com/alfredjeanlab/readygate/internal/model"
	"github.com/alfredjeanlab/readygate/internal/rate"
)

// State is the gate's decision.
type State int

const (
	Disabled State = iota
	Enabled
)

// String returns the string representation of the state.
func (s State) String() string {
	if s == Enabled {
		return "enabled"
	}
	return "disabled"
}

// Reason explains why the gate is disabled.
type Reason string

const (
	ReasonNone              Reason = ""
	ReasonNoTimeLeft        Reason = "no_time_left"
	ReasonAttemptsExhausted Reason = "attempts_exhausted"
)

// Message returns the tooltip text for the reason, or "" for ReasonNone.
func (r Reason) Message() string {
	switch r {
	case ReasonNoTimeLeft:
		return "No time left!"
	case ReasonAttemptsExhausted:
		return "Attempts exhausted!"
	}
	return ""
}

// Inputs supplies the snapshots read on every evaluation.
type Inputs interface {
	Room() model.RoomState
	Mods() []model.Mod
	ContentDuration() time.Duration
}

// ActionControl is the start button the gate drives.
type ActionControl interface {
	SetEnabled(enabled bool)
	// BaseTooltip is shown when no gating reason applies.
	BaseTooltip() string
}

// Config configures a Gate. Zero fields take defaults.
type Config struct {
	// Rate computes the playback multiplier. Default: rate.Default.
	Rate rate.Func
	// Now returns the current time. Default: time.Now.
	Now func() time.Time
	// Logger receives rate configuration errors. Default: slog.Default().
	Logger *slog.Logger
}

// Evaluation is one composed decision.
type Evaluation struct {
	State  State
	Reason Reason
	// Err is set when the time check could not be computed (for example an
	// invalid rate). The time check then counts as failed.
	Err error
}

// Gate is the readiness gate for one room and participant.
type Gate struct {
	inputs  Inputs
	control ActionControl
	rate    rate.Func
	now     func() time.Time
	logger  *slog.Logger

	hasRemainingAttempts bool
	state                State
	lastErr              string
}

// New creates a gate. Attempts are assumed available until the first
// ScoreChanged call.
func New(inputs Inputs, control ActionControl, cfg *Config) *Gate {
	if cfg == nil {
		cfg = &Config{}
	}
	g := &Gate{
		inputs:               inputs,
		control:              control,
		rate:                 cfg.Rate,
		now:                  cfg.Now,
		logger:               cfg.Logger,
		hasRemainingAttempts: true,
		state:                Enabled,
	}
	if g.rate == nil {
		g.rate = rate.Default
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// ScoreChanged refreshes the cached attempts flag from a new aggregate
// score, using the room's current quota.
func (g *Gate) ScoreChanged(score model.AggregateScore) {
	room := g.inputs.Room()
	g.hasRemainingAttempts = HasRemainingAttempts(room.MaxAttempts, score.PlaylistItemAttempts)
	g.logger.Debug("gate: attempts refreshed",
		"room_id", room.ID,
		"total_attempts", score.TotalAttempts(),
		"has_remaining_attempts", g.hasRemainingAttempts)
}

// HasRemainingAttempts returns the cached attempts flag.
func (g *Gate) HasRemainingAttempts() bool {
	return g.hasRemainingAttempts
}

// State returns the state written by the last Tick.
func (g *Gate) State() State {
	return g.state
}

// Evaluate computes the decision at now without touching the control.
// The time check takes priority over the attempts check.
func (g *Gate) Evaluate(now time.Time) Evaluation {
	ok, err := g.enoughTimeLeft(now)
	switch {
	case !ok:
		return Evaluation{State: Disabled, Reason: ReasonNoTimeLeft, Err: err}
	case !g.hasRemainingAttempts:
		return Evaluation{State: Disabled, Reason: ReasonAttemptsExhausted}
	}
	return Evaluation{State: Enabled}
}

// Tick evaluates the gate at the current time and writes the result to the
// action control.
func (g *Gate) Tick() Evaluation {
	ev := g.Evaluate(g.now())
	g.logRateError(ev.Err)
	g.state = ev.State
	g.control.SetEnabled(ev.State == Enabled)
	return ev
}

// Tooltip returns the reason the gate is disabled at the current time, or
// the control's base tooltip when it is not.
func (g *Gate) Tooltip() string {
	return g.TooltipFor(g.Evaluate(g.now()))
}

// TooltipFor returns the tooltip matching an evaluation already made, so a
// caller that ticked can pair the flag and the text without reading the
// clock again.
func (g *Gate) TooltipFor(ev Evaluation) string {
	if msg := ev.Reason.Message(); msg != "" {
		return msg
	}
	return g.control.BaseTooltip()
}

func (g *Gate) enoughTimeLeft(now time.Time) (bool, error) {
	r, err := g.rate(g.inputs.Mods())
	if err != nil {
		return false, err
	}
	return EnoughTimeLeft(g.inputs.Room().EndDate, r, g.inputs.ContentDuration(), now)
}

// logRateError logs each distinct error once rather than on every tick.
func (g *Gate) logRateError(err error) {
	if err == nil {
		g.lastErr = ""
		return
	}
	if msg := err.Error(); msg != g.lastErr {
		g.lastErr = msg
		g.logger.Warn("gate: time check failed closed", "error", err)
	}
}
