// Package control holds the start button a served gate drives. The gate
// writes to it from its own loop; HTTP, gRPC and SSE handlers read
// snapshots from other goroutines.
package control

import (
	"sync"
	"time"
)

// DefaultLabel is the text on the start button.
const DefaultLabel = "Start"

// Snapshot is a point-in-time copy of the button.
type Snapshot struct {
	Label     string    `json:"label"`
	Enabled   bool      `json:"enabled"`
	Tooltip   string    `json:"tooltip"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Button is a lock-protected start button. The zero value is not usable;
// call NewButton.
type Button struct {
	mu        sync.RWMutex
	label     string
	base      string
	enabled   bool
	tooltip   string
	updatedAt time.Time
	observers []func(Snapshot)
}

// NewButton creates a disabled button with the given label and base
// tooltip. An empty label uses DefaultLabel.
func NewButton(label, baseTooltip string) *Button {
	if label == "" {
		label = DefaultLabel
	}
	return &Button{
		label:   label,
		base:    baseTooltip,
		tooltip: baseTooltip,
	}
}

// Set records one gate decision and the tooltip that goes with it, as of
// at. Observers run, outside the lock, when either value changes and on the
// first write.
func (b *Button) Set(enabled bool, tooltip string, at time.Time) {
	b.mu.Lock()
	changed := b.enabled != enabled || b.tooltip != tooltip || b.updatedAt.IsZero()
	b.enabled = enabled
	b.tooltip = tooltip
	b.updatedAt = at
	snap := b.snapshotLocked()
	observers := b.observers
	b.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range observers {
		fn(snap)
	}
}

// BaseTooltip is shown when the gate has no reason to disable the button.
func (b *Button) BaseTooltip() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.base
}

// OnChange registers fn to run whenever the enabled flag or tooltip
// changes, including the first write.
func (b *Button) OnChange(fn func(Snapshot)) {
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

// Snapshot returns the current state.
func (b *Button) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.snapshotLocked()
}

func (b *Button) snapshotLocked() Snapshot {
	return Snapshot{
		Label:     b.label,
		Enabled:   b.enabled,
		Tooltip:   b.tooltip,
		UpdatedAt: b.updatedAt,
	}
}
