package control

// Pending is the action control a gate writes to during a tick. It holds
// the enabled flag until the caller applies it to a Button together with
// the tooltip for the same evaluation.
type Pending struct {
	Base    string
	Enabled bool
}

// SetEnabled buffers the gate decision.
func (p *Pending) SetEnabled(enabled bool) {
	p.Enabled = enabled
}

// BaseTooltip returns Base.
func (p *Pending) BaseTooltip() string {
	return p.Base
}
