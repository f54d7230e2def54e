// Package ui renders CLI output with ANSI 256 colors when the terminal
// supports them.
package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent   = 74  // blue
	colorCmd      = 250 // light gray
	colorMuted    = 245 // medium gray
	colorGateOn   = 114 // green
	colorDisabled = 203 // red
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string { return render(colorCmd, s) }

// RenderGate returns the label of a start button, green when enabled and
// red when not.
func RenderGate(label string, enabled bool) string {
	if enabled {
		return render(colorGateOn, label)
	}
	return render(colorDisabled, label)
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
