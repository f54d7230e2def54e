package model

import (
	"strings"
	"time"
)

// Mod is a gameplay modifier selected by the participant.
type Mod struct {
	Acronym string `json:"acronym"`
	// SpeedChange overrides the default rate of a rate-adjusting mod
	// (e.g. a customised DT at 1.3x). Ignored for other mods.
	SpeedChange Opt[float64] `json:"speed_change"`
}

// ParseMods parses a comma-separated acronym list such as "DT,HD".
// Blank entries are skipped and acronyms are upper-cased.
func ParseMods(s string) []Mod {
	var mods []Mod
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		mods = append(mods, Mod{Acronym: part})
	}
	return mods
}

// Selection is what the participant has loaded for the next play: the
// active mods and the length of the current track.
type Selection struct {
	Mods        []Mod         `json:"mods"`
	TrackLength time.Duration `json:"track_length"`
}
