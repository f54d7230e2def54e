// Package rate turns the active mod set into a playback rate multiplier.
//
// The multiplier is the product of the rate of every rate-adjusting mod,
// taken at the start of playback. Mods whose rate changes over time (wind
// up, wind down) therefore contribute their initial rate only.
package rate

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/alfredjeanlab/readygate/internal/model"
)

// ErrInvalidRate is returned when the computed multiplier is not a finite
// positive number.
var ErrInvalidRate = errors.New("rate: multiplier must be finite and positive")

// Func computes the playback rate multiplier for a mod set.
type Func func(mods []model.Mod) (float64, error)

// Entry describes how one mod affects playback rate.
type Entry struct {
	// SpeedChange is the default multiplier when the mod carries no
	// SpeedChange of its own.
	SpeedChange float64 `toml:"speed_change"`
	// Variable marks mods whose rate drifts during playback. Their
	// SpeedChange is the initial rate.
	Variable bool `toml:"variable"`
}

// Table maps upper-case mod acronyms to their rate entry.
type Table map[string]Entry

// DefaultTable covers the stock rate-adjusting mods.
var DefaultTable = Table{
	"DT": {SpeedChange: 1.5},
	"NC": {SpeedChange: 1.5},
	"HT": {SpeedChange: 0.75},
	"DC": {SpeedChange: 0.75},
	"WU": {SpeedChange: 1, Variable: true},
	"WD": {SpeedChange: 1, Variable: true},
}

// Default is the rate function backed by DefaultTable.
var Default Func = DefaultTable.Rate

// Rate returns the product of the rates of all mods found in the table.
// Mods not in the table do not affect rate.
func (t Table) Rate(mods []model.Mod) (float64, error) {
	rate := 1.0
	for _, m := range mods {
		entry, ok := t[strings.ToUpper(m.Acronym)]
		if !ok {
			continue
		}
		rate *= m.SpeedChange.OrElse(entry.SpeedChange)
	}
	if err := Validate(rate); err != nil {
		return 0, err
	}
	return rate, nil
}

// Validate rejects multipliers that would make length scaling undefined.
func Validate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w (got %v)", ErrInvalidRate, rate)
	}
	return nil
}

// tableFile is the on-disk layout read by LoadTable:
//
//	[mods.DT]
//	speed_change = 1.5
type tableFile struct {
	Mods map[string]Entry `toml:"mods"`
}

// LoadTable reads a TOML rate table and merges it over DefaultTable.
// An empty path returns DefaultTable unchanged.
func LoadTable(path string) (Table, error) {
	table := make(Table, len(DefaultTable))
	for k, v := range DefaultTable {
		table[k] = v
	}
	if strings.TrimSpace(path) == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rate table %s: %w", path, err)
	}
	var f tableFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("decoding rate table %s: %w", path, err)
	}
	for acronym, entry := range f.Mods {
		if err := Validate(entry.SpeedChange); err != nil {
			return nil, fmt.Errorf("rate table %s: mod %s: %w", path, acronym, err)
		}
		table[strings.ToUpper(acronym)] = entry
	}
	return table, nil
}
