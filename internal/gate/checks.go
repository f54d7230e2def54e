package gate

import (
	"fmt"
	"math"
	"time"

	"github.com/alfredjeanlab/readygate/internal/model"
	"github.com/alfredjeanlab/readygate/internal/rate"
)

const (
	// SafetyMargin covers the transition from pressing start to gameplay.
	SafetyMargin = 30 * time.Second

	// MatchAllowance is added on top of every play.
	// TODO: confirm the nine hour allowance with product; kept as shipped.
	MatchAllowance = 9 * time.Hour
)

// maxAdjustedMillis is the largest adjusted length, in milliseconds, that
// still fits in a time.Duration once both margins are added.
const maxAdjustedMillis = float64((math.MaxInt64 - int64(SafetyMargin+MatchAllowance)) / int64(time.Millisecond))

// HasRemainingAttempts reports whether another play fits within the
// attempt quota. An absent quota means unlimited attempts.
func HasRemainingAttempts(maxAttempts model.Opt[int], items []model.ItemAttempts) bool {
	quota, ok := maxAttempts.Get()
	if !ok {
		return true
	}
	remaining := quota - model.AggregateScore{PlaylistItemAttempts: items}.TotalAttempts()
	return remaining > 0
}

// AdjustedLength scales a track length by the playback rate, rounded to
// the nearest millisecond (ties to even). A rate so small that the result
// would not fit in a time.Duration is rejected with rate.ErrInvalidRate.
func AdjustedLength(length time.Duration, r float64) (time.Duration, error) {
	if err := rate.Validate(r); err != nil {
		return 0, err
	}
	ms := math.RoundToEven(float64(length) / float64(time.Millisecond) / r)
	if ms > maxAdjustedMillis {
		return 0, fmt.Errorf("%w (rate %v stretches %v beyond the representable range)", rate.ErrInvalidRate, r, length)
	}
	return time.Duration(ms) * time.Millisecond, nil
}

// EnoughTimeLeft reports whether a play of the given length, started at
// now, finishes with all margins before the room's end date. A room
// without an end date never has time left.
func EnoughTimeLeft(endDate model.Opt[time.Time], r float64, length time.Duration, now time.Time) (bool, error) {
	adjusted, err := AdjustedLength(length, r)
	if err != nil {
		return false, err
	}
	end, ok := endDate.Get()
	if !ok {
		return false, nil
	}
	threshold := now.Add(SafetyMargin + MatchAllowance + adjusted)
	return threshold.Before(end), nil
}
