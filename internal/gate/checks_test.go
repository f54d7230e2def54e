package gate

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/alfredjeanlab/readygate/internal/model"
	"github.com/alfredjeanlab/readygate/internal/rate"
)

func attempts(counts ...int) []model.ItemAttempts {
	items := make([]model.ItemAttempts, len(counts))
	for i, c := range counts {
		items[i] = model.ItemAttempts{PlaylistItemID: int64(i + 1), Attempts: c}
	}
	return items
}

func TestHasRemainingAttempts_Unlimited(t *testing.T) {
	for _, items := range [][]model.ItemAttempts{nil, attempts(0), attempts(5, 7), attempts(1000)} {
		if !HasRemainingAttempts(model.None[int](), items) {
			t.Errorf("absent quota with %v: want true", items)
		}
	}
}

func TestHasRemainingAttempts_Quota(t *testing.T) {
	for _, tc := range []struct {
		name  string
		max   int
		items []model.ItemAttempts
		want  bool
	}{
		{"NoAttempts", 3, nil, true},
		{"OneLeft", 3, attempts(1, 1), true},
		{"Exhausted", 3, attempts(2, 1), false},
		{"Over", 3, attempts(4), false},
		{"ZeroQuota", 0, nil, false},
		{"NegativeCountTrusted", 2, attempts(2, -1), true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := HasRemainingAttempts(model.Some(tc.max), tc.items); got != tc.want {
				t.Errorf("HasRemainingAttempts(%d, %v) = %v, want %v", tc.max, tc.items, got, tc.want)
			}
		})
	}
}

func TestAdjustedLength(t *testing.T) {
	for _, tc := range []struct {
		length time.Duration
		rate   float64
		want   time.Duration
	}{
		{60 * time.Second, 1, 60 * time.Second},
		{90 * time.Second, 1.5, 60 * time.Second},
		{60 * time.Second, 0.75, 80 * time.Second},
		{5 * time.Millisecond, 2, 2 * time.Millisecond}, // 2.5 rounds to even
		{7 * time.Millisecond, 2, 4 * time.Millisecond}, // 3.5 rounds to even
		{1500 * time.Microsecond, 1, 2 * time.Millisecond},
	} {
		got, err := AdjustedLength(tc.length, tc.rate)
		if err != nil {
			t.Fatalf("AdjustedLength(%v, %v): %v", tc.length, tc.rate, err)
		}
		if got != tc.want {
			t.Errorf("AdjustedLength(%v, %v) = %v, want %v", tc.length, tc.rate, got, tc.want)
		}
	}
}

func TestAdjustedLength_InvalidRate(t *testing.T) {
	if _, err := AdjustedLength(time.Minute, 0); !errors.Is(err, rate.ErrInvalidRate) {
		t.Errorf("err = %v, want ErrInvalidRate", err)
	}
}

func TestEnoughTimeLeft(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	length := 60 * time.Second
	threshold := now.Add(SafetyMargin + MatchAllowance + length)

	for _, tc := range []struct {
		name string
		end  model.Opt[time.Time]
		rate float64
		want bool
	}{
		{"NoEndDate", model.None[time.Time](), 1, false},
		{"TenHours", model.Some(now.Add(10 * time.Hour)), 1, true},
		{"NineHours", model.Some(now.Add(9 * time.Hour)), 1, false},
		{"ExactlyAtThreshold", model.Some(threshold), 1, false},
		{"JustAfterThreshold", model.Some(threshold.Add(time.Millisecond)), 1, true},
		{"FasterRateFits", model.Some(threshold.Add(-10 * time.Second)), 1.5, true},
		{"SlowerRateMisses", model.Some(threshold.Add(10 * time.Second)), 0.75, false},
		{"PastEndDate", model.Some(now.Add(-time.Hour)), 1, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := EnoughTimeLeft(tc.end, tc.rate, length, now)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("EnoughTimeLeft = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEnoughTimeLeft_InvalidRate(t *testing.T) {
	now := time.Now()
	ok, err := EnoughTimeLeft(model.Some(now.Add(24*time.Hour)), 0, time.Minute, now)
	if ok {
		t.Error("invalid rate must fail closed")
	}
	if !errors.Is(err, rate.ErrInvalidRate) {
		t.Errorf("err = %v, want ErrInvalidRate", err)
	}
}

func TestEnoughTimeLeft_TinyRateFailsClosed(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	end := model.Some(now.Add(24 * time.Hour))

	for _, r := range []float64{1e-12, 1e-9, math.SmallestNonzeroFloat64} {
		t.Run(fmt.Sprint(r), func(t *testing.T) {
			if _, err := AdjustedLength(3*time.Minute, r); !errors.Is(err, rate.ErrInvalidRate) {
				t.Errorf("AdjustedLength err = %v, want ErrInvalidRate", err)
			}
			ok, err := EnoughTimeLeft(end, r, 3*time.Minute, now)
			if ok {
				t.Error("a rate that overflows the adjusted length must not open the gate")
			}
			if !errors.Is(err, rate.ErrInvalidRate) {
				t.Errorf("EnoughTimeLeft err = %v, want ErrInvalidRate", err)
			}
		})
	}
}

func TestAdjustedLength_SlowRateWithinRange(t *testing.T) {
	// A 1000x slowdown of a three minute track is large but representable.
	got, err := AdjustedLength(3*time.Minute, 0.001)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := 3000 * time.Minute; got != want {
		t.Errorf("AdjustedLength = %v, want %v", got, want)
	}
}
