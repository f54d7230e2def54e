package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestOpt(t *testing.T) {
	var zero Opt[int]
	if zero.IsSome() {
		t.Error("zero Opt should be absent")
	}
	if got := zero.OrElse(7); got != 7 {
		t.Errorf("OrElse on absent = %d, want 7", got)
	}

	some := Some(3)
	v, ok := some.Get()
	if !ok || v != 3 {
		t.Errorf("Some(3).Get() = (%d, %v), want (3, true)", v, ok)
	}
	if got := some.OrElse(7); got != 3 {
		t.Errorf("OrElse on present = %d, want 3", got)
	}

	n := 5
	if got := FromPtr(&n); !got.IsSome() || got.OrElse(0) != 5 {
		t.Errorf("FromPtr(&5) = %+v", got)
	}
	if got := FromPtr[int](nil); got.IsSome() {
		t.Error("FromPtr(nil) should be absent")
	}
}

func TestOptJSON(t *testing.T) {
	end := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	room := RoomState{ID: 42, EndDate: Some(end)}

	data, err := json.Marshal(room)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"id":42,"end_date":"2026-03-01T12:00:00Z","max_attempts":null}`
	if string(data) != want {
		t.Errorf("marshal = %s, want %s", data, want)
	}

	var got RoomState
	if err := json.Unmarshal([]byte(`{"id":42,"end_date":null,"max_attempts":3}`), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.EndDate.IsSome() {
		t.Error("end_date null should decode as absent")
	}
	if m, ok := got.MaxAttempts.Get(); !ok || m != 3 {
		t.Errorf("max_attempts = (%d, %v), want (3, true)", m, ok)
	}

	// A missing field stays absent.
	var missing RoomState
	if err := json.Unmarshal([]byte(`{"id":1}`), &missing); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if missing.MaxAttempts.IsSome() || missing.EndDate.IsSome() {
		t.Errorf("missing fields should be absent: %+v", missing)
	}
}

func TestTotalAttempts(t *testing.T) {
	for _, tc := range []struct {
		name  string
		items []ItemAttempts
		want  int
	}{
		{"Empty", nil, 0},
		{"Single", []ItemAttempts{{PlaylistItemID: 1, Attempts: 4}}, 4},
		{"Several", []ItemAttempts{{1, 2}, {2, 3}, {3, 0}}, 5},
		{"NegativeTakenAsGiven", []ItemAttempts{{1, 3}, {2, -1}}, 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := AggregateScore{PlaylistItemAttempts: tc.items}
			if got := s.TotalAttempts(); got != tc.want {
				t.Errorf("TotalAttempts() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseMods(t *testing.T) {
	got := ParseMods(" dt, ,HD,nc ")
	want := []string{"DT", "HD", "NC"}
	if len(got) != len(want) {
		t.Fatalf("ParseMods returned %d mods, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.Acronym != want[i] {
			t.Errorf("mod[%d] = %q, want %q", i, m.Acronym, want[i])
		}
		if m.SpeedChange.IsSome() {
			t.Errorf("mod[%d] should have no speed change", i)
		}
	}
	if mods := ParseMods(""); len(mods) != 0 {
		t.Errorf("ParseMods(\"\") = %v, want empty", mods)
	}
}
