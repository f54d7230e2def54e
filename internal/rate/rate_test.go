package rate

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/alfredjeanlab/readygate/internal/model"
)

func TestDefaultRate(t *testing.T) {
	for _, tc := range []struct {
		name string
		mods []model.Mod
		want float64
	}{
		{"NoMods", nil, 1},
		{"NonRateMod", model.ParseMods("HD,HR"), 1},
		{"DoubleTime", model.ParseMods("DT"), 1.5},
		{"HalfTime", model.ParseMods("HT"), 0.75},
		{"Nightcore", model.ParseMods("NC,HD"), 1.5},
		{"LowerCase", []model.Mod{{Acronym: "dc"}}, 0.75},
		{"CustomSpeed", []model.Mod{{Acronym: "DT", SpeedChange: model.Some(1.2)}}, 1.2},
		{"WindUpInitialRate", []model.Mod{{Acronym: "WU", SpeedChange: model.Some(0.9)}}, 0.9},
		{"Product", []model.Mod{{Acronym: "DT"}, {Acronym: "HT"}}, 1.125},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Default(tc.mods)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("rate = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRateRejectsInvalid(t *testing.T) {
	for _, speed := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		mods := []model.Mod{{Acronym: "DT", SpeedChange: model.Some(speed)}}
		if _, err := Default(mods); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("speed %v: err = %v, want ErrInvalidRate", speed, err)
		}
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.toml")
	content := `
[mods.dt]
speed_change = 1.4

[mods.XS]
speed_change = 2.0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing table: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if got := table["DT"].SpeedChange; got != 1.4 {
		t.Errorf("DT = %v, want 1.4", got)
	}
	if got := table["XS"].SpeedChange; got != 2.0 {
		t.Errorf("XS = %v, want 2.0", got)
	}
	if got := table["HT"].SpeedChange; got != 0.75 {
		t.Errorf("HT should keep default, got %v", got)
	}
	if DefaultTable["DT"].SpeedChange != 1.5 {
		t.Error("LoadTable must not modify DefaultTable")
	}
}

func TestLoadTable_EmptyPath(t *testing.T) {
	table, err := LoadTable("")
	if err != nil {
		t.Fatalf("LoadTable(\"\"): %v", err)
	}
	if len(table) != len(DefaultTable) {
		t.Errorf("got %d entries, want %d", len(table), len(DefaultTable))
	}
}

func TestLoadTable_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTable(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	zero := filepath.Join(dir, "zero.toml")
	if err := os.WriteFile(zero, []byte("[mods.DT]\nspeed_change = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTable(zero); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("zero speed: err = %v, want ErrInvalidRate", err)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[mods.DT\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTable(bad); err == nil {
		t.Error("expected decode error")
	}
}
