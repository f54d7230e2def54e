package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/readygate/internal/control"
	"github.com/alfredjeanlab/readygate/internal/gate"
	"github.com/alfredjeanlab/readygate/internal/model"
	"github.com/alfredjeanlab/readygate/internal/rate"
	"github.com/alfredjeanlab/readygate/internal/ui"
)

// checkOptions is a fully parsed one-shot evaluation.
type checkOptions struct {
	Room        model.RoomState
	Attempts    []model.ItemAttempts
	Mods        []model.Mod
	TrackLength time.Duration
	Now         time.Time
	Rate        rate.Func
	BaseTooltip string
}

// checkResult is what check prints.
type checkResult struct {
	State   string `json:"state"`
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason,omitempty"`
	Tooltip string `json:"tooltip"`
	Error   string `json:"error,omitempty"`
}

// staticInputs serves fixed snapshots to a gate.
type staticInputs struct {
	room   model.RoomState
	mods   []model.Mod
	length time.Duration
}

func (s staticInputs) Room() model.RoomState          { return s.room }
func (s staticInputs) Mods() []model.Mod              { return s.mods }
func (s staticInputs) ContentDuration() time.Duration { return s.length }

// runCheck evaluates a gate once, the way a served gate does on its first
// tick after a score arrives.
func runCheck(opts checkOptions, logger *slog.Logger) checkResult {
	button := control.NewButton("", opts.BaseTooltip)
	pending := &control.Pending{Base: button.BaseTooltip()}
	g := gate.New(staticInputs{room: opts.Room, mods: opts.Mods, length: opts.TrackLength}, pending, &gate.Config{
		Rate:   opts.Rate,
		Now:    func() time.Time { return opts.Now },
		Logger: logger,
	})
	g.ScoreChanged(model.AggregateScore{RoomID: opts.Room.ID, PlaylistItemAttempts: opts.Attempts})
	ev := g.Tick()
	button.Set(pending.Enabled, g.TooltipFor(ev), opts.Now)

	snap := button.Snapshot()
	res := checkResult{
		State:   ev.State.String(),
		Enabled: snap.Enabled,
		Reason:  string(ev.Reason),
		Tooltip: snap.Tooltip,
	}
	if ev.Err != nil {
		res.Error = ev.Err.Error()
	}
	return res
}

func printCheckResult(w io.Writer, res checkResult) {
	fmt.Fprintf(w, "%s  %s\n", ui.RenderGate(control.DefaultLabel, res.Enabled), res.State)
	fmt.Fprintf(w, "Tooltip: %s\n", res.Tooltip)
	if res.Error != "" {
		fmt.Fprintf(w, "Error:   %s\n", ui.RenderMuted(res.Error))
	}
}

var checkCmd = &cobra.Command{
	Use:     "check",
	Short:   "Evaluate the gate once from flags",
	GroupID: "gate",
	Example: `  readygate check --end 10h --length 60s
  readygate check --end 2026-11-01T18:00:00Z --max-attempts 3 --attempts 1,2 --mods DT`,
	RunE: func(cmd *cobra.Command, args []string) error {
		nowStr, _ := cmd.Flags().GetString("now")
		endStr, _ := cmd.Flags().GetString("end")
		maxAttempts, _ := cmd.Flags().GetInt("max-attempts")
		attemptsStr, _ := cmd.Flags().GetString("attempts")
		modsStr, _ := cmd.Flags().GetString("mods")
		length, _ := cmd.Flags().GetDuration("length")
		tablePath, _ := cmd.Flags().GetString("rate-table")
		tooltip, _ := cmd.Flags().GetString("tooltip")
		exitCode, _ := cmd.Flags().GetBool("exit-code")

		now := time.Now()
		if nowStr != "" {
			t, err := time.Parse(time.RFC3339, nowStr)
			if err != nil {
				return fmt.Errorf("--now: %w", err)
			}
			now = t
		}
		end, err := parseInstant(endStr, now)
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		attempts, err := parseAttempts(attemptsStr)
		if err != nil {
			return fmt.Errorf("--attempts: %w", err)
		}
		table, err := rate.LoadTable(tablePath)
		if err != nil {
			return err
		}

		res := runCheck(checkOptions{
			Room: model.RoomState{
				EndDate:     end,
				MaxAttempts: optInt(maxAttempts, cmd.Flags().Changed("max-attempts")),
			},
			Attempts:    attempts,
			Mods:        model.ParseMods(modsStr),
			TrackLength: length,
			Now:         now,
			Rate:        table.Rate,
			BaseTooltip: tooltip,
		}, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		if jsonOutput {
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
		} else {
			printCheckResult(cmd.OutOrStdout(), res)
		}

		if exitCode && !res.Enabled {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().String("end", "", "room end date (RFC 3339 or offset from --now, e.g. 10h); empty = no end date")
	checkCmd.Flags().Int("max-attempts", 0, "attempt quota; omit for unlimited")
	checkCmd.Flags().String("attempts", "", "attempts per playlist item, e.g. 1,2")
	checkCmd.Flags().String("mods", "", "active mods, e.g. DT,HD")
	checkCmd.Flags().Duration("length", 0, "length of the loaded track")
	checkCmd.Flags().String("now", "", "evaluation time (RFC 3339); default is the current time")
	checkCmd.Flags().String("rate-table", "", "TOML file extending the mod rate table")
	checkCmd.Flags().String("tooltip", "", "base tooltip shown when the gate is enabled")
	checkCmd.Flags().Bool("exit-code", false, "exit 1 when the gate is disabled")
}
