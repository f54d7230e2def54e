package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/readygate/internal/events"
	"github.com/alfredjeanlab/readygate/internal/model"
)

func defaultNATSURL() string {
	if s := os.Getenv("READYGATE_NATS_URL"); s != "" {
		return s
	}
	return activeProfile().NATSURL
}

// emitCmd is the parent command for publishing room events.
var emitCmd = &cobra.Command{
	Use:     "emit",
	Short:   "Publish a room event to the bus",
	GroupID: "gate",
}

// publishOne connects to NATS, publishes a single event and waits until
// the server has it.
func publishOne(cmd *cobra.Command, topic string, event any) error {
	natsURL, _ := cmd.Flags().GetString("nats-url")
	if natsURL == "" {
		return fmt.Errorf("--nats-url or READYGATE_NATS_URL is required")
	}
	pub, err := events.NewNATSPublisher(natsURL)
	if err != nil {
		return err
	}
	defer pub.Close()

	if err := pub.Publish(context.Background(), topic, event); err != nil {
		return err
	}
	if err := pub.Flush(); err != nil {
		return fmt.Errorf("flushing: %w", err)
	}
	if !jsonOutput {
		fmt.Fprintf(cmd.OutOrStdout(), "Published %s\n", topic)
		return nil
	}
	return printJSON(cmd.OutOrStdout(), map[string]any{"topic": topic, "event": event})
}

var emitScoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Publish an aggregate score update",
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, _ := cmd.Flags().GetInt64("room")
		userID, _ := cmd.Flags().GetInt64("user")
		attemptsStr, _ := cmd.Flags().GetString("attempts")

		attempts, err := parseAttempts(attemptsStr)
		if err != nil {
			return fmt.Errorf("--attempts: %w", err)
		}
		return publishOne(cmd, events.ScoreTopic(roomID), events.ScoreUpdated{
			Score: model.AggregateScore{RoomID: roomID, UserID: userID, PlaylistItemAttempts: attempts},
		})
	},
}

var emitSelectionCmd = &cobra.Command{
	Use:   "selection",
	Short: "Publish a change of mods or loaded track",
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, _ := cmd.Flags().GetInt64("room")
		userID, _ := cmd.Flags().GetInt64("user")
		modsStr, _ := cmd.Flags().GetString("mods")
		length, _ := cmd.Flags().GetDuration("length")

		return publishOne(cmd, events.SelectionTopic(roomID), events.SelectionChanged{
			UserID:        userID,
			Mods:          model.ParseMods(modsStr),
			TrackLengthMS: length.Milliseconds(),
		})
	},
}

var emitRoomCmd = &cobra.Command{
	Use:   "room",
	Short: "Publish a change of the room deadline or quota",
	RunE: func(cmd *cobra.Command, args []string) error {
		roomID, _ := cmd.Flags().GetInt64("room")
		endStr, _ := cmd.Flags().GetString("end")
		maxAttempts, _ := cmd.Flags().GetInt("max-attempts")

		end, err := parseInstant(endStr, time.Now())
		if err != nil {
			return fmt.Errorf("--end: %w", err)
		}
		return publishOne(cmd, events.RoomTopic(roomID), events.RoomUpdated{
			Room: model.RoomState{
				ID:          roomID,
				EndDate:     end,
				MaxAttempts: optInt(maxAttempts, cmd.Flags().Changed("max-attempts")),
			},
		})
	},
}

func init() {
	emitCmd.PersistentFlags().String("nats-url", defaultNATSURL(), "NATS server URL")
	emitCmd.PersistentFlags().Int64("room", 0, "room ID")
	_ = emitCmd.MarkPersistentFlagRequired("room")

	emitScoreCmd.Flags().Int64("user", 0, "user ID")
	emitScoreCmd.Flags().String("attempts", "", "attempts per playlist item, e.g. 1,2")

	emitSelectionCmd.Flags().Int64("user", 0, "user ID")
	emitSelectionCmd.Flags().String("mods", "", "active mods, e.g. DT,HD")
	emitSelectionCmd.Flags().Duration("length", 0, "length of the loaded track")

	emitRoomCmd.Flags().String("end", "", "end date (RFC 3339 or offset from now); empty = none")
	emitRoomCmd.Flags().Int("max-attempts", 0, "attempt quota; omit for unlimited")

	emitCmd.AddCommand(emitScoreCmd)
	emitCmd.AddCommand(emitSelectionCmd)
	emitCmd.AddCommand(emitRoomCmd)
}
