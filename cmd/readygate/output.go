package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alfredjeanlab/readygate/internal/model"
	"github.com/alfredjeanlab/readygate/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printGateStatus(w io.Writer, st *model.GateStatus) {
	label := st.Label
	if label == "" {
		label = "Start"
	}
	state := "disabled"
	if st.Enabled {
		state = "enabled"
	}
	fmt.Fprintf(w, "%s  %s\n", ui.RenderGate(label, st.Enabled), state)
	if st.RoomID != 0 {
		fmt.Fprintf(w, "Room:       %d (user %d)\n", st.RoomID, st.UserID)
	}
	if st.Tooltip != "" {
		fmt.Fprintf(w, "Tooltip:    %s\n", st.Tooltip)
	}
	if !st.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated At: %s\n", ui.RenderMuted(st.UpdatedAt.Format("2006-01-02 15:04:05")))
	}
}
