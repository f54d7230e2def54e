package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/readygate/internal/model"
)

// parseInstant accepts an RFC 3339 timestamp or a duration offset from now
// ("10h", "-5m"). An empty string is absent.
func parseInstant(s string, now time.Time) (model.Opt[time.Time], error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.None[time.Time](), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return model.Some(t), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return model.None[time.Time](), fmt.Errorf("%q is neither an RFC 3339 time nor a duration", s)
	}
	return model.Some(now.Add(d)), nil
}

// parseAttempts parses "3,0,2" into per-item counts. Items are numbered
// from 1 in order.
func parseAttempts(s string) ([]model.ItemAttempts, error) {
	items := []model.ItemAttempts{}
	s = strings.TrimSpace(s)
	if s == "" {
		return items, nil
	}
	for i, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("attempts for item %d: %w", i+1, err)
		}
		items = append(items, model.ItemAttempts{PlaylistItemID: int64(i + 1), Attempts: n})
	}
	return items, nil
}

// optInt returns v when the flag was given and absent otherwise.
func optInt(v int, given bool) model.Opt[int] {
	if !given {
		return model.None[int]()
	}
	return model.Some(v)
}
