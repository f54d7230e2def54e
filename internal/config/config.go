// Package config loads server settings from READYGATE_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL string // READYGATE_DATABASE_URL (optional, empty = rooms come from the bus only)
	GRPCAddr    string // READYGATE_GRPC_ADDR (default ":9090")
	HTTPAddr    string // READYGATE_HTTP_ADDR (default ":8080")
	NATSURL     string // READYGATE_NATS_URL (optional, empty = in-process bus)
	AuthToken   string // READYGATE_AUTH_TOKEN (optional, empty = auth disabled)

	// Gate settings
	RoomID       int64         // READYGATE_ROOM_ID (required)
	UserID       int64         // READYGATE_USER_ID (required)
	TickInterval time.Duration // READYGATE_TICK_INTERVAL (default 100ms)
	RateTable    string        // READYGATE_RATE_TABLE (optional TOML file)
	Label        string        // READYGATE_LABEL (default "Start")
	BaseTooltip  string        // READYGATE_BASE_TOOLTIP (optional)
}

func Load() (*Config, error) {
	c := &Config{
		DatabaseURL: os.Getenv("READYGATE_DATABASE_URL"),
		GRPCAddr:    envOrDefault("READYGATE_GRPC_ADDR", ":9090"),
		HTTPAddr:    envOrDefault("READYGATE_HTTP_ADDR", ":8080"),
		NATSURL:     os.Getenv("READYGATE_NATS_URL"),
		AuthToken:   os.Getenv("READYGATE_AUTH_TOKEN"),
		RateTable:   os.Getenv("READYGATE_RATE_TABLE"),
		Label:       envOrDefault("READYGATE_LABEL", "Start"),
		BaseTooltip: os.Getenv("READYGATE_BASE_TOOLTIP"),
	}

	var err error
	if c.RoomID, err = requiredID("READYGATE_ROOM_ID"); err != nil {
		return nil, err
	}
	if c.UserID, err = requiredID("READYGATE_USER_ID"); err != nil {
		return nil, err
	}

	intervalStr := envOrDefault("READYGATE_TICK_INTERVAL", "100ms")
	d, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("READYGATE_TICK_INTERVAL: %w", err)
	}
	if d <= 0 {
		return nil, fmt.Errorf("READYGATE_TICK_INTERVAL must be positive, got %s", intervalStr)
	}
	c.TickInterval = d

	return c, nil
}

func requiredID(key string) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return id, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
