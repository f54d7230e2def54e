package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// MemoryBus is an in-process Publisher and Subscriber. It is used when no
// NATS URL is configured, so a single process can still drive a gate loop.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[*memorySub]struct{}
	closed bool
	logger *slog.Logger
}

type memorySub struct {
	pattern string
	ch      chan []byte
}

// NewMemoryBus returns an empty bus. A nil logger uses slog.Default().
func NewMemoryBus(logger *slog.Logger) *MemoryBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryBus{subs: make(map[*memorySub]struct{}), logger: logger}
}

// Publish delivers the JSON-encoded event to every matching subscriber.
// Slow subscribers miss messages rather than block the publisher.
func (b *MemoryBus) Publish(ctx context.Context, topic string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("publishing to %s: bus closed", topic)
	}
	for s := range b.subs {
		if !MatchTopic(s.pattern, topic) {
			continue
		}
		select {
		case s.ch <- data:
		default:
			b.logger.Warn("events: dropping message, subscriber buffer full", "topic", topic, "pattern", s.pattern)
		}
	}
	return nil
}

// Subscribe registers a pattern subscription.
func (b *MemoryBus) Subscribe(topic string) (<-chan []byte, func(), error) {
	s := &memorySub{pattern: topic, ch: make(chan []byte, 64)}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, nil, fmt.Errorf("subscribing to %s: bus closed", topic)
	}
	b.subs[s] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			if _, ok := b.subs[s]; ok {
				delete(b.subs, s)
				close(s.ch)
			}
			b.mu.Unlock()
		})
	}
	return s.ch, cancel, nil
}

// Close closes every subscription channel.
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for s := range b.subs {
		close(s.ch)
		delete(b.subs, s)
	}
	return nil
}

// MatchTopic matches a dot-separated topic against a pattern.
// Supports "*" as a single-segment wildcard and ">" as a multi-segment
// suffix wildcard (NATS-style).
func MatchTopic(pattern, topic string) bool {
	if pattern == topic {
		return true
	}

	patParts := strings.Split(pattern, ".")
	topParts := strings.Split(topic, ".")

	for i, pp := range patParts {
		if pp == ">" {
			// ">" matches one or more remaining segments.
			return i < len(topParts)
		}
		if i >= len(topParts) {
			return false
		}
		if pp != "*" && pp != topParts[i] {
			return false
		}
	}

	return len(patParts) == len(topParts)
}
