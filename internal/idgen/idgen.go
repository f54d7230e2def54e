// Package idgen generates short identifiers for gate loops and stream
// clients, so log lines and gate events from one process can be told apart.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Kind selects the prefix of a generated ID.
type Kind string

const (
	KindLoop   Kind = "gl-" // one per host loop
	KindStream Kind = "st-" // one per SSE subscriber
)

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	size     = 12
)

// New returns a fresh ID of the given kind.
func New(kind Kind) (string, error) {
	id, err := nanoid.Generate(alphabet, size)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return string(kind) + id, nil
}

// MustNew is like New but falls back to a fixed placeholder when the random
// source fails. IDs are only used for correlation, never for identity.
func MustNew(kind Kind) string {
	id, err := New(kind)
	if err != nil {
		return string(kind) + "unknown"
	}
	return id
}
