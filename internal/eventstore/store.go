// Package eventstore keeps an append-only log of build events in SQLite and
// projects it into a build history.
package eventstore

import (
	"context"
	"time"
)

// Store persists and retrieves events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// GetByBuildID retrieves all events for a specific build, oldest first.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range, oldest first.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// Close releases resources.
	Close() error
}
