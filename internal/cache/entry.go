package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by the typed helpers when neither tier holds the key.
// Get and friends report a miss with ok=false instead.
var ErrMiss = errors.New("cache miss")

// Entry is a single durable cache row.
type Entry struct {
	Key       string
	DataType  string // e.g. "price_history", "issue"
	Value     []byte // JSON-serialized payload
	FetchedAt time.Time
	ExpiresAt time.Time
}

// Valid reports whether the entry may still be served at now.
func (e Entry) Valid(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Durable is a persistent cache tier. Implementations rely on the storage
// engine's single-row atomicity; Set must upsert by key.
type Durable interface {
	// Get returns the stored entry regardless of expiry; ok is false when absent.
	Get(ctx context.Context, key string) (entry Entry, ok bool, err error)

	// Set inserts or replaces the entry for entry.Key.
	Set(ctx context.Context, entry Entry) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteExpired removes every entry with ExpiresAt before now and
	// returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
