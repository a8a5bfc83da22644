package cache

import (
	"sync"
	"time"
)

type ephemeralEntry struct {
	value     []byte
	expiresAt time.Time
}

// Ephemeral is the in-process tier. Concurrent writers to one key are
// last-writer-wins.
type Ephemeral struct {
	mu      sync.Mutex
	entries map[string]ephemeralEntry
	now     func() time.Time
}

// NewEphemeral creates an empty in-process tier.
func NewEphemeral(now func() time.Time) *Ephemeral {
	if now == nil {
		now = time.Now
	}
	return &Ephemeral{
		entries: make(map[string]ephemeralEntry),
		now:     now,
	}
}

// Get returns the value for key, evicting it if expired.
func (e *Ephemeral) Get(key string) ([]byte, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.entries[key]
	if !ok {
		return nil, false
	}
	if !e.now().Before(ent.expiresAt) {
		delete(e.entries, key)
		return nil, false
	}
	return ent.value, true
}

// Set stores value for ttl, overwriting any existing entry. A non-positive
// ttl removes the key.
func (e *Ephemeral) Set(key string, value []byte, ttl time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ttl <= 0 {
		delete(e.entries, key)
		return
	}
	e.entries[key] = ephemeralEntry{
		value:     value,
		expiresAt: e.now().Add(ttl),
	}
}

// Delete evicts key.
func (e *Ephemeral) Delete(key string) {
	e.mu.Lock()
	delete(e.entries, key)
	e.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (e *Ephemeral) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entries)
}
