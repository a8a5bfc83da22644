package ratelimit

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Registry holds the process-wide limiter for each source.
type Registry struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
}

// NewRegistry builds one limiter per entry. Any non-positive interval fails
// the whole construction.
func NewRegistry(intervals map[string]time.Duration) (*Registry, error) {
	r := &Registry{limiters: make(map[string]*Limiter, len(intervals))}
	for source, interval := range intervals {
		lim, err := NewLimiter(source, interval)
		if err != nil {
			return nil, err
		}
		r.limiters[source] = lim
	}
	return r, nil
}

// Get returns the limiter for source, creating one with DefaultInterval if
// the source was not configured.
func (r *Registry) Get(source string) *Limiter {
	r.mu.RLock()
	lim, ok := r.limiters[source]
	r.mu.RUnlock()
	if ok {
		return lim
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if lim, ok := r.limiters[source]; ok {
		return lim
	}
	lim, _ = NewLimiter(source, DefaultInterval)
	r.limiters[source] = lim
	return lim
}

// Acquire waits on the limiter for source.
func (r *Registry) Acquire(ctx context.Context, source string) error {
	if err := r.Get(source).Wait(ctx); err != nil {
		return fmt.Errorf("acquire %s: %w", source, err)
	}
	return nil
}

// Sources lists the configured sources in name order.
func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.limiters))
	for name := range r.limiters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
