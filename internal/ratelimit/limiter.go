package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the reference minimum gap between requests to one source.
const DefaultInterval = 1500 * time.Millisecond

// ErrMisconfigured is returned when a limiter is built with a non-positive interval.
var ErrMisconfigured = errors.New("rate limit misconfigured")

// Limiter spaces requests to a single source at least Interval apart.
type Limiter struct {
	source   string
	interval time.Duration
	lim      *rate.Limiter

	mu          sync.Mutex
	lastGranted time.Time
	granted     int64
}

// NewLimiter creates a limiter for source. The first Wait is granted immediately.
func NewLimiter(source string, interval time.Duration) (*Limiter, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: %s interval must be positive, got %v", ErrMisconfigured, source, interval)
	}
	return &Limiter{
		source:   source,
		interval: interval,
		lim:      rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// Source returns the source name this limiter guards.
func (l *Limiter) Source() string { return l.source }

// Interval returns the configured minimum gap.
func (l *Limiter) Interval() time.Duration { return l.interval }

// Wait blocks until the source may be called again, then records the grant.
// It only fails when ctx ends first.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter %s: %w", l.source, err)
	}

	l.mu.Lock()
	l.lastGranted = time.Now()
	l.granted++
	l.mu.Unlock()

	return nil
}

// Stats returns the time of the last grant and the total grant count.
func (l *Limiter) Stats() (lastGranted time.Time, granted int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastGranted, l.granted
}
