package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// DefaultPromotionTTL is how long a durable hit stays in the ephemeral tier.
const DefaultPromotionTTL = 300 * time.Second

// Tiered combines the ephemeral and durable tiers.
type Tiered struct {
	ephemeral    *Ephemeral
	durable      Durable
	promotionTTL time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// Option configures a Tiered cache.
type Option func(*Tiered)

// WithPromotionTTL overrides DefaultPromotionTTL.
func WithPromotionTTL(d time.Duration) Option {
	return func(t *Tiered) {
		t.promotionTTL = d
	}
}

// WithClock injects the time source used by both tiers.
func WithClock(now func() time.Time) Option {
	return func(t *Tiered) {
		t.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tiered) {
		t.logger = logger
	}
}

// New creates a tiered cache. A nil durable tier makes every durable
// operation a no-op miss, leaving only process-local caching.
func New(durable Durable, opts ...Option) *Tiered {
	t := &Tiered{
		durable:      durable,
		promotionTTL: DefaultPromotionTTL,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.ephemeral = NewEphemeral(t.now)
	return t
}

// GetEphemeral reads only the in-process tier.
func (t *Tiered) GetEphemeral(key string) ([]byte, bool) {
	return t.ephemeral.Get(key)
}

// SetEphemeral writes only the in-process tier.
func (t *Tiered) SetEphemeral(key string, value []byte, ttl time.Duration) {
	t.ephemeral.Set(key, value, ttl)
}

// GetDurable reads only the durable tier. An expired entry is deleted from
// durable storage and reported as absent.
func (t *Tiered) GetDurable(ctx context.Context, key string) ([]byte, bool, error) {
	if t.durable == nil {
		return nil, false, nil
	}

	entry, ok, err := t.durable.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("durable get %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	if !entry.Valid(t.now()) {
		if err := t.durable.Delete(ctx, key); err != nil {
			return nil, false, fmt.Errorf("durable evict %s: %w", key, err)
		}
		t.logger.Debug("evicted expired durable entry", "key", key, "expires_at", entry.ExpiresAt)
		return nil, false, nil
	}
	return entry.Value, true, nil
}

// SetDurable upserts key into the durable tier with ttl.
func (t *Tiered) SetDurable(ctx context.Context, key, dataType string, value []byte, ttl time.Duration) error {
	if t.durable == nil {
		return nil
	}

	now := t.now()
	entry := Entry{
		Key:       key,
		DataType:  dataType,
		Value:     value,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := t.durable.Set(ctx, entry); err != nil {
		return fmt.Errorf("durable set %s: %w", key, err)
	}
	return nil
}

// Get checks the ephemeral tier, then the durable tier, promoting durable
// hits into the ephemeral tier.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := t.ephemeral.Get(key); ok {
		return v, true, nil
	}

	v, ok, err := t.GetDurable(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	t.Promote(key, v)
	return v, true, nil
}

// Promote copies a durable value into the ephemeral tier for the promotion TTL.
func (t *Tiered) Promote(key string, value []byte) {
	t.ephemeral.Set(key, value, t.promotionTTL)
}

// Set always writes the ephemeral tier and writes the durable tier only
// when durableTTL is positive.
func (t *Tiered) Set(ctx context.Context, key, dataType string, value []byte, ephemeralTTL, durableTTL time.Duration) error {
	t.ephemeral.Set(key, value, ephemeralTTL)
	if durableTTL <= 0 {
		return nil
	}
	return t.SetDurable(ctx, key, dataType, value, durableTTL)
}

// Delete evicts key from both tiers.
func (t *Tiered) Delete(ctx context.Context, key string) error {
	t.ephemeral.Delete(key)
	if t.durable == nil {
		return nil
	}
	if err := t.durable.Delete(ctx, key); err != nil {
		return fmt.Errorf("durable delete %s: %w", key, err)
	}
	return nil
}

// SweepExpired deletes every durable entry whose expiry has passed and
// returns the count. It is meant to be called by a scheduler.
func (t *Tiered) SweepExpired(ctx context.Context) (int64, error) {
	if t.durable == nil {
		return 0, nil
	}
	n, err := t.durable.DeleteExpired(ctx, t.now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired: %w", err)
	}
	return n, nil
}

// GetJSON reads key and decodes it into a T. It returns ErrMiss when both
// tiers miss.
func GetJSON[T any](ctx context.Context, t *Tiered, key string) (T, error) {
	var out T
	raw, ok, err := t.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if !ok {
		return out, ErrMiss
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return out, nil
}

// SetJSON encodes value and stores it with Set.
func SetJSON[T any](ctx context.Context, t *Tiered, key, dataType string, value T, ephemeralTTL, durableTTL time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return t.Set(ctx, key, dataType, raw, ephemeralTTL, durableTTL)
}
