package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// countingStore counts calls into a MemoryStore.
type countingStore struct {
	*MemoryStore
	gets, sets, deletes int
	failGet             error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: NewMemoryStore()}
}

func (c *countingStore) Get(ctx context.Context, key string) (Entry, bool, error) {
	c.gets++
	if c.failGet != nil {
		return Entry{}, false, c.failGet
	}
	return c.MemoryStore.Get(ctx, key)
}

func (c *countingStore) Set(ctx context.Context, e Entry) error {
	c.sets++
	return c.MemoryStore.Set(ctx, e)
}

func (c *countingStore) Delete(ctx context.Context, key string) error {
	c.deletes++
	return c.MemoryStore.Delete(ctx, key)
}

func TestEphemeral_ExpiresAtTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(nil, WithClock(clock.Now))

	c.SetEphemeral("k", []byte("v"), 10*time.Second)

	clock.Advance(9 * time.Second)
	if v, ok := c.GetEphemeral("k"); !ok || string(v) != "v" {
		t.Fatalf("GetEphemeral() = %q, %v; want v, true", v, ok)
	}

	clock.Advance(1 * time.Second)
	if _, ok := c.GetEphemeral("k"); ok {
		t.Error("GetEphemeral() returned entry at expiry")
	}
	if c.ephemeral.Len() != 0 {
		t.Errorf("expired entry not evicted, len = %d", c.ephemeral.Len())
	}
}

func TestEphemeral_Overwrite(t *testing.T) {
	c := New(nil)
	c.SetEphemeral("k", []byte("a"), time.Minute)
	c.SetEphemeral("k", []byte("b"), time.Minute)

	v, ok := c.GetEphemeral("k")
	if !ok || string(v) != "b" {
		t.Errorf("GetEphemeral() = %q, %v; want b, true", v, ok)
	}
}

func TestGet_PromotesDurableHit(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := newCountingStore()
	c := New(store, WithClock(clock.Now))

	if err := c.SetDurable(ctx, "k", "price_history", []byte("v"), time.Hour); err != nil {
		t.Fatalf("SetDurable() error = %v", err)
	}

	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || string(v) != "v" {
		t.Fatalf("Get() = %q, %v, %v", v, ok, err)
	}
	if store.gets != 1 {
		t.Fatalf("durable gets = %d, want 1", store.gets)
	}

	clock.Advance(DefaultPromotionTTL - time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("second Get() missed")
	}
	if store.gets != 1 {
		t.Errorf("second Get() within promotion window touched durable, gets = %d", store.gets)
	}

	clock.Advance(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Fatal("Get() after promotion expiry missed")
	}
	if store.gets != 2 {
		t.Errorf("durable gets = %d, want 2 after promotion expired", store.gets)
	}
}

func TestGet_CustomPromotionTTL(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := newCountingStore()
	c := New(store, WithClock(clock.Now), WithPromotionTTL(time.Second))

	_ = c.SetDurable(ctx, "k", "issue", []byte("v"), time.Hour)
	_, _, _ = c.Get(ctx, "k")
	clock.Advance(time.Second)
	_, _, _ = c.Get(ctx, "k")

	if store.gets != 2 {
		t.Errorf("durable gets = %d, want 2", store.gets)
	}
}

func TestGetDurable_EvictsExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := newCountingStore()
	c := New(store, WithClock(clock.Now))

	_ = c.SetDurable(ctx, "k", "issue", []byte("v"), time.Minute)
	clock.Advance(time.Minute)

	_, ok, err := c.GetDurable(ctx, "k")
	if err != nil {
		t.Fatalf("GetDurable() error = %v", err)
	}
	if ok {
		t.Error("GetDurable() returned expired entry")
	}
	if store.deletes != 1 {
		t.Errorf("durable deletes = %d, want 1", store.deletes)
	}
	if store.Len() != 0 {
		t.Errorf("store len = %d, want 0", store.Len())
	}
}

func TestSet_ZeroDurableTTLSkipsDurable(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	c := New(store)

	if err := c.Set(ctx, "k", "issue", []byte("v"), time.Minute, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if store.sets != 0 {
		t.Errorf("durable sets = %d, want 0", store.sets)
	}
	if _, ok := c.GetEphemeral("k"); !ok {
		t.Error("ephemeral tier missing value")
	}

	if err := c.Set(ctx, "k2", "issue", []byte("v"), time.Minute, time.Hour); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if store.sets != 1 {
		t.Errorf("durable sets = %d, want 1", store.sets)
	}
}

func TestSetDurable_Upserts(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	c := New(store)

	_ = c.SetDurable(ctx, "k", "issue", []byte("a"), time.Hour)
	_ = c.SetDurable(ctx, "k", "issue", []byte("b"), time.Hour)

	if store.Len() != 1 {
		t.Fatalf("store len = %d, want 1", store.Len())
	}
	v, ok, _ := c.GetDurable(ctx, "k")
	if !ok || string(v) != "b" {
		t.Errorf("GetDurable() = %q, %v; want b, true", v, ok)
	}
}

func TestSweepExpired(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	store := newCountingStore()
	c := New(store, WithClock(clock.Now))

	_ = c.SetDurable(ctx, "short1", "issue", []byte("v"), time.Minute)
	_ = c.SetDurable(ctx, "short2", "issue", []byte("v"), 2*time.Minute)
	_ = c.SetDurable(ctx, "long", "issue", []byte("v"), time.Hour)

	clock.Advance(2*time.Minute + time.Second)

	n, err := c.SweepExpired(ctx)
	if err != nil {
		t.Fatalf("SweepExpired() error = %v", err)
	}
	if n != 2 {
		t.Errorf("SweepExpired() = %d, want 2", n)
	}
	if store.Len() != 1 {
		t.Errorf("store len = %d, want 1", store.Len())
	}
	if _, ok, _ := c.GetDurable(ctx, "long"); !ok {
		t.Error("unexpired entry was swept")
	}
}

func TestGet_DurableErrorPropagates(t *testing.T) {
	store := newCountingStore()
	store.failGet = errors.New("connection refused")
	c := New(store)

	_, ok, err := c.Get(context.Background(), "k")
	if err == nil {
		t.Fatal("Get() expected error")
	}
	if ok {
		t.Error("Get() reported hit on error")
	}
}

func TestNilDurable(t *testing.T) {
	ctx := context.Background()
	c := New(nil)

	if err := c.SetDurable(ctx, "k", "issue", []byte("v"), time.Hour); err != nil {
		t.Errorf("SetDurable() error = %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = %v, %v; want miss", ok, err)
	}
	if n, err := c.SweepExpired(ctx); n != 0 || err != nil {
		t.Errorf("SweepExpired() = %d, %v", n, err)
	}
}

func TestJSONHelpers(t *testing.T) {
	type payload struct {
		Name  string  `json:"name"`
		Price float64 `json:"price"`
	}
	ctx := context.Background()
	c := New(NewMemoryStore())

	if _, err := GetJSON[payload](ctx, c, "missing"); !errors.Is(err, ErrMiss) {
		t.Errorf("GetJSON() error = %v, want ErrMiss", err)
	}

	in := payload{Name: "Amazing Spider-Man", Price: 42.5}
	if err := SetJSON(ctx, c, "k", "issue", in, time.Minute, time.Hour); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	got, err := GetJSON[payload](ctx, c, "k")
	if err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got != in {
		t.Errorf("GetJSON() = %+v, want %+v", got, in)
	}
}

func TestDelete_BothTiers(t *testing.T) {
	ctx := context.Background()
	store := newCountingStore()
	c := New(store)

	_ = c.Set(ctx, "k", "issue", []byte("v"), time.Minute, time.Hour)
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("Get() returned deleted entry")
	}
}
