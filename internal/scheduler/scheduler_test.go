package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/longbox/internal/wantlist"
)

type countingChecker struct {
	calls atomic.Int32
	err   error
}

func (c *countingChecker) RunCheck(ctx context.Context, target *uuid.UUID) (wantlist.RunResult, error) {
	c.calls.Add(1)
	return wantlist.RunResult{CheckedItems: 1}, c.err
}

type countingSweeper struct {
	calls atomic.Int32
}

func (c *countingSweeper) SweepExpired(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return 3, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestScheduler_RunOnStart(t *testing.T) {
	checker := &countingChecker{}
	cfg := Config{CheckSpec: "@every 1h", RunOnStart: true}
	s := New(cfg, checker, nil, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitFor(t, func() bool { return checker.calls.Load() == 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestScheduler_SweepFires(t *testing.T) {
	sweeper := &countingSweeper{}
	s := New(Config{SweepSpec: "@every 1s"}, nil, sweeper, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	waitFor(t, func() bool { return sweeper.calls.Load() >= 1 })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(Config{CheckSpec: "every tuesday"}, &countingChecker{}, nil, nil)
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start() expected error for invalid spec")
	}
}

func TestScheduler_CheckErrorDoesNotPanic(t *testing.T) {
	checker := &countingChecker{err: errors.New("db down")}
	s := New(Config{}, checker, nil, nil)
	s.ctx = context.Background()

	s.runCheck()

	if checker.calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", checker.calls.Load())
	}
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := New(Config{JobTimeout: time.Minute}, nil, nil, nil)
	s.ctx = context.Background()

	ctx, cancel := s.jobContext()
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("job context has no deadline")
	}
}
