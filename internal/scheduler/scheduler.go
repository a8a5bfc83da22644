package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/rickgao/longbox/internal/wantlist"
)

// Checker runs a want-list check. *wantlist.Matcher implements it.
type Checker interface {
	RunCheck(ctx context.Context, target *uuid.UUID) (wantlist.RunResult, error)
}

// Sweeper removes expired durable cache entries. *cache.Tiered implements it.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Config holds scheduler configuration.
type Config struct {
	CheckSpec  string        // Want-list check schedule; empty disables
	SweepSpec  string        // Cache sweep schedule; empty disables
	RunOnStart bool          // Run one check immediately on Start
	JobTimeout time.Duration // Per-run timeout; zero means none
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		CheckSpec:  "@every 6h",
		SweepSpec:  "@every 1h",
		RunOnStart: true,
		JobTimeout: 30 * time.Minute,
	}
}

// Scheduler owns the cron runner for the maintenance jobs.
type Scheduler struct {
	cfg     Config
	checker Checker
	sweeper Sweeper
	cron    *cron.Cron
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler. Either job may be nil to disable it.
func New(cfg Config, checker Checker, sweeper Sweeper, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	cronLog := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))

	return &Scheduler{
		cfg:     cfg,
		checker: checker,
		sweeper: sweeper,
		cron:    cron.New(cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog))),
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	if s.checker != nil && s.cfg.CheckSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.CheckSpec, s.runCheck); err != nil {
			s.cancel()
			return fmt.Errorf("schedule check %q: %w", s.cfg.CheckSpec, err)
		}
	}
	if s.sweeper != nil && s.cfg.SweepSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.SweepSpec, s.runSweep); err != nil {
			s.cancel()
			return fmt.Errorf("schedule sweep %q: %w", s.cfg.SweepSpec, err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		"check_spec", s.cfg.CheckSpec,
		"sweep_spec", s.cfg.SweepSpec,
	)

	if s.cfg.RunOnStart && s.checker != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runCheck()
		}()
	}

	return nil
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}
	cronDone := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) jobContext() (context.Context, context.CancelFunc) {
	if s.cfg.JobTimeout > 0 {
		return context.WithTimeout(s.ctx, s.cfg.JobTimeout)
	}
	return context.WithCancel(s.ctx)
}

func (s *Scheduler) runCheck() {
	ctx, cancel := s.jobContext()
	defer cancel()

	start := time.Now()
	res, err := s.checker.RunCheck(ctx, nil)
	if err != nil {
		s.logger.Error("scheduled check failed", "error", err)
		return
	}
	s.logger.Info("scheduled check complete",
		"checked", res.CheckedItems,
		"new_matches", res.NewMatches,
		"duration", time.Since(start),
	)
}

func (s *Scheduler) runSweep() {
	ctx, cancel := s.jobContext()
	defer cancel()

	n, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("scheduled sweep failed", "error", err)
		return
	}
	s.logger.Info("cache sweep complete", "removed", n)
}
