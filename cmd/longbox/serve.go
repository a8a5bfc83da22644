package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rickgao/longbox/internal/scheduler"
	"github.com/rickgao/longbox/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled checks and cache sweeps with a health endpoint",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("no-initial-check", false, "Skip the want-list check on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting longbox",
		"version", version.Version,
		"commit", version.Commit,
	)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	skipInitial, _ := cmd.Flags().GetBool("no-initial-check")
	schedCfg := scheduler.DefaultConfig()
	schedCfg.CheckSpec = cfg.Schedule.CheckSpec
	schedCfg.SweepSpec = cfg.Schedule.SweepSpec
	schedCfg.RunOnStart = !skipInitial

	sched := scheduler.New(schedCfg, a.matcher, a.cache, logger)

	healthServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Health.Port),
		Handler:           createHealthHandler(a.healthChecks(), a.sourceStates(), a.limits, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()

	if err := sched.Start(ctx); err != nil {
		return err
	}

	logger.Info("longbox running",
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler stop timed out", "error", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("health server shutdown", "error", err)
	}

	logger.Info("longbox stopped")
	return nil
}
