package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/rickgao/longbox/internal/ratelimit"
)

// healthCheck pings one backing service.
type healthCheck struct {
	name string
	ping func(ctx context.Context) error
}

// sourceState reports whether a source has credentials.
type sourceState interface {
	Name() string
	Enabled() bool
}

func (a *app) healthChecks() []healthCheck {
	checks := []healthCheck{{name: "postgres", ping: a.pool.Ping}}
	if a.rdb != nil {
		checks = append(checks, healthCheck{
			name: "redis",
			ping: func(ctx context.Context) error { return a.rdb.Ping(ctx).Err() },
		})
	}
	return checks
}

func (a *app) sourceStates() []sourceState {
	return []sourceState{a.market, a.metron, a.comicvine}
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(checks []healthCheck, sources []sourceState, limits *ratelimit.Registry, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string         `json:"status"`
			Components map[string]any `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]any),
		}

		for _, c := range checks {
			if err := c.ping(ctx); err != nil {
				health.Status = "unhealthy"
				health.Components[c.name] = map[string]string{
					"status": "disconnected",
					"error":  err.Error(),
				}
				continue
			}
			health.Components[c.name] = "connected"
		}

		for _, s := range sources {
			state := map[string]any{"enabled": s.Enabled()}
			if limits != nil {
				lim := limits.Get(s.Name())
				last, granted := lim.Stats()
				state["min_interval"] = lim.Interval().String()
				state["requests"] = granted
				if !last.IsZero() {
					state["last_request"] = last.UTC().Format(time.RFC3339)
				}
			}
			health.Components[s.Name()] = state
			if !s.Enabled() && health.Status == "healthy" {
				health.Status = "degraded"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(health); err != nil {
			logger.Warn("encode health response", "error", err)
		}
	})

	return mux
}
