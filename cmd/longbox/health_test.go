package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rickgao/longbox/internal/ratelimit"
)

type stubSource struct {
	name    string
	enabled bool
}

func (s stubSource) Name() string  { return s.name }
func (s stubSource) Enabled() bool { return s.enabled }

type healthBody struct {
	Status     string                     `json:"status"`
	Components map[string]json.RawMessage `json:"components"`
}

func getHealth(t *testing.T, h http.Handler) (int, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body
}

func TestHealthHandler(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	limits, err := ratelimit.NewRegistry(map[string]time.Duration{"marketplace": time.Second})
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	tests := []struct {
		name       string
		checks     []healthCheck
		sources    []sourceState
		wantCode   int
		wantStatus string
	}{
		{
			name:       "healthy",
			checks:     []healthCheck{{name: "postgres", ping: ok}},
			sources:    []sourceState{stubSource{"marketplace", true}},
			wantCode:   http.StatusOK,
			wantStatus: "healthy",
		},
		{
			name:       "disabled source degrades",
			checks:     []healthCheck{{name: "postgres", ping: ok}},
			sources:    []sourceState{stubSource{"marketplace", true}, stubSource{"metron", false}},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
		},
		{
			name:       "database down",
			checks:     []healthCheck{{name: "postgres", ping: down}},
			sources:    []sourceState{stubSource{"metron", false}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := getHealth(t, createHealthHandler(tt.checks, tt.sources, limits, discardLogger()))
			if code != tt.wantCode {
				t.Errorf("status code = %d, want %d", code, tt.wantCode)
			}
			if body.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", body.Status, tt.wantStatus)
			}
			for _, s := range tt.sources {
				if _, ok := body.Components[s.Name()]; !ok {
					t.Errorf("component %q missing", s.Name())
				}
			}
		})
	}
}

func TestHealthHandler_SourceStats(t *testing.T) {
	limits, _ := ratelimit.NewRegistry(map[string]time.Duration{"marketplace": 2 * time.Second})
	if err := limits.Acquire(context.Background(), "marketplace"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	h := createHealthHandler(nil, []sourceState{stubSource{"marketplace", true}}, limits, discardLogger())
	_, body := getHealth(t, h)

	var state struct {
		Enabled     bool   `json:"enabled"`
		MinInterval string `json:"min_interval"`
		Requests    int64  `json:"requests"`
		LastRequest string `json:"last_request"`
	}
	if err := json.Unmarshal(body.Components["marketplace"], &state); err != nil {
		t.Fatalf("decode marketplace state: %v", err)
	}
	if !state.Enabled || state.MinInterval != "2s" || state.Requests != 1 || state.LastRequest == "" {
		t.Errorf("marketplace state = %+v", state)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
