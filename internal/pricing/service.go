package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rickgao/longbox/internal/cache"
	"github.com/rickgao/longbox/internal/model"
	"github.com/rickgao/longbox/internal/source/marketplace"
)

const historyDataType = "price_history"

// Default lifetimes for cached price history.
const (
	DefaultHistoryEphemeralTTL = 1 * time.Hour
	DefaultHistoryDurableTTL   = 24 * time.Hour
	DefaultSalesLimit          = 100
)

// SalesSearcher fetches completed sales. *marketplace.Client implements it.
type SalesSearcher interface {
	SoldListings(ctx context.Context, opts marketplace.SalesOptions) ([]model.SoldListing, error)
}

// Service serves PriceHistory cache-aside: cached value first, otherwise
// fetch completed sales, build, and cache.
type Service struct {
	cache        *cache.Tiered
	sales        SalesSearcher
	ephemeralTTL time.Duration
	durableTTL   time.Duration
	windowDays   int
	salesLimit   int
	now          func() time.Time
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTTL sets the ephemeral and durable lifetimes. A zero durable TTL keeps
// history process-local.
func WithTTL(ephemeral, durable time.Duration) ServiceOption {
	return func(s *Service) {
		s.ephemeralTTL = ephemeral
		s.durableTTL = durable
	}
}

// WithWindowDays sets the trailing sales window.
func WithWindowDays(days int) ServiceOption {
	return func(s *Service) {
		s.windowDays = days
	}
}

// WithClock injects the time source used for the sales window.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a history service.
func NewService(c *cache.Tiered, sales SalesSearcher, opts ...ServiceOption) *Service {
	s := &Service{
		cache:        c,
		sales:        sales,
		ephemeralTTL: DefaultHistoryEphemeralTTL,
		durableTTL:   DefaultHistoryDurableTTL,
		windowDays:   DefaultWindowDays,
		salesLimit:   DefaultSalesLimit,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HistoryKey returns the cache key for a (series, issue, grade) tuple.
func HistoryKey(series, issue string, grade *float64) string {
	g := "any"
	if grade != nil {
		g = fmt.Sprintf("%.1f", *grade)
	}
	return fmt.Sprintf("history:%s:%s:%s", normalizeKeyPart(series), normalizeKeyPart(issue), g)
}

// History returns the price history for the tuple. A durable-tier read
// failure falls back to fetching from the marketplace.
func (s *Service) History(ctx context.Context, series, issue string, grade *float64) (*model.PriceHistory, error) {
	key := HistoryKey(series, issue, grade)

	h, err := cache.GetJSON[model.PriceHistory](ctx, s.cache, key)
	switch {
	case err == nil:
		s.logger.Debug("price history cache hit", "key", key)
		return &h, nil
	case errors.Is(err, cache.ErrMiss):
	default:
		s.logger.Warn("price history cache read failed", "key", key, "error", err)
	}

	sold, err := s.sales.SoldListings(ctx, marketplace.SalesOptions{
		Query:      salesQuery(series, issue, grade),
		WindowDays: s.windowDays,
		Limit:      s.salesLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch sold listings: %w", err)
	}

	built, err := Build(series, issue, grade, sold, s.windowDays, s.now())
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, s.cache, key, historyDataType, built, s.ephemeralTTL, s.durableTTL); err != nil {
		s.logger.Warn("price history cache write failed", "key", key, "error", err)
	}
	return built, nil
}

func salesQuery(series, issue string, grade *float64) string {
	q := series
	if issue != "" {
		q += " #" + issue
	}
	if grade != nil {
		q += fmt.Sprintf(" %.1f", *grade)
	}
	return q
}

func normalizeKeyPart(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
