package wantlist

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/longbox/internal/deal"
	"github.com/rickgao/longbox/internal/model"
	"github.com/rickgao/longbox/internal/source"
	"github.com/rickgao/longbox/internal/source/marketplace"
)

// DefaultResultLimit is the listing cap per item search.
const DefaultResultLimit = 20

// RunResult summarizes one RunCheck.
type RunResult struct {
	// CheckedItems counts every item attempted, including failed searches.
	CheckedItems int `json:"checkedItems"`

	// NewMatches counts successful upserts, updates included.
	NewMatches int `json:"newMatches"`

	// Inserted counts upserts that created a row.
	Inserted int `json:"inserted"`

	// Failed counts items whose search failed.
	Failed int `json:"failed"`

	// Skipped counts items not searched because the marketplace is disabled.
	Skipped int `json:"skipped"`
}

// Matcher runs want-list checks.
type Matcher struct {
	store       Store
	search      Searcher
	history     HistoryProvider
	limit       int
	concurrency int
	now         func() time.Time
	logger      *slog.Logger
}

// MatcherOption configures a Matcher.
type MatcherOption func(*Matcher)

// WithHistory enables deal scoring of matches.
func WithHistory(h HistoryProvider) MatcherOption {
	return func(m *Matcher) {
		m.history = h
	}
}

// WithResultLimit overrides DefaultResultLimit.
func WithResultLimit(n int) MatcherOption {
	return func(m *Matcher) {
		m.limit = n
	}
}

// WithConcurrency sets how many items are checked at once. The source rate
// limiter still serializes marketplace calls.
func WithConcurrency(n int) MatcherOption {
	return func(m *Matcher) {
		m.concurrency = n
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) MatcherOption {
	return func(m *Matcher) {
		m.now = now
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) MatcherOption {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// NewMatcher creates a Matcher.
func NewMatcher(store Store, search Searcher, opts ...MatcherOption) *Matcher {
	m := &Matcher{
		store:       store,
		search:      search,
		limit:       DefaultResultLimit,
		concurrency: 1,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.concurrency < 1 {
		m.concurrency = 1
	}
	return m
}

// RunCheck checks every active item, or only target when non-nil. An
// explicitly targeted item is checked even if inactive. Per-item failures
// are logged and counted, never returned.
func (m *Matcher) RunCheck(ctx context.Context, target *uuid.UUID) (RunResult, error) {
	items, err := m.items(ctx, target)
	if err != nil {
		return RunResult{}, err
	}

	var acc accumulator
	if m.concurrency == 1 {
		for _, item := range items {
			acc.add(m.checkItem(ctx, item))
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(m.concurrency)
		for _, item := range items {
			g.Go(func() error {
				acc.add(m.checkItem(gctx, item))
				return nil
			})
		}
		_ = g.Wait()
	}

	m.logger.Info("want-list check complete",
		"checked", acc.res.CheckedItems,
		"new_matches", acc.res.NewMatches,
		"inserted", acc.res.Inserted,
		"failed", acc.res.Failed,
		"skipped", acc.res.Skipped,
	)
	return acc.res, nil
}

func (m *Matcher) items(ctx context.Context, target *uuid.UUID) ([]model.WantListItem, error) {
	if target != nil {
		item, err := m.store.GetItem(ctx, *target)
		if err != nil {
			return nil, fmt.Errorf("get item %s: %w", *target, err)
		}
		return []model.WantListItem{item}, nil
	}

	items, err := m.store.ActiveItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active items: %w", err)
	}
	return items, nil
}

// checkItem processes one item. The returned result always counts the item
// as checked.
func (m *Matcher) checkItem(ctx context.Context, item model.WantListItem) RunResult {
	res := RunResult{CheckedItems: 1}
	log := m.logger.With("item_id", item.ID, "query", item.Query())

	listings, err := m.search.Search(ctx, marketplace.SearchOptions{
		Query:    item.Query(),
		MaxPrice: item.TargetMaxPrice,
		Limit:    m.limit,
	})
	if err != nil {
		if source.IsDisabled(err) {
			res.Skipped = 1
			log.Debug("marketplace disabled, skipping item")
			return res
		}
		res.Failed = 1
		log.Warn("search failed", "error", err)
		return res
	}

	history := m.historyFor(ctx, item, log)

	for _, l := range listings {
		inserted, err := m.store.UpsertMatch(ctx, m.toMatch(item, l, history))
		if err != nil {
			log.Warn("upsert match failed", "provider_item_id", l.ItemID, "error", err)
			continue
		}
		res.NewMatches++
		if inserted {
			res.Inserted++
		}
	}

	if err := m.store.TouchLastChecked(ctx, item.ID, m.now()); err != nil {
		log.Error("update last checked failed", "error", err)
	}

	log.Debug("item checked", "listings", len(listings), "upserted", res.NewMatches)
	return res
}

// historyFor fetches ungraded history once per item. Scoring falls back to
// the neutral result when it is unavailable.
func (m *Matcher) historyFor(ctx context.Context, item model.WantListItem, log *slog.Logger) *model.PriceHistory {
	if m.history == nil {
		return nil
	}
	h, err := m.history.History(ctx, item.SeriesName, item.IssueNumber, nil)
	if err != nil {
		log.Warn("price history unavailable", "error", err)
		return nil
	}
	return h
}

func (m *Matcher) toMatch(item model.WantListItem, l model.Listing, history *model.PriceHistory) model.WantListMatch {
	now := m.now()
	match := model.WantListMatch{
		ID:             uuid.New(),
		WantListItemID: item.ID,
		ProviderItemID: l.ItemID,
		Title:          l.Title,
		Price:          l.Price,
		TotalPrice:     l.TotalPrice,
		Currency:       l.Currency,
		ItemURL:        l.ItemURL,
		ImageURL:       l.ImageURL,
		IsNew:          true,
		FoundAt:        now,
		UpdatedAt:      now,
	}
	if m.history != nil {
		score := deal.Score(l, history)
		match.DealScore = &score
	}
	return match
}

type accumulator struct {
	mu  sync.Mutex
	res RunResult
}

func (a *accumulator) add(r RunResult) {
	a.mu.Lock()
	a.res.CheckedItems += r.CheckedItems
	a.res.NewMatches += r.NewMatches
	a.res.Inserted += r.Inserted
	a.res.Failed += r.Failed
	a.res.Skipped += r.Skipped
	a.mu.Unlock()
}
