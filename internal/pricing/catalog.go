package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/longbox/internal/cache"
	"github.com/rickgao/longbox/internal/model"
	"github.com/rickgao/longbox/internal/source"
)

const issueDataType = "issue"

// Default lifetimes for cached issue records.
const (
	DefaultIssueEphemeralTTL = 1 * time.Hour
	DefaultIssueDurableTTL   = 7 * 24 * time.Hour
)

// IssueSearcher is a bibliographic source. *metron.Client and
// *comicvine.Client implement it.
type IssueSearcher interface {
	Name() string
	Enabled() bool
	SearchIssues(ctx context.Context, seriesName, issueNumber string) ([]model.Issue, error)
}

// Catalog looks up canonical issue records across bibliographic sources.
type Catalog struct {
	cache        *cache.Tiered
	sources      []IssueSearcher
	ephemeralTTL time.Duration
	durableTTL   time.Duration
	logger       *slog.Logger
}

// NewCatalog creates a Catalog over sources, queried in parallel.
func NewCatalog(c *cache.Tiered, logger *slog.Logger, sources ...IssueSearcher) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{
		cache:        c,
		sources:      sources,
		ephemeralTTL: DefaultIssueEphemeralTTL,
		durableTTL:   DefaultIssueDurableTTL,
		logger:       logger,
	}
}

// SetTTL overrides the cache lifetimes.
func (c *Catalog) SetTTL(ephemeral, durable time.Duration) {
	c.ephemeralTTL = ephemeral
	c.durableTTL = durable
}

// IssueKey returns the cache key for one source's lookup.
func IssueKey(sourceName, series, issue string) string {
	return fmt.Sprintf("issue:%s:%s:%s", sourceName, normalizeKeyPart(series), normalizeKeyPart(issue))
}

// LookupIssue returns matching issues from every enabled source, in source
// order. Disabled sources are skipped silently. It fails only when every
// enabled source failed.
func (c *Catalog) LookupIssue(ctx context.Context, series, issue string) ([]model.Issue, error) {
	results := make([][]model.Issue, len(c.sources))
	errs := make([]error, len(c.sources))

	var g errgroup.Group
	for i, src := range c.sources {
		if !src.Enabled() {
			c.logger.Debug("issue source disabled", "source", src.Name())
			continue
		}
		g.Go(func() error {
			results[i], errs[i] = c.lookup(ctx, src, series, issue)
			return nil
		})
	}
	_ = g.Wait()

	var (
		out     []model.Issue
		tried   int
		failed  int
		lastErr error
	)
	for i, src := range c.sources {
		if !src.Enabled() {
			continue
		}
		tried++
		if err := errs[i]; err != nil {
			if source.IsDisabled(err) {
				tried--
				continue
			}
			failed++
			lastErr = err
			c.logger.Warn("issue lookup failed", "source", src.Name(), "error", err)
			continue
		}
		out = append(out, results[i]...)
	}

	if tried > 0 && failed == tried {
		return nil, fmt.Errorf("lookup issue %s #%s: %w", series, issue, lastErr)
	}
	return out, nil
}

func (c *Catalog) lookup(ctx context.Context, src IssueSearcher, series, issue string) ([]model.Issue, error) {
	key := IssueKey(src.Name(), series, issue)

	cached, err := cache.GetJSON[[]model.Issue](ctx, c.cache, key)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		c.logger.Warn("issue cache read failed", "key", key, "error", err)
	}

	issues, err := src.SearchIssues(ctx, series, issue)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, c.cache, key, issueDataType, issues, c.ephemeralTTL, c.durableTTL); err != nil {
		c.logger.Warn("issue cache write failed", "key", key, "error", err)
	}
	return issues, nil
}
