// Package marketplace is the SourceClient for the marketplace search API.
//
// Endpoints (eBay Buy APIs):
//   - GET /buy/browse/v1/item_summary/search           active listings
//   - GET /buy/marketplace_insights/v1_beta/item_sales/search  completed sales
//
// Both require an OAuth application token; without one the client is disabled.
package marketplace

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rickgao/longbox/internal/model"
	"github.com/rickgao/longbox/internal/source"
)

// Name is the source name used for rate limiting and logs.
const Name = "marketplace"

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.ebay.com"

const (
	searchPath = "/buy/browse/v1/item_summary/search"
	salesPath  = "/buy/marketplace_insights/v1_beta/item_sales/search"

	// comicsCategory is the marketplace category for comics & graphic novels.
	comicsCategory = "259104"

	defaultLimit = 20
	maxLimit     = 200
)

// Client searches marketplace listings and completed sales.
type Client struct {
	src *source.Client
}

// New wraps a configured source client. The source client should carry
// WithBearerToken so it is disabled when no token is configured.
func New(src *source.Client) *Client {
	return &Client{src: src}
}

// Name returns the source name.
func (c *Client) Name() string { return c.src.Name() }

// Enabled reports whether the marketplace credentials are configured.
func (c *Client) Enabled() bool { return c.src.Enabled() }

// Search returns active listings matching opts, cheapest first.
func (c *Client) Search(ctx context.Context, opts SearchOptions) ([]model.Listing, error) {
	query := url.Values{}
	query.Set("q", opts.Query)
	query.Set("category_ids", comicsCategory)
	query.Set("sort", "price")
	query.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))

	filter := "buyingOptions:{FIXED_PRICE|AUCTION}"
	if opts.MaxPrice != nil {
		filter += fmt.Sprintf(",price:[..%.2f],priceCurrency:USD", *opts.MaxPrice)
	}
	query.Set("filter", filter)

	var resp searchResponse
	if err := c.src.Get(ctx, searchPath, query, &resp); err != nil {
		return nil, fmt.Errorf("search listings %q: %w", opts.Query, err)
	}

	listings := make([]model.Listing, 0, len(resp.ItemSummaries))
	for i := range resp.ItemSummaries {
		listings = append(listings, resp.ItemSummaries[i].toModel())
	}
	return listings, nil
}

// SoldListings returns completed sales matching opts within the trailing window.
func (c *Client) SoldListings(ctx context.Context, opts SalesOptions) ([]model.SoldListing, error) {
	query := url.Values{}
	query.Set("q", opts.Query)
	query.Set("category_ids", comicsCategory)
	query.Set("limit", strconv.Itoa(clampLimit(opts.Limit)))
	if opts.WindowDays > 0 {
		since := time.Now().UTC().AddDate(0, 0, -opts.WindowDays).Format(time.RFC3339)
		query.Set("filter", "lastSoldDate:["+since+"..]")
	}

	var resp salesResponse
	if err := c.src.Get(ctx, salesPath, query, &resp); err != nil {
		return nil, fmt.Errorf("search sales %q: %w", opts.Query, err)
	}

	sold := make([]model.SoldListing, 0, len(resp.ItemSales))
	for i := range resp.ItemSales {
		sold = append(sold, resp.ItemSales[i].toModel())
	}
	return sold, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}
