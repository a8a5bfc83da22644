// Package metron is the SourceClient for the Metron comic database.
//
// Metron requires HTTP Basic credentials and asks clients to stay under
// 30 requests per minute. Without credentials the client is disabled.
package metron

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
const Name = "metron"

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://metron.cloud/api"

// issueListResponse from GET /issue/
type issueListResponse struct {
	Count   int          `json:"count"`
	Next    *string      `json:"next"`
	Results []issueEntry `json:"results"`
}

type issueEntry struct {
	ID     int    `json:"id"`
	Issue  string `json:"issue"`
	Number string `json:"number"`
	Series struct {
		Name      string `json:"name"`
		Volume    int    `json:"volume"`
		YearBegan int    `json:"year_began"`
	} `json:"series"`
	CoverDate string `json:"cover_date"`
	Image     string `json:"image"`
}

// Client looks up canonical issues in Metron.
type Client struct {
	src *source.Client
}

// New wraps a source client configured WithBasicAuth.
func New(src *source.Client) *Client {
	return &Client{src: src}
}

// Name returns the source name.
func (c *Client) Name() string { return c.src.Name() }

// Enabled reports whether credentials are configured.
func (c *Client) Enabled() bool { return c.src.Enabled() }

// SearchIssues returns issues of seriesName numbered issueNumber.
func (c *Client) SearchIssues(ctx context.Context, seriesName, issueNumber string) ([]model.Issue, error) {
	query := url.Values{}
	query.Set("series_name", seriesName)
	if issueNumber != "" {
		query.Set("number", issueNumber)
	}

	var resp issueListResponse
	if err := c.src.Get(ctx, "/issue/", query, &resp); err != nil {
		return nil, fmt.Errorf("metron issues %q #%s: %w", seriesName, issueNumber, err)
	}

	now := time.Now().UTC()
	issues := make([]model.Issue, 0, len(resp.Results))
	for _, e := range resp.Results {
		issues = append(issues, model.Issue{
			Source:      Name,
			ID:          strconv.Itoa(e.ID),
			SeriesName:  e.Series.Name,
			IssueNumber: e.Number,
			Title:       e.Issue,
			CoverDate:   e.CoverDate,
			ImageURL:    e.Image,
			FetchedAt:   now,
		})
	}
	return issues, nil
}
