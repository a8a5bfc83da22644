// Package comicvine is the SourceClient for the Comic Vine database.
//
// Comic Vine authenticates with an api_key query parameter and reports
// application errors inside a 200 response through status_code.
package comicvine

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rickgao/longbox/internal/model"
	"github.com/rickgao/longbox/internal/source"
)

// Name is the source name used for rate limiting and logs.
const Name = "comicvine"

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://comicvine.gamespot.com/api"

// statusOK is Comic Vine's in-body success code.
const statusOK = 1

// searchResponse from GET /search/
type searchResponse struct {
	Error                string       `json:"error"`
	StatusCode           int          `json:"status_code"`
	NumberOfTotalResults int          `json:"number_of_total_results"`
	Results              []issueEntry `json:"results"`
}

type issueEntry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	IssueNumber string `json:"issue_number"`
	CoverDate   string `json:"cover_date"`
	Volume      struct {
		Name string `json:"name"`
	} `json:"volume"`
	Image struct {
		OriginalURL string `json:"original_url"`
	} `json:"image"`
}

// Client looks up canonical issues in Comic Vine.
type Client struct {
	src *source.Client
}

// New wraps a source client configured WithAPIKeyParam("api_key", key).
func New(src *source.Client) *Client {
	return &Client{src: src}
}

// Name returns the source name.
func (c *Client) Name() string { return c.src.Name() }

// Enabled reports whether the API key is configured.
func (c *Client) Enabled() bool { return c.src.Enabled() }

// SearchIssues returns issues matching seriesName and issueNumber.
func (c *Client) SearchIssues(ctx context.Context, seriesName, issueNumber string) ([]model.Issue, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("resources", "issue")
	query.Set("query", seriesName+" "+issueNumber)
	query.Set("field_list", "id,name,issue_number,cover_date,volume,image")
	query.Set("limit", "20")

	var resp searchResponse
	if err := c.src.Get(ctx, "/search/", query, &resp); err != nil {
		return nil, fmt.Errorf("comicvine issues %q #%s: %w", seriesName, issueNumber, err)
	}
	if resp.StatusCode != statusOK {
		return nil, &source.Error{
			Source:     Name,
			StatusCode: http.StatusBadGateway,
			Message:    fmt.Sprintf("status_code %d: %s", resp.StatusCode, resp.Error),
		}
	}

	now := time.Now().UTC()
	issues := make([]model.Issue, 0, len(resp.Results))
	for _, e := range resp.Results {
		if issueNumber != "" && e.IssueNumber != issueNumber {
			continue
		}
		issues = append(issues, model.Issue{
			Source:      Name,
			ID:          strconv.Itoa(e.ID),
			SeriesName:  e.Volume.Name,
			IssueNumber: e.IssueNumber,
			Title:       e.Name,
			CoverDate:   e.CoverDate,
			ImageURL:    e.Image.OriginalURL,
			FetchedAt:   now,
		})
	}
	return issues, nil
}
