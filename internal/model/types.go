package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Listing Types
// -----------------------------------------------------------------------------

// Listing is a normalized offer from the marketplace source.
type Listing struct {
	ItemID       string    `json:"itemId"` // Provider item identifier
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	ShippingCost *float64  `json:"shippingCost,omitempty"` // nil when the provider did not report shipping
	TotalPrice   float64   `json:"totalPrice"`             // Price + ShippingCost
	Condition    string    `json:"condition,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	ItemURL      string    `json:"itemUrl,omitempty"`

	// Seller reputation
	SellerUsername        string  `json:"sellerUsername,omitempty"`
	SellerFeedbackScore   int     `json:"sellerFeedbackScore,omitempty"`
	SellerFeedbackPercent float64 `json:"sellerFeedbackPercent,omitempty"`

	BuyingOptions []string   `json:"buyingOptions,omitempty"` // e.g. FIXED_PRICE, AUCTION, BEST_OFFER
	ListedAt      time.Time  `json:"listedAt"`
	EndsAt        *time.Time `json:"endsAt,omitempty"`

	Meta      ParsedListingMeta `json:"meta"`
	DealScore *DealScore        `json:"dealScore,omitempty"`
}

// NewTotalPrice returns price plus shipping, treating unknown shipping as free.
func NewTotalPrice(price float64, shipping *float64) float64 {
	if shipping == nil {
		return price
	}
	return price + *shipping
}

// ParsedListingMeta holds what could be recovered from a free-text listing title.
type ParsedListingMeta struct {
	SeriesName     string   `json:"seriesName,omitempty"`
	IssueNumber    string   `json:"issueNumber,omitempty"`
	Grade          *float64 `json:"grade,omitempty"`
	GradingCompany string   `json:"gradingCompany,omitempty"` // CGC, CBCS, PGX
	IsVariant      bool     `json:"isVariant"`
	IsReprint      bool     `json:"isReprint"`
	Keywords       []string `json:"keywords,omitempty"`
	Confidence     float64  `json:"confidence"` // 0-1, quality of the parse itself
}

// HasGrade reports whether the listing claims a grade or a grading company.
func (m ParsedListingMeta) HasGrade() bool {
	return m.Grade != nil || m.GradingCompany != ""
}

// -----------------------------------------------------------------------------
// Price History Types
// -----------------------------------------------------------------------------

// Trend directions for PriceHistory.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// SoldListing is one completed sale used as a price history sample.
type SoldListing struct {
	ItemID    string    `json:"itemId"`
	Title     string    `json:"title"`
	SoldPrice float64   `json:"soldPrice"` // Total paid, shipping included when known
	SoldAt    time.Time `json:"soldAt"`
	Condition string    `json:"condition,omitempty"`
	ItemURL   string    `json:"itemUrl,omitempty"`
}

// PriceHistory aggregates recent sales for a (series, issue, grade) tuple.
// All statistics derive from SoldListings; build it with pricing.Build.
type PriceHistory struct {
	SeriesName   string        `json:"seriesName"`
	IssueNumber  string        `json:"issueNumber"`
	Grade        *float64      `json:"grade,omitempty"`
	SoldListings []SoldListing `json:"soldListings"`

	AveragePrice float64 `json:"averagePrice"`
	MedianPrice  float64 `json:"medianPrice"`
	MinPrice     float64 `json:"minPrice"`
	MaxPrice     float64 `json:"maxPrice"`

	Trend           string  `json:"trend"`           // up, down, stable
	TrendPercentage float64 `json:"trendPercentage"` // newer half vs older half
	DataPoints      int     `json:"dataPoints"`      // len(SoldListings)
	WindowDays      int     `json:"windowDays"`
}

// -----------------------------------------------------------------------------
// Deal Types
// -----------------------------------------------------------------------------

// Comparison statistics used by DealScore.
const (
	ComparisonAverage = "average"
	ComparisonMedian  = "median"
)

// DealScore measures how a listing's total price compares to its sale history.
// A re-score replaces the value; it is never mutated in place.
type DealScore struct {
	Score               float64 `json:"score"`               // 0-100, rounded
	PercentBelowAverage float64 `json:"percentBelowAverage"` // rounded, negative when above
	ComparisonPrice     float64 `json:"comparisonPrice"`
	ComparisonMethod    string  `json:"comparisonMethod"` // average or median
	Confidence          float64 `json:"confidence"`       // 0-1
	Reason              string  `json:"reason"`
	DataPoints          int     `json:"dataPoints"`
}

// -----------------------------------------------------------------------------
// Want-List Types
// -----------------------------------------------------------------------------

// WantListItem is a standing request for an issue under a price ceiling.
type WantListItem struct {
	ID             uuid.UUID
	SeriesName     string
	IssueNumber    string
	IssueID        *string // Canonical bibliographic issue ID, optional
	TargetMaxPrice *float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	LastCheckedAt  *time.Time
}

// Query returns the marketplace search text for the item.
func (w WantListItem) Query() string {
	if w.IssueNumber == "" {
		return w.SeriesName
	}
	return w.SeriesName + " #" + w.IssueNumber
}

// WantListMatch is a listing found for a WantListItem.
// (WantListItemID, ProviderItemID) is unique.
type WantListMatch struct {
	ID             uuid.UUID
	WantListItemID uuid.UUID
	ProviderItemID string
	Title          string
	Price          float64
	TotalPrice     float64
	Currency       string
	ItemURL        string
	ImageURL       string
	DealScore      *DealScore
	IsNew          bool
	FoundAt        time.Time
	UpdatedAt      time.Time
}

// -----------------------------------------------------------------------------
// Bibliographic Types
// -----------------------------------------------------------------------------

// Issue is a canonical comic issue record from a bibliographic source.
type Issue struct {
	Source      string    `json:"source"` // metron or comicvine
	ID          string    `json:"id"`
	SeriesName  string    `json:"seriesName"`
	IssueNumber string    `json:"issueNumber"`
	Title       string    `json:"title,omitempty"`
	CoverDate   string    `json:"coverDate,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	FetchedAt   time.Time `json:"fetchedAt"`
}
