package marketplace

import (
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/longbox/internal/listing"
	"github.com/rickgao/longbox/internal/model"
)

// parseAmount converts a provider price string such as "12.50".
// Returns 0 for empty or invalid input.
func parseAmount(v string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseTime parses an ISO 8601 timestamp. Returns the zero time for empty
// or invalid input.
func parseTime(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// shippingCost returns the cheapest reported shipping, or nil when the
// provider reported none.
func (s *itemSummary) shippingCost() *float64 {
	var best *float64
	for _, opt := range s.ShippingOptions {
		if opt.ShippingCost == nil {
			continue
		}
		v := parseAmount(opt.ShippingCost.Value)
		if best == nil || v < *best {
			best = &v
		}
	}
	return best
}

// toModel converts an item summary into a normalized Listing.
func (s *itemSummary) toModel() model.Listing {
	price := parseAmount(s.Price.Value)
	shipping := s.shippingCost()

	l := model.Listing{
		ItemID:                s.ItemID,
		Title:                 s.Title,
		Price:                 price,
		Currency:              s.Price.Currency,
		ShippingCost:          shipping,
		TotalPrice:            model.NewTotalPrice(price, shipping),
		Condition:             s.Condition,
		ImageURL:              s.Image.ImageURL,
		ItemURL:               s.ItemWebURL,
		SellerUsername:        s.Seller.Username,
		SellerFeedbackScore:   s.Seller.FeedbackScore,
		SellerFeedbackPercent: parseAmount(s.Seller.FeedbackPercentage),
		BuyingOptions:         s.BuyingOptions,
		ListedAt:              parseTime(s.ItemCreationDate),
		Meta:                  listing.Parse(s.Title),
	}
	if end := parseTime(s.ItemEndDate); !end.IsZero() {
		l.EndsAt = &end
	}
	if l.Currency == "" {
		l.Currency = "USD"
	}
	return l
}

// toModel converts a completed sale into a SoldListing.
func (s *itemSale) toModel() model.SoldListing {
	return model.SoldListing{
		ItemID:    s.ItemID,
		Title:     s.Title,
		SoldPrice: parseAmount(s.LastSoldPrice.Value),
		SoldAt:    parseTime(s.LastSoldDate),
		Condition: s.Condition,
		ItemURL:   s.ItemWebURL,
	}
}
