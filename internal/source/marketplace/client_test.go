package marketplace

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rickgao/longbox/internal/ratelimit"
	"github.com/rickgao/longbox/internal/source"
)

const searchFixture = `{
  "total": 2,
  "itemSummaries": [
    {
      "itemId": "v1|1111|0",
      "title": "Amazing Spider-Man #300 CGC 9.8",
      "price": {"value": "850.00", "currency": "USD"},
      "shippingOptions": [
        {"shippingCostType": "FIXED", "shippingCost": {"value": "25.00", "currency": "USD"}},
        {"shippingCostType": "FIXED", "shippingCost": {"value": "15.50", "currency": "USD"}}
      ],
      "condition": "Graded",
      "image": {"imageUrl": "https://img.example.com/1.jpg"},
      "itemWebUrl": "https://www.ebay.com/itm/1111",
      "seller": {"username": "longboxer", "feedbackPercentage": "99.7", "feedbackScore": 4210},
      "buyingOptions": ["FIXED_PRICE", "BEST_OFFER"],
      "itemCreationDate": "2026-09-01T10:00:00.000Z",
      "itemEndDate": "2026-10-01T10:00:00.000Z"
    },
    {
      "itemId": "v1|2222|0",
      "title": "Amazing Spider-Man 300 raw",
      "price": {"value": "400.00", "currency": "USD"},
      "buyingOptions": ["AUCTION"]
    }
  ]
}`

func newTestSource(t *testing.T, baseURL, token string) *source.Client {
	t.Helper()
	lim, err := ratelimit.NewLimiter(Name, time.Millisecond)
	if err != nil {
		t.Fatalf("NewLimiter: %v", err)
	}
	return source.NewClient(Name, baseURL, lim, source.WithBearerToken(token))
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != searchPath {
			t.Errorf("path = %q, want %q", r.URL.Path, searchPath)
		}
		if r.Header.Get("Authorization") != "Bearer app-token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		q := r.URL.Query()
		if q.Get("q") != "Amazing Spider-Man #300" {
			t.Errorf("q = %q", q.Get("q"))
		}
		if q.Get("limit") != "20" {
			t.Errorf("limit = %q, want 20", q.Get("limit"))
		}
		if !strings.Contains(q.Get("filter"), "price:[..900.00]") {
			t.Errorf("filter = %q, want price ceiling", q.Get("filter"))
		}
		w.Write([]byte(searchFixture))
	}))
	defer server.Close()

	c := New(newTestSource(t, server.URL, "app-token"))
	maxPrice := 900.0
	listings, err := c.Search(context.Background(), SearchOptions{
		Query:    "Amazing Spider-Man #300",
		MaxPrice: &maxPrice,
		Limit:    20,
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("len(listings) = %d, want 2", len(listings))
	}

	first := listings[0]
	if first.ItemID != "v1|1111|0" {
		t.Errorf("ItemID = %q", first.ItemID)
	}
	if first.ShippingCost == nil || *first.ShippingCost != 15.5 {
		t.Errorf("ShippingCost = %v, want cheapest option 15.5", first.ShippingCost)
	}
	if first.TotalPrice != 865.5 {
		t.Errorf("TotalPrice = %v, want 865.5", first.TotalPrice)
	}
	if first.SellerFeedbackPercent != 99.7 || first.SellerFeedbackScore != 4210 {
		t.Errorf("seller = (%v, %d)", first.SellerFeedbackPercent, first.SellerFeedbackScore)
	}
	if first.EndsAt == nil || first.EndsAt.Month() != time.October {
		t.Errorf("EndsAt = %v", first.EndsAt)
	}
	if first.Meta.GradingCompany != "CGC" || first.Meta.IssueNumber != "300" {
		t.Errorf("Meta = %+v", first.Meta)
	}

	second := listings[1]
	if second.ShippingCost != nil {
		t.Errorf("ShippingCost = %v, want nil", *second.ShippingCost)
	}
	if second.TotalPrice != second.Price {
		t.Errorf("TotalPrice = %v, want Price %v when shipping unknown", second.TotalPrice, second.Price)
	}
	if second.Currency != "USD" {
		t.Errorf("Currency = %q, want USD", second.Currency)
	}
}

func TestSoldListings(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != salesPath {
			t.Errorf("path = %q, want %q", r.URL.Path, salesPath)
		}
		if !strings.HasPrefix(r.URL.Query().Get("filter"), "lastSoldDate:[") {
			t.Errorf("filter = %q", r.URL.Query().Get("filter"))
		}
		w.Write([]byte(`{"total": 1, "itemSales": [
			{"itemId": "v1|9|0", "title": "ASM 300", "lastSoldPrice": {"value": "120.00", "currency": "USD"},
			 "lastSoldDate": "2026-10-01T00:00:00Z", "condition": "Used"}
		]}`))
	}))
	defer server.Close()

	c := New(newTestSource(t, server.URL, "app-token"))
	sold, err := c.SoldListings(context.Background(), SalesOptions{Query: "ASM 300", WindowDays: 90})
	if err != nil {
		t.Fatalf("SoldListings: %v", err)
	}
	if len(sold) != 1 {
		t.Fatalf("len(sold) = %d, want 1", len(sold))
	}
	if sold[0].SoldPrice != 120 {
		t.Errorf("SoldPrice = %v, want 120", sold[0].SoldPrice)
	}
	if sold[0].SoldAt.IsZero() {
		t.Error("SoldAt should be parsed")
	}
}

func TestSearch_DisabledWithoutToken(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := New(newTestSource(t, server.URL, ""))
	if c.Enabled() {
		t.Fatal("client without token should be disabled")
	}

	_, err := c.Search(context.Background(), SearchOptions{Query: "Spawn #1"})
	if !source.IsDisabled(err) {
		t.Fatalf("err = %v, want disabled", err)
	}
	if hits.Load() != 0 {
		t.Errorf("server hits = %d, want 0", hits.Load())
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 20},
		{-5, 20},
		{50, 50},
		{1000, 200},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
