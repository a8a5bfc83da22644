package model

import (
	"testing"
)

func TestNewTotalPrice(t *testing.T) {
	free := 0.0
	ship := 4.5

	tests := []struct {
		name     string
		price    float64
		shipping *float64
		want     float64
	}{
		{"unknown shipping", 20, nil, 20},
		{"free shipping", 20, &free, 20},
		{"paid shipping", 20, &ship, 24.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewTotalPrice(tt.price, tt.shipping); got != tt.want {
				t.Errorf("NewTotalPrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParsedListingMeta_HasGrade(t *testing.T) {
	grade := 9.8

	tests := []struct {
		name string
		meta ParsedListingMeta
		want bool
	}{
		{"raw", ParsedListingMeta{SeriesName: "Saga"}, false},
		{"grade only", ParsedListingMeta{Grade: &grade}, true},
		{"company only", ParsedListingMeta{GradingCompany: "CBCS"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.meta.HasGrade(); got != tt.want {
				t.Errorf("HasGrade() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWantListItem_Query(t *testing.T) {
	tests := []struct {
		item WantListItem
		want string
	}{
		{WantListItem{SeriesName: "Amazing Spider-Man", IssueNumber: "300"}, "Amazing Spider-Man #300"},
		{WantListItem{SeriesName: "Saga"}, "Saga"},
	}

	for _, tt := range tests {
		if got := tt.item.Query(); got != tt.want {
			t.Errorf("Query() = %q, want %q", got, tt.want)
		}
	}
}
