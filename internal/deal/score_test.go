package deal

import (
	"strings"
	"testing"

	"github.com/rickgao/longbox/internal/model"
)

func history(median float64, points int) *model.PriceHistory {
	return &model.PriceHistory{MedianPrice: median, AveragePrice: median, DataPoints: points}
}

func TestScore_Neutral(t *testing.T) {
	tests := []struct {
		name       string
		history    *model.PriceHistory
		wantPoints int
	}{
		{"nil history", nil, 0},
		{"no samples", history(0, 0), 0},
		{"two samples", history(100, 2), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(model.Listing{TotalPrice: 10}, tt.history)
			if got.Score != 50 {
				t.Errorf("Score = %v, want 50", got.Score)
			}
			if got.Confidence != 0 {
				t.Errorf("Confidence = %v, want 0", got.Confidence)
			}
			if got.ComparisonMethod != model.ComparisonMedian {
				t.Errorf("ComparisonMethod = %q, want median", got.ComparisonMethod)
			}
			if got.PercentBelowAverage != 0 || got.ComparisonPrice != 0 {
				t.Errorf("pct/comparison = %v/%v, want 0/0", got.PercentBelowAverage, got.ComparisonPrice)
			}
			if got.DataPoints != tt.wantPoints {
				t.Errorf("DataPoints = %d, want %d", got.DataPoints, tt.wantPoints)
			}
			if !strings.Contains(got.Reason, "Insufficient") {
				t.Errorf("Reason = %q", got.Reason)
			}
		})
	}
}

func TestScore_AtMedian(t *testing.T) {
	got := Score(model.Listing{TotalPrice: 100}, history(100, 10))
	if got.Score != 50 || got.PercentBelowAverage != 0 {
		t.Errorf("Score = %v, pct = %v; want 50, 0", got.Score, got.PercentBelowAverage)
	}
	if !strings.HasPrefix(got.Reason, "Fair price") {
		t.Errorf("Reason = %q", got.Reason)
	}
}

func TestScore_ExcellentDeal(t *testing.T) {
	got := Score(model.Listing{TotalPrice: 60}, history(100, 20))

	if got.Score != 90 {
		t.Errorf("Score = %v, want 90", got.Score)
	}
	if got.PercentBelowAverage != 40 {
		t.Errorf("PercentBelowAverage = %v, want 40", got.PercentBelowAverage)
	}
	if got.Confidence != 1 {
		t.Errorf("Confidence = %v, want 1", got.Confidence)
	}
	if got.ComparisonPrice != 100 {
		t.Errorf("ComparisonPrice = %v, want 100", got.ComparisonPrice)
	}
	if !strings.Contains(got.Reason, "Excellent deal") || !strings.Contains(got.Reason, "$100.00") {
		t.Errorf("Reason = %q", got.Reason)
	}
}

func TestScore_Bands(t *testing.T) {
	tests := []struct {
		total      float64
		wantScore  float64
		wantPrefix string
	}{
		{40, 100, "Excellent deal"}, // 60% below clamps
		{70, 80, "Excellent deal"},
		{80, 70, "Good deal"},
		{85, 65, "Good deal"},
		{95, 55, "Fair price"},
		{110, 40, "Above average"},
		{200, 0, "Above average"},
		{300, 0, "Above average"},
	}

	for _, tt := range tests {
		got := Score(model.Listing{TotalPrice: tt.total}, history(100, 20))
		if got.Score != tt.wantScore {
			t.Errorf("total %v: Score = %v, want %v", tt.total, got.Score, tt.wantScore)
		}
		if !strings.HasPrefix(got.Reason, tt.wantPrefix) {
			t.Errorf("total %v: Reason = %q, want prefix %q", tt.total, got.Reason, tt.wantPrefix)
		}
	}
}

func TestScore_AboveReasonCitesPositivePercent(t *testing.T) {
	got := Score(model.Listing{TotalPrice: 125}, history(100, 20))
	if got.PercentBelowAverage != -25 {
		t.Errorf("PercentBelowAverage = %v, want -25", got.PercentBelowAverage)
	}
	if got.Reason != "Above average: 25% above median price of $100.00" {
		t.Errorf("Reason = %q", got.Reason)
	}
}

func TestScore_Confidence(t *testing.T) {
	grade := 9.8
	tests := []struct {
		name    string
		listing model.Listing
		history *model.PriceHistory
		want    float64
	}{
		{
			name:    "partial samples",
			listing: model.Listing{TotalPrice: 100},
			history: history(100, 10),
			want:    0.5,
		},
		{
			name:    "capped",
			listing: model.Listing{TotalPrice: 100},
			history: history(100, 50),
			want:    1,
		},
		{
			name:    "graded listing against ungraded history",
			listing: model.Listing{TotalPrice: 100, Meta: model.ParsedListingMeta{Grade: &grade, GradingCompany: "CGC"}},
			history: history(100, 20),
			want:    0.6,
		},
		{
			name:    "condition against ungraded history",
			listing: model.Listing{TotalPrice: 100, Condition: "Very Good"},
			history: history(100, 10),
			want:    0.3,
		},
		{
			name:    "graded listing against graded history",
			listing: model.Listing{TotalPrice: 100, Meta: model.ParsedListingMeta{Grade: &grade}},
			history: &model.PriceHistory{MedianPrice: 100, DataPoints: 20, Grade: &grade},
			want:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.listing, tt.history)
			if diff := got.Confidence - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.want)
			}
		})
	}
}

func TestScore_Deterministic(t *testing.T) {
	l := model.Listing{TotalPrice: 73.21}
	h := history(99.5, 7)
	if a, b := Score(l, h), Score(l, h); a != b {
		t.Errorf("Score not deterministic: %+v vs %+v", a, b)
	}
}
