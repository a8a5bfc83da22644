package deal

import (
	"fmt"
	"math"

	"github.com/rickgao/longbox/internal/model"
)

const (
	// MinDataPoints is the sample count below which the score is neutral.
	MinDataPoints = 3

	// FullConfidencePoints is the sample count at which confidence reaches 1.
	FullConfidencePoints = 20

	// GradeMismatchPenalty scales confidence when the listing is graded but
	// the history is not grade-specific.
	GradeMismatchPenalty = 0.6

	neutralScore = 50
)

// Score maps a listing and its price history to a DealScore.
func Score(listing model.Listing, history *model.PriceHistory) model.DealScore {
	if history == nil || history.DataPoints < MinDataPoints {
		points := 0
		if history != nil {
			points = history.DataPoints
		}
		return model.DealScore{
			Score:            neutralScore,
			ComparisonMethod: model.ComparisonMedian,
			Reason:           fmt.Sprintf("Insufficient price history (%d of %d sales needed)", points, MinDataPoints),
			DataPoints:       points,
		}
	}

	comparison := history.MedianPrice
	pctBelow := (comparison - listing.TotalPrice) / comparison * 100

	confidence := clamp(float64(history.DataPoints)/FullConfidencePoints, 0, 1)
	if (listing.Meta.HasGrade() || listing.Condition != "") && history.Grade == nil {
		confidence *= GradeMismatchPenalty
	}

	rounded := math.Round(pctBelow)

	return model.DealScore{
		Score:               math.Round(clamp(neutralScore+pctBelow, 0, 100)),
		PercentBelowAverage: rounded,
		ComparisonPrice:     comparison,
		ComparisonMethod:    model.ComparisonMedian,
		Confidence:          confidence,
		Reason:              reason(rounded, comparison),
		DataPoints:          history.DataPoints,
	}
}

func reason(pct, comparison float64) string {
	switch {
	case pct >= 30:
		return fmt.Sprintf("Excellent deal: %.0f%% below median price of $%.2f", pct, comparison)
	case pct >= 15:
		return fmt.Sprintf("Good deal: %.0f%% below median price of $%.2f", pct, comparison)
	case pct >= 0:
		return fmt.Sprintf("Fair price: %.0f%% below median price of $%.2f", pct, comparison)
	default:
		return fmt.Sprintf("Above average: %.0f%% above median price of $%.2f", -pct, comparison)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
