package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rickgao/longbox/internal/model"
)

// DefaultWindowDays is the trailing window for sale samples.
const DefaultWindowDays = 90

// stableBand is the trend percentage treated as flat.
const stableBand = 5.0

// ErrInvalidHistory is returned when samples exist but their median is not
// positive. Such data never reaches the deal scorer.
var ErrInvalidHistory = errors.New("invalid price history")

// Build aggregates sold into a PriceHistory for the trailing windowDays
// ending at now. Samples outside the window are dropped and the rest are
// kept oldest first. Undated samples are kept, since the provider already
// filtered by sale date.
func Build(series, issue string, grade *float64, sold []model.SoldListing, windowDays int, now time.Time) (*model.PriceHistory, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	samples := make([]model.SoldListing, 0, len(sold))
	for _, s := range sold {
		if s.SoldAt.IsZero() || (!s.SoldAt.Before(cutoff) && !s.SoldAt.After(now)) {
			samples = append(samples, s)
		}
	}
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].SoldAt.Before(samples[j].SoldAt)
	})

	h := &model.PriceHistory{
		SeriesName:   series,
		IssueNumber:  issue,
		Grade:        grade,
		SoldListings: samples,
		Trend:        model.TrendStable,
		DataPoints:   len(samples),
		WindowDays:   windowDays,
	}
	if len(samples) == 0 {
		return h, nil
	}

	prices := make([]float64, len(samples))
	for i, s := range samples {
		prices[i] = s.SoldPrice
	}

	h.AveragePrice = mean(prices)
	h.MedianPrice = median(prices)
	h.MinPrice, h.MaxPrice = bounds(prices)

	if h.MedianPrice <= 0 {
		return nil, fmt.Errorf("%w: median %.2f over %d samples", ErrInvalidHistory, h.MedianPrice, len(samples))
	}

	h.Trend, h.TrendPercentage = trend(prices)
	return h, nil
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func bounds(xs []float64) (lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}

// trend compares the mean of the newer half of chronologically ordered
// prices against the older half. Fewer than two samples per half is flat.
func trend(prices []float64) (string, float64) {
	if len(prices) < 4 {
		return model.TrendStable, 0
	}
	half := len(prices) / 2
	older := mean(prices[:half])
	newer := mean(prices[len(prices)-half:])
	if older <= 0 {
		return model.TrendStable, 0
	}

	pct := math.Round((newer-older)/older*1000) / 10
	switch {
	case pct > stableBand:
		return model.TrendUp, pct
	case pct < -stableBand:
		return model.TrendDown, pct
	default:
		return model.TrendStable, pct
	}
}
