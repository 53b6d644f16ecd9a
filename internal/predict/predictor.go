// Package predict produces a naive next-month spending forecast from
// historical monthly totals.
package predict

import (
	"spendwise/internal/analytics"
	"spendwise/internal/core"
)

const (
	// window is the number of trailing months averaged for the forecast.
	window = 3
	// trendThreshold is the relative deviation from the historical average
	// beyond which the most recent month counts as a trend.
	trendThreshold = 0.05
)

// NextMonth forecasts next month's total spending as a simple moving
// average over the last months. With no history it returns the documented
// insufficient-data sentinel {0, low, stable} instead of an error.
func NextMonth(monthly []analytics.MonthTotals) core.PredictionResult {
	if len(monthly) == 0 {
		return core.PredictionResult{
			PredictedAmount: 0,
			Confidence:      core.ConfidenceLow,
			Trend:           core.TrendStable,
		}
	}

	totals := make([]int64, len(monthly))
	for i, m := range monthly {
		totals[i] = m.Totals.Sum()
	}

	recent := totals
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}
	var sum int64
	for _, t := range recent {
		sum += t
	}
	predicted := float64(sum) / float64(len(recent)) / 100.0

	return core.PredictionResult{
		PredictedAmount: predicted,
		Confidence:      confidence(len(monthly)),
		Trend:           trend(totals),
	}
}

func confidence(months int) string {
	switch {
	case months >= 4:
		return core.ConfidenceHigh
	case months >= 2:
		return core.ConfidenceMedium
	default:
		return core.ConfidenceLow
	}
}

// trend compares the most recent month against the average of the months
// before it, with a small relative threshold so minor noise reads as
// stable.
func trend(totals []int64) string {
	if len(totals) < 2 {
		return core.TrendStable
	}
	last := float64(totals[len(totals)-1])
	var sum float64
	for _, t := range totals[:len(totals)-1] {
		sum += float64(t)
	}
	avg := sum / float64(len(totals)-1)
	switch {
	case last > avg*(1+trendThreshold):
		return core.TrendIncreasing
	case last < avg*(1-trendThreshold):
		return core.TrendDecreasing
	default:
		return core.TrendStable
	}
}
