package analysis

import "time"

// thresholdStdMultiple fixes the unusual-spending threshold at two
// standard deviations above average daily discretionary spend.
const thresholdStdMultiple = 2.0

// ThresholdResult is the global discretionary spending baseline. A zero
// result (empty input) is valid, not an error.
type ThresholdResult struct {
	AvgDailySpending float64
	Std              float64
	Threshold        float64
}

// CalculateSpendingThreshold averages per-day discretionary spending
// sums and derives the unusual-spending threshold. Unlike the anomaly
// detector, days with no discretionary spending do not contribute zeros:
// the average is over days that actually saw spending.
func CalculateSpendingThreshold(ds *Dataset) ThresholdResult {
	discretionary := ds.Discretionary()
	if len(discretionary) == 0 {
		return ThresholdResult{}
	}

	sums := make(map[time.Time]float64)
	for _, txn := range discretionary {
		sums[txn.Day()] += txn.Amount
	}
	daily := make([]float64, 0, len(sums))
	for _, amount := range sums {
		daily = append(daily, amount)
	}

	avg := mean(daily)
	std := sampleStd(daily)
	return ThresholdResult{
		AvgDailySpending: avg,
		Std:              std,
		Threshold:        avg + thresholdStdMultiple*std,
	}
}
