package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/finsight/backend/internal/model"
)

// DailySeries is a dense daily spending series: one value per calendar
// day from Start onward, days without transactions filled with zero.
type DailySeries struct {
	Start  time.Time
	Values []float64
}

// buildDailySeries sums transaction amounts per day and zero-fills the
// gaps between the first and last transaction date.
func buildDailySeries(txns []*model.Transaction) DailySeries {
	if len(txns) == 0 {
		return DailySeries{}
	}

	byDay := make(map[time.Time]float64)
	first := txns[0].Day()
	last := first
	for _, txn := range txns {
		day := txn.Day()
		byDay[day] += txn.Amount
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}

	n := int(last.Sub(first).Hours()/24) + 1
	values := make([]float64, n)
	for day, amount := range byDay {
		values[int(day.Sub(first).Hours()/24)] = amount
	}
	return DailySeries{Start: first, Values: values}
}

// Date returns the calendar date of the i-th point.
func (s DailySeries) Date(i int) time.Time {
	return s.Start.AddDate(0, 0, i)
}

// Len returns the number of daily points.
func (s DailySeries) Len() int {
	return len(s.Values)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleVariance uses the n-1 denominator. Returns 0 for fewer than two
// values rather than dividing by zero.
func sampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(values)-1)
}

func sampleStd(values []float64) float64 {
	return math.Sqrt(sampleVariance(values))
}

// populationStd uses the n denominator. The recurring detector scores
// interval regularity with it.
func populationStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// rollingStats computes trailing-window mean and sample standard
// deviation for each point, with a minimum sample size of 1. A window of
// one observation has zero deviation rather than an undefined one.
func rollingStats(values []float64, window int) (means, stds []float64) {
	if window < 1 {
		window = 1
	}
	means = make([]float64, len(values))
	stds = make([]float64, len(values))
	for i := range values {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		win := values[lo : i+1]
		means[i] = mean(win)
		stds[i] = sampleStd(win)
	}
	return means, stds
}
