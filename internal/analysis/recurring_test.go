package analysis

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// makeSeries creates count transactions with the same description and
// amount, spaced gapDays apart starting at start.
func makeSeries(desc string, amount float64, start time.Time, gapDays, count int) []*model.Transaction {
	txns := make([]*model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		txns = append(txns, &model.Transaction{
			ID:          fmt.Sprintf("%s-%d", desc, i),
			UserID:      "user-1",
			Description: desc,
			Amount:      amount,
			Date:        start.AddDate(0, 0, i*gapDays),
		})
	}
	return txns
}

func datasetOf(groups ...[]*model.Transaction) *Dataset {
	var all []*model.Transaction
	for _, g := range groups {
		all = append(all, g...)
	}
	// Keep the loader's ascending-date ordering invariant.
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	return &Dataset{UserID: "user-1", Transactions: all}
}

func TestDetectRecurringPatternsMonthly(t *testing.T) {
	start := day(2025, time.January, 10)
	ds := datasetOf(makeSeries("Netflix", 15.99, start, 30, 6))

	patterns := DetectRecurringPatterns(ds, DefaultRecurringConfig())
	require.Len(t, patterns, 1)

	p := patterns[0]
	assert.Equal(t, "Netflix", p.Description)
	assert.Equal(t, model.FrequencyMonthly, p.Frequency)
	assert.InDelta(t, 15.99, p.Amount, 0.001)
	assert.Greater(t, p.Confidence, 0.7)
	assert.Equal(t, 6, p.Occurrences)
	assert.Len(t, p.TransactionIDs, 6)
	assert.Equal(t, start.AddDate(0, 0, 150), p.LastDate)
}

func TestDetectRecurringPatternsNetflixAmongNoise(t *testing.T) {
	// The documented scenario: 6 Netflix charges 30 days apart plus 90
	// daily Random Store purchases.
	today := day(2025, time.June, 15)
	netflix := makeSeries("Netflix", 15.99, today.AddDate(0, 0, -150), 30, 6)
	noise := makeSeries("Random Store", 25.50, today.AddDate(0, 0, -89), 1, 90)
	ds := datasetOf(netflix, noise)

	patterns := DetectRecurringPatterns(ds, RecurringConfig{MinOccurrences: 3, AmountTolerance: 0.05})

	var netflixPattern *Pattern
	for i := range patterns {
		if patterns[i].Description == "Netflix" {
			netflixPattern = &patterns[i]
		}
		// Daily purchases match no frequency band.
		assert.NotEqual(t, "Random Store", patterns[i].Description)
	}
	require.NotNil(t, netflixPattern)
	assert.Equal(t, model.FrequencyMonthly, netflixPattern.Frequency)
	assert.InDelta(t, 15.99, netflixPattern.Amount, 0.001)
}

func TestDetectRecurringPatternsAmountTolerance(t *testing.T) {
	start := day(2025, time.January, 1)

	t.Run("single outlier disqualifies the group", func(t *testing.T) {
		txns := makeSeries("Gym", 50.00, start, 30, 5)
		txns[2].Amount = 60.00 // 17% off the mean
		ds := datasetOf(txns)

		patterns := DetectRecurringPatterns(ds, DefaultRecurringConfig())
		assert.Empty(t, patterns)
	})

	t.Run("variation within tolerance passes", func(t *testing.T) {
		txns := makeSeries("Gym", 50.00, start, 30, 5)
		txns[2].Amount = 51.00 // ~2% off
		ds := datasetOf(txns)

		patterns := DetectRecurringPatterns(ds, DefaultRecurringConfig())
		require.Len(t, patterns, 1)
		assert.Equal(t, model.FrequencyMonthly, patterns[0].Frequency)
	})

	t.Run("zero mean amount fails tolerance without dividing", func(t *testing.T) {
		txns := makeSeries("Refund", 0, start, 30, 4)
		ds := datasetOf(txns)

		assert.Empty(t, DetectRecurringPatterns(ds, DefaultRecurringConfig()))
	})
}

func TestDetectRecurringPatternsFrequencyBands(t *testing.T) {
	tests := []struct {
		gapDays int
		want    model.Frequency
	}{
		{7, model.FrequencyWeekly},
		{9, model.FrequencyWeekly},
		{14, model.FrequencyBiweekly},
		{30, model.FrequencyMonthly},
		{33, model.FrequencyMonthly},
		{91, model.FrequencyQuarterly},
		{365, model.FrequencyAnnual},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dd", tt.gapDays), func(t *testing.T) {
			ds := datasetOf(makeSeries("Sub", 9.99, day(2020, time.January, 1), tt.gapDays, 4))
			patterns := DetectRecurringPatterns(ds, DefaultRecurringConfig())
			require.Len(t, patterns, 1)
			assert.Equal(t, tt.want, patterns[0].Frequency)
		})
	}

	t.Run("out-of-band gap is not recurring", func(t *testing.T) {
		ds := datasetOf(makeSeries("Odd", 9.99, day(2020, time.January, 1), 20, 4))
		assert.Empty(t, DetectRecurringPatterns(ds, DefaultRecurringConfig()))
	})
}

func TestDetectRecurringPatternsEdgeCases(t *testing.T) {
	t.Run("all transactions on the same day", func(t *testing.T) {
		ds := datasetOf(makeSeries("SameDay", 10, day(2025, time.March, 1), 0, 4))
		assert.Empty(t, DetectRecurringPatterns(ds, DefaultRecurringConfig()))
	})

	t.Run("fewer than min occurrences", func(t *testing.T) {
		ds := datasetOf(makeSeries("Rare", 10, day(2025, time.March, 1), 30, 2))
		assert.Empty(t, DetectRecurringPatterns(ds, DefaultRecurringConfig()))
	})

	t.Run("empty dataset", func(t *testing.T) {
		assert.Empty(t, DetectRecurringPatterns(&Dataset{UserID: "user-1"}, DefaultRecurringConfig()))
	})

	t.Run("description grouping is case and whitespace insensitive", func(t *testing.T) {
		a := makeSeries("Netflix", 15.99, day(2025, time.January, 1), 30, 3)
		b := makeSeries(" netflix ", 15.99, day(2025, time.April, 1), 30, 3)
		ds := datasetOf(a, b)

		patterns := DetectRecurringPatterns(ds, DefaultRecurringConfig())
		require.Len(t, patterns, 1)
		assert.Equal(t, 6, patterns[0].Occurrences)
	})
}

func TestDetectRecurringPatternsSortedByConfidence(t *testing.T) {
	regular := makeSeries("Regular", 12, day(2025, time.January, 1), 30, 6)
	jittery := makeSeries("Jittery", 40, day(2025, time.January, 2), 30, 6)
	// Perturb the jittery series so its gaps vary but stay monthly.
	jittery[1].Date = jittery[1].Date.AddDate(0, 0, 3)
	jittery[3].Date = jittery[3].Date.AddDate(0, 0, -3)
	ds := datasetOf(regular, jittery)

	patterns := DetectRecurringPatterns(ds, DefaultRecurringConfig())
	require.Len(t, patterns, 2)
	assert.Equal(t, "Regular", patterns[0].Description)
	assert.GreaterOrEqual(t, patterns[0].Confidence, patterns[1].Confidence)
}
