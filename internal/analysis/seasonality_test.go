package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

// weeklyPatternDataset builds days of daily spending where weekends cost
// far more than weekdays. start should be a Monday for a clean cycle.
func weeklyPatternDataset(start time.Time, days int) *Dataset {
	var txns []*model.Transaction
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		amount := 10.0
		if wd := date.Weekday(); wd == time.Saturday || wd == time.Sunday {
			amount = 100.0
		}
		txns = append(txns, &model.Transaction{
			ID:     fmt.Sprintf("txn-%d", i),
			UserID: "user-1",
			Amount: amount,
			Date:   date,
		})
	}
	return &Dataset{UserID: "user-1", Transactions: txns}
}

func TestAnalyzeSeasonalityInsufficientData(t *testing.T) {
	t.Run("empty dataset", func(t *testing.T) {
		result := AnalyzeSeasonality(&Dataset{UserID: "user-1"})
		assert.True(t, result.InsufficientData)
	})

	t.Run("13 daily points", func(t *testing.T) {
		ds := datasetOf(makeSeries("Coffee", 5, day(2025, time.March, 3), 1, 13))
		result := AnalyzeSeasonality(ds)
		assert.True(t, result.InsufficientData)
		assert.Equal(t, 13, result.DataPoints)
	})
}

func TestAnalyzeSeasonalityStatsOnly(t *testing.T) {
	// 14-29 points: mean/std are reported but no decomposition runs.
	ds := datasetOf(makeSeries("Coffee", 5, day(2025, time.March, 3), 1, 20))
	result := AnalyzeSeasonality(ds)

	assert.False(t, result.InsufficientData)
	assert.InDelta(t, 5, result.Mean, 1e-9)
	assert.InDelta(t, 0, result.Std, 1e-9)
	assert.Nil(t, result.Seasonal)
	assert.False(t, result.HasStrongSeasonality)
}

func TestAnalyzeSeasonalityStrongWeeklyPattern(t *testing.T) {
	// 2025-03-03 is a Monday; ten full weeks of weekend-heavy spending.
	ds := weeklyPatternDataset(day(2025, time.March, 3), 70)
	result := AnalyzeSeasonality(ds)

	require.False(t, result.InsufficientData)
	require.Empty(t, result.DecompositionErr)
	require.Len(t, result.Seasonal, 70)
	require.Len(t, result.Trend, 70)
	require.Len(t, result.Residual, 70)

	assert.True(t, result.HasStrongSeasonality)
	assert.Greater(t, result.SeasonalityStrength, 0.10)

	// The seasonal component is centered: it sums to ~zero per cycle.
	var cycle float64
	for i := 0; i < 7; i++ {
		cycle += result.Seasonal[i]
	}
	assert.InDelta(t, 0, cycle, 1e-6)
}

func TestAnalyzeSeasonalityFlatSpending(t *testing.T) {
	ds := datasetOf(makeSeries("Coffee", 5, day(2025, time.March, 3), 1, 45))
	result := AnalyzeSeasonality(ds)

	require.False(t, result.InsufficientData)
	assert.False(t, result.HasStrongSeasonality, "zero-variance series has no seasonality")
	assert.Zero(t, result.SeasonalityStrength)
}

func TestDecomposeAdditive(t *testing.T) {
	t.Run("too few points is a soft failure", func(t *testing.T) {
		_, _, _, err := decomposeAdditive(make([]float64, 10), 7)
		require.Error(t, err)
	})

	t.Run("components reassemble the series", func(t *testing.T) {
		values := make([]float64, 42)
		for i := range values {
			values[i] = 50 + 30*float64(i%7) + 0.5*float64(i)
		}
		trend, seasonal, residual, err := decomposeAdditive(values, 7)
		require.NoError(t, err)

		for i := range values {
			sum := trend[i] + seasonal[i] + residual[i]
			assert.InDelta(t, values[i], sum, 1e-9)
		}
	})
}
