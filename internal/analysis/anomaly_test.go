package analysis

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

func TestDetectAnomaliesSpike(t *testing.T) {
	today := day(2025, time.June, 15)
	flat := makeSeries("Groceries", 25.50, today.AddDate(0, 0, -89), 1, 90)
	spike := &model.Transaction{
		ID:          "spike",
		UserID:      "user-1",
		Description: "Expensive Purchase",
		Amount:      500.00,
		Date:        today,
	}
	ds := datasetOf(flat, []*model.Transaction{spike})

	anomalies := DetectAnomalies(ds, DefaultAnomalyConfig())
	require.NotEmpty(t, anomalies)

	var spikeDay *Anomaly
	for i := range anomalies {
		if anomalies[i].Date.Equal(today) {
			spikeDay = &anomalies[i]
		}
	}
	require.NotNil(t, spikeDay, "the spike day must be flagged")
	assert.InDelta(t, 525.50, spikeDay.Amount, 0.001)
	assert.Greater(t, spikeDay.ZScore, 2.0)
	assert.Greater(t, spikeDay.Amount, spikeDay.Threshold)

	// The day's transactions travel with the anomaly.
	ids := make(map[string]bool)
	for _, txn := range spikeDay.Transactions {
		ids[txn.ID] = true
	}
	assert.True(t, ids["spike"])
}

func TestDetectAnomaliesExcludesRecurring(t *testing.T) {
	today := day(2025, time.June, 15)
	flat := makeSeries("Groceries", 25.50, today.AddDate(0, 0, -59), 1, 60)
	rent := makeSeries("Rent", 1200, today.AddDate(0, 0, -50), 30, 2)
	for _, txn := range rent {
		txn.IsRecurring = true
	}
	ds := datasetOf(flat, rent)

	anomalies := DetectAnomalies(ds, DefaultAnomalyConfig())
	for _, a := range anomalies {
		assert.Less(t, a.Amount, 1000.0, "rent days must not surface once excluded")
	}
}

func TestDetectAnomaliesQuietData(t *testing.T) {
	t.Run("all-zero discretionary series", func(t *testing.T) {
		ds := datasetOf(makeSeries("Freebie", 0, day(2025, time.January, 1), 1, 40))
		assert.Empty(t, DetectAnomalies(ds, DefaultAnomalyConfig()))
	})

	t.Run("flat series has no anomalies", func(t *testing.T) {
		ds := datasetOf(makeSeries("Coffee", 4.50, day(2025, time.January, 1), 1, 60))
		assert.Empty(t, DetectAnomalies(ds, DefaultAnomalyConfig()))
	})

	t.Run("empty dataset", func(t *testing.T) {
		assert.Empty(t, DetectAnomalies(&Dataset{UserID: "user-1"}, DefaultAnomalyConfig()))
	})

	t.Run("only recurring transactions", func(t *testing.T) {
		rent := makeSeries("Rent", 1200, day(2025, time.January, 1), 30, 4)
		for _, txn := range rent {
			txn.IsRecurring = true
		}
		assert.Empty(t, DetectAnomalies(datasetOf(rent), DefaultAnomalyConfig()))
	})
}

func TestDetectAnomaliesZeroFilledGaps(t *testing.T) {
	// Two purchases 40 days apart: the gap days are zero-filled, so the
	// second purchase towers over a near-zero rolling baseline.
	first := &model.Transaction{ID: "a", UserID: "user-1", Description: "Shop", Amount: 20, Date: day(2025, time.March, 1)}
	second := &model.Transaction{ID: "b", UserID: "user-1", Description: "Shop", Amount: 80, Date: day(2025, time.April, 10)}
	ds := datasetOf([]*model.Transaction{first, second})

	anomalies := DetectAnomalies(ds, DefaultAnomalyConfig())
	require.Len(t, anomalies, 1)
	assert.Equal(t, day(2025, time.April, 10), anomalies[0].Date)
}

func TestRollingStats(t *testing.T) {
	values := []float64{10, 10, 10, 40}
	means, stds := rollingStats(values, 3)

	require.Len(t, means, 4)
	assert.InDelta(t, 10, means[0], 1e-9)
	assert.InDelta(t, 0, stds[0], 1e-9, "single observation has zero deviation")
	assert.InDelta(t, 10, means[2], 1e-9)
	assert.InDelta(t, 20, means[3], 1e-9, "window holds the trailing three values")
	assert.Greater(t, stds[3], 0.0)
}

func TestBuildDailySeriesDense(t *testing.T) {
	txns := []*model.Transaction{
		{ID: "1", Amount: 10, Date: day(2025, time.May, 1)},
		{ID: "2", Amount: 5, Date: day(2025, time.May, 1)},
		{ID: "3", Amount: 7, Date: day(2025, time.May, 4)},
	}
	series := buildDailySeries(txns)

	require.Equal(t, 4, series.Len())
	assert.Equal(t, day(2025, time.May, 1), series.Start)
	assert.Equal(t, []float64{15, 0, 0, 7}, series.Values)
	assert.Equal(t, day(2025, time.May, 4), series.Date(3))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		values []float64
		want   float64
	}{
		{[]float64{3}, 3},
		{[]float64{30, 30, 30}, 30},
		{[]float64{1, 100, 2, 3}, 2.5},
		{nil, 0},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			assert.InDelta(t, tt.want, median(tt.values), 1e-9)
		})
	}
}
