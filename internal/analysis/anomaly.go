package analysis

import (
	"time"

	"github.com/finsight/backend/internal/model"
)

// Anomaly detector defaults.
const (
	DefaultAnomalyStd    = 2.0
	DefaultAnomalyWindow = 30
)

// AnomalyConfig tunes the anomaly detector.
type AnomalyConfig struct {
	// NStd is the number of rolling standard deviations above the
	// rolling mean a day must exceed to be anomalous.
	NStd float64
	// Window is the rolling window size in days.
	Window int
}

// DefaultAnomalyConfig returns the standard tuning.
func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{NStd: DefaultAnomalyStd, Window: DefaultAnomalyWindow}
}

// Anomaly is a day whose discretionary spending exceeded its rolling
// threshold, with the statistics behind the call and the transactions
// that drove it.
type Anomaly struct {
	Date      time.Time
	Amount    float64
	Mean      float64
	Std       float64
	Threshold float64
	ZScore    float64

	Transactions []*model.Transaction
}

// DetectAnomalies flags days of unusually high discretionary spending
// against a rolling mean/std baseline. Recurring transactions are
// excluded before the daily series is built; zero-spend days are never
// anomalous.
func DetectAnomalies(ds *Dataset, cfg AnomalyConfig) []Anomaly {
	if cfg.NStd <= 0 {
		cfg.NStd = DefaultAnomalyStd
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultAnomalyWindow
	}

	discretionary := ds.Discretionary()
	if len(discretionary) == 0 {
		return nil
	}

	series := buildDailySeries(discretionary)
	means, stds := rollingStats(series.Values, cfg.Window)

	byDay := make(map[time.Time][]*model.Transaction)
	for _, txn := range discretionary {
		byDay[txn.Day()] = append(byDay[txn.Day()], txn)
	}

	var anomalies []Anomaly
	for i, amount := range series.Values {
		threshold := means[i] + cfg.NStd*stds[i]
		if amount <= threshold || amount <= 0 {
			continue
		}
		z := 0.0
		if stds[i] > 0 {
			z = (amount - means[i]) / stds[i]
		}
		date := series.Date(i)
		anomalies = append(anomalies, Anomaly{
			Date:         date,
			Amount:       amount,
			Mean:         means[i],
			Std:          stds[i],
			Threshold:    threshold,
			ZScore:       z,
			Transactions: byDay[date],
		})
	}
	return anomalies
}
