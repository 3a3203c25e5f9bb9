package analysis

import (
	"fmt"
	"math"

	"github.com/finsight/backend/internal/model"
)

const (
	// seasonalPeriod is the decomposition period in days (weekly cycle).
	seasonalPeriod = 7
	// minSeasonalityPoints is the minimum daily points for any
	// seasonality statistics at all.
	minSeasonalityPoints = 14
	// minDecompositionPoints is the minimum daily points before a full
	// decomposition is attempted.
	minDecompositionPoints = 30
	// strongSeasonalityRatio is the variance share above which weekly
	// seasonality is flagged as strong.
	strongSeasonalityRatio = 0.10
)

// SeasonalityResult reports the daily-spending seasonality analysis.
// InsufficientData and DecompositionErr are soft conditions the caller
// checks; neither is surfaced as a Go error.
type SeasonalityResult struct {
	// InsufficientData is set when fewer than 14 daily points exist.
	// All other fields are zero in that case.
	InsufficientData bool

	DataPoints int
	Mean       float64
	Std        float64

	// Decomposition output, populated only when at least 30 daily
	// points exist and the decomposition succeeded.
	Trend    []float64
	Seasonal []float64
	Residual []float64

	SeasonalityStrength  float64
	HasStrongSeasonality bool

	// DecompositionErr carries a decomposition failure as a soft field.
	DecompositionErr string
}

// AnalyzeSeasonality resamples the dataset to a dense daily spending
// series and quantifies weekly periodicity via additive decomposition.
func AnalyzeSeasonality(ds *Dataset) SeasonalityResult {
	var txns []*model.Transaction
	if ds != nil {
		txns = ds.Transactions
	}
	series := buildDailySeries(txns)
	if series.Len() < minSeasonalityPoints {
		return SeasonalityResult{InsufficientData: true, DataPoints: series.Len()}
	}

	result := SeasonalityResult{
		DataPoints: series.Len(),
		Mean:       mean(series.Values),
		Std:        sampleStd(series.Values),
	}

	if series.Len() < minDecompositionPoints {
		return result
	}

	trend, seasonal, residual, err := decomposeAdditive(series.Values, seasonalPeriod)
	if err != nil {
		result.DecompositionErr = err.Error()
		return result
	}

	result.Trend = trend
	result.Seasonal = seasonal
	result.Residual = residual

	totalVar := sampleVariance(series.Values)
	if totalVar > 0 {
		result.SeasonalityStrength = sampleVariance(seasonal) / totalVar
		result.HasStrongSeasonality = result.SeasonalityStrength > strongSeasonalityRatio
	}
	return result
}

// decomposeAdditive performs a classical additive decomposition:
// centered moving-average trend (linearly extrapolated across the
// boundary gaps), period-position averages for the seasonal component,
// and the residual as what remains.
func decomposeAdditive(values []float64, period int) (trend, seasonal, residual []float64, err error) {
	n := len(values)
	if period < 2 {
		return nil, nil, nil, fmt.Errorf("period must be at least 2, got %d", period)
	}
	if n < 2*period {
		return nil, nil, nil, fmt.Errorf("need at least %d points for period %d, got %d", 2*period, period, n)
	}

	trend = movingAverageTrend(values, period)

	// Seasonal means per period position on the detrended series.
	sums := make([]float64, period)
	counts := make([]int, period)
	half := period / 2
	for i := half; i < n-half; i++ {
		pos := i % period
		sums[pos] += values[i] - trend[i]
		counts[pos]++
	}
	means := make([]float64, period)
	var grand float64
	for pos := range means {
		if counts[pos] == 0 {
			return nil, nil, nil, fmt.Errorf("no complete observations for period position %d", pos)
		}
		means[pos] = sums[pos] / float64(counts[pos])
		grand += means[pos]
	}
	grand /= float64(period)

	// Center the seasonal component so it sums to zero over one cycle.
	seasonal = make([]float64, n)
	for i := range seasonal {
		seasonal[i] = means[i%period] - grand
	}

	residual = make([]float64, n)
	for i := range residual {
		residual[i] = values[i] - trend[i] - seasonal[i]
	}
	return trend, seasonal, residual, nil
}

// movingAverageTrend computes the centered moving average of width
// period and fills the boundary gaps by extending least-squares lines
// fitted to the nearest period of valid trend points.
func movingAverageTrend(values []float64, period int) []float64 {
	n := len(values)
	half := period / 2
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	if period%2 == 1 {
		var window float64
		for i := 0; i < period; i++ {
			window += values[i]
		}
		trend[half] = window / float64(period)
		for i := half + 1; i < n-half; i++ {
			window += values[i+half] - values[i-half-1]
			trend[i] = window / float64(period)
		}
	} else {
		// Even period: 2x(period) moving average so the result stays
		// centered on a data point.
		for i := half; i < n-half; i++ {
			sum := values[i-half]/2 + values[i+half]/2
			for j := i - half + 1; j <= i+half-1; j++ {
				sum += values[j]
			}
			trend[i] = sum / float64(period)
		}
	}

	// Left edge: fit on trend[half : half+period].
	slope, intercept := fitLine(trend, half, min(half+period, n-half))
	for i := 0; i < half; i++ {
		trend[i] = intercept + slope*float64(i)
	}
	// Right edge: fit on the last period of valid points.
	lo := n - half - period
	if lo < half {
		lo = half
	}
	slope, intercept = fitLine(trend, lo, n-half)
	for i := n - half; i < n; i++ {
		trend[i] = intercept + slope*float64(i)
	}
	return trend
}

// fitLine least-squares fits trend[lo:hi] against its indices.
func fitLine(trend []float64, lo, hi int) (slope, intercept float64) {
	count := hi - lo
	if count <= 0 {
		return 0, 0
	}
	if count == 1 {
		return 0, trend[lo]
	}
	var sumX, sumY, sumXY, sumXX float64
	for i := lo; i < hi; i++ {
		x := float64(i)
		sumX += x
		sumY += trend[i]
		sumXY += x * trend[i]
		sumXX += x * x
	}
	fn := float64(count)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / fn
	}
	slope = (fn*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / fn
	return slope, intercept
}
