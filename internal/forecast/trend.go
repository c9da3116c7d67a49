package forecast

import (
	"math"

	"github.com/atlasmetrics/foresight/internal/models"
)

// FieldFunc selects one numeric field from a historical data point.
type FieldFunc func(p models.HistoricalDataPoint) float64

// Field selectors for the series the engine regresses over.
var (
	FieldTotalOutput     FieldFunc = func(p models.HistoricalDataPoint) float64 { return p.TotalOutput }
	FieldOutputPerCapita FieldFunc = func(p models.HistoricalDataPoint) float64 { return p.OutputPerCapita }
	FieldTotalPopulation FieldFunc = func(p models.HistoricalDataPoint) float64 { return p.TotalPopulation }
	FieldOutputTier      FieldFunc = func(p models.HistoricalDataPoint) float64 { return float64(p.OutputTier) }
)

// TrendResult is a least-squares fit of a field against sample index.
type TrendResult struct {
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	Correlation float64 `json:"correlation"`
}

// extractField returns the finite values of the selected field, in series
// order. NaN and infinite samples are dropped per-field before regression.
func extractField(history []models.HistoricalDataPoint, field FieldFunc) []float64 {
	values := make([]float64, 0, len(history))
	for _, p := range history {
		v := field(p)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// AnalyzeTrend fits y = slope*x + intercept over x = sample index and
// computes the Pearson correlation coefficient. Fewer than 2 valid samples
// yields the zero-trend degenerate result.
func AnalyzeTrend(history []models.HistoricalDataPoint, field FieldFunc) TrendResult {
	values := extractField(history, field)
	n := float64(len(values))
	if n < 2 {
		return TrendResult{}
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return TrendResult{}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	corrDenom := math.Sqrt(denom * (n*sumYY - sumY*sumY))
	correlation := 0.0
	if corrDenom != 0 {
		correlation = (n*sumXY - sumX*sumY) / corrDenom
	}

	return TrendResult{Slope: slope, Intercept: intercept, Correlation: correlation}
}

// Volatility returns the coefficient of variation of a field: sample
// standard deviation (Bessel-corrected) divided by sample mean. Fewer than
// 2 valid samples or a zero mean yields 0.
func Volatility(history []models.HistoricalDataPoint, field FieldFunc) float64 {
	values := extractField(history, field)
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if mean == 0 {
		return 0
	}

	var sqDiff float64
	for _, v := range values {
		d := v - mean
		sqDiff += d * d
	}
	stddev := math.Sqrt(sqDiff / (n - 1))

	return stddev / mean
}

// Stability is the complement of volatility, floored at 0.
func Stability(history []models.HistoricalDataPoint, field FieldFunc) float64 {
	return math.Max(0, 1-Volatility(history, field))
}
