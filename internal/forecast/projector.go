package forecast

import (
	"fmt"
	"math"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"github.com/atlasmetrics/foresight/internal/models"
)

const projectionMethodology = "linear regression with exponential smoothing"

var projectionHorizons = []struct {
	tag  models.Horizon
	days float64
}{
	{models.Horizon30Days, Days30Day},
	{models.Horizon90Days, Days90Day},
	{models.Horizon1Year, Days1Year},
	{models.Horizon5Years, Days5Year},
}

// ProjectEconomy produces one EconomicProjection per horizon by blending the
// linear trend extrapolation with a trailing-mean smoothing term, then
// banding scenarios with a normal confidence interval.
func (e *Engine) ProjectEconomy(history []models.HistoricalDataPoint) []models.EconomicProjection {
	outputTrend := AnalyzeTrend(history, FieldTotalOutput)
	populationTrend := AnalyzeTrend(history, FieldTotalPopulation)
	outputVol := Volatility(history, FieldTotalOutput)

	outputTail := e.trailingMean(extractField(history, FieldTotalOutput))
	populationTail := e.trailingMean(extractField(history, FieldTotalPopulation))

	keyFactors := e.projectionKeyFactors(outputTrend, populationTrend, outputVol)
	base := clamp(float64(len(history))/50.0, 0.1, 0.95)

	projections := make([]models.EconomicProjection, 0, len(projectionHorizons))
	for _, h := range projectionHorizons {
		output := math.Max(0, outputTrend.Intercept+outputTrend.Slope*h.days)
		population := math.Max(1, populationTrend.Intercept+populationTrend.Slope*h.days)

		// Exponential smoothing blend toward the recent level.
		if outputTail.ok {
			output = output*(1-e.cfg.SmoothingAlpha) + outputTail.mean*e.cfg.SmoothingAlpha
		}
		if populationTail.ok {
			population = math.Max(1, population*(1-e.cfg.SmoothingAlpha)+populationTail.mean*e.cfg.SmoothingAlpha)
		}

		ci := e.cfg.ConfidenceZ * outputVol
		timeDecay := clamp(1-(h.days/365.0)*0.3, 0.1, 1)
		confidence := round2(base * timeDecay)

		projections = append(projections, models.EconomicProjection{
			Horizon:             h.tag,
			ProjectedOutput:     output,
			ProjectedPopulation: population,
			ProjectedTier:       e.classifyProjectionTier(output / population),
			Confidence:          confidence,
			Methodology:         projectionMethodology,
			KeyFactors:          keyFactors,
			Scenarios: models.ProjectionScenarios{
				Optimistic: models.Scenario{
					Output:     output * (1 + ci),
					Population: population * (1 + e.cfg.PopulationScenarioSpread),
					Confidence: 0.25,
				},
				Realistic: models.Scenario{
					Output:     output,
					Population: population,
					Confidence: 0.5,
				},
				Pessimistic: models.Scenario{
					Output:     math.Max(0, output*(1-ci)),
					Population: population * (1 - e.cfg.PopulationScenarioSpread),
					Confidence: 0.25,
				},
			},
		})
	}

	return projections
}

type trailingMeanResult struct {
	mean float64
	ok   bool
}

// trailingMean averages the last TrailingWindow samples. Full windows go
// through the indicator SMA; shorter series fall back to a plain mean.
func (e *Engine) trailingMean(values []float64) trailingMeanResult {
	if len(values) == 0 {
		return trailingMeanResult{}
	}

	if len(values) >= e.cfg.TrailingWindow {
		sma := trend.NewSmaWithPeriod[float64](e.cfg.TrailingWindow)
		means := helper.ChanToSlice(sma.Compute(helper.SliceToChan(values)))
		if len(means) > 0 {
			return trailingMeanResult{mean: means[len(means)-1], ok: true}
		}
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return trailingMeanResult{mean: sum / float64(len(values)), ok: true}
}

// classifyProjectionTier maps projected output per capita onto the six-band
// tier table. Boundaries are inclusive-lower.
func (e *Engine) classifyProjectionTier(perCapita float64) int {
	tier := 1
	for _, threshold := range e.cfg.ProjectionTierThresholds {
		if perCapita >= threshold {
			tier++
		}
	}
	return tier
}

func (e *Engine) projectionKeyFactors(outputTrend, populationTrend TrendResult, outputVol float64) []string {
	var factors []string

	if math.Abs(outputTrend.Correlation) > strongOutputCorrelation {
		direction := "growth"
		if outputTrend.Slope < 0 {
			direction = "contraction"
		}
		factors = append(factors, fmt.Sprintf("Strong economic %s trend (correlation %.2f)", direction, outputTrend.Correlation))
	}
	if math.Abs(populationTrend.Correlation) > strongPopulationCorrelation {
		factors = append(factors, "Consistent population trajectory")
	}
	if outputVol > highVolatilityFlag {
		factors = append(factors, fmt.Sprintf("High output volatility (%.1f%%)", outputVol*100))
	}
	if len(factors) == 0 {
		factors = append(factors, "Insufficient pattern strength for factor attribution")
	}

	return factors
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
