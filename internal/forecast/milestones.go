package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/atlasmetrics/foresight/internal/models"
)

// ForecastMilestones finds the next round-number thresholds ahead on the
// current trend and the next tier progression date.
func (e *Engine) ForecastMilestones(now time.Time, history []models.HistoricalDataPoint) models.MilestoneForecast {
	latest := history[len(history)-1]
	outputTrend := AnalyzeTrend(history, FieldTotalOutput)
	populationTrend := AnalyzeTrend(history, FieldTotalPopulation)

	forecast := models.MilestoneForecast{
		TierProgression: e.forecastTierProgression(now, latest, outputTrend, populationTrend),
	}

	if m, ok := e.nextValueMilestone(now, latest.TotalOutput, e.cfg.OutputMilestoneUnit, outputTrend); ok {
		m.Type = "economic_output"
		m.Description = fmt.Sprintf("Output crosses %s", formatRoundValue(targetAbove(latest.TotalOutput, e.cfg.OutputMilestoneUnit), e.cfg.OutputMilestoneUnit, "trillion"))
		m.Prerequisites = []string{
			"Sustain the current output growth rate",
			fmt.Sprintf("Keep output volatility below %.0f%%", highVolatilityFlag*100),
		}
		forecast.Output = append(forecast.Output, m)
	}

	if m, ok := e.nextValueMilestone(now, latest.TotalPopulation, e.cfg.PopulationMilestoneUnit, populationTrend); ok {
		m.Type = "population"
		m.Description = fmt.Sprintf("Population crosses %s", formatRoundValue(targetAbove(latest.TotalPopulation, e.cfg.PopulationMilestoneUnit), e.cfg.PopulationMilestoneUnit, "million"))
		m.Implications = []string{
			"Infrastructure and service demand will rise",
			"Per-capita metrics will dilute unless output keeps pace",
		}
		forecast.Population = append(forecast.Population, m)
	}

	return forecast
}

// targetAbove is the next whole multiple of unit strictly above current.
func targetAbove(current, unit float64) float64 {
	return (math.Floor(current/unit) + 1) * unit
}

// nextValueMilestone estimates when the trend crosses the next round unit.
// A non-positive slope never reaches a higher threshold, so no milestone is
// emitted.
func (e *Engine) nextValueMilestone(now time.Time, current, unit float64, tr TrendResult) (models.Milestone, bool) {
	if tr.Slope <= 0 || current < 0 {
		return models.Milestone{}, false
	}

	target := targetAbove(current, unit)
	samplesNeeded := (target - current) / tr.Slope
	days := samplesNeeded * e.cfg.SampleCadenceDays

	return models.Milestone{
		EstimatedDate: now.AddDate(0, 0, int(math.Ceil(days))),
		Confidence:    clamp(math.Abs(tr.Correlation), 0.1, 0.9),
	}, true
}

// forecastTierProgression projects output per capita forward and finds the
// crossing date of the next tier floor. At the tier ceiling, or when the
// per-capita trend is flat or falling, it returns the degenerate one-year
// record with an empty timeline.
func (e *Engine) forecastTierProgression(now time.Time, latest models.HistoricalDataPoint, outputTrend, populationTrend TrendResult) models.TierProgression {
	currentTier := latest.OutputTier
	maxTier := len(e.cfg.ProgressionTierThresholds)

	confidence := clamp((math.Abs(outputTrend.Correlation)+math.Abs(populationTrend.Correlation))/2, 0.1, 0.8)

	degenerate := models.TierProgression{
		NextTier:      currentTier,
		EstimatedDate: now.AddDate(1, 0, 0),
		Confidence:    0.1,
		Requirements:  []string{"No tier progression on the current trajectory"},
		Timeline:      []models.TimelinePoint{},
	}

	if currentTier >= maxTier || currentTier < 1 || latest.TotalPopulation <= 0 {
		return degenerate
	}

	samplesPerYear := 365.0 / e.cfg.SampleCadenceDays
	annualOutputGrowth := outputTrend.Slope * samplesPerYear
	annualPopulationGrowth := populationTrend.Slope * samplesPerYear

	// d(O/P)/dt = O'/P - (O/P)(P'/P): output growth minus population dilution.
	perCapitaGrowth := annualOutputGrowth/latest.TotalPopulation -
		latest.OutputPerCapita*(annualPopulationGrowth/latest.TotalPopulation)
	if perCapitaGrowth <= 0 {
		return degenerate
	}

	nextTier := currentTier + 1
	targetPerCapita := e.cfg.ProgressionTierThresholds[nextTier-1]
	if latest.OutputPerCapita >= targetPerCapita {
		// Already past the floor; the next reclassification is imminent.
		targetPerCapita = latest.OutputPerCapita
	}

	years := (targetPerCapita - latest.OutputPerCapita) / perCapitaGrowth
	targetDays := int(math.Ceil(years * 365))
	targetDate := now.AddDate(0, 0, targetDays)

	timeline := make([]models.TimelinePoint, 0, 4)
	for _, pct := range []int{25, 50, 75, 100} {
		timeline = append(timeline, models.TimelinePoint{
			Milestone: fmt.Sprintf("%d%% of the gap to tier %d closed", pct, nextTier),
			Date:      now.AddDate(0, 0, targetDays*pct/100),
		})
	}

	return models.TierProgression{
		NextTier:      nextTier,
		EstimatedDate: targetDate,
		Confidence:    confidence,
		Requirements: []string{
			fmt.Sprintf("Raise output per capita to %.0f", targetPerCapita),
			"Hold population growth within the projected band",
		},
		Timeline: timeline,
	}
}

// formatRoundValue renders a round threshold in milestone-unit terms,
// e.g. 3e12 with a trillion unit becomes "3 trillion".
func formatRoundValue(target, unit float64, unitName string) string {
	return fmt.Sprintf("%.0f %s", target/unit, unitName)
}
