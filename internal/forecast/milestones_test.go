package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasmetrics/foresight/internal/models"
)

var milestoneNow = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func TestForecastMilestones_NextTrillionOnRisingTrend(t *testing.T) {
	engine := newTestEngine()
	// Output climbs from 1.0e12 toward 1.2e12; population flat.
	history := make([]models.HistoricalDataPoint, 15)
	for i := range history {
		output := 1.0e12 + float64(i)*(0.2e12/14)
		history[i] = models.HistoricalDataPoint{
			Timestamp:       int64(i),
			TotalOutput:     output,
			TotalPopulation: 1e7,
			OutputPerCapita: output / 1e7,
			OutputTier:      6,
		}
	}

	forecast := engine.ForecastMilestones(milestoneNow, history)

	require.Len(t, forecast.Output, 1)
	milestone := forecast.Output[0]
	assert.Equal(t, "economic_output", milestone.Type)
	assert.Equal(t, "Output crosses 2 trillion", milestone.Description)
	assert.True(t, milestone.EstimatedDate.After(milestoneNow))
	// Perfect linear trend: correlation 1 clamps to the 0.9 confidence cap
	assert.Equal(t, 0.9, milestone.Confidence)
	assert.NotEmpty(t, milestone.Prerequisites)

	// Flat population never reaches the next million
	assert.Empty(t, forecast.Population)
}

func TestForecastMilestones_DecliningTrendProducesNone(t *testing.T) {
	engine := newTestEngine()
	history := linearHistory(15, 2e12, -1e10, 1e7)

	forecast := engine.ForecastMilestones(milestoneNow, history)

	assert.Empty(t, forecast.Output)
	assert.Empty(t, forecast.Population)
}

func TestTargetAbove(t *testing.T) {
	assert.Equal(t, 2e12, targetAbove(1.2e12, 1e12))
	assert.Equal(t, 3e12, targetAbove(2e12, 1e12), "an exact multiple targets the next one")
	assert.Equal(t, 1e6, targetAbove(0.4e6, 1e6))
}

func TestNextValueMilestone_DayConversion(t *testing.T) {
	engine := newTestEngine()
	// Gap of 5e11 at slope 1e10 per sample: 50 samples, 1500 days ahead.
	milestone, ok := engine.nextValueMilestone(milestoneNow, 1.5e12, 1e12, TrendResult{Slope: 1e10, Correlation: 0.5})

	require.True(t, ok)
	assert.Equal(t, milestoneNow.AddDate(0, 0, 1500), milestone.EstimatedDate)
	assert.Equal(t, 0.5, milestone.Confidence)
}

func TestForecastTierProgression_RisingPerCapita(t *testing.T) {
	engine := newTestEngine()
	// Per capita at 20000 (tier 4), output growing and population flat.
	history := make([]models.HistoricalDataPoint, 20)
	for i := range history {
		output := 2.0e11 + float64(i)*1e9
		history[i] = models.HistoricalDataPoint{
			Timestamp:       int64(i),
			TotalOutput:     output,
			TotalPopulation: 1e7,
			OutputPerCapita: output / 1e7,
			OutputTier:      4,
		}
	}

	progression := engine.ForecastMilestones(milestoneNow, history).TierProgression

	assert.Equal(t, 5, progression.NextTier)
	assert.True(t, progression.EstimatedDate.After(milestoneNow))
	assert.Greater(t, progression.Confidence, 0.1)
	require.Len(t, progression.Timeline, 4)
	assert.Contains(t, progression.Timeline[0].Milestone, "25%")
	assert.Contains(t, progression.Timeline[3].Milestone, "100%")
	assert.Equal(t, progression.EstimatedDate, progression.Timeline[3].Date)
	for i := 1; i < 4; i++ {
		assert.False(t, progression.Timeline[i].Date.Before(progression.Timeline[i-1].Date))
	}
}

func TestForecastTierProgression_Degenerate(t *testing.T) {
	engine := newTestEngine()

	cases := map[string][]models.HistoricalDataPoint{
		"at tier ceiling":      tierHistory(7, 1e9, 1e6),
		"flat per capita":      tierHistory(3, 0, 1e6),
		"declining per capita": tierHistory(3, -1e7, 1e6),
	}

	for name, history := range cases {
		progression := engine.ForecastMilestones(milestoneNow, history).TierProgression
		assert.Equal(t, history[0].OutputTier, progression.NextTier, name)
		assert.Equal(t, 0.1, progression.Confidence, name)
		assert.Equal(t, milestoneNow.AddDate(1, 0, 0), progression.EstimatedDate, name)
		assert.Empty(t, progression.Timeline, name)
	}
}

func tierHistory(tier int, outputStep, population float64) []models.HistoricalDataPoint {
	history := make([]models.HistoricalDataPoint, 12)
	for i := range history {
		output := 5e10 + float64(i)*outputStep
		history[i] = models.HistoricalDataPoint{
			Timestamp:       int64(i),
			TotalOutput:     output,
			TotalPopulation: population,
			OutputPerCapita: output / population,
			OutputTier:      tier,
		}
	}
	return history
}

func TestFormatRoundValue(t *testing.T) {
	assert.Equal(t, "2 trillion", formatRoundValue(2e12, 1e12, "trillion"))
	assert.Equal(t, "11 million", formatRoundValue(1.1e7, 1e6, "million"))
}
