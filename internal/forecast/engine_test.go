package forecast

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasmetrics/foresight/internal/cache"
	"github.com/atlasmetrics/foresight/internal/models"
)

func growthHistory(n int) []models.HistoricalDataPoint {
	history := make([]models.HistoricalDataPoint, n)
	for i := 0; i < n; i++ {
		output := 1.0e12 + float64(i)*(0.2e12/14)
		history[i] = models.HistoricalDataPoint{
			Timestamp:       int64(1700000000 + i*86400*30),
			TotalOutput:     output,
			TotalPopulation: 1e7,
			OutputPerCapita: output / 1e7,
			OutputTier:      6,
			PopulationTier:  3,
			VitalityScore:   62,
		}
	}
	return history
}

func TestAnalyze_RejectsShortHistory(t *testing.T) {
	engine := newTestEngine()
	entity := models.Entity{ID: "e1"}

	_, err := engine.Analyze(context.Background(), entity, growthHistory(9))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientData))

	var insufficient *InsufficientDataError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 9, insufficient.Got)
	assert.Equal(t, 10, insufficient.Need)
}

func TestAnalyze_MinimumHistorySucceeds(t *testing.T) {
	engine := newTestEngine()

	intel, err := engine.Analyze(context.Background(), models.Entity{ID: "e1"}, growthHistory(10))

	require.NoError(t, err)
	assert.Equal(t, "e1", intel.EntityID)
	assert.Equal(t, models.DataQualityLimited, intel.DataQuality)
}

func TestAnalyze_FullReport(t *testing.T) {
	engine := newTestEngine()
	entity := models.Entity{ID: "nation-42", Name: "Nation 42", Region: "west"}
	history := growthHistory(15)

	intel, err := engine.Analyze(context.Background(), entity, history)
	require.NoError(t, err)

	assert.Equal(t, "nation-42", intel.EntityID)
	assert.Equal(t, models.DataQualityFair, intel.DataQuality)
	require.Len(t, intel.Projections, 4)

	// Steady growth: the 90-day projection clears the 5% expansion bar
	p90, ok := findHorizon(intel.Projections, models.Horizon90Days)
	require.True(t, ok)
	latest := history[len(history)-1].TotalOutput
	assert.Greater(t, p90.ProjectedOutput, latest*1.05)

	// Smooth series scores low across every risk category
	assert.Equal(t, models.RiskLow, intel.Risk.OverallRisk)

	// The next-trillion milestone rides the perfect linear trend
	require.Len(t, intel.Milestones.Output, 1)
	assert.Equal(t, 0.9, intel.Milestones.Output[0].Confidence)

	// 1.2e12 output sits at rank 7 of 10 against the static baseline
	assert.Equal(t, 30.0, intel.Competitive.RegionalRanking.Percentile)

	// Strategic planning and competitive position insights fire
	categories := make([]string, 0, len(intel.ActionableInsights))
	for _, insight := range intel.ActionableInsights {
		categories = append(categories, insight.Category)
	}
	assert.Contains(t, categories, "Strategic Planning")
	assert.Contains(t, categories, "Competitive Position")
	assert.NotContains(t, categories, "Risk Management")

	assert.NotEmpty(t, intel.Metadata.ReportID)
	assert.Equal(t, 15, intel.Metadata.DataPoints)
	assert.InDelta(t, 0.3, intel.Metadata.Accuracy, 1e-9)
	assert.Contains(t, intel.Metadata.Algorithms, "least_squares_regression")
}

func TestAnalyze_CacheHitSkipsComputation(t *testing.T) {
	memCache := cache.NewMemoryIntelligenceCache()
	engine := NewEngine(DefaultEngineConfig(), memCache, nil, nil)
	entity := models.Entity{ID: "e1"}
	history := growthHistory(15)

	first, err := engine.Analyze(context.Background(), entity, history)
	require.NoError(t, err)
	assert.Equal(t, int64(1), engine.ComputationCount())

	second, err := engine.Analyze(context.Background(), entity, history)
	require.NoError(t, err)
	assert.Equal(t, int64(1), engine.ComputationCount(), "second call must be served from cache")
	assert.Equal(t, first.Metadata.ReportID, second.Metadata.ReportID)

	// Appending a sample changes the key and forces a recomputation
	extended := append(history, models.HistoricalDataPoint{
		Timestamp:       history[len(history)-1].Timestamp + 86400*30,
		TotalOutput:     1.22e12,
		TotalPopulation: 1e7,
		OutputPerCapita: 1.22e5,
		OutputTier:      6,
	})
	third, err := engine.Analyze(context.Background(), entity, extended)
	require.NoError(t, err)
	assert.Equal(t, int64(2), engine.ComputationCount())
	assert.NotEqual(t, first.Metadata.ReportID, third.Metadata.ReportID)
}

func TestCacheKey(t *testing.T) {
	engine := newTestEngine()
	history := growthHistory(15)

	key := engine.CacheKey("e1", history)
	assert.Regexp(t, `^foresight:intel:[0-9a-f]{16}$`, key)

	assert.Equal(t, key, engine.CacheKey("e1", history), "same snapshot, same key")
	assert.NotEqual(t, key, engine.CacheKey("e2", history), "entity id participates")
	assert.NotEqual(t, key, engine.CacheKey("e1", history[:14]), "series length participates")
}

func TestAnalyze_UnsortedHistoryIsNormalized(t *testing.T) {
	engine := newTestEngine()
	history := growthHistory(15)

	reversed := make([]models.HistoricalDataPoint, len(history))
	for i, p := range history {
		reversed[len(history)-1-i] = p
	}

	intel, err := engine.Analyze(context.Background(), models.Entity{ID: "e1"}, reversed)
	require.NoError(t, err)

	// The reversed series still reads as growth, not collapse
	assert.Equal(t, models.RiskLow, intel.Risk.OverallRisk)
	require.Len(t, intel.Milestones.Output, 1)

	// Input order is preserved for the caller
	assert.Greater(t, reversed[0].TotalOutput, reversed[14].TotalOutput)
}

func TestEnsureAscending(t *testing.T) {
	sorted := growthHistory(5)
	assert.Same(t, &sorted[0], &ensureAscending(sorted)[0], "sorted input is returned as-is")

	unsorted := []models.HistoricalDataPoint{{Timestamp: 3}, {Timestamp: 1}, {Timestamp: 2}}
	result := ensureAscending(unsorted)
	assert.Equal(t, int64(1), result[0].Timestamp)
	assert.Equal(t, int64(2), result[1].Timestamp)
	assert.Equal(t, int64(3), result[2].Timestamp)
	assert.Equal(t, int64(3), unsorted[0].Timestamp, "caller's slice stays untouched")
}

func TestGradeDataQuality(t *testing.T) {
	assert.Equal(t, models.DataQualityLimited, gradeDataQuality(10))
	assert.Equal(t, models.DataQualityFair, gradeDataQuality(15))
	assert.Equal(t, models.DataQualityGood, gradeDataQuality(30))
	assert.Equal(t, models.DataQualityExcellent, gradeDataQuality(50))
	assert.Equal(t, models.DataQualityExcellent, gradeDataQuality(120))
}
