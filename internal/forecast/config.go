package forecast

import "time"

// Horizon day counts used by the projector.
const (
	Days30Day = 30
	Days90Day = 90
	Days1Year = 365
	Days5Year = 1825
)

// EngineConfig holds every tunable numeric constant the engine uses. The
// values in DefaultEngineConfig are the behavioral contract; tests pin them.
type EngineConfig struct {
	// MinHistory is the minimum sample count accepted by Analyze.
	MinHistory int `json:"min_history"`

	// SmoothingAlpha blends the linear extrapolation with the trailing mean.
	SmoothingAlpha float64 `json:"smoothing_alpha"`

	// TrailingWindow is the sample window of the smoothing term.
	TrailingWindow int `json:"trailing_window"`

	// ConfidenceZ is the two-sided normal factor for scenario banding.
	ConfidenceZ float64 `json:"confidence_z"`

	// PopulationScenarioSpread is the fixed ± multiplier for population
	// scenarios, which are not volatility-derived.
	PopulationScenarioSpread float64 `json:"population_scenario_spread"`

	// SampleCadenceDays converts per-sample slopes to calendar days.
	SampleCadenceDays float64 `json:"sample_cadence_days"`

	// OutputMilestoneUnit and PopulationMilestoneUnit define the round-number
	// thresholds the milestone forecaster looks for.
	OutputMilestoneUnit     float64 `json:"output_milestone_unit"`
	PopulationMilestoneUnit float64 `json:"population_milestone_unit"`

	// ProjectionTierThresholds classifies projected output per capita into
	// six tiers; boundaries are inclusive-lower.
	ProjectionTierThresholds []float64 `json:"projection_tier_thresholds"`

	// ProgressionTierThresholds is the 7-tier per-capita table used by the
	// tier progression forecaster; index i is the floor of tier i+1.
	ProgressionTierThresholds []float64 `json:"progression_tier_thresholds"`

	// CacheTTL bounds the lifetime of a cached report.
	CacheTTL time.Duration `json:"cache_ttl"`
}

// DefaultEngineConfig returns the engine's standard tuning.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		MinHistory:                10,
		SmoothingAlpha:            0.3,
		TrailingWindow:            5,
		ConfidenceZ:               1.96,
		PopulationScenarioSpread:  0.02,
		SampleCadenceDays:         30,
		OutputMilestoneUnit:       1e12,
		PopulationMilestoneUnit:   1e6,
		ProjectionTierThresholds:  []float64{1_000, 5_000, 15_000, 30_000, 50_000},
		ProgressionTierThresholds: []float64{0, 1_000, 5_000, 15_000, 30_000, 50_000, 75_000},
		CacheTTL:                  5 * time.Minute,
	}
}

// Risk and insight rule thresholds.
const (
	economicVolHigh   = 0.2
	economicVolMedium = 0.1

	demographicStabilityHigh   = 0.95
	demographicStabilityMedium = 0.98

	tierVolHigh         = 1.5
	tierVolMedium       = 0.8
	tierVolImpactFactor = 20

	systemicHigh   = 0.3
	systemicMedium = 0.15

	overallCritical = 75.0
	overallHigh     = 50.0
	overallMedium   = 25.0

	strongOutputCorrelation     = 0.7
	strongPopulationCorrelation = 0.6
	highVolatilityFlag          = 0.15

	growthInsightConfidence = 0.7
	growthInsightThreshold  = 0.05
	milestoneInsightMinConf = 0.7
	lowPercentileThreshold  = 50.0
)
