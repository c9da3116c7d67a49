package models

import "time"

// Horizon tags a projection distance.
type Horizon string

const (
	Horizon30Days Horizon = "30d"
	Horizon90Days Horizon = "90d"
	Horizon1Year  Horizon = "1y"
	Horizon5Years Horizon = "5y"
)

// RiskLevel buckets a risk score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// DataQuality grades the historical sample count backing a report.
type DataQuality string

const (
	DataQualityExcellent DataQuality = "excellent"
	DataQualityGood      DataQuality = "good"
	DataQualityFair      DataQuality = "fair"
	DataQualityLimited   DataQuality = "limited"
)

// InsightPriority orders actionable insights.
type InsightPriority string

const (
	PriorityCritical InsightPriority = "critical"
	PriorityHigh     InsightPriority = "high"
	PriorityMedium   InsightPriority = "medium"
	PriorityLow      InsightPriority = "low"
)

// Scenario is one branch of a projection's confidence band.
type Scenario struct {
	Output     float64 `json:"output"`
	Population float64 `json:"population"`
	Confidence float64 `json:"confidence"`
}

// ProjectionScenarios holds the optimistic/realistic/pessimistic band.
type ProjectionScenarios struct {
	Optimistic  Scenario `json:"optimistic"`
	Realistic   Scenario `json:"realistic"`
	Pessimistic Scenario `json:"pessimistic"`
}

// EconomicProjection is one per-horizon forecast.
type EconomicProjection struct {
	Horizon             Horizon             `json:"horizon"`
	ProjectedOutput     float64             `json:"projected_output"`
	ProjectedPopulation float64             `json:"projected_population"`
	ProjectedTier       int                 `json:"projected_tier"`
	Confidence          float64             `json:"confidence"`
	Methodology         string              `json:"methodology"`
	KeyFactors          []string            `json:"key_factors"`
	Scenarios           ProjectionScenarios `json:"scenarios"`
}

// RiskFactor is one assessed risk category.
type RiskFactor struct {
	Level   RiskLevel `json:"level"`
	Factors []string  `json:"factors"`
	Impact  int       `json:"impact"`
}

// MitigationPlan carries rule-derived mitigation guidance.
type MitigationPlan struct {
	ShortTerm []string `json:"short_term"`
	LongTerm  []string `json:"long_term"`
	Priority  string   `json:"priority"`
}

// RiskAssessment aggregates the four risk categories.
type RiskAssessment struct {
	OverallRisk RiskLevel      `json:"overall_risk"`
	RiskScore   float64        `json:"risk_score"`
	Economic    RiskFactor     `json:"economic"`
	Demographic RiskFactor     `json:"demographic"`
	Competitive RiskFactor     `json:"competitive"`
	Systemic    RiskFactor     `json:"systemic"`
	Mitigation  MitigationPlan `json:"mitigation"`
}

// Ranking positions the entity within a peer group.
type Ranking struct {
	Current    int     `json:"current"`
	Projected  int     `json:"projected"`
	Total      int     `json:"total"`
	Percentile float64 `json:"percentile"`
}

// BenchmarkComparison compares one metric against peer aggregates.
type BenchmarkComparison struct {
	Metric   string  `json:"metric"`
	Entity   float64 `json:"entity"`
	Regional float64 `json:"regional"`
	Global   float64 `json:"global"`
}

// CompetitiveIntelligence benchmarks the entity against its peers.
type CompetitiveIntelligence struct {
	RegionalRanking Ranking               `json:"regional_ranking"`
	GlobalRanking   Ranking               `json:"global_ranking"`
	Benchmarks      []BenchmarkComparison `json:"benchmarks"`
	Advantages      []string              `json:"advantages"`
	Vulnerabilities []string              `json:"vulnerabilities"`
	Recommendations []string              `json:"recommendations"`
}

// Milestone is a forecast threshold crossing.
type Milestone struct {
	Type          string    `json:"type"`
	Description   string    `json:"description"`
	EstimatedDate time.Time `json:"estimated_date"`
	Confidence    float64   `json:"confidence"`
	Prerequisites []string  `json:"prerequisites,omitempty"`
	Implications  []string  `json:"implications,omitempty"`
}

// TimelinePoint is one step on a tier progression timeline.
type TimelinePoint struct {
	Milestone string    `json:"milestone"`
	Date      time.Time `json:"date"`
}

// TierProgression forecasts the next tier crossing.
type TierProgression struct {
	NextTier      int             `json:"next_tier"`
	EstimatedDate time.Time       `json:"estimated_date"`
	Confidence    float64         `json:"confidence"`
	Requirements  []string        `json:"requirements"`
	Timeline      []TimelinePoint `json:"timeline"`
}

// MilestoneForecast groups the milestone projections.
type MilestoneForecast struct {
	Output          []Milestone     `json:"output"`
	Population      []Milestone     `json:"population"`
	TierProgression TierProgression `json:"tier_progression"`
}

// ActionableInsight is one prioritized recommendation.
type ActionableInsight struct {
	Category    string          `json:"category"`
	Priority    InsightPriority `json:"priority"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Actions     []string        `json:"actions"`
}

// ModelMetadata documents how a report was produced.
type ModelMetadata struct {
	ReportID       string   `json:"report_id"`
	Algorithms     []string `json:"algorithms"`
	DataPoints     int      `json:"data_points"`
	TrainingPeriod string   `json:"training_period"`
	Accuracy       float64  `json:"accuracy"`
	GenerationMs   int64    `json:"generation_ms"`
}

// ForwardIntelligence is the complete output of one engine invocation for
// one entity. It is generated from a single historical snapshot and never
// mutated afterwards.
type ForwardIntelligence struct {
	Generated          time.Time               `json:"generated"`
	EntityID           string                  `json:"entity_id"`
	DataQuality        DataQuality             `json:"data_quality"`
	Projections        []EconomicProjection    `json:"projections"`
	Risk               RiskAssessment          `json:"risk"`
	Competitive        CompetitiveIntelligence `json:"competitive"`
	Milestones         MilestoneForecast       `json:"milestones"`
	ActionableInsights []ActionableInsight     `json:"actionable_insights"`
	Metadata           ModelMetadata           `json:"model_metadata"`
}
