package forecast

import (
	"fmt"
	"math"

	"github.com/atlasmetrics/foresight/internal/models"
)

// AssessRisk scores the four risk categories over the historical snapshot
// and derives the overall bucket and mitigation plan.
func (e *Engine) AssessRisk(history []models.HistoricalDataPoint) models.RiskAssessment {
	outputVol := Volatility(history, FieldTotalOutput)
	populationStability := Stability(history, FieldTotalPopulation)
	tierVol := Volatility(history, FieldOutputTier)

	economic := assessEconomicRisk(outputVol)
	demographic := assessDemographicRisk(populationStability)
	competitive := assessCompetitiveRisk(tierVol)
	systemic := assessSystemicRisk(outputVol, populationStability, tierVol)

	score := float64(economic.Impact+demographic.Impact+competitive.Impact+systemic.Impact) / 4.0
	overall := bucketOverallRisk(score)

	return models.RiskAssessment{
		OverallRisk: overall,
		RiskScore:   score,
		Economic:    economic,
		Demographic: demographic,
		Competitive: competitive,
		Systemic:    systemic,
		Mitigation:  buildMitigationPlan(overall, economic, demographic, competitive),
	}
}

func assessEconomicRisk(outputVol float64) models.RiskFactor {
	level := models.RiskLow
	factors := []string{"Output variation within normal bounds"}
	switch {
	case outputVol > economicVolHigh:
		level = models.RiskHigh
		factors = []string{fmt.Sprintf("Output volatility at %.1f%% of mean", outputVol*100), "Economic base unstable across recent periods"}
	case outputVol > economicVolMedium:
		level = models.RiskMedium
		factors = []string{fmt.Sprintf("Elevated output volatility (%.1f%%)", outputVol*100)}
	}
	return models.RiskFactor{
		Level:   level,
		Factors: factors,
		Impact:  impactScale(outputVol * 100),
	}
}

// impactScale rounds a derived impact onto the 0..100 scale.
func impactScale(v float64) int {
	return int(clamp(math.Round(v), 0, 100))
}

func assessDemographicRisk(stability float64) models.RiskFactor {
	level := models.RiskLow
	factors := []string{"Population trend stable"}
	switch {
	case stability < demographicStabilityHigh:
		level = models.RiskHigh
		factors = []string{"Population swings exceed stable-growth band", "Demographic planning horizon unreliable"}
	case stability < demographicStabilityMedium:
		level = models.RiskMedium
		factors = []string{"Population stability slightly below target band"}
	}
	return models.RiskFactor{
		Level:   level,
		Factors: factors,
		Impact:  impactScale((1 - stability) * 100),
	}
}

func assessCompetitiveRisk(tierVol float64) models.RiskFactor {
	level := models.RiskLow
	factors := []string{"Tier classification holding steady"}
	switch {
	case tierVol > tierVolHigh:
		level = models.RiskHigh
		factors = []string{"Frequent tier reclassification", "Competitive position churning"}
	case tierVol > tierVolMedium:
		level = models.RiskMedium
		factors = []string{"Occasional tier movement observed"}
	}
	return models.RiskFactor{
		Level:   level,
		Factors: factors,
		Impact:  impactScale(tierVol * tierVolImpactFactor),
	}
}

func assessSystemicRisk(outputVol, populationStability, tierVol float64) models.RiskFactor {
	composite := (outputVol + (1 - populationStability) + tierVol/2) / 3

	level := models.RiskLow
	impact := 15
	factors := []string{"No compounding instability across categories"}
	switch {
	case composite > systemicHigh:
		level = models.RiskHigh
		impact = 60
		factors = []string{"Multiple instability signals compounding", fmt.Sprintf("Composite systemic index %.2f", composite)}
	case composite > systemicMedium:
		level = models.RiskMedium
		impact = 30
		factors = []string{fmt.Sprintf("Moderate composite systemic index %.2f", composite)}
	}
	return models.RiskFactor{
		Level:   level,
		Factors: factors,
		Impact:  impact,
	}
}

func bucketOverallRisk(score float64) models.RiskLevel {
	switch {
	case score > overallCritical:
		return models.RiskCritical
	case score > overallHigh:
		return models.RiskHigh
	case score > overallMedium:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

var mitigationPriority = map[models.RiskLevel]string{
	models.RiskCritical: "immediate",
	models.RiskHigh:     "urgent",
	models.RiskMedium:   "moderate",
	models.RiskLow:      "low",
}

func buildMitigationPlan(overall models.RiskLevel, economic, demographic, competitive models.RiskFactor) models.MitigationPlan {
	plan := models.MitigationPlan{Priority: mitigationPriority[overall]}

	if economic.Level == models.RiskHigh || economic.Level == models.RiskCritical {
		plan.ShortTerm = append(plan.ShortTerm, "Introduce output stabilization measures")
		plan.LongTerm = append(plan.LongTerm, "Diversify the economic base")
	} else if economic.Level == models.RiskMedium {
		plan.ShortTerm = append(plan.ShortTerm, "Monitor output volatility weekly")
		plan.LongTerm = append(plan.LongTerm, "Build counter-cyclical reserves")
	}

	if demographic.Level != models.RiskLow {
		plan.ShortTerm = append(plan.ShortTerm, "Audit demographic reporting cadence")
		plan.LongTerm = append(plan.LongTerm, "Invest in population retention programs")
	}

	if competitive.Level != models.RiskLow {
		plan.ShortTerm = append(plan.ShortTerm, "Review tier classification drivers")
		plan.LongTerm = append(plan.LongTerm, "Target structural per-capita improvements")
	}

	if len(plan.ShortTerm) == 0 {
		plan.ShortTerm = []string{"Maintain current policy stance"}
		plan.LongTerm = []string{"Continue scheduled reviews"}
	}

	return plan
}
