package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/atlasmetrics/foresight/internal/models"
)

var priorityRank = map[models.InsightPriority]int{
	models.PriorityCritical: 4,
	models.PriorityHigh:     3,
	models.PriorityMedium:   2,
	models.PriorityLow:      1,
}

// SynthesizeInsights merges the four analyzer outputs into a ranked action
// list. The rule cascade is deterministic; ties keep emission order.
func (e *Engine) SynthesizeInsights(
	now time.Time,
	history []models.HistoricalDataPoint,
	projections []models.EconomicProjection,
	risk models.RiskAssessment,
	competitive models.CompetitiveIntelligence,
	milestones models.MilestoneForecast,
) []models.ActionableInsight {
	insights := make([]models.ActionableInsight, 0, 4)
	currentOutput := history[len(history)-1].TotalOutput

	if risk.OverallRisk == models.RiskCritical || risk.OverallRisk == models.RiskHigh {
		priority := models.PriorityHigh
		if risk.OverallRisk == models.RiskCritical {
			priority = models.PriorityCritical
		}
		actions := risk.Mitigation.ShortTerm
		if len(actions) > 1 {
			actions = actions[:1]
		}
		insights = append(insights, models.ActionableInsight{
			Category:    "Risk Management",
			Priority:    priority,
			Title:       fmt.Sprintf("Overall risk is %s", risk.OverallRisk),
			Description: fmt.Sprintf("Composite risk score %.0f/100 requires active mitigation", risk.RiskScore),
			Actions:     actions,
		})
	}

	if p, ok := findHorizon(projections, models.Horizon90Days); ok {
		if p.Confidence > growthInsightConfidence && currentOutput > 0 &&
			p.ProjectedOutput > currentOutput*(1+growthInsightThreshold) {
			growthPct := (p.ProjectedOutput/currentOutput - 1) * 100
			insights = append(insights, models.ActionableInsight{
				Category:    "Growth Opportunity",
				Priority:    models.PriorityHigh,
				Title:       "Near-term expansion window",
				Description: fmt.Sprintf("90-day projection implies %.1f%% output growth at %.0f%% confidence", growthPct, p.Confidence*100),
				Actions:     []string{"Scale capacity ahead of the projected expansion"},
			})
		}
	}

	if competitive.RegionalRanking.Percentile < lowPercentileThreshold && len(competitive.Recommendations) > 0 {
		insights = append(insights, models.ActionableInsight{
			Category:    "Competitive Position",
			Priority:    models.PriorityMedium,
			Title:       "Below-median regional standing",
			Description: fmt.Sprintf("Regional percentile %.0f leaves room to climb", competitive.RegionalRanking.Percentile),
			Actions:     competitive.Recommendations[:1],
		})
	}

	if next, ok := nextMilestone(milestones); ok {
		if next.Confidence > milestoneInsightMinConf {
			actions := next.Prerequisites
			if len(actions) == 0 {
				actions = next.Implications
			}
			insights = append(insights, models.ActionableInsight{
				Category:    "Strategic Planning",
				Priority:    models.PriorityMedium,
				Title:       next.Description,
				Description: fmt.Sprintf("Expected in %s", humanizeTimeframe(now, next.EstimatedDate)),
				Actions:     actions,
			})
		}
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return priorityRank[insights[i].Priority] > priorityRank[insights[j].Priority]
	})

	return insights
}

// nextMilestone picks the forward milestone the planning insight reports on:
// the output milestone when present, otherwise the population one.
func nextMilestone(milestones models.MilestoneForecast) (models.Milestone, bool) {
	if len(milestones.Output) > 0 {
		return milestones.Output[0], true
	}
	if len(milestones.Population) > 0 {
		return milestones.Population[0], true
	}
	return models.Milestone{}, false
}

func findHorizon(projections []models.EconomicProjection, h models.Horizon) (models.EconomicProjection, bool) {
	for _, p := range projections {
		if p.Horizon == h {
			return p, true
		}
	}
	return models.EconomicProjection{}, false
}

// humanizeTimeframe renders the distance to a date in days, months, or
// years depending on magnitude.
func humanizeTimeframe(now, target time.Time) string {
	days := target.Sub(now).Hours() / 24
	switch {
	case days < 30:
		return fmt.Sprintf("%.0f days", math.Max(1, days))
	case days < 365:
		return fmt.Sprintf("%.0f months", math.Max(1, days/30))
	default:
		return fmt.Sprintf("%.1f years", days/365)
	}
}
