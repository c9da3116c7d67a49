package forecast

import (
	"context"
	"fmt"

	"github.com/atlasmetrics/foresight/internal/models"
)

// PeerSnapshot is the latest observed state of one peer entity, supplied by
// a PeerProvider for deterministic benchmarking.
type PeerSnapshot struct {
	EntityID        string  `json:"entity_id"`
	Region          string  `json:"region"`
	TotalOutput     float64 `json:"total_output"`
	OutputPerCapita float64 `json:"output_per_capita"`
	GrowthRate      float64 `json:"growth_rate"`
	VitalityScore   float64 `json:"vitality_score"`
}

// PeerProvider supplies the peer dataset the competitive module ranks
// against. Implementations must not include the entity itself.
type PeerProvider interface {
	Peers(ctx context.Context, entity models.Entity) ([]PeerSnapshot, error)
}

// staticPeerBaseline is the fallback peer set used when no provider is
// configured. Values are illustrative but fixed, so rankings stay
// deterministic.
var staticPeerBaseline = []PeerSnapshot{
	{EntityID: "baseline-01", Region: "baseline", TotalOutput: 2.5e13, OutputPerCapita: 62_000, GrowthRate: 0.021, VitalityScore: 78},
	{EntityID: "baseline-02", Region: "baseline", TotalOutput: 1.6e13, OutputPerCapita: 12_500, GrowthRate: 0.052, VitalityScore: 71},
	{EntityID: "baseline-03", Region: "baseline", TotalOutput: 5.1e12, OutputPerCapita: 41_000, GrowthRate: 0.009, VitalityScore: 69},
	{EntityID: "baseline-04", Region: "baseline", TotalOutput: 3.9e12, OutputPerCapita: 33_500, GrowthRate: 0.014, VitalityScore: 72},
	{EntityID: "baseline-05", Region: "baseline", TotalOutput: 2.9e12, OutputPerCapita: 2_400, GrowthRate: 0.061, VitalityScore: 64},
	{EntityID: "baseline-06", Region: "baseline", TotalOutput: 1.7e12, OutputPerCapita: 9_800, GrowthRate: 0.043, VitalityScore: 66},
	{EntityID: "baseline-07", Region: "baseline", TotalOutput: 8.0e11, OutputPerCapita: 6_200, GrowthRate: 0.035, VitalityScore: 60},
	{EntityID: "baseline-08", Region: "baseline", TotalOutput: 4.2e11, OutputPerCapita: 1_900, GrowthRate: 0.048, VitalityScore: 55},
	{EntityID: "baseline-09", Region: "baseline", TotalOutput: 1.5e11, OutputPerCapita: 900, GrowthRate: 0.027, VitalityScore: 49},
}

// AnalyzeCompetition benchmarks the entity against its regional and global
// peer groups. Rankings, percentiles, and benchmark triples are computed
// from the peer dataset; no randomness is involved.
func (e *Engine) AnalyzeCompetition(ctx context.Context, entity models.Entity, history []models.HistoricalDataPoint) models.CompetitiveIntelligence {
	peers := e.resolvePeers(ctx, entity)

	latest := history[len(history)-1]
	growthRate := latestGrowthRate(history)

	regional := filterRegion(peers, entity.Region)
	if len(regional) == 0 {
		regional = peers
	}

	regionalAvg := aggregatePeers(regional)
	globalAvg := aggregatePeers(peers)

	ci := models.CompetitiveIntelligence{
		RegionalRanking: rankAgainst(regional, latest.TotalOutput, growthRate),
		GlobalRanking:   rankAgainst(peers, latest.TotalOutput, growthRate),
		Benchmarks: []models.BenchmarkComparison{
			{Metric: "growth_rate", Entity: growthRate * 100, Regional: regionalAvg.growth * 100, Global: globalAvg.growth * 100},
			{Metric: "output_per_capita", Entity: latest.OutputPerCapita, Regional: regionalAvg.perCapita, Global: globalAvg.perCapita},
			{Metric: "vitality_score", Entity: latest.VitalityScore, Regional: regionalAvg.vitality, Global: globalAvg.vitality},
		},
	}

	e.classifyPosition(&ci, latest, growthRate, regionalAvg, globalAvg)
	return ci
}

func (e *Engine) resolvePeers(ctx context.Context, entity models.Entity) []PeerSnapshot {
	if e.peers == nil {
		return staticPeerBaseline
	}
	peers, err := e.peers.Peers(ctx, entity)
	if err != nil || len(peers) == 0 {
		if err != nil {
			e.logger.WithError(err).WithField("entity_id", entity.ID).Warn("Peer provider failed, using static baseline")
		}
		return staticPeerBaseline
	}
	return peers
}

// latestGrowthRate is the fractional change of output over the last two
// samples, 0 when the base is zero.
func latestGrowthRate(history []models.HistoricalDataPoint) float64 {
	if len(history) < 2 {
		return 0
	}
	prev := history[len(history)-2].TotalOutput
	curr := history[len(history)-1].TotalOutput
	if prev == 0 {
		return 0
	}
	return (curr - prev) / prev
}

func filterRegion(peers []PeerSnapshot, region string) []PeerSnapshot {
	var out []PeerSnapshot
	for _, p := range peers {
		if p.Region == region {
			out = append(out, p)
		}
	}
	return out
}

type peerAggregate struct {
	growth    float64
	perCapita float64
	vitality  float64
}

func aggregatePeers(peers []PeerSnapshot) peerAggregate {
	if len(peers) == 0 {
		return peerAggregate{}
	}
	var agg peerAggregate
	for _, p := range peers {
		agg.growth += p.GrowthRate
		agg.perCapita += p.OutputPerCapita
		agg.vitality += p.VitalityScore
	}
	n := float64(len(peers))
	return peerAggregate{growth: agg.growth / n, perCapita: agg.perCapita / n, vitality: agg.vitality / n}
}

// rankAgainst positions the entity within a peer group by total output.
// The projected rank advances each participant one year at its own growth
// rate before re-ranking.
func rankAgainst(peers []PeerSnapshot, entityOutput, entityGrowth float64) models.Ranking {
	total := len(peers) + 1

	current := 1
	projected := 1
	entityProjected := entityOutput * (1 + entityGrowth)
	for _, p := range peers {
		if p.TotalOutput > entityOutput {
			current++
		}
		if p.TotalOutput*(1+p.GrowthRate) > entityProjected {
			projected++
		}
	}

	percentile := float64(total-current) / float64(total) * 100

	return models.Ranking{
		Current:    current,
		Projected:  projected,
		Total:      total,
		Percentile: round2(percentile),
	}
}

func (e *Engine) classifyPosition(ci *models.CompetitiveIntelligence, latest models.HistoricalDataPoint, growthRate float64, regional, global peerAggregate) {
	if growthRate > regional.growth {
		ci.Advantages = append(ci.Advantages, fmt.Sprintf("Output growing faster than regional average (%.1f%% vs %.1f%%)", growthRate*100, regional.growth*100))
	} else {
		ci.Vulnerabilities = append(ci.Vulnerabilities, "Output growth trailing regional average")
		ci.Recommendations = append(ci.Recommendations, "Prioritize growth-accelerating investment to close the regional gap")
	}

	if latest.OutputPerCapita > global.perCapita {
		ci.Advantages = append(ci.Advantages, "Per-capita output above global average")
	} else {
		ci.Vulnerabilities = append(ci.Vulnerabilities, "Per-capita output below global average")
		ci.Recommendations = append(ci.Recommendations, "Raise productivity per capita through efficiency programs")
	}

	if latest.VitalityScore >= global.vitality {
		ci.Advantages = append(ci.Advantages, "Vitality score at or above global average")
	} else if latest.VitalityScore > 0 {
		ci.Vulnerabilities = append(ci.Vulnerabilities, "Vitality score below global average")
	}

	if len(ci.Recommendations) == 0 {
		ci.Recommendations = append(ci.Recommendations, "Defend current competitive position; no structural gaps detected")
	}
}
