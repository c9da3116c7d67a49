package database

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atlasmetrics/foresight/internal/forecast"
	"github.com/atlasmetrics/foresight/internal/models"
)

// PeerRepository supplies the competitive module's peer dataset from the
// latest two history rows of every other entity. It satisfies
// forecast.PeerProvider.
type PeerRepository struct {
	db Querier
}

func NewPeerRepository(db Querier) *PeerRepository {
	return &PeerRepository{db: db}
}

// Peers returns the latest snapshot of every entity except the subject,
// with the growth rate derived from the previous observation. The window
// functions run over the full per-entity series before the recency filter,
// so LAG sees the true prior row.
func (r *PeerRepository) Peers(ctx context.Context, entity models.Entity) ([]forecast.PeerSnapshot, error) {
	query := `SELECT entity_id, region, total_output, output_per_capita, vitality_score, prev_output
		FROM (
			SELECT h.entity_id, e.region, h.total_output, h.output_per_capita, h.vitality_score,
				COALESCE(LAG(h.total_output) OVER (PARTITION BY h.entity_id ORDER BY h.timestamp), 0) AS prev_output,
				ROW_NUMBER() OVER (PARTITION BY h.entity_id ORDER BY h.timestamp DESC) AS recency
			FROM entity_history h
			JOIN entities e ON e.id = h.entity_id
			WHERE h.entity_id != $1
		) ranked
		WHERE recency = 1
		ORDER BY entity_id`

	rows, err := r.db.Query(ctx, query, entity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch peers for %s: %w", entity.ID, err)
	}
	defer rows.Close()

	var peers []forecast.PeerSnapshot
	for rows.Next() {
		var (
			snapshot                              forecast.PeerSnapshot
			output, perCapita, vitality, previous decimal.Decimal
		)
		if err := rows.Scan(&snapshot.EntityID, &snapshot.Region, &output, &perCapita, &vitality, &previous); err != nil {
			return nil, fmt.Errorf("failed to scan peer row: %w", err)
		}
		snapshot.TotalOutput = output.InexactFloat64()
		snapshot.OutputPerCapita = perCapita.InexactFloat64()
		snapshot.VitalityScore = vitality.InexactFloat64()
		if prev := previous.InexactFloat64(); prev > 0 {
			snapshot.GrowthRate = (snapshot.TotalOutput - prev) / prev
		}
		peers = append(peers, snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating peer rows: %w", err)
	}

	return peers, nil
}
