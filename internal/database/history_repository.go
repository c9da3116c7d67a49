package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/atlasmetrics/foresight/internal/models"
)

// ErrEntityNotFound is returned when no entity row matches the requested id.
var ErrEntityNotFound = errors.New("entity not found")

// Querier is the subset of pgxpool.Pool the repositories use; pgxmock
// satisfies it in tests.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// HistoryRepository loads entity descriptors and their historical series.
type HistoryRepository struct {
	db Querier
}

func NewHistoryRepository(db Querier) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// GetEntity fetches one entity descriptor.
func (r *HistoryRepository) GetEntity(ctx context.Context, entityID string) (*models.Entity, error) {
	query := `SELECT id, name, region FROM entities WHERE id = $1`

	var entity models.Entity
	err := r.db.QueryRow(ctx, query, entityID).Scan(&entity.ID, &entity.Name, &entity.Region)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEntityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch entity %s: %w", entityID, err)
	}

	return &entity, nil
}

// GetHistory fetches up to limit historical points for an entity in
// chronological order. Numeric columns arrive as decimals and are converted
// to float64 snapshots for the engine.
func (r *HistoryRepository) GetHistory(ctx context.Context, entityID string, limit int) ([]models.HistoricalDataPoint, error) {
	query := `SELECT timestamp, total_output, output_per_capita, total_population,
			output_tier, population_tier, vitality_score
		FROM entity_history
		WHERE entity_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for %s: %w", entityID, err)
	}
	defer rows.Close()

	var history []models.HistoricalDataPoint
	for rows.Next() {
		var (
			point                                   models.HistoricalDataPoint
			output, perCapita, population, vitality decimal.Decimal
		)
		if err := rows.Scan(&point.Timestamp, &output, &perCapita, &population,
			&point.OutputTier, &point.PopulationTier, &vitality); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		point.TotalOutput = output.InexactFloat64()
		point.OutputPerCapita = perCapita.InexactFloat64()
		point.TotalPopulation = population.InexactFloat64()
		point.VitalityScore = vitality.InexactFloat64()
		history = append(history, point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}

	// Reverse to chronological order
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	return history, nil
}
