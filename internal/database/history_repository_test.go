package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock
}

func TestHistoryRepository_GetEntity(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHistoryRepository(mock)

	mock.ExpectQuery("SELECT id, name, region FROM entities").
		WithArgs("e1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "region"}).
			AddRow("e1", "Entity One", "west"))

	entity, err := repo.GetEntity(context.Background(), "e1")

	require.NoError(t, err)
	assert.Equal(t, "e1", entity.ID)
	assert.Equal(t, "Entity One", entity.Name)
	assert.Equal(t, "west", entity.Region)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_GetEntityNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHistoryRepository(mock)

	mock.ExpectQuery("SELECT id, name, region FROM entities").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	entity, err := repo.GetEntity(context.Background(), "missing")

	assert.Nil(t, entity)
	assert.True(t, errors.Is(err, ErrEntityNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_GetHistoryChronological(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHistoryRepository(mock)

	// The query returns newest-first; the repository reverses it.
	rows := pgxmock.NewRows([]string{
		"timestamp", "total_output", "output_per_capita", "total_population",
		"output_tier", "population_tier", "vitality_score",
	}).
		AddRow(int64(300), decimal.NewFromFloat(1.2e12), decimal.NewFromFloat(120000), decimal.NewFromFloat(1e7), 6, 3, decimal.NewFromFloat(65)).
		AddRow(int64(200), decimal.NewFromFloat(1.1e12), decimal.NewFromFloat(110000), decimal.NewFromFloat(1e7), 6, 3, decimal.NewFromFloat(64)).
		AddRow(int64(100), decimal.NewFromFloat(1.0e12), decimal.NewFromFloat(100000), decimal.NewFromFloat(1e7), 6, 3, decimal.NewFromFloat(63))

	mock.ExpectQuery("SELECT timestamp, total_output").
		WithArgs("e1", 120).
		WillReturnRows(rows)

	history, err := repo.GetHistory(context.Background(), "e1", 120)

	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, int64(100), history[0].Timestamp)
	assert.Equal(t, int64(300), history[2].Timestamp)
	assert.InDelta(t, 1.0e12, history[0].TotalOutput, 1e-3)
	assert.InDelta(t, 120000, history[2].OutputPerCapita, 1e-9)
	assert.Equal(t, 6, history[0].OutputTier)
	assert.InDelta(t, 63, history[0].VitalityScore, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_GetHistoryEmpty(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHistoryRepository(mock)

	mock.ExpectQuery("SELECT timestamp, total_output").
		WithArgs("e1", 120).
		WillReturnRows(pgxmock.NewRows([]string{
			"timestamp", "total_output", "output_per_capita", "total_population",
			"output_tier", "population_tier", "vitality_score",
		}))

	history, err := repo.GetHistory(context.Background(), "e1", 120)

	require.NoError(t, err)
	assert.Empty(t, history)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_GetHistoryQueryError(t *testing.T) {
	mock := newMockPool(t)
	repo := NewHistoryRepository(mock)

	mock.ExpectQuery("SELECT timestamp, total_output").
		WithArgs("e1", 120).
		WillReturnError(errors.New("connection reset"))

	history, err := repo.GetHistory(context.Background(), "e1", 120)

	assert.Nil(t, history)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch history")
	assert.NoError(t, mock.ExpectationsWereMet())
}
