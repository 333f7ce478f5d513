package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yourusername/value-radar/internal/models"
)

// Querier is the subset of database.DB used by the Postgres repository.
type Querier interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
}

// PostgresOutcomeRepository implements OutcomeRepository for PostgreSQL
type PostgresOutcomeRepository struct {
	db Querier
}

// NewPostgresOutcomeRepository creates a new outcome repository
func NewPostgresOutcomeRepository(db Querier) *PostgresOutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

// GetMatchupRecord retrieves the head-to-head record for side
func (r *PostgresOutcomeRepository) GetMatchupRecord(ctx context.Context, sport, sideA, sideB string, side models.MatchupSide) (models.MatchupRecord, error) {
	var rec models.MatchupRecord
	err := r.db.QueryRow(ctx, pgMatchupRecordQuery, string(side), sport, sideA, sideB).Scan(&rec.Total, &rec.Wins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MatchupRecord{}, models.ErrNotFound
		}
		return models.MatchupRecord{}, fmt.Errorf("failed to query matchup record: %w", err)
	}
	if rec.Total == 0 {
		return models.MatchupRecord{}, models.ErrNotFound
	}
	return rec, nil
}

// RecordResult inserts or replaces a fixture, assigning an ID if missing
func (r *PostgresOutcomeRepository) RecordResult(ctx context.Context, result *models.MatchResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}

	_, err := r.db.Exec(ctx, pgUpsertMatchQuery,
		result.ID, result.Sport, result.HomeSide, result.AwaySide,
		string(result.Winner), result.Completed, result.CommenceTime,
	)
	if err != nil {
		return fmt.Errorf("failed to record match result: %w", err)
	}

	return nil
}

// HealthCheck performs a trivial round trip
func (r *PostgresOutcomeRepository) HealthCheck(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "SELECT 1"); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
