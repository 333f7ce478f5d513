package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/yourusername/value-radar/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS matches (
    id            TEXT PRIMARY KEY,
    sport_key     TEXT    NOT NULL,
    home_team     TEXT    NOT NULL,
    away_team     TEXT    NOT NULL,
    winner        TEXT,
    completed     INTEGER NOT NULL DEFAULT 0,
    commence_time TEXT
);

CREATE INDEX IF NOT EXISTS idx_matches_pair ON matches(sport_key, home_team, away_team);
`

// SQLiteOutcomeRepository implements OutcomeRepository over a local SQLite file.
type SQLiteOutcomeRepository struct {
	db *sql.DB
}

// NewSQLiteOutcomeRepository opens (or creates) the database at path and applies the schema.
func NewSQLiteOutcomeRepository(path string) (*SQLiteOutcomeRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// single writer; also keeps an in-memory database on one connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}

	return &SQLiteOutcomeRepository{db: db}, nil
}

// GetMatchupRecord retrieves the head-to-head record for side
func (r *SQLiteOutcomeRepository) GetMatchupRecord(ctx context.Context, sport, sideA, sideB string, side models.MatchupSide) (models.MatchupRecord, error) {
	var rec models.MatchupRecord
	err := r.db.QueryRowContext(ctx, sqliteMatchupRecordQuery,
		string(side), sport, sideA, sideB, sideB, sideA,
	).Scan(&rec.Total, &rec.Wins)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
func (r *SQLiteOutcomeRepository) RecordResult(ctx context.Context, result *models.MatchResult) error {
	if result.ID == "" {
		result.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, sqliteUpsertMatchQuery,
		result.ID, result.Sport, result.HomeSide, result.AwaySide,
		string(result.Winner), result.Completed, result.CommenceTime.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record match result: %w", err)
	}

	return nil
}

// HealthCheck pings the database
func (r *SQLiteOutcomeRepository) HealthCheck(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Close closes the database
func (r *SQLiteOutcomeRepository) Close() error {
	return r.db.Close()
}
