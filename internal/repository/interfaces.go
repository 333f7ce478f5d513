package repository

import (
	"context"

	"github.com/yourusername/value-radar/internal/models"
)

// OutcomeRepository defines read and seed access to completed head-to-head fixtures.
type OutcomeRepository interface {
	// GetMatchupRecord counts completed matches between sideA and sideB in either
	// home/away order and how many of them were won by side. It returns
	// models.ErrNotFound when the two sides have never met.
	GetMatchupRecord(ctx context.Context, sport, sideA, sideB string, side models.MatchupSide) (models.MatchupRecord, error)

	// RecordResult inserts or replaces a single fixture.
	RecordResult(ctx context.Context, result *models.MatchResult) error

	// HealthCheck verifies the store is reachable.
	HealthCheck(ctx context.Context) error
}
