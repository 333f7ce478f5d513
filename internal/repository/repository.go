// Package repository provides read access to historical match outcomes.
package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/database"
)

// Open connects the outcome store selected by cfg.Driver. The returned close
// function is always non-nil. DriverNone yields a nil repository.
func Open(ctx context.Context, cfg config.HistoricalStoreConfig) (OutcomeRepository, func(), error) {
	noop := func() {}

	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.Initialize(ctx, &cfg)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresOutcomeRepository(db), db.Close, nil

	case config.DriverSQLite:
		repo, err := NewSQLiteOutcomeRepository(cfg.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		return repo, func() { _ = repo.Close() }, nil

	case config.DriverNone, "":
		return nil, noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown historical store driver %q", cfg.Driver)
	}
}
