package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-radar/internal/config"
	"github.com/yourusername/value-radar/internal/models"
)

const nba = "basketball_nba"

func newMemoryRepo(t *testing.T) *SQLiteOutcomeRepository {
	t.Helper()
	repo, err := NewSQLiteOutcomeRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seed(t *testing.T, repo OutcomeRepository, results ...models.MatchResult) {
	t.Helper()
	ctx := context.Background()
	for i := range results {
		require.NoError(t, repo.RecordResult(ctx, &results[i]))
	}
}

func TestSQLiteGetMatchupRecord(t *testing.T) {
	repo := newMemoryRepo(t)
	start := time.Date(2024, 1, 5, 19, 0, 0, 0, time.UTC)

	seed(t, repo,
		models.MatchResult{Sport: nba, HomeSide: "Lakers", AwaySide: "Celtics", Winner: models.SideHome, Completed: true, CommenceTime: start},
		models.MatchResult{Sport: nba, HomeSide: "Lakers", AwaySide: "Celtics", Winner: models.SideAway, Completed: true, CommenceTime: start.AddDate(0, 1, 0)},
		models.MatchResult{Sport: nba, HomeSide: "Celtics", AwaySide: "Lakers", Winner: models.SideHome, Completed: true, CommenceTime: start.AddDate(0, 2, 0)},
		models.MatchResult{Sport: nba, HomeSide: "Lakers", AwaySide: "Celtics", Winner: models.SideHome, Completed: false, CommenceTime: start.AddDate(0, 3, 0)},
		models.MatchResult{Sport: nba, HomeSide: "Lakers", AwaySide: "Knicks", Winner: models.SideHome, Completed: true, CommenceTime: start},
		models.MatchResult{Sport: "soccer_epl", HomeSide: "Lakers", AwaySide: "Celtics", Winner: models.SideHome, Completed: true, CommenceTime: start},
	)

	ctx := context.Background()
	rec, err := repo.GetMatchupRecord(ctx, nba, "Lakers", "Celtics", models.SideHome)
	require.NoError(t, err)
	assert.Equal(t, models.MatchupRecord{Total: 3, Wins: 2}, rec)

	rec, err = repo.GetMatchupRecord(ctx, nba, "Celtics", "Lakers", models.SideAway)
	require.NoError(t, err)
	assert.Equal(t, models.MatchupRecord{Total: 3, Wins: 1}, rec)

	rec, err = repo.GetMatchupRecord(ctx, nba, "Lakers", "Celtics", models.SideDraw)
	require.NoError(t, err)
	assert.Equal(t, models.MatchupRecord{Total: 3, Wins: 0}, rec)

	_, err = repo.GetMatchupRecord(ctx, nba, "Lakers", "Heat", models.SideHome)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSQLiteRecordResultUpserts(t *testing.T) {
	repo := newMemoryRepo(t)
	ctx := context.Background()

	res := models.MatchResult{Sport: nba, HomeSide: "Heat", AwaySide: "Bulls", Winner: models.SideAway, Completed: true}
	require.NoError(t, repo.RecordResult(ctx, &res))
	require.NotEmpty(t, res.ID)

	res.Winner = models.SideHome
	require.NoError(t, repo.RecordResult(ctx, &res))

	rec, err := repo.GetMatchupRecord(ctx, nba, "Heat", "Bulls", models.SideHome)
	require.NoError(t, err)
	assert.Equal(t, models.MatchupRecord{Total: 1, Wins: 1}, rec)
	assert.NoError(t, repo.HealthCheck(ctx))
}

func TestSQLiteCancelledContext(t *testing.T) {
	repo := newMemoryRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetMatchupRecord(ctx, nba, "Lakers", "Celtics", models.SideHome)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

type fakeRow struct {
	total, wins int64
	err         error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.total
	*dest[1].(*int64) = r.wins
	return nil
}

type fakeQuerier struct {
	row      fakeRow
	execErr  error
	lastArgs []any
}

func (f *fakeQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.lastArgs = args
	return f.row
}

func (f *fakeQuerier) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	f.lastArgs = args
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func TestPostgresGetMatchupRecord(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		row     fakeRow
		want    models.MatchupRecord
		wantErr error
	}{
		{name: "record", row: fakeRow{total: 10, wins: 6}, want: models.MatchupRecord{Total: 10, Wins: 6}},
		{name: "never met", row: fakeRow{}, wantErr: models.ErrNotFound},
		{name: "no rows", row: fakeRow{err: pgx.ErrNoRows}, wantErr: models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &fakeQuerier{row: tt.row}
			rec, err := NewPostgresOutcomeRepository(q).GetMatchupRecord(ctx, nba, "Lakers", "Celtics", models.SideAway)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec)
			assert.Equal(t, []any{"away", nba, "Lakers", "Celtics"}, q.lastArgs)
		})
	}
}

func TestPostgresQueryFailureIsWrapped(t *testing.T) {
	boom := errors.New("connection reset")
	q := &fakeQuerier{row: fakeRow{err: boom}}

	_, err := NewPostgresOutcomeRepository(q).GetMatchupRecord(context.Background(), nba, "A", "B", models.SideHome)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestPostgresRecordResult(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewPostgresOutcomeRepository(q)

	res := &models.MatchResult{Sport: nba, HomeSide: "Heat", AwaySide: "Bulls", Winner: models.SideDraw, Completed: true}
	require.NoError(t, repo.RecordResult(context.Background(), res))
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, res.ID, q.lastArgs[0])
	assert.Equal(t, "draw", q.lastArgs[4])

	q.execErr = errors.New("read-only transaction")
	assert.Error(t, repo.RecordResult(context.Background(), res))
	assert.Error(t, repo.HealthCheck(context.Background()))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	repo, closeFn, err := Open(ctx, config.HistoricalStoreConfig{Driver: config.DriverNone})
	require.NoError(t, err)
	assert.Nil(t, repo)
	closeFn()

	path := filepath.Join(t.TempDir(), "history.db")
	repo, closeFn, err = Open(ctx, config.HistoricalStoreConfig{Driver: config.DriverSQLite, SQLitePath: path})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &SQLiteOutcomeRepository{}, repo)

	_, _, err = Open(ctx, config.HistoricalStoreConfig{Driver: "mysql"})
	assert.Error(t, err)
}
