package repository

// Both drivers share the matches schema written by the historical ingestion jobs.
// A side's wins are counted regardless of which way round the pair was listed.
const (
	pgMatchupRecordQuery = `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN winner = $1 THEN 1 ELSE 0 END), 0) AS wins
		FROM matches
		WHERE sport_key = $2
		  AND ((home_team = $3 AND away_team = $4)
		    OR (home_team = $4 AND away_team = $3))
		  AND completed = TRUE
	`

	pgUpsertMatchQuery = `
		INSERT INTO matches (id, sport_key, home_team, away_team, winner, completed, commence_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			sport_key = excluded.sport_key,
			home_team = excluded.home_team,
			away_team = excluded.away_team,
			winner = excluded.winner,
			completed = excluded.completed,
			commence_time = excluded.commence_time
	`

	sqliteMatchupRecordQuery = `
		SELECT COUNT(*) AS total,
		       COALESCE(SUM(CASE WHEN winner = ? THEN 1 ELSE 0 END), 0) AS wins
		FROM matches
		WHERE sport_key = ?
		  AND ((home_team = ? AND away_team = ?)
		    OR (home_team = ? AND away_team = ?))
		  AND completed = 1
	`

	sqliteUpsertMatchQuery = `
		INSERT INTO matches (id, sport_key, home_team, away_team, winner, completed, commence_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			sport_key = excluded.sport_key,
			home_team = excluded.home_team,
			away_team = excluded.away_team,
			winner = excluded.winner,
			completed = excluded.completed,
			commence_time = excluded.commence_time
	`
)
