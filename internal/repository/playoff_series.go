package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// PlayoffSeriesRepository implements core.PlayoffSeriesRepository backed by PostgreSQL.
type PlayoffSeriesRepository struct {
	db *sql.DB
}

func NewPlayoffSeriesRepository(db *sql.DB) *PlayoffSeriesRepository {
	return &PlayoffSeriesRepository{db: db}
}

func (r *PlayoffSeriesRepository) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.PlayoffSeries, error) {
	query := `
		SELECT ps.id, ps.match, ps.seed1, ps.seed2, ps.prev1, ps.prev2, ps.winner, ps.team1_wins, ps.team2_wins
		FROM playoff_series ps
		LEFT JOIN matches m ON m.id = ps.match
		WHERE m.season = $1 OR ps.match IS NULL
		ORDER BY ps.id
	`

	rows, err := r.db.QueryContext(ctx, query, int(season))
	if err != nil {
		return nil, fmt.Errorf("failed to list playoff series: %w", err)
	}
	defer rows.Close()

	var series []core.PlayoffSeries
	for rows.Next() {
		var s core.PlayoffSeries
		var match, prev1, prev2, winner sql.NullInt64
		if err := rows.Scan(&s.ID, &match, &s.Seed1, &s.Seed2, &prev1, &prev2, &winner, &s.Team1Wins, &s.Team2Wins); err != nil {
			return nil, fmt.Errorf("failed to scan playoff series: %w", err)
		}
		if match.Valid {
			id := core.MatchID(match.Int64)
			s.Match = &id
		}
		if prev1.Valid {
			id := core.PlayoffSeriesID(prev1.Int64)
			s.Prev1 = &id
		}
		if prev2.Valid {
			id := core.PlayoffSeriesID(prev2.Int64)
			s.Prev2 = &id
		}
		if winner.Valid {
			id := core.TeamSeasonID(winner.Int64)
			s.Winner = &id
		}
		series = append(series, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate playoff series: %w", err)
	}
	return series, nil
}

func (r *PlayoffSeriesRepository) SetWinner(ctx context.Context, id core.PlayoffSeriesID, winner core.TeamSeasonID, team1Wins, team2Wins int) error {
	query := `UPDATE playoff_series SET winner = $1, team1_wins = $2, team2_wins = $3 WHERE id = $4`

	_, err := r.db.ExecContext(ctx, query, int(winner), team1Wins, team2Wins, int(id))
	if err != nil {
		return fmt.Errorf("failed to set playoff series winner: %w", err)
	}
	return nil
}
