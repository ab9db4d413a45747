package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tagprostats.dev/engine/internal/core"
)

// MatchRepository implements core.MatchRepository backed by PostgreSQL.
type MatchRepository struct {
	db *sql.DB
}

func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

const matchColumns = `id, season, date, week, team1, team2`

func (r *MatchRepository) GetByID(ctx context.Context, id core.MatchID) (*core.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	var m core.Match
	err := r.db.QueryRowContext(ctx, query, int(id)).Scan(&m.ID, &m.Season, &m.Date, &m.Week, &m.Team1, &m.Team2)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("match %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &m, nil
}

func (r *MatchRepository) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE season = $1 ORDER BY date`

	rows, err := r.db.QueryContext(ctx, query, int(season))
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []core.Match
	for rows.Next() {
		var m core.Match
		if err := rows.Scan(&m.ID, &m.Season, &m.Date, &m.Week, &m.Team1, &m.Team2); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate matches: %w", err)
	}
	return matches, nil
}

func (r *MatchRepository) FindByTeams(ctx context.Context, season core.SeasonID, team1, team2 core.TeamSeasonID) (*core.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE season = $1 AND ((team1 = $2 AND team2 = $3) OR (team1 = $3 AND team2 = $2))
	`
	return r.queryOne(ctx, query, int(season), int(team1), int(team2))
}

func (r *MatchRepository) FindByTeamsAndDate(ctx context.Context, season core.SeasonID, team1, team2 core.TeamSeasonID, date time.Time) (*core.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE season = $1 AND date = $2
		  AND ((team1 = $3 AND team2 = $4) OR (team1 = $4 AND team2 = $3))
	`
	return r.queryOne(ctx, query, int(season), date, int(team1), int(team2))
}

func (r *MatchRepository) queryOne(ctx context.Context, query string, args ...any) (*core.Match, error) {
	var m core.Match
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&m.ID, &m.Season, &m.Date, &m.Week, &m.Team1, &m.Team2)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find match: %w", err)
	}
	return &m, nil
}

func (r *MatchRepository) Create(ctx context.Context, m core.Match) (core.MatchID, error) {
	query := `
		INSERT INTO matches (season, date, week, team1, team2)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id core.MatchID
	err := r.db.QueryRowContext(ctx, query, int(m.Season), m.Date, m.Week, int(m.Team1), int(m.Team2)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create match: %w", err)
	}
	return id, nil
}
