package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// TeamSeasonRepository implements core.TeamSeasonRepository backed by PostgreSQL.
type TeamSeasonRepository struct {
	db *sql.DB
}

func NewTeamSeasonRepository(db *sql.DB) *TeamSeasonRepository {
	return &TeamSeasonRepository{db: db}
}

func (r *TeamSeasonRepository) GetByID(ctx context.Context, id core.TeamSeasonID) (*core.TeamSeason, error) {
	query := `
		SELECT id, franchise, season, name, abbr, captain, co_captain
		FROM team_seasons
		WHERE id = $1
	`

	var ts core.TeamSeason
	var captain, coCaptain sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, int(id)).Scan(
		&ts.ID, &ts.Franchise, &ts.Season, &ts.Name, &ts.Abbr, &captain, &coCaptain,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("team season %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team season: %w", err)
	}
	fillCaptains(&ts, captain, coCaptain)
	return &ts, nil
}

func (r *TeamSeasonRepository) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.TeamSeason, error) {
	query := `
		SELECT id, franchise, season, name, abbr, captain, co_captain
		FROM team_seasons
		WHERE season = $1
		ORDER BY name
	`

	rows, err := r.db.QueryContext(ctx, query, int(season))
	if err != nil {
		return nil, fmt.Errorf("failed to list team seasons: %w", err)
	}
	defer rows.Close()

	var teams []core.TeamSeason
	for rows.Next() {
		var ts core.TeamSeason
		var captain, coCaptain sql.NullInt64
		if err := rows.Scan(&ts.ID, &ts.Franchise, &ts.Season, &ts.Name, &ts.Abbr, &captain, &coCaptain); err != nil {
			return nil, fmt.Errorf("failed to scan team season: %w", err)
		}
		fillCaptains(&ts, captain, coCaptain)
		teams = append(teams, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team seasons: %w", err)
	}
	return teams, nil
}

func (r *TeamSeasonRepository) FindByAbbr(ctx context.Context, season core.SeasonID, abbr string) (*core.TeamSeason, error) {
	query := `
		SELECT id, franchise, season, name, abbr, captain, co_captain
		FROM team_seasons
		WHERE season = $1 AND abbr = $2
	`

	var ts core.TeamSeason
	var captain, coCaptain sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, int(season), abbr).Scan(
		&ts.ID, &ts.Franchise, &ts.Season, &ts.Name, &ts.Abbr, &captain, &coCaptain,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team season by abbr: %w", err)
	}
	fillCaptains(&ts, captain, coCaptain)
	return &ts, nil
}

func (r *TeamSeasonRepository) FindByName(ctx context.Context, season core.SeasonID, name string) (*core.TeamSeason, error) {
	query := `
		SELECT id, franchise, season, name, abbr, captain, co_captain
		FROM team_seasons
		WHERE season = $1 AND name = $2
	`

	var ts core.TeamSeason
	var captain, coCaptain sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, int(season), name).Scan(
		&ts.ID, &ts.Franchise, &ts.Season, &ts.Name, &ts.Abbr, &captain, &coCaptain,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find team season by name: %w", err)
	}
	fillCaptains(&ts, captain, coCaptain)
	return &ts, nil
}

func (r *TeamSeasonRepository) Create(ctx context.Context, ts core.TeamSeason) (core.TeamSeasonID, error) {
	query := `
		INSERT INTO team_seasons (franchise, season, name, abbr, captain, co_captain)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var captain, coCaptain any
	if ts.Captain != nil {
		captain = int(*ts.Captain)
	}
	if ts.CoCaptain != nil {
		coCaptain = int(*ts.CoCaptain)
	}

	var id core.TeamSeasonID
	err := r.db.QueryRowContext(ctx, query, int(ts.Franchise), int(ts.Season), ts.Name, ts.Abbr, captain, coCaptain).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create team season: %w", err)
	}
	return id, nil
}

func (r *TeamSeasonRepository) UpdateStanding(ctx context.Context, id core.TeamSeasonID, seed int, playoffFinish string) error {
	query := `UPDATE team_seasons SET seed = $1, playoff_finish = $2 WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, seed, playoffFinish, int(id))
	if err != nil {
		return fmt.Errorf("failed to update team season standing: %w", err)
	}
	return nil
}

func fillCaptains(ts *core.TeamSeason, captain, coCaptain sql.NullInt64) {
	if captain.Valid {
		id := core.PlayerID(captain.Int64)
		ts.Captain = &id
	}
	if coCaptain.Valid {
		id := core.PlayerID(coCaptain.Int64)
		ts.CoCaptain = &id
	}
}
