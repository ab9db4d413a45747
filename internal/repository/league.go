package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// LeagueRepository implements core.LeagueRepository backed by PostgreSQL.
type LeagueRepository struct {
	db *sql.DB
}

func NewLeagueRepository(db *sql.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) GetByID(ctx context.Context, id core.LeagueID) (*core.League, error) {
	query := `
		SELECT id, name, abbr, region, ordering, gamemode, logo, trophy_icon
		FROM leagues
		WHERE id = $1
	`

	var l core.League
	err := r.db.QueryRowContext(ctx, query, int(id)).Scan(
		&l.ID, &l.Name, &l.Abbr, &l.Region, &l.Ordering, &l.Gamemode, &l.Logo, &l.TrophyIcon,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("league %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &l, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]core.League, error) {
	query := `
		SELECT id, name, abbr, region, ordering, gamemode, logo, trophy_icon
		FROM leagues
		ORDER BY ordering, name
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	var leagues []core.League
	for rows.Next() {
		var l core.League
		if err := rows.Scan(&l.ID, &l.Name, &l.Abbr, &l.Region, &l.Ordering, &l.Gamemode, &l.Logo, &l.TrophyIcon); err != nil {
			return nil, fmt.Errorf("failed to scan league: %w", err)
		}
		leagues = append(leagues, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leagues: %w", err)
	}
	return leagues, nil
}
