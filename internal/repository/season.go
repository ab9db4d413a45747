package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// SeasonRepository implements core.SeasonRepository backed by PostgreSQL.
//
// Season groups (e.g. the set of seasons sharing a calendar slot across
// MLTP/mLTP/NLTP, used by C8's inference) are not a column on seasons —
// they're derived from the shared name, since two concurrently-run
// leagues' seasons for the same stretch of weeks carry the same season
// name by convention.
type SeasonRepository struct {
	db *sql.DB
}

func NewSeasonRepository(db *sql.DB) *SeasonRepository {
	return &SeasonRepository{db: db}
}

func (r *SeasonRepository) GetByID(ctx context.Context, id core.SeasonID) (*core.Season, error) {
	query := `SELECT id, name, league, end_date FROM seasons WHERE id = $1`

	var s core.Season
	var endDate sql.NullTime
	err := r.db.QueryRowContext(ctx, query, int(id)).Scan(&s.ID, &s.Name, &s.League, &endDate)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("season %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get season: %w", err)
	}
	if endDate.Valid {
		s.EndDate = &endDate.Time
	}
	return &s, nil
}

func (r *SeasonRepository) List(ctx context.Context) ([]core.Season, error) {
	query := `SELECT id, name, league, end_date FROM seasons ORDER BY end_date DESC NULLS FIRST, name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}
	defer rows.Close()
	return scanSeasons(rows)
}

func (r *SeasonRepository) ListByGroup(ctx context.Context, group string) ([]core.Season, error) {
	query := `SELECT id, name, league, end_date FROM seasons WHERE name = $1 ORDER BY league`

	rows, err := r.db.QueryContext(ctx, query, group)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons by group: %w", err)
	}
	defer rows.Close()
	return scanSeasons(rows)
}

func scanSeasons(rows *sql.Rows) ([]core.Season, error) {
	var seasons []core.Season
	for rows.Next() {
		var s core.Season
		var endDate sql.NullTime
		if err := rows.Scan(&s.ID, &s.Name, &s.League, &endDate); err != nil {
			return nil, fmt.Errorf("failed to scan season: %w", err)
		}
		if endDate.Valid {
			s.EndDate = &endDate.Time
		}
		seasons = append(seasons, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate seasons: %w", err)
	}
	return seasons, nil
}
