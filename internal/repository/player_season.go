package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// PlayerSeasonRepository implements core.PlayerSeasonRepository backed by PostgreSQL.
type PlayerSeasonRepository struct {
	db *sql.DB
}

func NewPlayerSeasonRepository(db *sql.DB) *PlayerSeasonRepository {
	return &PlayerSeasonRepository{db: db}
}

const playerSeasonColumns = `id, season, team, player, playing_as, position, other_restrictions`

func (r *PlayerSeasonRepository) GetByID(ctx context.Context, id core.PlayerSeasonID) (*core.PlayerSeason, error) {
	query := `SELECT ` + playerSeasonColumns + ` FROM player_seasons WHERE id = $1`

	var ps core.PlayerSeason
	var team sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, int(id)).Scan(
		&ps.ID, &ps.Season, &team, &ps.Player, &ps.PlayingAs, &ps.Position, &ps.OtherRestrictions,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player season %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player season: %w", err)
	}
	fillTeam(&ps, team)
	return &ps, nil
}

func (r *PlayerSeasonRepository) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.PlayerSeason, error) {
	query := `SELECT ` + playerSeasonColumns + ` FROM player_seasons WHERE season = $1 ORDER BY playing_as`

	rows, err := r.db.QueryContext(ctx, query, int(season))
	if err != nil {
		return nil, fmt.Errorf("failed to list player seasons: %w", err)
	}
	defer rows.Close()
	return scanPlayerSeasons(rows)
}

func (r *PlayerSeasonRepository) FindByPlayingAs(ctx context.Context, season core.SeasonID, playingAs string) (*core.PlayerSeason, error) {
	query := `SELECT ` + playerSeasonColumns + ` FROM player_seasons WHERE season = $1 AND lower(playing_as) = lower($2)`
	return r.queryOne(ctx, query, int(season), playingAs)
}

func (r *PlayerSeasonRepository) FindByPlayerName(ctx context.Context, season core.SeasonID, playerName string) (*core.PlayerSeason, error) {
	query := `
		SELECT ps.id, ps.season, ps.team, ps.player, ps.playing_as, ps.position, ps.other_restrictions
		FROM player_seasons ps
		JOIN players p ON p.id = ps.player
		WHERE ps.season = $1 AND lower(p.name) = lower($2)
	`
	return r.queryOne(ctx, query, int(season), playerName)
}

func (r *PlayerSeasonRepository) FindByPlayingAsAnySeason(ctx context.Context, playingAs string) (*core.PlayerSeason, error) {
	query := `SELECT ` + playerSeasonColumns + ` FROM player_seasons WHERE lower(playing_as) = lower($1) ORDER BY id DESC LIMIT 1`
	return r.queryOne(ctx, query, playingAs)
}

func (r *PlayerSeasonRepository) FindByPlayer(ctx context.Context, season core.SeasonID, player core.PlayerID) (*core.PlayerSeason, error) {
	query := `SELECT ` + playerSeasonColumns + ` FROM player_seasons WHERE season = $1 AND player = $2`
	return r.queryOne(ctx, query, int(season), int(player))
}

func (r *PlayerSeasonRepository) queryOne(ctx context.Context, query string, args ...any) (*core.PlayerSeason, error) {
	var ps core.PlayerSeason
	var team sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&ps.ID, &ps.Season, &team, &ps.Player, &ps.PlayingAs, &ps.Position, &ps.OtherRestrictions,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find player season: %w", err)
	}
	fillTeam(&ps, team)
	return &ps, nil
}

func (r *PlayerSeasonRepository) Create(ctx context.Context, ps core.PlayerSeason) (core.PlayerSeasonID, error) {
	query := `
		INSERT INTO player_seasons (season, team, player, playing_as, position, other_restrictions)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var team any
	if ps.Team != nil {
		team = int(*ps.Team)
	}

	var id core.PlayerSeasonID
	err := r.db.QueryRowContext(ctx, query, int(ps.Season), team, int(ps.Player), ps.PlayingAs, ps.Position, ps.OtherRestrictions).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create player season: %w", err)
	}
	return id, nil
}

func scanPlayerSeasons(rows *sql.Rows) ([]core.PlayerSeason, error) {
	var seasons []core.PlayerSeason
	for rows.Next() {
		var ps core.PlayerSeason
		var team sql.NullInt64
		if err := rows.Scan(&ps.ID, &ps.Season, &team, &ps.Player, &ps.PlayingAs, &ps.Position, &ps.OtherRestrictions); err != nil {
			return nil, fmt.Errorf("failed to scan player season: %w", err)
		}
		fillTeam(&ps, team)
		seasons = append(seasons, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate player seasons: %w", err)
	}
	return seasons, nil
}

func fillTeam(ps *core.PlayerSeason, team sql.NullInt64) {
	if team.Valid {
		id := core.TeamSeasonID(team.Int64)
		ps.Team = &id
	}
}
