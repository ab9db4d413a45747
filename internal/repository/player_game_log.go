package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// PlayerGameLogRepository implements core.PlayerGameLogRepository backed by PostgreSQL.
type PlayerGameLogRepository struct {
	db *sql.DB
}

func NewPlayerGameLogRepository(db *sql.DB) *PlayerGameLogRepository {
	return &PlayerGameLogRepository{db: db}
}

const playerGameLogColumns = `id, game, team, player_season, playing_as`

func (r *PlayerGameLogRepository) ListByGame(ctx context.Context, game core.GameID) ([]core.PlayerGameLog, error) {
	query := `SELECT ` + playerGameLogColumns + ` FROM player_game_logs WHERE game = $1 ORDER BY playing_as`

	rows, err := r.db.QueryContext(ctx, query, int(game))
	if err != nil {
		return nil, fmt.Errorf("failed to list player game logs by game: %w", err)
	}
	defer rows.Close()
	return scanPlayerGameLogs(rows)
}

func (r *PlayerGameLogRepository) ListByPlayerSeason(ctx context.Context, ps core.PlayerSeasonID) ([]core.PlayerGameLog, error) {
	query := `SELECT ` + playerGameLogColumns + ` FROM player_game_logs WHERE player_season = $1 ORDER BY game`

	rows, err := r.db.QueryContext(ctx, query, int(ps))
	if err != nil {
		return nil, fmt.Errorf("failed to list player game logs by player season: %w", err)
	}
	defer rows.Close()
	return scanPlayerGameLogs(rows)
}

func (r *PlayerGameLogRepository) FindByPlayingAs(ctx context.Context, playingAs string) (*core.PlayerGameLog, error) {
	query := `SELECT ` + playerGameLogColumns + ` FROM player_game_logs WHERE lower(playing_as) = lower($1) ORDER BY id DESC LIMIT 1`

	var l core.PlayerGameLog
	err := r.db.QueryRowContext(ctx, query, playingAs).Scan(&l.ID, &l.Game, &l.Team, &l.PlayerSeason, &l.PlayingAs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find player game log by playing_as: %w", err)
	}
	return &l, nil
}

func (r *PlayerGameLogRepository) Create(ctx context.Context, l core.PlayerGameLog) (core.PlayerGameLogID, error) {
	query := `
		INSERT INTO player_game_logs (game, team, player_season, playing_as)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var id core.PlayerGameLogID
	err := r.db.QueryRowContext(ctx, query, int(l.Game), int(l.Team), int(l.PlayerSeason), l.PlayingAs).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create player game log: %w", err)
	}
	return id, nil
}

func (r *PlayerGameLogRepository) SetTeam(ctx context.Context, id core.PlayerGameLogID, team core.TeamSeasonID) error {
	query := `UPDATE player_game_logs SET team = $1 WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, int(team), int(id))
	if err != nil {
		return fmt.Errorf("failed to set player game log team: %w", err)
	}
	return nil
}

func scanPlayerGameLogs(rows *sql.Rows) ([]core.PlayerGameLog, error) {
	var logs []core.PlayerGameLog
	for rows.Next() {
		var l core.PlayerGameLog
		if err := rows.Scan(&l.ID, &l.Game, &l.Team, &l.PlayerSeason, &l.PlayingAs); err != nil {
			return nil, fmt.Errorf("failed to scan player game log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate player game logs: %w", err)
	}
	return logs, nil
}
