package repository

import (
	"context"
	"database/sql"
	"fmt"

	"tagprostats.dev/engine/internal/core"
)

// GameRepository implements core.GameRepository backed by PostgreSQL.
type GameRepository struct {
	db *sql.DB
}

func NewGameRepository(db *sql.DB) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `
	id, match, game_in_match, tagpro_eu, paused_time, resumed_tagpro_eu, replay, vod, red_team, blue_team,
	team1_score, team2_score, outcome, team1_standing_points, team2_standing_points,
	map_name, map_id
`

func (r *GameRepository) GetByID(ctx context.Context, id core.GameID) (*core.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`
	return r.queryOne(ctx, query, int(id))
}

func (r *GameRepository) GetByTagproEU(ctx context.Context, tagproEU int) (*core.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE tagpro_eu = $1`
	return r.queryOne(ctx, query, tagproEU)
}

func (r *GameRepository) ListByMatch(ctx context.Context, match core.MatchID) ([]core.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE match = $1 ORDER BY game_in_match`

	rows, err := r.db.QueryContext(ctx, query, int(match))
	if err != nil {
		return nil, fmt.Errorf("failed to list games by match: %w", err)
	}
	defer rows.Close()
	return scanGames(rows)
}

func (r *GameRepository) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.Game, error) {
	query := `
		SELECT g.id, g.match, g.game_in_match, g.tagpro_eu, g.paused_time, g.resumed_tagpro_eu, g.replay, g.vod, g.red_team, g.blue_team,
			g.team1_score, g.team2_score, g.outcome, g.team1_standing_points, g.team2_standing_points,
			g.map_name, g.map_id
		FROM games g
		JOIN matches m ON m.id = g.match
		WHERE m.season = $1
		ORDER BY m.date, g.game_in_match
	`

	rows, err := r.db.QueryContext(ctx, query, int(season))
	if err != nil {
		return nil, fmt.Errorf("failed to list games by season: %w", err)
	}
	defer rows.Close()
	return scanGames(rows)
}

func (r *GameRepository) queryOne(ctx context.Context, query string, args ...any) (*core.Game, error) {
	var g core.Game
	var tagproEU, pausedTime, resumedTagproEU, mapID sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&g.ID, &g.Match, &g.GameInMatch, &tagproEU, &pausedTime, &resumedTagproEU, &g.Replay, &g.VOD, &g.RedTeam, &g.BlueTeam,
		&g.Team1Score, &g.Team2Score, &g.Outcome, &g.Team1StandingPoints, &g.Team2StandingPoints,
		&g.MapName, &mapID,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find game: %w", err)
	}
	fillGameNullables(&g, tagproEU, pausedTime, resumedTagproEU, mapID)
	return &g, nil
}

func scanGames(rows *sql.Rows) ([]core.Game, error) {
	var games []core.Game
	for rows.Next() {
		var g core.Game
		var tagproEU, pausedTime, resumedTagproEU, mapID sql.NullInt64
		if err := rows.Scan(
			&g.ID, &g.Match, &g.GameInMatch, &tagproEU, &pausedTime, &resumedTagproEU, &g.Replay, &g.VOD, &g.RedTeam, &g.BlueTeam,
			&g.Team1Score, &g.Team2Score, &g.Outcome, &g.Team1StandingPoints, &g.Team2StandingPoints,
			&g.MapName, &mapID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		fillGameNullables(&g, tagproEU, pausedTime, resumedTagproEU, mapID)
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	return games, nil
}

func fillGameNullables(g *core.Game, tagproEU, pausedTime, resumedTagproEU, mapID sql.NullInt64) {
	if tagproEU.Valid {
		v := int(tagproEU.Int64)
		g.TagproEU = &v
	}
	if pausedTime.Valid {
		v := int(pausedTime.Int64)
		g.PausedTime = &v
	}
	if resumedTagproEU.Valid {
		v := int(resumedTagproEU.Int64)
		g.ResumedTagproEU = &v
	}
	if mapID.Valid {
		v := int(mapID.Int64)
		g.MapID = &v
	}
}

func (r *GameRepository) Create(ctx context.Context, g core.Game) (core.GameID, error) {
	query := `
		INSERT INTO games (
			match, game_in_match, tagpro_eu, paused_time, resumed_tagpro_eu, replay, vod, red_team, blue_team,
			team1_score, team2_score, outcome, team1_standing_points, team2_standing_points,
			map_name, map_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id
	`

	var tagproEU, pausedTime, resumedTagproEU, mapID any
	if g.TagproEU != nil {
		tagproEU = *g.TagproEU
	}
	if g.PausedTime != nil {
		pausedTime = *g.PausedTime
	}
	if g.ResumedTagproEU != nil {
		resumedTagproEU = *g.ResumedTagproEU
	}
	if g.MapID != nil {
		mapID = *g.MapID
	}

	var id core.GameID
	err := r.db.QueryRowContext(ctx, query,
		int(g.Match), g.GameInMatch, tagproEU, pausedTime, resumedTagproEU, g.Replay, g.VOD, int(g.RedTeam), int(g.BlueTeam),
		g.Team1Score, g.Team2Score, string(g.Outcome), g.Team1StandingPoints, g.Team2StandingPoints,
		g.MapName, mapID,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create game: %w", err)
	}
	return id, nil
}

// SetResumed links the resumed segment's tagpro.eu id and the tick the game
// was paused at, once a second timeline for an already-recorded Game is
// discovered. The Paused-Game Merger (C4) runs only once this is set.
func (r *GameRepository) SetResumed(ctx context.Context, id core.GameID, pausedTime, resumedTagproEU int) error {
	query := `UPDATE games SET paused_time = $1, resumed_tagpro_eu = $2 WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, pausedTime, resumedTagproEU, int(id))
	if err != nil {
		return fmt.Errorf("failed to set resumed game link: %w", err)
	}
	return nil
}

func (r *GameRepository) WriteOutcome(ctx context.Context, id core.GameID, g core.Game) error {
	query := `
		UPDATE games SET
			team1_score = $1, team2_score = $2, outcome = $3,
			team1_standing_points = $4, team2_standing_points = $5
		WHERE id = $6
	`

	_, err := r.db.ExecContext(ctx, query,
		g.Team1Score, g.Team2Score, string(g.Outcome), g.Team1StandingPoints, g.Team2StandingPoints, int(id),
	)
	if err != nil {
		return fmt.Errorf("failed to write game outcome: %w", err)
	}
	return nil
}
