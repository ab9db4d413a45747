package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tagprostats.dev/engine/internal/core"
)

// StatsRepository implements core.StatsRepository backed by PostgreSQL.
// The 27-counter PlayerStats shape repeats at every scope (per-game,
// per-game-regulation, per-week, per-season); statsColumns and the
// scan/arg helpers below are shared across all four tables instead of
// hand-duplicating the same 27-column list four times.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

const statsColumns = `
	time_played, tags, pops, grabs, drops, hold, captures, prevent, returns, powerups,
	caps_for, caps_against, total_pups_in_game, grabs_off_handoffs, caps_off_handoffs,
	grabs_off_regrab, caps_off_regrab, long_holds, flaccids, handoffs, good_handoffs,
	quick_returns, returns_in_base, saves, key_returns, hold_against, kept_flags
`

var statsColumnNames = []string{
	"time_played", "tags", "pops", "grabs", "drops", "hold", "captures", "prevent", "returns", "powerups",
	"caps_for", "caps_against", "total_pups_in_game", "grabs_off_handoffs", "caps_off_handoffs",
	"grabs_off_regrab", "caps_off_regrab", "long_holds", "flaccids", "handoffs", "good_handoffs",
	"quick_returns", "returns_in_base", "saves", "key_returns", "hold_against", "kept_flags",
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStats(s scanner, prefixDest []any, stats *core.PlayerStats) error {
	dest := append(prefixDest,
		&stats.TimePlayed, &stats.Tags, &stats.Pops, &stats.Grabs, &stats.Drops, &stats.Hold,
		&stats.Captures, &stats.Prevent, &stats.Returns, &stats.Powerups,
		&stats.CapsFor, &stats.CapsAgainst, &stats.TotalPupsInGame, &stats.GrabsOffHandoffs, &stats.CapsOffHandoffs,
		&stats.GrabsOffRegrab, &stats.CapsOffRegrab, &stats.LongHolds, &stats.Flaccids, &stats.Handoffs, &stats.GoodHandoffs,
		&stats.QuickReturns, &stats.ReturnsInBase, &stats.Saves, &stats.KeyReturns, &stats.HoldAgainst, &stats.KeptFlags,
	)
	return s.Scan(dest...)
}

func statsArgs(stats core.PlayerStats) []any {
	return []any{
		stats.TimePlayed, stats.Tags, stats.Pops, stats.Grabs, stats.Drops, stats.Hold,
		stats.Captures, stats.Prevent, stats.Returns, stats.Powerups,
		stats.CapsFor, stats.CapsAgainst, stats.TotalPupsInGame, stats.GrabsOffHandoffs, stats.CapsOffHandoffs,
		stats.GrabsOffRegrab, stats.CapsOffRegrab, stats.LongHolds, stats.Flaccids, stats.Handoffs, stats.GoodHandoffs,
		stats.QuickReturns, stats.ReturnsInBase, stats.Saves, stats.KeyReturns, stats.HoldAgainst, stats.KeptFlags,
	}
}

func placeholders(startAt, count int) string {
	ph := make([]string, count)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", startAt+i)
	}
	return strings.Join(ph, ", ")
}

func (r *StatsRepository) WriteGameStats(ctx context.Context, full, regulation map[core.PlayerGameLogID]core.PlayerStats) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin stats transaction: %w", err)
	}
	defer tx.Rollback()

	fullQuery := fmt.Sprintf(`
		INSERT INTO player_game_stats (player_gamelog, %s)
		VALUES ($1, %s)
		ON CONFLICT (player_gamelog) DO UPDATE SET %s
	`, strings.TrimSpace(statsColumns), placeholders(2, len(statsColumnNames)), setClause(statsColumnNames))

	for gamelog, stats := range full {
		args := append([]any{int(gamelog)}, statsArgs(stats)...)
		if _, err := tx.ExecContext(ctx, fullQuery, args...); err != nil {
			return fmt.Errorf("failed to write full game stats for gamelog %d: %w", gamelog, err)
		}
	}

	regQuery := fmt.Sprintf(`
		INSERT INTO player_regulation_game_stats (player_gamelog, %s)
		VALUES ($1, %s)
		ON CONFLICT (player_gamelog) DO UPDATE SET %s
	`, strings.TrimSpace(statsColumns), placeholders(2, len(statsColumnNames)), setClause(statsColumnNames))

	for gamelog, stats := range regulation {
		args := append([]any{int(gamelog)}, statsArgs(stats)...)
		if _, err := tx.ExecContext(ctx, regQuery, args...); err != nil {
			return fmt.Errorf("failed to write regulation game stats for gamelog %d: %w", gamelog, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit game stats: %w", err)
	}
	return nil
}

func (r *StatsRepository) GameStats(ctx context.Context, gamelog core.PlayerGameLogID) (full, regulation *core.PlayerStats, err error) {
	full, err = r.queryStatsByGamelog(ctx, "player_game_stats", gamelog)
	if err != nil {
		return nil, nil, err
	}
	regulation, err = r.queryStatsByGamelog(ctx, "player_regulation_game_stats", gamelog)
	if err != nil {
		return nil, nil, err
	}
	return full, regulation, nil
}

func (r *StatsRepository) queryStatsByGamelog(ctx context.Context, table string, gamelog core.PlayerGameLogID) (*core.PlayerStats, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE player_gamelog = $1`, strings.TrimSpace(statsColumns), table)

	var stats core.PlayerStats
	row := r.db.QueryRowContext(ctx, query, int(gamelog))
	if err := scanStats(row, nil, &stats); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	return &stats, nil
}

func (r *StatsRepository) ListRegulationStatsByWeek(ctx context.Context, playerSeason core.PlayerSeasonID, week string) ([]core.PlayerRegulationGameStats, error) {
	query := fmt.Sprintf(`
		SELECT prs.player_gamelog, %s
		FROM player_regulation_game_stats prs
		JOIN player_game_logs pgl ON pgl.id = prs.player_gamelog
		JOIN games g ON g.id = pgl.game
		JOIN matches m ON m.id = g.match
		WHERE pgl.player_season = $1 AND m.week = $2
	`, statsColumnsPrefixed("prs"))

	rows, err := r.db.QueryContext(ctx, query, int(playerSeason), week)
	if err != nil {
		return nil, fmt.Errorf("failed to list regulation stats by week: %w", err)
	}
	defer rows.Close()

	var out []core.PlayerRegulationGameStats
	for rows.Next() {
		var rec core.PlayerRegulationGameStats
		if err := scanStats(rows, []any{&rec.PlayerGameLog}, &rec.PlayerStats); err != nil {
			return nil, fmt.Errorf("failed to scan regulation game stats: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate regulation game stats: %w", err)
	}
	return out, nil
}

func (r *StatsRepository) UpsertWeekStats(ctx context.Context, w core.PlayerWeekStats) error {
	query := fmt.Sprintf(`
		INSERT INTO player_week_stats (player_season, week, %s)
		VALUES ($1, $2, %s)
		ON CONFLICT (player_season, week) DO UPDATE SET %s
	`, strings.TrimSpace(statsColumns), placeholders(3, len(statsColumnNames)), setClause(statsColumnNames))

	args := append([]any{int(w.PlayerSeason), w.Week}, statsArgs(w.PlayerStats)...)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert week stats: %w", err)
	}
	return nil
}

func (r *StatsRepository) WeekStats(ctx context.Context, playerSeason core.PlayerSeasonID, week string) (*core.PlayerWeekStats, error) {
	query := fmt.Sprintf(`
		SELECT player_season, week, %s
		FROM player_week_stats
		WHERE player_season = $1 AND week = $2
	`, strings.TrimSpace(statsColumns))

	var rec core.PlayerWeekStats
	row := r.db.QueryRowContext(ctx, query, int(playerSeason), week)
	if err := scanStats(row, []any{&rec.PlayerSeason, &rec.Week}, &rec.PlayerStats); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get week stats: %w", err)
	}
	return &rec, nil
}

func (r *StatsRepository) ListWeekStats(ctx context.Context, playerSeason core.PlayerSeasonID) ([]core.PlayerWeekStats, error) {
	query := fmt.Sprintf(`
		SELECT player_season, week, %s
		FROM player_week_stats
		WHERE player_season = $1
		ORDER BY week
	`, strings.TrimSpace(statsColumns))

	rows, err := r.db.QueryContext(ctx, query, int(playerSeason))
	if err != nil {
		return nil, fmt.Errorf("failed to list week stats: %w", err)
	}
	defer rows.Close()

	var out []core.PlayerWeekStats
	for rows.Next() {
		var rec core.PlayerWeekStats
		if err := scanStats(rows, []any{&rec.PlayerSeason, &rec.Week}, &rec.PlayerStats); err != nil {
			return nil, fmt.Errorf("failed to scan week stats: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate week stats: %w", err)
	}
	return out, nil
}

func (r *StatsRepository) UpsertSeasonStats(ctx context.Context, s core.PlayerSeasonStats) error {
	query := fmt.Sprintf(`
		INSERT INTO player_season_stats (player_season, %s)
		VALUES ($1, %s)
		ON CONFLICT (player_season) DO UPDATE SET %s
	`, strings.TrimSpace(statsColumns), placeholders(2, len(statsColumnNames)), setClause(statsColumnNames))

	args := append([]any{int(s.PlayerSeason)}, statsArgs(s.PlayerStats)...)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert season stats: %w", err)
	}
	return nil
}

func (r *StatsRepository) SeasonStats(ctx context.Context, playerSeason core.PlayerSeasonID) (*core.PlayerSeasonStats, error) {
	query := fmt.Sprintf(`
		SELECT player_season, %s
		FROM player_season_stats
		WHERE player_season = $1
	`, strings.TrimSpace(statsColumns))

	var rec core.PlayerSeasonStats
	row := r.db.QueryRowContext(ctx, query, int(playerSeason))
	if err := scanStats(row, []any{&rec.PlayerSeason}, &rec.PlayerStats); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to get season stats: %w", err)
	}
	return &rec, nil
}

func (r *StatsRepository) DistinctWeeks(ctx context.Context, season core.SeasonID) ([]string, error) {
	query := `SELECT DISTINCT week FROM matches WHERE season = $1 ORDER BY week`

	rows, err := r.db.QueryContext(ctx, query, int(season))
	if err != nil {
		return nil, fmt.Errorf("failed to list distinct weeks: %w", err)
	}
	defer rows.Close()

	var weeks []string
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		weeks = append(weeks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate weeks: %w", err)
	}
	return weeks, nil
}

func setClause(columns []string) string {
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = fmt.Sprintf("%s = EXCLUDED.%s", c, c)
	}
	return strings.Join(parts, ", ")
}

func statsColumnsPrefixed(alias string) string {
	parts := make([]string, len(statsColumnNames))
	for i, c := range statsColumnNames {
		parts[i] = fmt.Sprintf("%s.%s", alias, c)
	}
	return strings.Join(parts, ", ")
}
