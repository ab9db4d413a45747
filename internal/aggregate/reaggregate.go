// Package aggregate implements the Re-aggregator (C6): it rolls
// per-game regulation stats up into per-week totals, then per-week
// totals into per-season totals, entirely by re-summing from the
// regulation stat rows already on file. Every write is a full
// overwrite, so re-running a reaggregation after a correction is
// always safe.
package aggregate

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"tagprostats.dev/engine/internal/core"
	"tagprostats.dev/engine/internal/metrics"
)

type Reaggregator struct {
	logs  core.PlayerGameLogRepository
	stats core.StatsRepository
	log   *log.Logger
}

func New(logs core.PlayerGameLogRepository, stats core.StatsRepository, logger *log.Logger) *Reaggregator {
	if logger == nil {
		logger = log.Default()
	}
	return &Reaggregator{logs: logs, stats: stats, log: logger}
}

// Week recomputes a single player-season's stat line for week by summing
// every PlayerRegulationGameStats row belonging to that player-season and
// week, then upserting the result. It is a no-op write of all-zero stats
// if the player has no regulation games on file for the week, which keeps
// the call idempotent even after a game is reassigned away from them.
func (r *Reaggregator) Week(ctx context.Context, playerSeason core.PlayerSeasonID, week string) (core.PlayerWeekStats, error) {
	rows, err := r.stats.ListRegulationStatsByWeek(ctx, playerSeason, week)
	if err != nil {
		return core.PlayerWeekStats{}, fmt.Errorf("list regulation stats for week %s: %w", week, err)
	}

	var total core.PlayerStats
	for _, row := range rows {
		total = total.Add(row.PlayerStats)
	}

	out := core.PlayerWeekStats{PlayerSeason: playerSeason, Week: week, PlayerStats: total}
	if err := r.stats.UpsertWeekStats(ctx, out); err != nil {
		return core.PlayerWeekStats{}, fmt.Errorf("upsert week stats: %w", err)
	}
	r.log.Debug("recomputed week stats", "player_season", playerSeason, "week", week, "games", len(rows))
	return out, nil
}

// Season recomputes a player-season's season total from every week whose
// label begins with "Week " — the convention that distinguishes regular
// season rounds from playoff rounds, which never roll into the season
// aggregate.
func (r *Reaggregator) Season(ctx context.Context, playerSeason core.PlayerSeasonID) (core.PlayerSeasonStats, error) {
	weeks, err := r.stats.ListWeekStats(ctx, playerSeason)
	if err != nil {
		return core.PlayerSeasonStats{}, fmt.Errorf("list week stats: %w", err)
	}

	var total core.PlayerStats
	for _, w := range weeks {
		if !strings.HasPrefix(w.Week, "Week ") {
			continue
		}
		total = total.Add(w.PlayerStats)
	}

	out := core.PlayerSeasonStats{PlayerSeason: playerSeason, PlayerStats: total}
	if err := r.stats.UpsertSeasonStats(ctx, out); err != nil {
		return core.PlayerSeasonStats{}, fmt.Errorf("upsert season stats: %w", err)
	}
	return out, nil
}

// Players returns the PlayerSeasonID of every PlayerSeason registered for
// season, whether or not it has any PlayerGameLog row: the driving set for
// a full-season reaggregation pass.
func (r *Reaggregator) Players(ctx context.Context, season core.SeasonID, playerSeasons core.PlayerSeasonRepository) ([]core.PlayerSeasonID, error) {
	rows, err := playerSeasons.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list player seasons: %w", err)
	}
	ids := make([]core.PlayerSeasonID, len(rows))
	for i, ps := range rows {
		ids[i] = ps.ID
	}
	return ids, nil
}

// AllWeeksThenSeason reaggregates every distinct week for a full set of
// players, then rolls those weeks into each player's season totals. It is
// the operation `cmd reaggregate-season` drives.
func (r *Reaggregator) AllWeeksThenSeason(ctx context.Context, seasonID core.SeasonID, playerSeasons []core.PlayerSeasonID) error {
	weeks, err := r.stats.DistinctWeeks(ctx, seasonID)
	if err != nil {
		metrics.RecordReaggregatePass("season", "error")
		return fmt.Errorf("list distinct weeks: %w", err)
	}

	for _, ps := range playerSeasons {
		for _, week := range weeks {
			if _, err := r.Week(ctx, ps, week); err != nil {
				metrics.RecordReaggregatePass("season", "error")
				return fmt.Errorf("player_season %d week %s: %w", ps, week, err)
			}
		}
		if _, err := r.Season(ctx, ps); err != nil {
			metrics.RecordReaggregatePass("season", "error")
			return fmt.Errorf("player_season %d season total: %w", ps, err)
		}
	}
	metrics.RecordReaggregatePass("season", "success")
	return nil
}
