// Package batch orchestrates the reprocess pipeline: fetch a game's
// timeline(s), run them through the interpreter, merge a paused/resumed
// pair, classify the outcome, and persist everything the interpreter and
// classifier produce. `cmd reprocess` and `cmd reprocess-season` are both
// thin wrappers around Runner.Run.
package batch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"tagprostats.dev/engine/internal/cache"
	"tagprostats.dev/engine/internal/core"
	"tagprostats.dev/engine/internal/engine"
	"tagprostats.dev/engine/internal/metrics"
)

// TimelineSource resolves a tagpro.eu match id to its parsed Timeline.
// timeline.Combined is the production implementation; satisfied here as
// an interface rather than the concrete struct so tests can fake it.
type TimelineSource interface {
	Timeline(ctx context.Context, matchID string) (core.Timeline, error)
}

// Processor runs one game's full reprocess pipeline.
type Processor struct {
	games     core.GameRepository
	matches   core.MatchRepository
	gamelogs  core.PlayerGameLogRepository
	stats     core.StatsRepository
	timelines TimelineSource
	cache     *cache.Client
	dedupTTL  time.Duration
	log       *log.Logger
}

func NewProcessor(
	games core.GameRepository,
	matches core.MatchRepository,
	gamelogs core.PlayerGameLogRepository,
	stats core.StatsRepository,
	timelines TimelineSource,
	cacheClient *cache.Client,
	logger *log.Logger,
) *Processor {
	if logger == nil {
		logger = log.Default()
	}
	return &Processor{
		games: games, matches: matches, gamelogs: gamelogs, stats: stats,
		timelines: timelines, cache: cacheClient, dedupTTL: 10 * time.Minute, log: logger,
	}
}

func (p *Processor) claimKey(id core.GameID) string {
	return fmt.Sprintf("batch:reprocess:%d", int(id))
}

// ProcessGame fetches, interprets, and persists the outcome and player
// stats for a single game. A concurrent ProcessGame call for the same
// game id backs off instead of running a duplicate interpreter pass, via
// a Redis SetNX claim; a nil cache (tests, or caching disabled) skips
// the claim and always proceeds.
func (p *Processor) ProcessGame(ctx context.Context, runID string, gameID core.GameID) (err error) {
	logger := p.log.With("run_id", runID, "game_id", gameID)
	start := time.Now()
	skipped := false
	defer func() {
		switch {
		case skipped:
			metrics.RecordReprocess("skipped", time.Since(start))
		case err == nil:
			metrics.RecordReprocess("success", time.Since(start))
		default:
			metrics.RecordReprocess("error", time.Since(start))
		}
	}()

	if p.cache != nil {
		acquired, claimErr := p.cache.SetNX(ctx, p.claimKey(gameID), p.dedupTTL)
		if claimErr != nil {
			err = fmt.Errorf("claim game %d for reprocess: %w", gameID, claimErr)
			return err
		}
		if !acquired {
			logger.Info("reprocess: already claimed by another worker, skipping")
			skipped = true
			return nil
		}
		defer p.cache.Delete(ctx, p.claimKey(gameID))
	}

	game, err := p.games.GetByID(ctx, gameID)
	if err != nil {
		return fmt.Errorf("load game %d: %w", gameID, err)
	}
	if game == nil {
		return fmt.Errorf("game %d not found", gameID)
	}
	if game.TagproEU == nil {
		return fmt.Errorf("game %d has no tagpro.eu id to reprocess from", gameID)
	}

	match, err := p.matches.GetByID(ctx, game.Match)
	if err != nil {
		return fmt.Errorf("load match for game %d: %w", gameID, err)
	}

	players, redScore, blueScore, wentToOvertime, err := p.interpret(ctx, *game, logger)
	if err != nil {
		return err
	}

	outcome, team1Score, team2Score, team1Points, team2Points := engine.ClassifyFromSides(
		redScore, blueScore, game.RedTeam, match.Team1, wentToOvertime,
	)

	updated := *game
	updated.Team1Score = team1Score
	updated.Team2Score = team2Score
	updated.Outcome = outcome
	updated.Team1StandingPoints = team1Points
	updated.Team2StandingPoints = team2Points

	if err := p.games.WriteOutcome(ctx, gameID, updated); err != nil {
		return fmt.Errorf("write outcome for game %d: %w", gameID, err)
	}
	if err := p.writePlayerStats(ctx, gameID, players); err != nil {
		return fmt.Errorf("write player stats for game %d: %w", gameID, err)
	}

	logger.Info("reprocessed game",
		"outcome", outcome, "team1_score", team1Score, "team2_score", team2Score, "players", len(players))
	return nil
}

// interpret runs the interpreter over game's timeline, merging a second
// segment through the Paused-Game Merger (C4) whenever ResumedTagproEU
// is set.
func (p *Processor) interpret(
	ctx context.Context, game core.Game, logger *log.Logger,
) (map[string]engine.PlayerGameResult, int, int, bool, error) {
	in1 := engine.NewInterpreter(core.RegulationTicks, logger)

	tl1, err := p.timelines.Timeline(ctx, strconv.Itoa(*game.TagproEU))
	if err != nil {
		return nil, 0, 0, false, fmt.Errorf("fetch timeline %d: %w", *game.TagproEU, err)
	}
	countEvents(tl1)
	res1, err := in1.Run(ctx, tl1)
	if err != nil {
		return nil, 0, 0, false, fmt.Errorf("interpret timeline %d: %w", *game.TagproEU, err)
	}
	part1 := engine.ByName(res1, tl1)

	if game.ResumedTagproEU == nil {
		return part1, res1.RedScore, res1.BlueScore, res1.WentToOvertime, nil
	}

	pausedWithinRegulation := game.PausedTime != nil && *game.PausedTime < core.RegulationTicks

	// The resumed segment owes whatever regulation time was left when play
	// was paused, so its own Interpreter needs its own boundary: the
	// remainder of regulation, or 0 (pure overtime from tick zero) when the
	// pause already fell at or past core.RegulationTicks.
	resumedBoundary := 0
	if pausedWithinRegulation {
		resumedBoundary = core.RegulationTicks - *game.PausedTime
	}
	in2 := engine.NewInterpreter(resumedBoundary, logger)

	tl2, err := p.timelines.Timeline(ctx, strconv.Itoa(*game.ResumedTagproEU))
	if err != nil {
		return nil, 0, 0, false, fmt.Errorf("fetch resumed timeline %d: %w", *game.ResumedTagproEU, err)
	}
	countEvents(tl2)
	res2, err := in2.Run(ctx, tl2)
	if err != nil {
		return nil, 0, 0, false, fmt.Errorf("interpret resumed timeline %d: %w", *game.ResumedTagproEU, err)
	}
	part2 := engine.ByName(res2, tl2)
	merged := engine.Merge(
		part1, part2,
		[2]int{res1.RedScore, res1.BlueScore}, [2]int{res2.RedScore, res2.BlueScore},
		res1.WentToOvertime, res2.WentToOvertime, pausedWithinRegulation,
	)
	return merged.Players, merged.RedScore, merged.BlueScore, merged.WentToOvertime, nil
}

// countEvents tallies timeline's events by kind for tagprostats_timeline_events_interpreted_total.
func countEvents(tl core.Timeline) {
	for _, e := range tl.Events {
		metrics.TimelineEventsInterpreted.WithLabelValues(e.Kind.Label()).Inc()
	}
}

// writePlayerStats re-keys the interpreter's by-name results onto the
// PlayerGameLog rows import already created for this game. A timeline
// actor with no matching log is a referential gap, not a fatal error:
// it is logged and its stats are skipped, same as the importer's
// missing-team/missing-season handling.
func (p *Processor) writePlayerStats(ctx context.Context, gameID core.GameID, players map[string]engine.PlayerGameResult) error {
	logs, err := p.gamelogs.ListByGame(ctx, gameID)
	if err != nil {
		return fmt.Errorf("list player game logs: %w", err)
	}
	byName := make(map[string]core.PlayerGameLogID, len(logs))
	for _, l := range logs {
		byName[strings.ToLower(l.PlayingAs)] = l.ID
	}

	full := make(map[core.PlayerGameLogID]core.PlayerStats, len(players))
	regulation := make(map[core.PlayerGameLogID]core.PlayerStats, len(players))
	for name, result := range players {
		id, ok := byName[strings.ToLower(name)]
		if !ok {
			p.log.Warn("reprocess: timeline actor has no player game log on file, skipping", "name", name, "game_id", gameID)
			continue
		}
		full[id] = result.Full
		regulation[id] = result.Regulation
	}

	return p.stats.WriteGameStats(ctx, full, regulation)
}
