package standings

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"tagprostats.dev/engine/internal/core"
	"tagprostats.dev/engine/internal/metrics"
)

// Service resolves a season's persisted games into standings and writes
// the result back: `cmd update-standings` is a thin wrapper around
// Service.UpdateSeason.
type Service struct {
	games    core.GameRepository
	matches  core.MatchRepository
	teams    core.TeamSeasonRepository
	playoffs core.PlayoffSeriesRepository
	log      *log.Logger
}

func NewService(
	games core.GameRepository,
	matches core.MatchRepository,
	teams core.TeamSeasonRepository,
	playoffs core.PlayoffSeriesRepository,
	logger *log.Logger,
) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{games: games, matches: matches, teams: teams, playoffs: playoffs, log: logger}
}

// UpdateSeason recomputes every team's seed and playoff-finish label for
// season and persists both. Seeds come from regular-season games only:
// gameResults drops every match whose week is not a "Week N" week, and
// the playoff rounds reach PlayoffFinish through the playoff series
// instead.
func (s *Service) UpdateSeason(ctx context.Context, season core.SeasonID) (err error) {
	defer func() {
		if err != nil {
			metrics.RecordStandingsUpdate("error")
		} else {
			metrics.RecordStandingsUpdate("success")
		}
	}()

	teams, err := s.teams.ListBySeason(ctx, season)
	if err != nil {
		return fmt.Errorf("list team seasons: %w", err)
	}
	teamIDs := make([]core.TeamSeasonID, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	results, err := s.gameResults(ctx, season)
	if err != nil {
		return fmt.Errorf("resolve game results: %w", err)
	}

	totals := BuildTotals(results)
	standings := Compute(totals, teamIDs)

	seriesHasWinner, err := s.seasonHasRecordedPlayoffWinner(ctx, season)
	if err != nil {
		return fmt.Errorf("check playoff series: %w", err)
	}

	for _, standing := range standings {
		games, err := s.teamPlayoffGames(ctx, season, standing.Team)
		if err != nil {
			return fmt.Errorf("resolve playoff games for team %d: %w", standing.Team, err)
		}
		finish := PlayoffFinish(games, seriesHasWinner)
		if err := s.teams.UpdateStanding(ctx, standing.Team, standing.Seed, finish); err != nil {
			return fmt.Errorf("update standing for team %d: %w", standing.Team, err)
		}
	}

	s.log.Info("updated standings", "season", season, "teams", len(standings))
	return nil
}

// gameResults resolves every regular-season Game into a GameResult,
// keyed from team1/team2 via each game's match.
func (s *Service) gameResults(ctx context.Context, season core.SeasonID) ([]GameResult, error) {
	games, err := s.games.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	matchCache := map[core.MatchID]core.Match{}
	var results []GameResult
	for _, g := range games {
		if g.Outcome == core.OutcomeUnplayed {
			continue
		}
		m, ok := matchCache[g.Match]
		if !ok {
			mp, err := s.matches.GetByID(ctx, g.Match)
			if err != nil {
				return nil, err
			}
			m = *mp
			matchCache[g.Match] = m
		}
		if isPlayoffWeek(m.Week) {
			continue
		}

		team1IsRed := g.RedTeam == m.Team1
		redCaps, blueCaps := g.Team1Score, g.Team2Score
		if !team1IsRed {
			redCaps, blueCaps = g.Team2Score, g.Team1Score
		}
		results = append(results, GameResult{
			Team1: m.Team1, Team2: m.Team2,
			Team1Points: g.Team1StandingPoints, Team2Points: g.Team2StandingPoints,
			Team1CapsFor: boolPick(team1IsRed, redCaps, blueCaps),
			Team2CapsFor: boolPick(team1IsRed, blueCaps, redCaps),
		})
	}
	return results, nil
}

func boolPick(cond bool, ifTrue, ifFalse int) int {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// isPlayoffWeek reports whether week lies outside the regular season,
// i.e. is not labelled "Week N" — regular-season standings never count a
// playoff game, whatever its round.
func isPlayoffWeek(week string) bool {
	return !strings.HasPrefix(week, "Week ")
}

func (s *Service) seasonHasRecordedPlayoffWinner(ctx context.Context, season core.SeasonID) (bool, error) {
	series, err := s.playoffs.ListBySeason(ctx, season)
	if err != nil {
		return false, err
	}
	for _, sr := range series {
		if sr.Winner != nil {
			return true, nil
		}
	}
	return false, nil
}

// teamPlayoffGames resolves team's playoff-series wins/losses into the
// PlayoffGame records PlayoffFinish walks.
func (s *Service) teamPlayoffGames(ctx context.Context, season core.SeasonID, team core.TeamSeasonID) ([]PlayoffGame, error) {
	series, err := s.playoffs.ListBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	var games []PlayoffGame
	for _, sr := range series {
		if sr.Match == nil || sr.Winner == nil {
			continue
		}
		m, err := s.matches.GetByID(ctx, *sr.Match)
		if err != nil {
			return nil, err
		}
		if m.Team1 != team && m.Team2 != team {
			continue
		}
		games = append(games, PlayoffGame{Week: m.Week, Date: m.Date, Won: *sr.Winner == team})
	}
	return games, nil
}
