package core

import (
	"context"
	"time"
)

// LeagueRepository reads league metadata. Leagues are read-only for the core.
type LeagueRepository interface {
	GetByID(ctx context.Context, id LeagueID) (*League, error)
	List(ctx context.Context) ([]League, error)
}

// SeasonRepository reads season metadata and resolves season groups (the
// set of seasons sharing a "season group" label used by C8 inference, e.g.
// a calendar year's MLTP/mLTP/NLTP seasons played concurrently).
type SeasonRepository interface {
	GetByID(ctx context.Context, id SeasonID) (*Season, error)
	List(ctx context.Context) ([]Season, error)
	ListByGroup(ctx context.Context, group string) ([]Season, error)
}

// FranchiseRepository reads franchise metadata. Read-only for the
// interpreter and standings engine; the importer is the only writer,
// minting a Franchise the first time a new name appears in an import
// payload.
type FranchiseRepository interface {
	GetByID(ctx context.Context, id FranchiseID) (*Franchise, error)
	List(ctx context.Context) ([]Franchise, error)
	FindByName(ctx context.Context, name string) (*Franchise, error)
	Create(ctx context.Context, f Franchise) (FranchiseID, error)
}

// TeamSeasonRepository reads and writes TeamSeason rows. The core writes
// only Seed and PlayoffFinish via UpdateStanding; everything else is
// populated by data-entry.
type TeamSeasonRepository interface {
	GetByID(ctx context.Context, id TeamSeasonID) (*TeamSeason, error)
	ListBySeason(ctx context.Context, season SeasonID) ([]TeamSeason, error)
	FindByAbbr(ctx context.Context, season SeasonID, abbr string) (*TeamSeason, error)
	UpdateStanding(ctx context.Context, id TeamSeasonID, seed int, playoffFinish string) error

	// FindByName and Create back the importer's get-or-create on
	// (season, name) — a TeamSeason is minted the first time its exact
	// name appears for a season, distinct from the fuzzy FindByAbbr
	// matching C8 inference does against unresolved free text.
	FindByName(ctx context.Context, season SeasonID, name string) (*TeamSeason, error)
	Create(ctx context.Context, ts TeamSeason) (TeamSeasonID, error)
}

// PlayerRepository reads and creates Player rows.
type PlayerRepository interface {
	GetByID(ctx context.Context, id PlayerID) (*Player, error)
	FindByName(ctx context.Context, name string) (*Player, error)
	Create(ctx context.Context, p Player) (PlayerID, error)
}

// PlayerSeasonRepository reads and writes PlayerSeason rows.
type PlayerSeasonRepository interface {
	GetByID(ctx context.Context, id PlayerSeasonID) (*PlayerSeason, error)
	ListBySeason(ctx context.Context, season SeasonID) ([]PlayerSeason, error)
	FindByPlayingAs(ctx context.Context, season SeasonID, playingAs string) (*PlayerSeason, error)
	Create(ctx context.Context, ps PlayerSeason) (PlayerSeasonID, error)

	// FindByPlayerName looks up a season's PlayerSeason by its underlying
	// Player's name (case-insensitive) rather than its playing_as —
	// player inference's fallback once a playing_as match misses.
	FindByPlayerName(ctx context.Context, season SeasonID, playerName string) (*PlayerSeason, error)

	// FindByPlayingAsAnySeason searches every season's PlayerSeason rows,
	// not just one — the last rung of player inference, used once a
	// season-scoped FindByPlayingAs has already missed.
	FindByPlayingAsAnySeason(ctx context.Context, playingAs string) (*PlayerSeason, error)

	// FindByPlayer looks up a season's PlayerSeason by the underlying
	// Player directly, once the importer has already resolved which
	// Player a username belongs to.
	FindByPlayer(ctx context.Context, season SeasonID, player PlayerID) (*PlayerSeason, error)
}

// MatchRepository reads and creates Match rows.
type MatchRepository interface {
	GetByID(ctx context.Context, id MatchID) (*Match, error)
	ListBySeason(ctx context.Context, season SeasonID) ([]Match, error)
	FindByTeams(ctx context.Context, season SeasonID, team1, team2 TeamSeasonID) (*Match, error)
	Create(ctx context.Context, m Match) (MatchID, error)

	// FindByTeamsAndDate backs the importer's get-or-create: a Match is
	// identified by its two teams and date, not just its teams.
	FindByTeamsAndDate(ctx context.Context, season SeasonID, team1, team2 TeamSeasonID, date time.Time) (*Match, error)
}

// PlayoffSeriesRepository reads and writes the playoff bracket.
type PlayoffSeriesRepository interface {
	ListBySeason(ctx context.Context, season SeasonID) ([]PlayoffSeries, error)
	SetWinner(ctx context.Context, id PlayoffSeriesID, winner TeamSeasonID, team1Wins, team2Wins int) error
}

// GameRepository reads and writes Game rows, including the stat-derived
// fields the Outcome Classifier writes.
type GameRepository interface {
	GetByID(ctx context.Context, id GameID) (*Game, error)
	GetByTagproEU(ctx context.Context, tagproEU int) (*Game, error)
	ListByMatch(ctx context.Context, match MatchID) ([]Game, error)
	ListBySeason(ctx context.Context, season SeasonID) ([]Game, error)
	Create(ctx context.Context, g Game) (GameID, error)

	// WriteOutcome persists the fields the interpreter/classifier compute:
	// scores, outcome, standing points. It commits on its own; the
	// player stats are written by StatsRepository.WriteGameStats in a
	// separate transaction, and no transaction spans both writes.
	WriteOutcome(ctx context.Context, id GameID, g Game) error

	// SetResumed links a Game to the resumed segment's tagpro.eu id and the
	// tick the original timeline was paused at. Once set, the Paused-Game
	// Merger (C4) runs both timelines through the interpreter and merges
	// their results before WriteOutcome.
	SetResumed(ctx context.Context, id GameID, pausedTime, resumedTagproEU int) error
}

// PlayerGameLogRepository reads and writes PlayerGameLog rows.
type PlayerGameLogRepository interface {
	ListByGame(ctx context.Context, game GameID) ([]PlayerGameLog, error)
	ListByPlayerSeason(ctx context.Context, ps PlayerSeasonID) ([]PlayerGameLog, error)
	Create(ctx context.Context, l PlayerGameLog) (PlayerGameLogID, error)
	SetTeam(ctx context.Context, id PlayerGameLogID, team TeamSeasonID) error

	// FindByPlayingAs is player inference's last resort: a historical
	// in-game name that never became a PlayerSeason's own playing_as.
	FindByPlayingAs(ctx context.Context, playingAs string) (*PlayerGameLog, error)
}

// StatsRepository persists and reads the 27-counter records at every scope:
// per game (full and regulation), per week, and per season. Writes are
// idempotent upserts — re-aggregation and standings rely on this to be
// safely retryable.
type StatsRepository interface {
	WriteGameStats(ctx context.Context, full, regulation map[PlayerGameLogID]PlayerStats) error
	GameStats(ctx context.Context, gamelog PlayerGameLogID) (full, regulation *PlayerStats, err error)

	ListRegulationStatsByWeek(ctx context.Context, playerSeason PlayerSeasonID, week string) ([]PlayerRegulationGameStats, error)
	UpsertWeekStats(ctx context.Context, w PlayerWeekStats) error
	WeekStats(ctx context.Context, playerSeason PlayerSeasonID, week string) (*PlayerWeekStats, error)
	ListWeekStats(ctx context.Context, playerSeason PlayerSeasonID) ([]PlayerWeekStats, error)

	UpsertSeasonStats(ctx context.Context, s PlayerSeasonStats) error
	SeasonStats(ctx context.Context, playerSeason PlayerSeasonID) (*PlayerSeasonStats, error)

	// DistinctWeeks returns every week label present among the matches of
	// the player's season (C6's enumeration step).
	DistinctWeeks(ctx context.Context, season SeasonID) ([]string, error)
}
