package core

import "time"

// LeagueID identifies a League (e.g. "MLTP", "NLTP").
type LeagueID int

// SeasonID identifies a Season.
type SeasonID int

// FranchiseID identifies a Franchise.
type FranchiseID int

// TeamSeasonID identifies a TeamSeason, a franchise's roster for one season.
type TeamSeasonID int

// PlayerID identifies a Player, a real person stable across seasons and names.
type PlayerID int

// PlayerSeasonID identifies a PlayerSeason, a player's participation in one season.
type PlayerSeasonID int

// MatchID identifies a Match: one or more Games between the same two teams on one date.
type MatchID int

// GameID identifies a single Game within a Match.
type GameID int

// PlayerGameLogID identifies one player's participation in one Game.
type PlayerGameLogID int

// PlayoffSeriesID identifies a PlayoffSeries.
type PlayoffSeriesID int

// League is a top-level competitive organization (e.g. MLTP, NLTP).
type League struct {
	ID         LeagueID `json:"id"`
	Name       string   `json:"name"`
	Abbr       string   `json:"abbr"`
	Region     string   `json:"region,omitempty"`
	Ordering   int      `json:"ordering"`
	Gamemode   string   `json:"gamemode"`
	Logo       string   `json:"logo,omitempty"`
	TrophyIcon string   `json:"trophy_icon,omitempty"`
}

// Season is a single season run by a League.
type Season struct {
	ID      SeasonID   `json:"id"`
	Name    string     `json:"name"`
	League  LeagueID   `json:"league"`
	EndDate *time.Time `json:"end_date,omitempty"`
}

// Franchise is a persistent organization that fields a team across seasons.
type Franchise struct {
	ID   FranchiseID `json:"id"`
	Name string      `json:"name"`
	Abbr string      `json:"abbr"`
	Logo string      `json:"logo,omitempty"`
}

// TeamSeason is a franchise's roster and identity for a single season.
type TeamSeason struct {
	ID        TeamSeasonID `json:"id"`
	Franchise FranchiseID  `json:"franchise"`
	Season    SeasonID     `json:"season"`
	Name      string       `json:"name"`
	Abbr      string       `json:"abbr"`
	Captain   *PlayerID    `json:"captain,omitempty"`
	CoCaptain *PlayerID    `json:"co_captain,omitempty"`
}

// Player is an individual person, stable across the in-game names they've
// played under.
type Player struct {
	ID      PlayerID `json:"id"`
	Name    string   `json:"name"`
	Profile string   `json:"profile,omitempty"`
}

// PlayerSeason is one player's participation in one season, including the
// in-game name ("playing as") used that season and the TeamSeason rostering
// them, if any.
type PlayerSeason struct {
	ID                PlayerSeasonID `json:"id"`
	Season            SeasonID       `json:"season"`
	Team              *TeamSeasonID  `json:"team,omitempty"`
	Player             PlayerID      `json:"player"`
	PlayingAs          string        `json:"playing_as"`
	Position           string        `json:"position,omitempty"` // "O", "D", ""
	OtherRestrictions  string        `json:"other_restrictions,omitempty"`
}

// Match groups one or more Games played between the same two teams on the
// same date. Team1/Team2 are stable identifiers for the match, not sides;
// red/blue are assigned per Game.
type Match struct {
	ID     MatchID      `json:"id"`
	Season SeasonID     `json:"season"`
	Date   time.Time    `json:"date"`
	Week   string       `json:"week"`
	Team1  TeamSeasonID `json:"team1"`
	Team2  TeamSeasonID `json:"team2"`
}

// PlayoffSeries is one best-of bracket matchup between two seeds, optionally
// fed by the winners of two earlier series.
type PlayoffSeries struct {
	ID        PlayoffSeriesID  `json:"id"`
	Match     *MatchID         `json:"match,omitempty"`
	Seed1     int              `json:"seed1"`
	Seed2     int              `json:"seed2"`
	Prev1     *PlayoffSeriesID `json:"prev1,omitempty"`
	Prev2     *PlayoffSeriesID `json:"prev2,omitempty"`
	Winner    *TeamSeasonID    `json:"winner,omitempty"`
	Team1Wins int              `json:"team1_wins"`
	Team2Wins int              `json:"team2_wins"`
}

// Outcome is a game-level result code, always expressed from Match.Team1's
// perspective.
type Outcome string

const (
	OutcomeWin      Outcome = "W"
	OutcomeOTWin    Outcome = "OTW"
	OutcomeTie      Outcome = "T"
	OutcomeOTLoss   Outcome = "OTL"
	OutcomeLoss     Outcome = "L"
	OutcomeUnplayed Outcome = ""
)

// Game is a single played game within a Match, plus the fields the Outcome
// Classifier writes once the timeline has been interpreted.
type Game struct {
	ID                  GameID       `json:"id"`
	Match                MatchID     `json:"match"`
	GameInMatch          string      `json:"game_in_match"` // "Game 1", "Game 2", ...
	TagproEU             *int        `json:"tagpro_eu,omitempty"`
	// PausedTime is the tick the game was paused at, set only when this
	// Game was split across two timelines. When it falls within
	// core.RegulationTicks, the resumed segment still owes the rest of
	// regulation; otherwise the resumed segment is pure overtime.
	PausedTime *int `json:"paused_time,omitempty"`
	// ResumedTagproEU is the tagpro.eu id of the resumed segment. The
	// Paused-Game Merger (C4) runs only when this is set.
	ResumedTagproEU      *int        `json:"resumed_tagpro_eu,omitempty"`
	Replay               string      `json:"replay,omitempty"`
	VOD                  string      `json:"vod,omitempty"`
	RedTeam              TeamSeasonID `json:"red_team"`
	BlueTeam             TeamSeasonID `json:"blue_team"`
	Team1Score           int         `json:"team1_score"`
	Team2Score           int         `json:"team2_score"`
	Outcome              Outcome     `json:"outcome"`
	Team1StandingPoints  int         `json:"team1_standing_points"`
	Team2StandingPoints  int         `json:"team2_standing_points"`
	MapName              string      `json:"map_name,omitempty"`
	MapID                *int        `json:"map_id,omitempty"`
}

// Team1IsRed reports whether team1 of the Game's Match played red, given the
// match's Team1 identifier (repositories resolve this via a join so callers
// never need a second lookup).
func (g Game) Team1IsRed(matchTeam1 TeamSeasonID) bool {
	return g.RedTeam == matchTeam1
}

// PlayerGameLog is one player's participation record in one Game: which
// team they played for and the in-game name they used that game.
type PlayerGameLog struct {
	ID           PlayerGameLogID `json:"id"`
	Game         GameID          `json:"game"`
	Team         TeamSeasonID    `json:"team"`
	PlayerSeason PlayerSeasonID  `json:"player_season"`
	PlayingAs    string          `json:"playing_as"`
}
