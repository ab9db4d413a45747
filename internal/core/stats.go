package core

// PlayerStats holds the twenty-seven counting statistics derived by the
// interpreter for one player over some scope (a game, a week, a season).
// Durations (TimePlayed, Hold, Prevent, HoldAgainst) are in ticks; the rest
// are plain counts. This is the only shape persisted — the interpreter's
// helper state (join_time, grab_time, ...) never leaves internal/engine.
type PlayerStats struct {
	TimePlayed int `json:"time_played"`
	Tags       int `json:"tags"`
	Pops       int `json:"pops"`
	Grabs      int `json:"grabs"`
	Drops      int `json:"drops"`
	Hold       int `json:"hold"`
	Captures   int `json:"captures"`
	Prevent    int `json:"prevent"`
	Returns    int `json:"returns"`
	Powerups   int `json:"powerups"`

	CapsFor         int `json:"caps_for"`
	CapsAgainst     int `json:"caps_against"`
	TotalPupsInGame int `json:"total_pups_in_game"`

	GrabsOffHandoffs int `json:"grabs_off_handoffs"`
	CapsOffHandoffs  int `json:"caps_off_handoffs"`
	GrabsOffRegrab   int `json:"grabs_off_regrab"`
	CapsOffRegrab    int `json:"caps_off_regrab"`

	LongHolds     int `json:"long_holds"`
	Flaccids      int `json:"flaccids"`
	Handoffs      int `json:"handoffs"`
	GoodHandoffs  int `json:"good_handoffs"`
	QuickReturns  int `json:"quick_returns"`
	ReturnsInBase int `json:"returns_in_base"`
	Saves         int `json:"saves"`
	KeyReturns    int `json:"key_returns"`
	HoldAgainst   int `json:"hold_against"`
	KeptFlags     int `json:"kept_flags"`
}

// Add returns the field-by-field sum of s and other. Used by the re-aggregator
// (week := Σ regulation game stats, season := Σ week stats) and by the
// paused-game merger (full := regulation_part1 + full_part2).
func (s PlayerStats) Add(other PlayerStats) PlayerStats {
	return PlayerStats{
		TimePlayed:       s.TimePlayed + other.TimePlayed,
		Tags:             s.Tags + other.Tags,
		Pops:             s.Pops + other.Pops,
		Grabs:            s.Grabs + other.Grabs,
		Drops:            s.Drops + other.Drops,
		Hold:             s.Hold + other.Hold,
		Captures:         s.Captures + other.Captures,
		Prevent:          s.Prevent + other.Prevent,
		Returns:          s.Returns + other.Returns,
		Powerups:         s.Powerups + other.Powerups,
		CapsFor:          s.CapsFor + other.CapsFor,
		CapsAgainst:      s.CapsAgainst + other.CapsAgainst,
		TotalPupsInGame:  s.TotalPupsInGame + other.TotalPupsInGame,
		GrabsOffHandoffs: s.GrabsOffHandoffs + other.GrabsOffHandoffs,
		CapsOffHandoffs:  s.CapsOffHandoffs + other.CapsOffHandoffs,
		GrabsOffRegrab:   s.GrabsOffRegrab + other.GrabsOffRegrab,
		CapsOffRegrab:    s.CapsOffRegrab + other.CapsOffRegrab,
		LongHolds:        s.LongHolds + other.LongHolds,
		Flaccids:         s.Flaccids + other.Flaccids,
		Handoffs:         s.Handoffs + other.Handoffs,
		GoodHandoffs:     s.GoodHandoffs + other.GoodHandoffs,
		QuickReturns:     s.QuickReturns + other.QuickReturns,
		ReturnsInBase:    s.ReturnsInBase + other.ReturnsInBase,
		Saves:            s.Saves + other.Saves,
		KeyReturns:       s.KeyReturns + other.KeyReturns,
		HoldAgainst:      s.HoldAgainst + other.HoldAgainst,
		KeptFlags:        s.KeptFlags + other.KeptFlags,
	}
}

// LessOrEqual reports whether every field of s is ≤ the corresponding field
// of other. Used by tests asserting regulation stats never exceed full-game
// stats (spec invariant: regulation ≤ full-game componentwise).
func (s PlayerStats) LessOrEqual(other PlayerStats) bool {
	return s.TimePlayed <= other.TimePlayed &&
		s.Tags <= other.Tags &&
		s.Pops <= other.Pops &&
		s.Grabs <= other.Grabs &&
		s.Drops <= other.Drops &&
		s.Hold <= other.Hold &&
		s.Captures <= other.Captures &&
		s.Prevent <= other.Prevent &&
		s.Returns <= other.Returns &&
		s.Powerups <= other.Powerups &&
		s.CapsFor <= other.CapsFor &&
		s.CapsAgainst <= other.CapsAgainst &&
		s.TotalPupsInGame <= other.TotalPupsInGame &&
		s.GrabsOffHandoffs <= other.GrabsOffHandoffs &&
		s.CapsOffHandoffs <= other.CapsOffHandoffs &&
		s.GrabsOffRegrab <= other.GrabsOffRegrab &&
		s.CapsOffRegrab <= other.CapsOffRegrab &&
		s.LongHolds <= other.LongHolds &&
		s.Flaccids <= other.Flaccids &&
		s.Handoffs <= other.Handoffs &&
		s.GoodHandoffs <= other.GoodHandoffs &&
		s.QuickReturns <= other.QuickReturns &&
		s.ReturnsInBase <= other.ReturnsInBase &&
		s.Saves <= other.Saves &&
		s.KeyReturns <= other.KeyReturns &&
		s.HoldAgainst <= other.HoldAgainst &&
		s.KeptFlags <= other.KeptFlags
}

// PlayerGameStats is the full-game 1-to-1 extension of a PlayerGameLog.
type PlayerGameStats struct {
	PlayerGameLog PlayerGameLogID `json:"player_gamelog"`
	PlayerStats
}

// PlayerRegulationGameStats is the regulation-only counterpart of
// PlayerGameStats, produced by the Overtime Splitter from the same pass.
type PlayerRegulationGameStats struct {
	PlayerGameLog PlayerGameLogID `json:"player_gamelog"`
	PlayerStats
}

// PlayerWeekStats is the sum of a player's PlayerRegulationGameStats across
// one week's games.
type PlayerWeekStats struct {
	PlayerSeason PlayerSeasonID `json:"player_season"`
	Week         string         `json:"week"`
	PlayerStats
}

// PlayerSeasonStats is the sum of a player's PlayerWeekStats whose week
// label begins with "Week " (regular season only).
type PlayerSeasonStats struct {
	PlayerSeason PlayerSeasonID `json:"player_season"`
	PlayerStats
}
