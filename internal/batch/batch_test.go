package batch

import (
	"context"
	"testing"
	"time"

	"tagprostats.dev/engine/internal/core"
)

type fakeGamesRepo struct {
	byID map[core.GameID]core.Game
}

func (f *fakeGamesRepo) GetByID(ctx context.Context, id core.GameID) (*core.Game, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}
func (f *fakeGamesRepo) GetByTagproEU(ctx context.Context, tagproEU int) (*core.Game, error) { return nil, nil }
func (f *fakeGamesRepo) ListByMatch(ctx context.Context, match core.MatchID) ([]core.Game, error) {
	return nil, nil
}
func (f *fakeGamesRepo) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.Game, error) {
	return nil, nil
}
func (f *fakeGamesRepo) Create(ctx context.Context, g core.Game) (core.GameID, error) { return 0, nil }
func (f *fakeGamesRepo) WriteOutcome(ctx context.Context, id core.GameID, g core.Game) error {
	f.byID[id] = g
	return nil
}
func (f *fakeGamesRepo) SetResumed(ctx context.Context, id core.GameID, pausedTime, resumedTagproEU int) error {
	return nil
}

type fakeMatchesRepo struct {
	byID map[core.MatchID]core.Match
}

func (f *fakeMatchesRepo) GetByID(ctx context.Context, id core.MatchID) (*core.Match, error) {
	v, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}
func (f *fakeMatchesRepo) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.Match, error) {
	return nil, nil
}
func (f *fakeMatchesRepo) FindByTeams(ctx context.Context, season core.SeasonID, team1, team2 core.TeamSeasonID) (*core.Match, error) {
	return nil, nil
}
func (f *fakeMatchesRepo) FindByTeamsAndDate(ctx context.Context, season core.SeasonID, team1, team2 core.TeamSeasonID, date time.Time) (*core.Match, error) {
	return nil, nil
}
func (f *fakeMatchesRepo) Create(ctx context.Context, m core.Match) (core.MatchID, error) { return 0, nil }

type fakeGameLogsRepo struct {
	rows []core.PlayerGameLog
}

func (f *fakeGameLogsRepo) ListByGame(ctx context.Context, game core.GameID) ([]core.PlayerGameLog, error) {
	var out []core.PlayerGameLog
	for _, r := range f.rows {
		if r.Game == game {
			out = append(out, r)
		}
	}
	return out, nil
}
func (f *fakeGameLogsRepo) ListByPlayerSeason(ctx context.Context, ps core.PlayerSeasonID) ([]core.PlayerGameLog, error) {
	return nil, nil
}
func (f *fakeGameLogsRepo) Create(ctx context.Context, l core.PlayerGameLog) (core.PlayerGameLogID, error) {
	return 0, nil
}
func (f *fakeGameLogsRepo) SetTeam(ctx context.Context, id core.PlayerGameLogID, team core.TeamSeasonID) error {
	return nil
}
func (f *fakeGameLogsRepo) FindByPlayingAs(ctx context.Context, playingAs string) (*core.PlayerGameLog, error) {
	return nil, nil
}

type fakeStatsRepo struct {
	full       map[core.PlayerGameLogID]core.PlayerStats
	regulation map[core.PlayerGameLogID]core.PlayerStats
}

func (f *fakeStatsRepo) WriteGameStats(ctx context.Context, full, regulation map[core.PlayerGameLogID]core.PlayerStats) error {
	f.full, f.regulation = full, regulation
	return nil
}
func (f *fakeStatsRepo) GameStats(ctx context.Context, gamelog core.PlayerGameLogID) (*core.PlayerStats, *core.PlayerStats, error) {
	return nil, nil, nil
}
func (f *fakeStatsRepo) ListRegulationStatsByWeek(ctx context.Context, playerSeason core.PlayerSeasonID, week string) ([]core.PlayerRegulationGameStats, error) {
	return nil, nil
}
func (f *fakeStatsRepo) UpsertWeekStats(ctx context.Context, w core.PlayerWeekStats) error { return nil }
func (f *fakeStatsRepo) WeekStats(ctx context.Context, playerSeason core.PlayerSeasonID, week string) (*core.PlayerWeekStats, error) {
	return nil, nil
}
func (f *fakeStatsRepo) ListWeekStats(ctx context.Context, playerSeason core.PlayerSeasonID) ([]core.PlayerWeekStats, error) {
	return nil, nil
}
func (f *fakeStatsRepo) UpsertSeasonStats(ctx context.Context, s core.PlayerSeasonStats) error { return nil }
func (f *fakeStatsRepo) SeasonStats(ctx context.Context, playerSeason core.PlayerSeasonID) (*core.PlayerSeasonStats, error) {
	return nil, nil
}
func (f *fakeStatsRepo) DistinctWeeks(ctx context.Context, season core.SeasonID) ([]string, error) {
	return nil, nil
}

type fakeTimelines struct {
	byMatchID map[string]core.Timeline
}

func (f *fakeTimelines) Timeline(ctx context.Context, matchID string) (core.Timeline, error) {
	tl, ok := f.byMatchID[matchID]
	if !ok {
		return core.Timeline{}, &core.MissingTimelineError{GameID: matchID}
	}
	return tl, nil
}

func singleGameTimeline() core.Timeline {
	return core.Timeline{
		GameID:     "12345",
		ActorNames: []string{"alice", "bob"},
		Events: []core.Event{
			{Tick: 0, Kind: core.EventJoin, Actor: 0, Team: core.SideRed},
			{Tick: 0, Kind: core.EventJoin, Actor: 1, Team: core.SideBlue},
			{Tick: 100, Kind: core.EventGrab, Actor: 0},
			{Tick: 200, Kind: core.EventCapture, Actor: 0},
			{Tick: 201, Kind: core.EventTag, Actor: 1},
			{Tick: 500, Kind: core.EventGameEnds, Actor: 0},
		},
	}
}

func TestProcessGameWritesOutcomeAndStats(t *testing.T) {
	tagproEU := 12345
	game := core.Game{ID: 1, Match: 1, TagproEU: &tagproEU, RedTeam: 10, BlueTeam: 20}

	games := &fakeGamesRepo{byID: map[core.GameID]core.Game{1: game}}
	matches := &fakeMatchesRepo{byID: map[core.MatchID]core.Match{1: {ID: 1, Team1: 10, Team2: 20}}}
	gamelogs := &fakeGameLogsRepo{rows: []core.PlayerGameLog{
		{ID: 1, Game: 1, Team: 10, PlayingAs: "alice"},
		{ID: 2, Game: 1, Team: 20, PlayingAs: "bob"},
	}}
	stats := &fakeStatsRepo{}
	timelines := &fakeTimelines{byMatchID: map[string]core.Timeline{"12345": singleGameTimeline()}}

	p := NewProcessor(games, matches, gamelogs, stats, timelines, nil, nil)

	if err := p.ProcessGame(context.Background(), "test-run", 1); err != nil {
		t.Fatal(err)
	}

	updated := games.byID[1]
	if updated.Outcome != core.OutcomeWin {
		t.Fatalf("got outcome %q, want W", updated.Outcome)
	}
	if updated.Team1Score != 1 || updated.Team2Score != 0 {
		t.Fatalf("got scores %d-%d, want 1-0", updated.Team1Score, updated.Team2Score)
	}

	if len(stats.full) != 2 {
		t.Fatalf("expected stats written for both players, got %d", len(stats.full))
	}
	if stats.full[1].Captures != 1 {
		t.Fatalf("expected alice's capture credited, got %+v", stats.full[1])
	}
}

func TestProcessGameGivesResumedSegmentItsOwnOvertimeBoundary(t *testing.T) {
	tagproEU := 12345
	resumedTagproEU := 12346
	pausedTime := core.RegulationTicks - 100 // resumed segment owes 100 ticks of regulation

	game := core.Game{
		ID: 1, Match: 1, TagproEU: &tagproEU,
		PausedTime: &pausedTime, ResumedTagproEU: &resumedTagproEU,
		RedTeam: 10, BlueTeam: 20,
	}

	games := &fakeGamesRepo{byID: map[core.GameID]core.Game{1: game}}
	matches := &fakeMatchesRepo{byID: map[core.MatchID]core.Match{1: {ID: 1, Team1: 10, Team2: 20}}}
	gamelogs := &fakeGameLogsRepo{rows: []core.PlayerGameLog{
		{ID: 1, Game: 1, Team: 10, PlayingAs: "alice"},
		{ID: 2, Game: 1, Team: 20, PlayingAs: "bob"},
	}}
	stats := &fakeStatsRepo{}

	// Pre-pause segment: no captures, just establishes both actors.
	part1 := core.Timeline{
		GameID:     "12345",
		ActorNames: []string{"alice", "bob"},
		Events: []core.Event{
			{Tick: 0, Kind: core.EventJoin, Actor: 0, Team: core.SideRed},
			{Tick: 0, Kind: core.EventJoin, Actor: 1, Team: core.SideBlue},
		},
	}
	// Resumed segment's own regulation boundary is 100 ticks in, so
	// regulation ends scoreless and bob's only capture, at tick 150, must
	// be classified as overtime for the game to merge into an OTL outcome
	// rather than a regulation loss.
	part2 := core.Timeline{
		GameID:     "12346",
		ActorNames: []string{"alice", "bob"},
		Events: []core.Event{
			{Tick: 0, Kind: core.EventJoin, Actor: 0, Team: core.SideRed},
			{Tick: 0, Kind: core.EventJoin, Actor: 1, Team: core.SideBlue},
			{Tick: 140, Kind: core.EventGrab, Actor: 1},
			{Tick: 150, Kind: core.EventCapture, Actor: 1},
			{Tick: 151, Kind: core.EventGameEnds, Actor: 1},
		},
	}
	timelines := &fakeTimelines{byMatchID: map[string]core.Timeline{
		"12345": part1,
		"12346": part2,
	}}

	p := NewProcessor(games, matches, gamelogs, stats, timelines, nil, nil)

	if err := p.ProcessGame(context.Background(), "test-run", 1); err != nil {
		t.Fatal(err)
	}

	updated := games.byID[1]
	// Team1 is red (10); before the fix, the resumed segment's Interpreter
	// reused the full-game boundary (36000), so bob's tick-150 capture
	// never tripped WentToOvertime and this came out core.OutcomeLoss.
	if updated.Outcome != core.OutcomeOTLoss {
		t.Fatalf("got outcome %q, want OTL since bob's capture fell past the resumed segment's own regulation boundary", updated.Outcome)
	}
	if updated.Team1Score != 0 || updated.Team2Score != 1 {
		t.Fatalf("got scores %d-%d, want 0-1 (bob's overtime cap only)", updated.Team1Score, updated.Team2Score)
	}
}

func TestProcessGameSkipsUnresolvedGame(t *testing.T) {
	games := &fakeGamesRepo{byID: map[core.GameID]core.Game{}}
	matches := &fakeMatchesRepo{byID: map[core.MatchID]core.Match{}}
	p := NewProcessor(games, matches, &fakeGameLogsRepo{}, &fakeStatsRepo{}, &fakeTimelines{}, nil, nil)

	err := p.ProcessGame(context.Background(), "test-run", 999)
	if err == nil {
		t.Fatal("expected an error for an unknown game id")
	}
}
