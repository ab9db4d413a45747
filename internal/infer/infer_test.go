package infer

import (
	"context"
	"strings"
	"testing"
	"time"

	"tagprostats.dev/engine/internal/core"
)

type fakeTeamSeasons struct {
	bySeason map[core.SeasonID]map[string]core.TeamSeason
}

func (f *fakeTeamSeasons) GetByID(ctx context.Context, id core.TeamSeasonID) (*core.TeamSeason, error) {
	return nil, nil
}

func (f *fakeTeamSeasons) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.TeamSeason, error) {
	return nil, nil
}

func (f *fakeTeamSeasons) FindByAbbr(ctx context.Context, season core.SeasonID, abbr string) (*core.TeamSeason, error) {
	teams, ok := f.bySeason[season]
	if !ok {
		return nil, nil
	}
	t, ok := teams[abbr]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (f *fakeTeamSeasons) UpdateStanding(ctx context.Context, id core.TeamSeasonID, seed int, playoffFinish string) error {
	return nil
}

func (f *fakeTeamSeasons) FindByName(ctx context.Context, season core.SeasonID, name string) (*core.TeamSeason, error) {
	return nil, nil
}

func (f *fakeTeamSeasons) Create(ctx context.Context, ts core.TeamSeason) (core.TeamSeasonID, error) {
	return 0, nil
}

func TestTeamEmptyOrDefaultNamesReturnNil(t *testing.T) {
	repo := &fakeTeamSeasons{}
	for _, name := range []string{"", "Red", "Blue", "AB"} {
		team, err := Team(context.Background(), repo, nil, name)
		if err != nil {
			t.Fatalf("Team(%q): %v", name, err)
		}
		if team != nil {
			t.Fatalf("Team(%q) = %+v, want nil", name, team)
		}
	}
}

func TestTeamMatchesInferredSeasonFirst(t *testing.T) {
	group := []core.Season{
		{ID: 1, Name: "MLTP Season 10"},
		{ID: 2, Name: "mLTP Season 10"},
	}
	repo := &fakeTeamSeasons{
		bySeason: map[core.SeasonID]map[string]core.TeamSeason{
			1: {"WLF": {ID: 100, Season: 1, Abbr: "WLF"}},
			2: {"WLF": {ID: 200, Season: 2, Abbr: "WLF"}},
		},
	}

	team, err := Team(context.Background(), repo, group, "Moon Wolves WLF")
	if err != nil {
		t.Fatal(err)
	}
	if team == nil || team.ID != 100 {
		t.Fatalf("got %+v, want the MLTP (season 1) team", team)
	}
}

func TestTeamFallsBackToAnySeasonInGroup(t *testing.T) {
	group := []core.Season{
		{ID: 1, Name: "MLTP Season 10"},
		{ID: 2, Name: "mLTP Season 9"},
	}
	// No team with abbr WLF in the guessed season (1); only in season 2.
	repo := &fakeTeamSeasons{
		bySeason: map[core.SeasonID]map[string]core.TeamSeason{
			2: {"WLF": {ID: 200, Season: 2, Abbr: "WLF"}},
		},
	}

	team, err := Team(context.Background(), repo, group, "Moon Wolves WLF")
	if err != nil {
		t.Fatal(err)
	}
	if team == nil || team.ID != 200 {
		t.Fatalf("got %+v, want the fallback team", team)
	}
}

func TestTeamStripsTrailingSpaceBeforeAbbr(t *testing.T) {
	repo := &fakeTeamSeasons{
		bySeason: map[core.SeasonID]map[string]core.TeamSeason{
			1: {"WLF": {ID: 100, Season: 1, Abbr: "WLF"}},
		},
	}
	team, err := Team(context.Background(), repo, []core.Season{{ID: 1, Name: "MLTP Season 1"}}, "Moon Wolves WLF ")
	if err != nil {
		t.Fatal(err)
	}
	if team == nil || team.ID != 100 {
		t.Fatalf("got %+v, want a match despite the trailing space", team)
	}
}

type fakePlayerSeasons struct {
	byPlayingAs map[string]core.PlayerSeason
	byPlayerName map[string]core.PlayerSeason
}

func (f *fakePlayerSeasons) GetByID(ctx context.Context, id core.PlayerSeasonID) (*core.PlayerSeason, error) {
	for _, ps := range f.byPlayingAs {
		if ps.ID == id {
			return &ps, nil
		}
	}
	return nil, nil
}

func (f *fakePlayerSeasons) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.PlayerSeason, error) {
	return nil, nil
}

func (f *fakePlayerSeasons) FindByPlayingAs(ctx context.Context, season core.SeasonID, playingAs string) (*core.PlayerSeason, error) {
	ps, ok := f.byPlayingAs[strings.ToLower(playingAs)]
	if !ok || ps.Season != season {
		return nil, nil
	}
	return &ps, nil
}

func (f *fakePlayerSeasons) FindByPlayerName(ctx context.Context, season core.SeasonID, playerName string) (*core.PlayerSeason, error) {
	ps, ok := f.byPlayerName[strings.ToLower(playerName)]
	if !ok || ps.Season != season {
		return nil, nil
	}
	return &ps, nil
}

func (f *fakePlayerSeasons) FindByPlayingAsAnySeason(ctx context.Context, playingAs string) (*core.PlayerSeason, error) {
	ps, ok := f.byPlayingAs[strings.ToLower(playingAs)]
	if !ok {
		return nil, nil
	}
	return &ps, nil
}

func (f *fakePlayerSeasons) Create(ctx context.Context, ps core.PlayerSeason) (core.PlayerSeasonID, error) {
	return 0, nil
}

func (f *fakePlayerSeasons) FindByPlayer(ctx context.Context, season core.SeasonID, player core.PlayerID) (*core.PlayerSeason, error) {
	return nil, nil
}

func TestPlayerSeasonNilTeamReturnsNil(t *testing.T) {
	ps, err := PlayerSeason(context.Background(), &fakePlayerSeasons{}, nil, "anyone")
	if err != nil {
		t.Fatal(err)
	}
	if ps != nil {
		t.Fatalf("got %+v, want nil", ps)
	}
}

func TestPlayerSeasonMatchesPlayingAsCaseInsensitive(t *testing.T) {
	repo := &fakePlayerSeasons{
		byPlayingAs: map[string]core.PlayerSeason{
			"sparkle": {ID: 1, Season: 5, PlayingAs: "Sparkle"},
		},
	}
	team := &core.TeamSeason{Season: 5}
	ps, err := PlayerSeason(context.Background(), repo, team, "SPARKLE")
	if err != nil {
		t.Fatal(err)
	}
	if ps == nil || ps.ID != 1 {
		t.Fatalf("got %+v, want playing_as match", ps)
	}
}

func TestPlayerSeasonFallsBackToPlayerName(t *testing.T) {
	repo := &fakePlayerSeasons{
		byPlayingAs: map[string]core.PlayerSeason{},
		byPlayerName: map[string]core.PlayerSeason{
			"realname": {ID: 2, Season: 5},
		},
	}
	team := &core.TeamSeason{Season: 5}
	ps, err := PlayerSeason(context.Background(), repo, team, "realname")
	if err != nil {
		t.Fatal(err)
	}
	if ps == nil || ps.ID != 2 {
		t.Fatalf("got %+v, want player-name fallback match", ps)
	}
}

type fakePlayers struct {
	byID   map[core.PlayerID]core.Player
	byName map[string]core.Player
}

func (f *fakePlayers) GetByID(ctx context.Context, id core.PlayerID) (*core.Player, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePlayers) FindByName(ctx context.Context, name string) (*core.Player, error) {
	p, ok := f.byName[strings.ToLower(name)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePlayers) Create(ctx context.Context, p core.Player) (core.PlayerID, error) {
	return 0, nil
}

type fakeGameLogs struct {
	byPlayingAs map[string]core.PlayerGameLog
}

func (f *fakeGameLogs) ListByGame(ctx context.Context, game core.GameID) ([]core.PlayerGameLog, error) {
	return nil, nil
}

func (f *fakeGameLogs) ListByPlayerSeason(ctx context.Context, ps core.PlayerSeasonID) ([]core.PlayerGameLog, error) {
	return nil, nil
}

func (f *fakeGameLogs) Create(ctx context.Context, l core.PlayerGameLog) (core.PlayerGameLogID, error) {
	return 0, nil
}

func (f *fakeGameLogs) SetTeam(ctx context.Context, id core.PlayerGameLogID, team core.TeamSeasonID) error {
	return nil
}

func (f *fakeGameLogs) FindByPlayingAs(ctx context.Context, playingAs string) (*core.PlayerGameLog, error) {
	l, ok := f.byPlayingAs[strings.ToLower(playingAs)]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func TestPlayerPrefersExistingPlayerSeason(t *testing.T) {
	players := &fakePlayers{byID: map[core.PlayerID]core.Player{7: {ID: 7, Name: "Real Name"}}}
	ps := &core.PlayerSeason{ID: 1, Player: 7}

	p, err := Player(context.Background(), players, &fakePlayerSeasons{}, &fakeGameLogs{}, ps, "whoever")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || p.ID != 7 {
		t.Fatalf("got %+v, want player 7", p)
	}
}

func TestPlayerFallsBackThroughEachRung(t *testing.T) {
	players := &fakePlayers{byID: map[core.PlayerID]core.Player{9: {ID: 9, Name: "Someone"}}}
	playerSeasons := &fakePlayerSeasons{}
	gamelogs := &fakeGameLogs{
		byPlayingAs: map[string]core.PlayerGameLog{
			"ghost": {PlayerSeason: 3},
		},
	}
	playerSeasons.byPlayingAs = map[string]core.PlayerSeason{
		"ghost": {ID: 3, Player: 9},
	}

	p, err := Player(context.Background(), players, playerSeasons, gamelogs, nil, "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if p == nil || p.ID != 9 {
		t.Fatalf("got %+v, want player 9 via the PlayerSeason rung", p)
	}
}

func TestPlayerUnresolvedReturnsNil(t *testing.T) {
	p, err := Player(context.Background(), &fakePlayers{}, &fakePlayerSeasons{}, &fakeGameLogs{}, nil, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if p != nil {
		t.Fatalf("got %+v, want nil", p)
	}
}

type fakeMatches struct {
	bySeason map[core.SeasonID][]core.Match
}

func (f *fakeMatches) GetByID(ctx context.Context, id core.MatchID) (*core.Match, error) {
	return nil, nil
}

func (f *fakeMatches) ListBySeason(ctx context.Context, season core.SeasonID) ([]core.Match, error) {
	return f.bySeason[season], nil
}

func (f *fakeMatches) FindByTeams(ctx context.Context, season core.SeasonID, team1, team2 core.TeamSeasonID) (*core.Match, error) {
	return nil, nil
}

func (f *fakeMatches) Create(ctx context.Context, m core.Match) (core.MatchID, error) {
	return 0, nil
}

func (f *fakeMatches) FindByTeamsAndDate(ctx context.Context, season core.SeasonID, team1, team2 core.TeamSeasonID, date time.Time) (*core.Match, error) {
	return nil, nil
}

func TestWeekNoTeamsReturnsWeekOne(t *testing.T) {
	week, err := Week(context.Background(), &fakeMatches{}, nil, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if week != "Week 1" {
		t.Fatalf("got %q, want Week 1", week)
	}
}

func TestWeekNoPriorMatchesReturnsWeekOne(t *testing.T) {
	red := &core.TeamSeason{ID: 1, Season: 5}
	week, err := Week(context.Background(), &fakeMatches{}, red, nil, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if week != "Week 1" {
		t.Fatalf("got %q, want Week 1", week)
	}
}

func TestWeekAdvancesWhenTeamAlreadyPlayedThatWeek(t *testing.T) {
	red := &core.TeamSeason{ID: 1, Season: 5}
	blue := &core.TeamSeason{ID: 2, Season: 5}
	matches := &fakeMatches{bySeason: map[core.SeasonID][]core.Match{
		5: {
			{Team1: 1, Team2: 2, Week: "Week 1", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}}

	week, err := Week(context.Background(), matches, red, blue, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if week != "Week 2" {
		t.Fatalf("got %q, want Week 2", week)
	}
}

func TestWeekStaysSameWhenNeitherTeamPlayedItYet(t *testing.T) {
	red := &core.TeamSeason{ID: 1, Season: 5}
	blue := &core.TeamSeason{ID: 2, Season: 5}
	other1 := &core.TeamSeason{ID: 3, Season: 5}
	other2 := &core.TeamSeason{ID: 4, Season: 5}
	matches := &fakeMatches{bySeason: map[core.SeasonID][]core.Match{
		5: {
			{Team1: other1.ID, Team2: other2.ID, Week: "Week 1", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}}

	week, err := Week(context.Background(), matches, red, blue, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if week != "Week 1" {
		t.Fatalf("got %q, want Week 1 (neither team has played it)", week)
	}
}

func TestWeekNonNumericLabelPassesThrough(t *testing.T) {
	red := &core.TeamSeason{ID: 1, Season: 5}
	matches := &fakeMatches{bySeason: map[core.SeasonID][]core.Match{
		5: {
			{Team1: 1, Team2: 2, Week: "Semifinals", Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}}

	week, err := Week(context.Background(), matches, red, nil, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if week != "Semifinals" {
		t.Fatalf("got %q, want the playoff label unchanged", week)
	}
}
