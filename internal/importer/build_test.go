package importer

import (
	"context"
	"testing"
	"time"

	"tagprostats.dev/engine/internal/core"
)

func TestBuildImportPayloadUnknownTeamsAndPlayers(t *testing.T) {
	seasonGroup := []core.Season{{ID: 1, Name: "MLTP Season 10"}}
	games := []ExtractedGame{
		{
			TagproEU: 999, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Week: "Week 3",
			MapName: "Ultimate", RedTeam: TeamSide{Name: "Moon Wolves", Score: 3}, BlueTeam: TeamSide{Name: "Iron Badgers", Score: 1},
			Players: []ExtractedPlayer{
				{Username: "sparkle", Team: "Moon Wolves"},
				{Username: "ghost", Team: "Iron Badgers"},
			},
		},
	}

	payload, err := BuildImportPayload(
		context.Background(),
		newFakeTeams(),
		newFakeFranchises(),
		newFakePlayerSeasonsRepo(),
		newFakePlayersRepo(),
		&fakeGameLogsRepo{},
		seasonGroup,
		games,
	)
	if err != nil {
		t.Fatal(err)
	}

	if len(payload.TeamSeasons) != 2 {
		t.Fatalf("expected 2 team entries (both unknown), got %d: %+v", len(payload.TeamSeasons), payload.TeamSeasons)
	}
	if len(payload.PlayerSeasons) != 2 {
		t.Fatalf("expected 2 player entries, got %d: %+v", len(payload.PlayerSeasons), payload.PlayerSeasons)
	}
	if len(payload.Matches) != 1 || len(payload.Matches[0].Games) != 1 {
		t.Fatalf("expected 1 match with 1 game, got %+v", payload.Matches)
	}
	if payload.Matches[0].Games[0].TagproEU != 999 {
		t.Fatalf("got tagpro_eu %d, want 999", payload.Matches[0].Games[0].TagproEU)
	}
}

func TestBuildImportPayloadKnownTeamCarriesThroughFranchise(t *testing.T) {
	seasonGroup := []core.Season{{ID: 1, Name: "MLTP Season 10"}}
	teams := newFakeTeams()
	franchises := newFakeFranchises()

	franchiseID, err := franchises.Create(context.Background(), core.Franchise{Name: "Real Franchise"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := teams.Create(context.Background(), core.TeamSeason{Season: 1, Franchise: franchiseID, Name: "Moon Wolves", Abbr: "WLF"}); err != nil {
		t.Fatal(err)
	}

	games := []ExtractedGame{
		{
			TagproEU: 1000, Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Week: "Week 3",
			RedTeam: TeamSide{Name: "Moon Wolves WLF", Score: 1}, BlueTeam: TeamSide{Name: "Short Name", Score: 0},
		},
	}

	payload, err := BuildImportPayload(
		context.Background(), teams, franchises, newFakePlayerSeasonsRepo(), newFakePlayersRepo(), &fakeGameLogsRepo{},
		seasonGroup, games,
	)
	if err != nil {
		t.Fatal(err)
	}

	var found bool
	for _, ts := range payload.TeamSeasons {
		if ts.Name == "Moon Wolves" {
			found = true
			if ts.Franchise != "Real Franchise" {
				t.Fatalf("got franchise %q, want the resolved franchise name", ts.Franchise)
			}
		}
	}
	if !found {
		t.Fatalf("expected the known team to appear by its persisted name, got %+v", payload.TeamSeasons)
	}
}
