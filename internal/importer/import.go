package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"tagprostats.dev/engine/internal/core"
)

// Result summarizes one Import call: games newly created; games skipped
// because their tagpro_eu id was already on file or their red or blue team
// could not be resolved; and matches skipped (counted once per match)
// because they referenced a season or team absent from the database.
type Result struct {
	Created         int
	Skipped         int
	ReferentialGaps int
}

// Importer writes a data-entry Payload into the database idempotently.
// Grounded on original_source/reference/views/data_entry.py's
// import_json_data_to_db: teams, players, and player-seasons are
// get-or-created by their natural key; games are the idempotency
// boundary, keyed by tagpro_eu and skipped whenever one already exists.
type Importer struct {
	seasons       core.SeasonRepository
	franchises    core.FranchiseRepository
	teams         core.TeamSeasonRepository
	players       core.PlayerRepository
	playerSeasons core.PlayerSeasonRepository
	matches       core.MatchRepository
	games         core.GameRepository
	gamelogs      core.PlayerGameLogRepository
	log           *log.Logger
}

func New(
	seasons core.SeasonRepository,
	franchises core.FranchiseRepository,
	teams core.TeamSeasonRepository,
	players core.PlayerRepository,
	playerSeasons core.PlayerSeasonRepository,
	matches core.MatchRepository,
	games core.GameRepository,
	gamelogs core.PlayerGameLogRepository,
	logger *log.Logger,
) *Importer {
	if logger == nil {
		logger = log.Default()
	}
	return &Importer{
		seasons: seasons, franchises: franchises, teams: teams,
		players: players, playerSeasons: playerSeasons,
		matches: matches, games: games, gamelogs: gamelogs, log: logger,
	}
}

// Import writes payload into the database. A season referenced by a
// teamSeasons/playerSeasons/matches entry that doesn't exist yet causes
// that entry (and, for a match, all its games) to be skipped rather than
// aborting the whole payload.
func (im *Importer) Import(ctx context.Context, payload Payload) (Result, error) {
	seasonsByName, err := im.seasonsByName(ctx)
	if err != nil {
		return Result{}, err
	}

	franchiseCache := map[string]core.FranchiseID{}
	teamCache := map[string]*core.TeamSeason{}
	playerCache := map[string]core.PlayerID{}
	playerSeasonCache := map[string]*core.PlayerSeason{}

	for _, ts := range payload.TeamSeasons {
		season, ok := seasonsByName[ts.Season]
		if !ok {
			continue
		}

		franchiseID, ok := franchiseCache[ts.Franchise]
		if !ok {
			f, err := im.franchises.FindByName(ctx, ts.Franchise)
			if err != nil {
				return Result{}, err
			}
			if f == nil {
				id, err := im.franchises.Create(ctx, core.Franchise{Name: ts.Franchise})
				if err != nil {
					return Result{}, err
				}
				franchiseID = id
			} else {
				franchiseID = f.ID
			}
			franchiseCache[ts.Franchise] = franchiseID
		}

		team, err := im.teams.FindByName(ctx, season.ID, ts.Name)
		if err != nil {
			return Result{}, err
		}
		if team == nil {
			id, err := im.teams.Create(ctx, core.TeamSeason{Season: season.ID, Franchise: franchiseID, Name: ts.Name, Abbr: ts.Abbr})
			if err != nil {
				return Result{}, err
			}
			team = &core.TeamSeason{ID: id, Season: season.ID, Franchise: franchiseID, Name: ts.Name, Abbr: ts.Abbr}
		}
		teamCache[season.Name+" "+ts.Name] = team
	}

	for _, ps := range payload.PlayerSeasons {
		season, ok := seasonsByName[ps.Season]
		if !ok {
			continue
		}

		playerID, ok := playerCache[ps.Player]
		if !ok {
			p, err := im.players.FindByName(ctx, ps.Player)
			if err != nil {
				return Result{}, err
			}
			if p == nil {
				id, err := im.players.Create(ctx, core.Player{Name: ps.Player})
				if err != nil {
					return Result{}, err
				}
				playerID = id
			} else {
				playerID = p.ID
			}
			playerCache[ps.Player] = playerID
		}

		var team *core.TeamSeason
		if ps.Team != nil {
			team = teamCache[season.Name+" "+*ps.Team]
		}

		existing, err := im.playerSeasons.FindByPlayingAs(ctx, season.ID, ps.PlayingAs)
		if err != nil {
			return Result{}, err
		}
		if existing == nil {
			var teamID *core.TeamSeasonID
			if team != nil {
				teamID = &team.ID
			}
			id, err := im.playerSeasons.Create(ctx, core.PlayerSeason{Season: season.ID, Team: teamID, Player: playerID, PlayingAs: ps.PlayingAs})
			if err != nil {
				return Result{}, err
			}
			existing = &core.PlayerSeason{ID: id, Season: season.ID, Team: teamID, Player: playerID, PlayingAs: ps.PlayingAs}
		}
		playerSeasonCache[season.Name+" "+ps.PlayingAs] = existing
	}

	result := Result{}
	for _, m := range payload.Matches {
		season, ok := seasonsByName[m.Season]
		if !ok {
			result.ReferentialGaps++
			im.log.Warn("import: referential gap, season not found", "season", m.Season)
			continue
		}

		team1 := teamCache[season.Name+" "+m.Team1]
		team2 := teamCache[season.Name+" "+m.Team2]
		if team1 == nil || team2 == nil {
			result.ReferentialGaps++
			im.log.Warn("import: referential gap, team not found", "match_season", m.Season, "team1", m.Team1, "team2", m.Team2)
			continue
		}

		date, err := time.Parse("2006-01-02", m.Date)
		if err != nil {
			return Result{}, fmt.Errorf("parse match date %q: %w", m.Date, err)
		}

		match, err := im.matches.FindByTeamsAndDate(ctx, season.ID, team1.ID, team2.ID, date)
		if err != nil {
			return Result{}, err
		}
		if match == nil {
			id, err := im.matches.Create(ctx, core.Match{Season: season.ID, Date: date, Week: m.Week, Team1: team1.ID, Team2: team2.ID})
			if err != nil {
				return Result{}, err
			}
			match = &core.Match{ID: id, Season: season.ID, Date: date, Week: m.Week, Team1: team1.ID, Team2: team2.ID}
		}

		for i, g := range m.Games {
			created, err := im.importGame(ctx, season, match.ID, i+1, g, teamCache, playerSeasonCache)
			if err != nil {
				return Result{}, err
			}
			if created {
				result.Created++
			} else {
				result.Skipped++
			}
		}
	}
	return result, nil
}

func (im *Importer) importGame(
	ctx context.Context,
	season core.Season,
	match core.MatchID,
	gameInMatch int,
	g GameEntry,
	teamCache map[string]*core.TeamSeason,
	playerSeasonCache map[string]*core.PlayerSeason,
) (bool, error) {
	existing, err := im.games.GetByTagproEU(ctx, g.TagproEU)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	redTeam := teamCache[season.Name+" "+g.RedTeam]
	blueTeam := teamCache[season.Name+" "+g.BlueTeam]
	if redTeam == nil || blueTeam == nil {
		return false, nil
	}

	tagproEU := g.TagproEU
	game := core.Game{
		Match:       match,
		GameInMatch: fmt.Sprintf("Game %d", gameInMatch),
		TagproEU:    &tagproEU,
		RedTeam:     redTeam.ID,
		BlueTeam:    blueTeam.ID,
		Team1Score:  g.Team1Score,
		Team2Score:  g.Team2Score,
		MapName:     g.MapName,
		MapID:       g.MapID,
	}
	gameID, err := im.games.Create(ctx, game)
	if err != nil {
		return false, err
	}

	for _, p := range g.Players {
		ps := playerSeasonCache[season.Name+" "+p.PlayerSeason]
		team := teamCache[season.Name+" "+p.Team]
		if ps == nil || team == nil {
			continue
		}
		if _, err := im.gamelogs.Create(ctx, core.PlayerGameLog{
			Game: gameID, Team: team.ID, PlayerSeason: ps.ID, PlayingAs: p.PlayingAs,
		}); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (im *Importer) seasonsByName(ctx context.Context) (map[string]core.Season, error) {
	all, err := im.seasons.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]core.Season, len(all))
	for _, s := range all {
		out[s.Name] = s
	}
	return out, nil
}
