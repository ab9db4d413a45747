package importer

import (
	"context"
	"time"

	"tagprostats.dev/engine/internal/core"
	"tagprostats.dev/engine/internal/infer"
)

// TeamSide is one side of an already-extracted game: a team name as it
// appeared in the source timeline, plus that side's final score.
type TeamSide struct {
	Name  string
	Score int
}

// ExtractedPlayer is one player as seen in a source timeline, before
// inference has resolved them to a persisted Player or PlayerSeason.
// Team matches one of ExtractedGame's RedTeam.Name/BlueTeam.Name.
type ExtractedPlayer struct {
	Username string
	Team     string
}

// ExtractedGame is one game's raw identity, already pulled from a
// timeline source (C1) but not yet resolved against the database — the
// unit BuildImportPayload turns into a Payload.
type ExtractedGame struct {
	TagproEU int
	Date     time.Time
	Week     string
	MapName  string
	MapID    *int
	RedTeam  TeamSide
	BlueTeam TeamSide
	Players  []ExtractedPlayer
}

// BuildImportPayload resolves a batch of freshly extracted games against
// the database, producing the data-entry Payload:
// a known team/player is carried through by its persisted name and
// abbreviation; an unknown one is included keyed by its raw source name,
// so a subsequent Import call mints a new record for it. Grounded on
// original_source/reference/views/data_entry.py's
// process_multiple_eu_links.
func BuildImportPayload(
	ctx context.Context,
	teams core.TeamSeasonRepository,
	franchises core.FranchiseRepository,
	playerSeasons core.PlayerSeasonRepository,
	players core.PlayerRepository,
	gamelogs core.PlayerGameLogRepository,
	seasonGroup []core.Season,
	games []ExtractedGame,
) (Payload, error) {
	if len(seasonGroup) == 0 {
		return Payload{}, nil
	}

	teamEntries := map[string]TeamSeasonEntry{}
	playerEntries := map[string]PlayerSeasonEntry{}
	var matches []MatchEntry

	for _, g := range games {
		redTeam, redSeason, err := resolveTeamSide(ctx, teams, seasonGroup, g.RedTeam.Name)
		if err != nil {
			return Payload{}, err
		}
		blueTeam, blueSeason, err := resolveTeamSide(ctx, teams, seasonGroup, g.BlueTeam.Name)
		if err != nil {
			return Payload{}, err
		}
		if err := addTeamEntry(ctx, franchises, teamEntries, redTeam, redSeason, g.RedTeam.Name); err != nil {
			return Payload{}, err
		}
		if err := addTeamEntry(ctx, franchises, teamEntries, blueTeam, blueSeason, g.BlueTeam.Name); err != nil {
			return Payload{}, err
		}

		gameSeason := redSeason
		gameSeasonName := redSeason.Name
		if redTeam == nil && blueTeam != nil {
			gameSeason = blueSeason
			gameSeasonName = blueSeason.Name
		}

		var gamePlayers []GamePlayerEntry
		for _, p := range g.Players {
			playingAs, err := resolvePlayerEntry(ctx, players, playerSeasons, gamelogs, gameSeason, p.Username, playerEntries, gameSeasonName)
			if err != nil {
				return Payload{}, err
			}

			team := p.Team
			if p.Team == g.RedTeam.Name && redTeam != nil {
				team = redTeam.Name
			} else if p.Team == g.BlueTeam.Name && blueTeam != nil {
				team = blueTeam.Name
			}

			gamePlayers = append(gamePlayers, GamePlayerEntry{
				Team:         team,
				PlayerSeason: playingAs,
				PlayingAs:    p.Username,
			})
		}

		redName, blueName := teamName(redTeam, g.RedTeam.Name), teamName(blueTeam, g.BlueTeam.Name)
		matches = appendGameToMatch(matches, gameSeasonName, g, redName, blueName, gamePlayers)
	}

	payload := Payload{Matches: matches}
	for _, ts := range teamEntries {
		payload.TeamSeasons = append(payload.TeamSeasons, ts)
	}
	for _, ps := range playerEntries {
		payload.PlayerSeasons = append(payload.PlayerSeasons, ps)
	}
	return payload, nil
}

func teamName(team *core.TeamSeason, raw string) string {
	if team != nil {
		return team.Name
	}
	return raw
}

// resolveTeamSide infers a TeamSeason for rawName, falling back to a
// season guess (and finally the first season in the group) when the team
// itself can't be resolved — matching process_multiple_eu_links, which
// still records an unknown team's raw name under a best-guess season.
func resolveTeamSide(ctx context.Context, teams core.TeamSeasonRepository, seasonGroup []core.Season, rawName string) (*core.TeamSeason, core.Season, error) {
	team, err := infer.Team(ctx, teams, seasonGroup, rawName)
	if err != nil {
		return nil, core.Season{}, err
	}
	if team != nil {
		for _, s := range seasonGroup {
			if s.ID == team.Season {
				return team, s, nil
			}
		}
	}
	if guess := infer.Season(seasonGroup, rawName); guess != nil {
		return nil, *guess, nil
	}
	return nil, seasonGroup[0], nil
}

// addTeamEntry records a TeamSeasonEntry for one game side. A known team
// carries its actual Franchise name through (falling back to the team's
// own name if the franchise lookup itself comes up empty — a franchise
// row missing for an otherwise-known team is a data quirk, not a reason
// to fail the whole import); an unknown team uses its raw source name as
// a placeholder franchise, exactly as
// original_source/reference/views/data_entry.py's
// process_multiple_eu_links does.
func addTeamEntry(ctx context.Context, franchises core.FranchiseRepository, entries map[string]TeamSeasonEntry, team *core.TeamSeason, season core.Season, rawName string) error {
	if team != nil {
		franchiseName := team.Name
		if f, err := franchises.GetByID(ctx, team.Franchise); err != nil {
			return err
		} else if f != nil {
			franchiseName = f.Name
		}
		key := season.Name + " " + team.Name
		entries[key] = TeamSeasonEntry{Season: season.Name, Franchise: franchiseName, Name: team.Name, Abbr: team.Abbr}
		return nil
	}
	abbr := rawName
	if len(abbr) > 3 {
		abbr = abbr[len(abbr)-3:]
	}
	key := season.Name + " " + abbr
	entries[key] = TeamSeasonEntry{Season: season.Name, Franchise: rawName, Name: rawName, Abbr: abbr}
	return nil
}

// resolvePlayerEntry infers the PlayerSeason for username within season
// and registers a playerEntries record the first time that season/name
// pair is seen, returning the playing_as value the game's player entry
// should reference.
func resolvePlayerEntry(
	ctx context.Context,
	players core.PlayerRepository,
	playerSeasons core.PlayerSeasonRepository,
	gamelogs core.PlayerGameLogRepository,
	season core.Season,
	username string,
	entries map[string]PlayerSeasonEntry,
	seasonName string,
) (string, error) {
	player, err := infer.Player(ctx, players, playerSeasons, gamelogs, nil, username)
	if err != nil {
		return "", err
	}

	playingAs := username
	if player != nil {
		if ps, err := playerSeasons.FindByPlayer(ctx, season.ID, player.ID); err != nil {
			return "", err
		} else if ps != nil {
			playingAs = ps.PlayingAs
		}
		key := seasonName + " " + playingAs
		entries[key] = PlayerSeasonEntry{Season: seasonName, Player: player.Name, PlayingAs: playingAs}
		return playingAs, nil
	}

	key := seasonName + " " + playingAs
	entries[key] = PlayerSeasonEntry{Season: seasonName, Player: username, PlayingAs: playingAs}
	return playingAs, nil
}

// appendGameToMatch appends g to the MatchEntry in matches matching its
// season/date/teams, creating one if none exists yet.
func appendGameToMatch(matches []MatchEntry, seasonName string, g ExtractedGame, redName, blueName string, players []GamePlayerEntry) []MatchEntry {
	dateStr := g.Date.Format("2006-01-02")
	for i := range matches {
		m := &matches[i]
		if m.Season == seasonName && m.Date == dateStr && sameTeams(m.Team1, m.Team2, redName, blueName) {
			m.Games = append(m.Games, gameEntry(g, redName, blueName, players))
			return matches
		}
	}
	return append(matches, MatchEntry{
		Season: seasonName,
		Date:   dateStr,
		Week:   g.Week,
		Team1:  redName,
		Team2:  blueName,
		Games:  []GameEntry{gameEntry(g, redName, blueName, players)},
	})
}

func sameTeams(t1, t2, a, b string) bool {
	return (t1 == a && t2 == b) || (t1 == b && t2 == a)
}

func gameEntry(g ExtractedGame, redName, blueName string, players []GamePlayerEntry) GameEntry {
	return GameEntry{
		TagproEU:   g.TagproEU,
		MapName:    g.MapName,
		MapID:      g.MapID,
		RedTeam:    redName,
		BlueTeam:   blueName,
		Team1Score: g.RedTeam.Score,
		Team2Score: g.BlueTeam.Score,
		Players:    players,
	}
}
