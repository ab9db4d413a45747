// Package infer implements the Inference Helpers (C8): best-effort
// matching from the free-text team/player names and dates found in
// imported data to the persisted Season/TeamSeason/Player/PlayerSeason
// records they refer to. Every function here returns (nil, nil) on an
// ambiguous or unresolved match rather than an error — an unresolved
// inference is not a failure, it is a question for the
// caller to decide how to answer (prompt an operator, or mint a new
// record).
package infer

import (
	"context"
	"strings"

	"tagprostats.dev/engine/internal/core"
)

// leaguePrefixes maps a team name's first character to the season-name
// prefix of the league it belongs to. Mirrors the
// reference importer's hardcoded letter scheme exactly — these are
// historical league naming quirks, not a general convention.
var leaguePrefixes = map[byte]string{
	'M': "MLTP",
	'N': "mLTP",
	'A': "NLTP",
}

// Season infers which season within group a team name belongs to, by the
// league letter encoded in its first character. Returns nil if the name
// is too short, a default placeholder ("Red"/"Blue"), or its league
// prefix doesn't match any season in group.
func Season(group []core.Season, teamNameInGroup string) *core.Season {
	if !eligibleTeamName(teamNameInGroup, 4) {
		return nil
	}

	prefix, ok := leaguePrefixes[teamNameInGroup[0]]
	if !ok {
		return nil
	}
	for i := range group {
		if strings.HasPrefix(group[i].Name, prefix) {
			return &group[i]
		}
	}
	return nil
}

// eligibleTeamName reports whether name is a real, guessable team name:
// non-empty, not one of the placeholder side labels, and at least minLen
// characters long.
func eligibleTeamName(name string, minLen int) bool {
	if name == "" || name == "Red" || name == "Blue" {
		return false
	}
	return len(name) >= minLen
}

// Team infers the TeamSeason a free-text name refers to: derive its
// trailing three-character abbreviation, guess the season via Season,
// and search that season first, then fall back to any season in group.
// Returns nil if the name is ineligible or no TeamSeason in the group
// carries that abbreviation.
func Team(ctx context.Context, repo core.TeamSeasonRepository, group []core.Season, teamNameInGroup string) (*core.TeamSeason, error) {
	if !eligibleTeamName(teamNameInGroup, 3) {
		return nil, nil
	}

	abbr := strings.TrimSpace(teamNameInGroup)
	if len(abbr) > 3 {
		abbr = abbr[len(abbr)-3:]
	}

	if guess := Season(group, teamNameInGroup); guess != nil {
		team, err := repo.FindByAbbr(ctx, guess.ID, abbr)
		if err != nil {
			return nil, err
		}
		if team != nil {
			return team, nil
		}
	}

	for _, season := range group {
		team, err := repo.FindByAbbr(ctx, season.ID, abbr)
		if err != nil {
			return nil, err
		}
		if team != nil {
			return team, nil
		}
	}
	return nil, nil
}
