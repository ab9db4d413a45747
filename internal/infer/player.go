package infer

import (
	"context"

	"tagprostats.dev/engine/internal/core"
)

// PlayerSeason infers which PlayerSeason an in-game username refers to,
// scoped to a known team: first by a case-insensitive match on that
// season's playing_as, then by a case-insensitive match on the
// underlying Player's name. Returns nil if team is nil: an unknown team
// must not be guessed around, since the
// team is what tells the caller which league's (and therefore which
// season's) PlayerSeasons to search.
func PlayerSeason(ctx context.Context, repo core.PlayerSeasonRepository, team *core.TeamSeason, username string) (*core.PlayerSeason, error) {
	if team == nil {
		return nil, nil
	}

	if ps, err := repo.FindByPlayingAs(ctx, team.Season, username); err != nil {
		return nil, err
	} else if ps != nil {
		return ps, nil
	}

	return repo.FindByPlayerName(ctx, team.Season, username)
}

// Player infers the Player a username refers to, given an (optional)
// already-inferred PlayerSeason. Falls through, in order: the
// PlayerSeason's own Player; a Player whose name matches exactly; any
// PlayerSeason (any season) whose playing_as matches; any PlayerGameLog
// (any game) whose playing_as matches. Returns nil if every rung misses.
func Player(
	ctx context.Context,
	players core.PlayerRepository,
	playerSeasons core.PlayerSeasonRepository,
	gamelogs core.PlayerGameLogRepository,
	playerSeason *core.PlayerSeason,
	username string,
) (*core.Player, error) {
	if playerSeason != nil {
		return players.GetByID(ctx, playerSeason.Player)
	}

	if p, err := players.FindByName(ctx, username); err != nil {
		return nil, err
	} else if p != nil {
		return p, nil
	}

	if ps, err := playerSeasons.FindByPlayingAsAnySeason(ctx, username); err != nil {
		return nil, err
	} else if ps != nil {
		return players.GetByID(ctx, ps.Player)
	}

	log, err := gamelogs.FindByPlayingAs(ctx, username)
	if err != nil {
		return nil, err
	}
	if log == nil {
		return nil, nil
	}
	ps, err := playerSeasons.GetByID(ctx, log.PlayerSeason)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, nil
	}
	return players.GetByID(ctx, ps.Player)
}
