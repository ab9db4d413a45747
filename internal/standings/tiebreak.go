package standings

import (
	"math"

	"tagprostats.dev/engine/internal/core"
)

// criterionFunc builds a per-team score for one tiebreak step, scoped to
// the tied group it is being applied within (needed by the
// common-opponent steps, which restrict to opponents shared by the
// whole group).
type criterionFunc func(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) func(core.TeamSeasonID) float64

// criteria is applied in order; resolve() recurses into step+1 only for
// sub-groups still tied after step.
var criteria = []criterionFunc{
	standingPointsScore,
	headToHeadWinPctScore,
	commonOpponentStandingPctScore,
	commonOpponentCapDifferentialScore,
	totalCapDifferentialScore,
	totalCapsScore,
}

func standingPointsScore(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) func(core.TeamSeasonID) float64 {
	return func(team core.TeamSeasonID) float64 {
		return float64(totals[team].StandingPoints)
	}
}

// headToHeadWinPctScore compares teams only against other members of
// the tied group. A team with no games against
// the rest of the group (zero denominator) ranks last.
func headToHeadWinPctScore(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) func(core.TeamSeasonID) float64 {
	return func(team core.TeamSeasonID) float64 {
		var won, total int
		for _, opp := range group {
			if opp == team {
				continue
			}
			h, ok := totals[team].HeadToHead[opp]
			if !ok {
				continue
			}
			won += h.TeamStandingPoints
			total += h.TotalStandingPoints
		}
		if total == 0 {
			return math.Inf(-1)
		}
		return float64(won) / float64(total)
	}
}

// commonOpponents returns the opponents every team in group has faced,
// excluding the tied teams themselves.
func commonOpponents(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) []core.TeamSeasonID {
	if len(group) == 0 {
		return nil
	}
	inGroup := make(map[core.TeamSeasonID]bool, len(group))
	for _, t := range group {
		inGroup[t] = true
	}

	candidates := make(map[core.TeamSeasonID]bool)
	for opp := range totals[group[0]].HeadToHead {
		if !inGroup[opp] {
			candidates[opp] = true
		}
	}
	for _, t := range group[1:] {
		for opp := range candidates {
			if _, ok := totals[t].HeadToHead[opp]; !ok {
				delete(candidates, opp)
			}
		}
	}

	out := make([]core.TeamSeasonID, 0, len(candidates))
	for opp := range candidates {
		out = append(out, opp)
	}
	return out
}

// commonOpponentStandingPctScore ranks teams by winning percentage
// against opponents every member of the tied group has faced. An
// empty common-opponent set is a no-op tiebreaker: every team in the
// group scores equal, so resolve() falls through to step 4 untouched.
func commonOpponentStandingPctScore(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) func(core.TeamSeasonID) float64 {
	common := commonOpponents(group, totals)
	return func(team core.TeamSeasonID) float64 {
		if len(common) == 0 {
			return 0
		}
		var won, total int
		for _, opp := range common {
			h, ok := totals[team].HeadToHead[opp]
			if !ok {
				continue
			}
			won += h.TeamStandingPoints
			total += h.TotalStandingPoints
		}
		if total == 0 {
			return math.Inf(-1)
		}
		return float64(won) / float64(total)
	}
}

// commonOpponentCapDifferentialScore ranks teams by cap differential
// against those same common opponents.
func commonOpponentCapDifferentialScore(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) func(core.TeamSeasonID) float64 {
	common := commonOpponents(group, totals)
	return func(team core.TeamSeasonID) float64 {
		if len(common) == 0 {
			return 0
		}
		diff := 0
		for _, opp := range common {
			h, ok := totals[team].HeadToHead[opp]
			if !ok {
				continue
			}
			diff += h.CapsFor - h.CapsAgainst
		}
		return float64(diff)
	}
}

func totalCapDifferentialScore(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) func(core.TeamSeasonID) float64 {
	return func(team core.TeamSeasonID) float64 {
		return float64(totals[team].CapDifferential())
	}
}

func totalCapsScore(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) func(core.TeamSeasonID) float64 {
	return func(team core.TeamSeasonID) float64 {
		return float64(totals[team].TotalCaps())
	}
}
