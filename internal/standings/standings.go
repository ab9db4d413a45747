// Package standings implements the Standings & Tiebreaker Engine (C7): it
// turns a season's regular-season game results into a ranked, seeded
// table by applying a sequence of tiebreak criteria, each one only to
// the sub-groups still tied after the previous criterion, expressed as
// an ordered list of partitioning criteria rather than nested recursion.
package standings

import (
	"sort"

	"tagprostats.dev/engine/internal/core"
)

// GameResult is one regular-season game's outcome, expressed from
// Team1's perspective. The caller (repository layer) is responsible for
// resolving a persisted core.Game plus its core.Match into this shape —
// the standings engine has no notion of red/blue sides or database ids
// beyond core.TeamSeasonID.
type GameResult struct {
	Team1, Team2             core.TeamSeasonID
	Team1Points, Team2Points int
	Team1CapsFor, Team2CapsFor int
}

// HeadToHead accumulates one team's record against a single opponent
// across every regular-season meeting.
type HeadToHead struct {
	TeamStandingPoints  int
	TotalStandingPoints int
	CapsFor             int
	CapsAgainst         int
}

// Totals is one team's full-season aggregate, the input to every
// tiebreak criterion.
type Totals struct {
	Team            core.TeamSeasonID
	StandingPoints  int
	CapsFor         int
	CapsAgainst     int
	HeadToHead      map[core.TeamSeasonID]HeadToHead
}

func (t Totals) CapDifferential() int { return t.CapsFor - t.CapsAgainst }
func (t Totals) TotalCaps() int       { return t.CapsFor }

// BuildTotals aggregates a season's regular-season games into per-team
// Totals.
func BuildTotals(games []GameResult) map[core.TeamSeasonID]*Totals {
	totals := make(map[core.TeamSeasonID]*Totals)
	get := func(team core.TeamSeasonID) *Totals {
		t, ok := totals[team]
		if !ok {
			t = &Totals{Team: team, HeadToHead: make(map[core.TeamSeasonID]HeadToHead)}
			totals[team] = t
		}
		return t
	}

	for _, g := range games {
		t1, t2 := get(g.Team1), get(g.Team2)

		t1.StandingPoints += g.Team1Points
		t2.StandingPoints += g.Team2Points
		t1.CapsFor += g.Team1CapsFor
		t1.CapsAgainst += g.Team2CapsFor
		t2.CapsFor += g.Team2CapsFor
		t2.CapsAgainst += g.Team1CapsFor

		h1 := t1.HeadToHead[g.Team2]
		h1.TeamStandingPoints += g.Team1Points
		h1.TotalStandingPoints += g.Team1Points + g.Team2Points
		h1.CapsFor += g.Team1CapsFor
		h1.CapsAgainst += g.Team2CapsFor
		t1.HeadToHead[g.Team2] = h1

		h2 := t2.HeadToHead[g.Team1]
		h2.TeamStandingPoints += g.Team2Points
		h2.TotalStandingPoints += g.Team1Points + g.Team2Points
		h2.CapsFor += g.Team2CapsFor
		h2.CapsAgainst += g.Team1CapsFor
		t2.HeadToHead[g.Team1] = h2
	}

	return totals
}

// Standing is one team's final rank within its season.
type Standing struct {
	Team core.TeamSeasonID
	Seed int
}

// Compute ranks every team that appears in totals and assigns seeds
// 1..N, applying the tiebreak order as a recursive
// partition. teams fixes the input order used as the final, stable
// tiebreaker when every criterion is exhausted.
func Compute(totals map[core.TeamSeasonID]*Totals, teams []core.TeamSeasonID) []Standing {
	order := resolve(teams, totals, 0)

	out := make([]Standing, 0, len(order))
	seed := 1
	for _, group := range order {
		for _, team := range group {
			out = append(out, Standing{Team: team, Seed: seed})
			seed++
		}
	}
	return out
}

// resolve returns group ordered best-to-worst as a sequence of
// equal-rank sub-groups, applying tiebreak criteria step..len(criteria)
// and recursing into any sub-group still larger than one team.
func resolve(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals, step int) [][]core.TeamSeasonID {
	if len(group) <= 1 || step >= len(criteria) {
		return [][]core.TeamSeasonID{group}
	}

	parts := partitionDescending(group, criteria[step](group, totals))

	var out [][]core.TeamSeasonID
	for _, part := range parts {
		out = append(out, resolve(part, totals, step+1)...)
	}
	return out
}

// partitionDescending stable-sorts group by score (higher first) and
// splits it into consecutive runs of equal score. Equal-score ties keep
// their relative input order.
func partitionDescending(group []core.TeamSeasonID, score func(core.TeamSeasonID) float64) [][]core.TeamSeasonID {
	sorted := make([]core.TeamSeasonID, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return score(sorted[i]) > score(sorted[j])
	})

	var out [][]core.TeamSeasonID
	i := 0
	for i < len(sorted) {
		j := i + 1
		for j < len(sorted) && score(sorted[j]) == score(sorted[i]) {
			j++
		}
		out = append(out, sorted[i:j])
		i = j
	}
	return out
}
