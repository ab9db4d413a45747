package standings

import (
	"gonum.org/v1/gonum/stat"

	"tagprostats.dev/engine/internal/core"
)

var criterionNames = []string{
	"standing points",
	"head-to-head win percentage",
	"common-opponent standing-point percentage",
	"common-opponent cap differential",
	"total cap differential",
	"total caps scored",
}

// TeamGameRecord is one game from a single team's perspective, already
// oriented (CapsFor/CapsAgainst relative to that team), in chronological
// order. It feeds the per-team cap-differential series `cmd --explain`
// renders.
type TeamGameRecord struct {
	Game        core.GameID
	Opponent    core.TeamSeasonID
	CapsFor     int
	CapsAgainst int
}

// BuildCapDifferentialSeries turns one team's ordered game records into
// the running cap-differential curve used by the `--explain` diagnostic.
func BuildCapDifferentialSeries(season core.SeasonID, team core.TeamSeasonID, games []TeamGameRecord) core.CapDifferentialSeries {
	series := core.CapDifferentialSeries{Team: team, Season: season, GamesPlayed: len(games)}

	cumulative := 0
	for _, g := range games {
		diff := g.CapsFor - g.CapsAgainst
		cumulative += diff
		series.CapsFor += g.CapsFor
		series.CapsAgainst += g.CapsAgainst
		series.Games = append(series.Games, core.CapDifferentialGamePoint{
			Game:           g.Game,
			Opponent:       g.Opponent,
			CapsFor:        g.CapsFor,
			CapsAgainst:    g.CapsAgainst,
			Differential:   diff,
			CumulativeDiff: cumulative,
		})
	}
	series.CapDifferential = series.CapsFor - series.CapsAgainst
	return series
}

// decidingCriterion re-walks the tiebreak steps over group and reports
// the name of the first one that actually splits it — the criterion a
// viewer needs to see explained to understand a seed order.
func decidingCriterion(group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals) string {
	current := [][]core.TeamSeasonID{group}
	for step, name := range criterionNames {
		var next [][]core.TeamSeasonID
		split := false
		for _, g := range current {
			if len(g) <= 1 {
				next = append(next, g)
				continue
			}
			parts := partitionDescending(g, criteria[step](g, totals))
			if len(parts) > 1 {
				split = true
			}
			next = append(next, parts...)
		}
		current = next
		if split {
			return name
		}
	}
	return "input order (fully tied through every criterion)"
}

// Explain builds the `--explain` diagnostic for a tied group of teams:
// which criterion actually decided the order, plus each team's cap
// differential curve and the group's mean/stdev cap differential
// (computed with gonum/stat; the tiebreak order itself never uses
// floating point, only this reporting view does).
func Explain(season core.SeasonID, group []core.TeamSeasonID, totals map[core.TeamSeasonID]*Totals, seriesByTeam map[core.TeamSeasonID]core.CapDifferentialSeries) core.TiebreakDiagnostics {
	diffs := make([]float64, 0, len(group))
	series := make([]core.CapDifferentialSeries, 0, len(group))
	for _, team := range group {
		diffs = append(diffs, float64(totals[team].CapDifferential()))
		if s, ok := seriesByTeam[team]; ok {
			series = append(series, s)
		}
	}

	mean, stdev := stat.MeanStdDev(diffs, nil)

	return core.TiebreakDiagnostics{
		Season:                season,
		Teams:                 group,
		DecidingCriterion:     decidingCriterion(group, totals),
		MeanCapDifferential:   mean,
		StdevCapDifferential:  stdev,
		Series:                series,
	}
}
