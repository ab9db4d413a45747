package infer

import (
	"context"
	"strconv"
	"strings"
	"time"

	"tagprostats.dev/engine/internal/core"
)

// Week infers the week label a new match between red and blue on date
// should carry. If neither team is known, "Week 1" —
// there's no season to search within. Otherwise: find the latest week
// label already played in that season on or before date; if it isn't a
// plain "Week <n>" label, return it unchanged (a playoff round name, for
// instance); if it is, and either team already has a match in that week,
// advance to "Week <n+1>"; otherwise the label stands as-is.
func Week(ctx context.Context, matches core.MatchRepository, red, blue *core.TeamSeason, date time.Time) (string, error) {
	var season core.SeasonID
	switch {
	case red != nil:
		season = red.Season
	case blue != nil:
		season = blue.Season
	default:
		return "Week 1", nil
	}

	all, err := matches.ListBySeason(ctx, season)
	if err != nil {
		return "", err
	}

	var before []core.Match
	for _, m := range all {
		if !m.Date.After(date) {
			before = append(before, m)
		}
	}
	if len(before) == 0 {
		return "Week 1", nil
	}

	// The reference importer takes the lexicographic maximum of the week
	// label string itself (a plain SQL MAX() over a text column), not a
	// numeric or chronological one — "Week 9" lexically outranks
	// "Week 10". Reproduced here rather than "fixed" because playoff
	// round labels ("Semifinals") need to sort according to the same
	// rule the live data already relies on.
	maxWeek := before[0].Week
	for _, m := range before[1:] {
		if m.Week > maxWeek {
			maxWeek = m.Week
		}
	}

	n, ok := plainWeekNumber(maxWeek)
	if !ok {
		return maxWeek, nil
	}

	for _, m := range before {
		if m.Week != maxWeek {
			continue
		}
		if matchInvolves(m, red) || matchInvolves(m, blue) {
			return "Week " + strconv.Itoa(n+1), nil
		}
	}
	return maxWeek, nil
}

func matchInvolves(m core.Match, team *core.TeamSeason) bool {
	return team != nil && (m.Team1 == team.ID || m.Team2 == team.ID)
}

// plainWeekNumber reports whether label is exactly "Week <n>" and, if so,
// returns n.
func plainWeekNumber(label string) (int, bool) {
	const prefix = "Week "
	if !strings.HasPrefix(label, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(label[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}

