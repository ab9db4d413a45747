package standings

import (
	"sort"
	"time"
)

// finalWeeks names the week labels that designate a championship round.
var finalWeeks = map[string]bool{
	"Super Ball": true,
	"Muper Ball": true,
	"Nuper Ball": true,
	"Buper Ball": true,
}

// PlayoffGame is one team's result in one playoff match, the unit
// PlayoffFinish walks in descending date order.
type PlayoffGame struct {
	Week string
	Date time.Time
	Won  bool
}

// PlayoffFinish derives a team's playoff-finish label.
// seasonHasRecordedWinner reflects whether the season has any
// PlayoffSeries with a recorded winner at all — distinct from whether
// this particular team reached the playoffs.
func PlayoffFinish(games []PlayoffGame, seasonHasRecordedWinner bool) string {
	if !seasonHasRecordedWinner {
		return "—"
	}
	if len(games) == 0 {
		return "Missed playoffs"
	}

	sorted := make([]PlayoffGame, len(games))
	copy(sorted, games)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	latest := sorted[0]
	switch {
	case latest.Won && finalWeeks[latest.Week]:
		return "Won championship"
	case !latest.Won:
		return "Lost " + latest.Week
	default:
		return "Won " + latest.Week
	}
}
