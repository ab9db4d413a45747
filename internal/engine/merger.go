package engine

import "tagprostats.dev/engine/internal/core"

// PlayerGameResult is one player's final, named stat line for a game: the
// Interpreter's per-actor Result keyed by the stable in-game username
// rather than the timeline-local core.ActorID, which is only valid within
// the timeline it was interned from.
type PlayerGameResult struct {
	Full       core.PlayerStats
	Regulation core.PlayerStats
	Team       core.Side
}

// ByName re-keys an Interpreter Result from timeline-local core.ActorID to
// in-game username, the join key the Paused-Game Merger needs since a
// resumed segment's timeline interns its own, unrelated ActorIDs.
func ByName(res *Result, tl core.Timeline) map[string]PlayerGameResult {
	out := make(map[string]PlayerGameResult, len(res.Full))
	for actor, full := range res.Full {
		name := tl.Name(actor)
		out[name] = PlayerGameResult{
			Full:       full,
			Regulation: res.Regulation[actor],
			Team:       res.Team[actor],
		}
	}
	return out
}

// MergedGame is the result of combining two segments of one paused/resumed
// game.
type MergedGame struct {
	Players        map[string]PlayerGameResult
	RedScore       int
	BlueScore      int
	WentToOvertime bool
}

// Merge combines part1 and part2 (already re-keyed by username) into one
// game's result:
//
//   - a player appearing in only one segment keeps that segment's stats as-is.
//   - a player in both: full = part1.Regulation + part2.Full;
//     regulation = part1.Regulation + part2.Regulation.
//   - a player in both: the team they finished part 2 on wins.
//
// pausedWithinRegulation is true when the pause split regulation across the
// two segments (part2 plays out the remainder of regulation under
// regulation rules); false when part1 already finished regulation and the
// pause occurred in overtime. It decides how the final score is computed.
func Merge(part1, part2 map[string]PlayerGameResult, part1Score, part2Score [2]int, part1OT, part2OT, pausedWithinRegulation bool) MergedGame {
	players := make(map[string]PlayerGameResult, len(part1)+len(part2))

	for name, p1 := range part1 {
		p2, ok := part2[name]
		if !ok {
			players[name] = p1
			continue
		}
		players[name] = PlayerGameResult{
			Full:       p1.Regulation.Add(p2.Full),
			Regulation: p1.Regulation.Add(p2.Regulation),
			Team:       p2.Team,
		}
	}
	for name, p2 := range part2 {
		if _, ok := part1[name]; ok {
			continue
		}
		players[name] = p2
	}

	merged := MergedGame{
		Players:        players,
		WentToOvertime: part1OT || part2OT,
	}
	if pausedWithinRegulation {
		merged.RedScore = part2Score[0]
		merged.BlueScore = part2Score[1]
	} else {
		merged.RedScore = part1Score[0] + part2Score[0]
		merged.BlueScore = part1Score[1] + part2Score[1]
	}
	return merged
}
