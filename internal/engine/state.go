// Package engine implements the event-driven stat-derivation pipeline: the
// per-tick state machine that turns one game's timeline into per-player
// counting stats (C2), the regulation/full-game split taken from the same
// pass (C3), the paused-game merge (C4), and the outcome classifier (C5).
package engine

import "tagprostats.dev/engine/internal/core"

// playerState is the interpreter's working state for one player: the
// persisted PlayerStats plus the eight helper fields that never get
// persisted themselves. A flat, fixed-size value type indexed by
// core.ActorID, not a map keyed by username.
type playerState struct {
	stats core.PlayerStats

	team             core.Side
	joinTime         *int
	grabTime         *int
	preventStart     *int
	lastReturnTime   *int
	lastHoldEnd      *int
	handedOffBy      *core.ActorID
	grabbedOffRegrab bool
}

// snapshotStates returns an independent value copy of states. playerState has no
// reference fields whose pointees are mutated in place (closeOut only
// reassigns the pointer fields themselves), so a shallow slice copy gives
// each copy its own, divergent state from this point on.
func snapshotStates(states []playerState) []playerState {
	out := make([]playerState, len(states))
	copy(out, states)
	return out
}

// closeOut implements the shared Leave/GameEnds procedure: close any open
// time_played/prevent/hold accumulators for actor at
// tick, crediting opposing players' hold_against and a hand-off source's
// good_handoffs where applicable, then clear the per-session helper fields.
// Returns true if actor was found still holding the flag (the condition
// GameEnds uses to decide whether to increment kept_flags).
func closeOut(states []playerState, actor core.ActorID, tick int) bool {
	s := &states[actor]

	if s.joinTime != nil {
		s.stats.TimePlayed += tick - *s.joinTime
	}
	if s.preventStart != nil {
		s.stats.Prevent += tick - *s.preventStart
	}

	holding := s.grabTime != nil && s.lastHoldEnd == nil
	if holding {
		holdLen := tick - *s.grabTime
		s.stats.Hold += holdLen
		if holdLen > 600 {
			s.stats.LongHolds++
		}
		if holdLen > 300 && s.handedOffBy != nil {
			states[*s.handedOffBy].stats.GoodHandoffs++
		}
		creditHoldAgainst(states, actor, s.team, holdLen)
		end := tick
		s.lastHoldEnd = &end
	}

	s.joinTime = nil
	s.team = core.SideNone
	s.preventStart = nil
	s.handedOffBy = nil
	s.grabbedOffRegrab = false

	return holding
}

// creditHoldAgainst adds holdLen to every currently-playing opponent of
// holderTeam, excluding the holder itself.
func creditHoldAgainst(states []playerState, holder core.ActorID, holderTeam core.Side, holdLen int) {
	opp := holderTeam.Opponent()
	for i := range states {
		if core.ActorID(i) == holder {
			continue
		}
		if states[i].team == opp {
			states[i].stats.HoldAgainst += holdLen
		}
	}
}

// currentlyPlaying reports whether actor has an open join (has not left).
func currentlyPlaying(states []playerState, actor core.ActorID) bool {
	return states[actor].team != core.SideNone
}
