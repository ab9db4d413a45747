package engine

import "tagprostats.dev/engine/internal/core"

// takeRegulationSnapshot implements the Overtime Splitter (C3): a value
// copy of the live per-player state, closed out at boundary exactly as
// Leave/GameEnds would close it out, without mutating the live state the
// Interpreter keeps advancing. If the timeline never crosses boundary, the
// caller falls back to a plain copy of the final state instead of calling
// this, since the regulation snapshot would just equal the final stats.
func takeRegulationSnapshot(states []playerState, boundary int) []playerState {
	snap := snapshotStates(states)
	for actor := range snap {
		closeOut(snap, core.ActorID(actor), boundary)
	}
	return snap
}
