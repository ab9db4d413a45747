package engine

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"tagprostats.dev/engine/internal/core"
)

// Result is the value one Interpreter invocation yields: full-game and
// regulation-only stats per actor, the team each actor finished the game
// on, and the overall score. Nothing downstream mutates an Interpreter's
// internal state directly — persistence consumes this value only.
type Result struct {
	Full       map[core.ActorID]core.PlayerStats
	Regulation map[core.ActorID]core.PlayerStats
	Team       map[core.ActorID]core.Side

	RedScore  int
	BlueScore int

	// WentToOvertime is true iff any event in the timeline fell after the
	// regulation boundary.
	WentToOvertime bool
}

// Interpreter runs the single-pass event-driven state machine over one
// core.Timeline. Each invocation owns its own state vector; nothing is
// shared across concurrent invocations, so a batch reprocess can run one
// Interpreter per game without synchronization.
type Interpreter struct {
	boundary int
	logger   *log.Logger
}

// NewInterpreter returns an Interpreter whose regulation boundary is tick.
// Pass core.RegulationTicks for a game's first segment; the Paused-Game
// Merger passes a resumed segment's own paused_threshold for its second
// Interpreter invocation.
func NewInterpreter(boundary int, logger *log.Logger) *Interpreter {
	if logger == nil {
		logger = log.Default()
	}
	return &Interpreter{boundary: boundary, logger: logger}
}

// Run executes the state machine over tl and returns the derived Result.
// It returns core.UnresolvedTeamError if a player's team can never be
// resolved.
func (in *Interpreter) Run(ctx context.Context, tl core.Timeline) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := len(tl.ActorNames)
	states := make([]playerState, n)
	lastTeam := make([]core.Side, n)
	seen := make([]bool, n)

	var regulation []playerState
	regDone := false

	redScore, blueScore := 0, 0

	for _, ev := range tl.Events {
		seen[ev.Actor] = true

		if !regDone && ev.Tick > in.boundary {
			regulation = takeRegulationSnapshot(states, in.boundary)
			regDone = true
		}

		switch ev.Kind {
		case core.EventJoin:
			in.onJoin(states, lastTeam, ev.Actor, ev.Tick, ev.Team)

		case core.EventLeave:
			closeOut(states, ev.Actor, ev.Tick)

		case core.EventGameEnds:
			wasHolding := closeOut(states, ev.Actor, ev.Tick)
			if wasHolding {
				states[ev.Actor].stats.KeptFlags++
				if regDone {
					regulation[ev.Actor].stats.KeptFlags++
				}
			}

		case core.EventGrab:
			in.onGrab(states, ev.Actor, ev.Tick)

		case core.EventDrop:
			in.onDrop(states, ev.Actor, ev.Tick)

		case core.EventDropTemporary:
			in.onDropTemporary(states, ev.Actor, ev.Tick)

		case core.EventCapture:
			in.onCapture(states, ev.Actor, ev.Tick, &redScore, &blueScore)

		case core.EventPop:
			states[ev.Actor].stats.Pops++

		case core.EventTag:
			states[ev.Actor].stats.Tags++

		case core.EventReturn:
			in.onReturn(states, tl, ev.Actor, ev.Tick)

		case core.EventPowerUp, core.EventGrabDuplicatePowerUp:
			in.onPowerUp(states, ev.Actor)

		case core.EventStartPreventing:
			t := ev.Tick
			states[ev.Actor].preventStart = &t

		case core.EventStopPreventing:
			in.onStopPreventing(states, ev.Actor, ev.Tick)
		}
	}

	if !regDone {
		regulation = snapshotStates(states)
	}

	for actor := 0; actor < n; actor++ {
		if seen[actor] && lastTeam[actor] == core.SideNone {
			return nil, &core.UnresolvedTeamError{GameID: tl.GameID, Player: tl.Name(core.ActorID(actor))}
		}
	}

	result := &Result{
		Full:           make(map[core.ActorID]core.PlayerStats, n),
		Regulation:     make(map[core.ActorID]core.PlayerStats, n),
		Team:           make(map[core.ActorID]core.Side, n),
		RedScore:       redScore,
		BlueScore:      blueScore,
		WentToOvertime: regDone,
	}
	for actor := 0; actor < n; actor++ {
		id := core.ActorID(actor)
		result.Full[id] = states[actor].stats
		result.Regulation[id] = regulation[actor].stats
		if lastTeam[actor] != core.SideNone {
			result.Team[id] = lastTeam[actor]
		}
	}
	return result, nil
}

func (in *Interpreter) onJoin(states []playerState, lastTeam []core.Side, actor core.ActorID, tick int, team core.Side) {
	s := &states[actor]
	s.team = team
	t := tick
	s.joinTime = &t
	lastTeam[actor] = team
}

func (in *Interpreter) onGrab(states []playerState, actor core.ActorID, tick int) {
	s := &states[actor]
	s.stats.Grabs++
	t := tick
	s.grabTime = &t
	s.lastHoldEnd = nil

	if s.team == core.SideNone {
		return
	}

	for i := range states {
		if core.ActorID(i) == actor {
			continue
		}
		mate := &states[i]
		if mate.team != s.team {
			continue
		}
		if mate.lastHoldEnd == nil || mate.grabTime == nil {
			continue
		}
		if tick-*mate.lastHoldEnd >= 120 {
			continue
		}
		priorHold := *mate.lastHoldEnd - *mate.grabTime
		mateID := core.ActorID(i)
		if priorHold < 180 {
			mate.stats.Handoffs++
			s.stats.GrabsOffHandoffs++
			s.handedOffBy = &mateID
		} else {
			s.stats.GrabsOffRegrab++
			s.grabbedOffRegrab = true
		}
		break
	}
}

func (in *Interpreter) onDropTemporary(states []playerState, actor core.ActorID, tick int) {
	s := &states[actor]
	s.stats.Grabs++
	s.stats.Drops++
	s.stats.Pops++
	s.stats.Flaccids++
	t := tick
	s.grabTime = &t
	s.lastHoldEnd = &t
	s.handedOffBy = nil
	s.grabbedOffRegrab = false
}

func (in *Interpreter) onDrop(states []playerState, actor core.ActorID, tick int) {
	s := &states[actor]
	s.stats.Drops++
	s.stats.Pops++

	holdLen := 0
	if s.grabTime != nil {
		holdLen = tick - *s.grabTime
	}
	s.stats.Hold += holdLen
	if holdLen > 600 {
		s.stats.LongHolds++
	}
	if holdLen > 300 && s.handedOffBy != nil {
		states[*s.handedOffBy].stats.GoodHandoffs++
	}
	if holdLen < 120 {
		s.stats.Flaccids++
	}
	creditHoldAgainst(states, actor, s.team, holdLen)

	end := tick
	s.lastHoldEnd = &end
	s.handedOffBy = nil
	s.grabbedOffRegrab = false
}

func (in *Interpreter) onCapture(states []playerState, actor core.ActorID, tick int, redScore, blueScore *int) {
	s := &states[actor]
	s.stats.Captures++

	switch s.team {
	case core.SideRed:
		*redScore++
	case core.SideBlue:
		*blueScore++
	}

	if s.handedOffBy != nil {
		states[*s.handedOffBy].stats.GoodHandoffs++
		s.stats.CapsOffHandoffs++
	}
	if s.grabbedOffRegrab {
		s.stats.CapsOffRegrab++
	}

	holdLen := 0
	if s.grabTime != nil {
		holdLen = tick - *s.grabTime
	}
	s.stats.Hold += holdLen
	if holdLen > 600 {
		s.stats.LongHolds++
	}
	creditHoldAgainst(states, actor, s.team, holdLen)

	end := tick
	s.lastHoldEnd = &end
	s.handedOffBy = nil
	s.grabbedOffRegrab = false

	for i := range states {
		if core.ActorID(i) == actor {
			continue
		}
		other := &states[i]
		if other.team == core.SideNone {
			continue
		}
		if other.team == s.team {
			other.stats.CapsFor++
			if other.lastReturnTime != nil && tick-*other.lastReturnTime < 120 {
				other.stats.KeyReturns++
			}
		} else {
			other.stats.CapsAgainst++
		}
	}
}

func (in *Interpreter) onReturn(states []playerState, tl core.Timeline, actor core.ActorID, tick int) {
	s := &states[actor]
	s.stats.Returns++
	s.stats.Tags++
	t := tick
	s.lastReturnTime = &t

	if s.team == core.SideNone {
		return
	}
	opp := s.team.Opponent()

	for i := range states {
		if core.ActorID(i) == actor {
			continue
		}
		other := &states[i]
		if other.team != opp {
			continue
		}
		if other.lastHoldEnd == nil || *other.lastHoldEnd != tick {
			continue
		}

		if other.grabTime != nil {
			priorHold := *other.lastHoldEnd - *other.grabTime
			if priorHold < 120 {
				s.stats.QuickReturns++
			}
		}

		poppedID := core.ActorID(i)
		splat, ok := tl.SplatAt(tick, poppedID)
		if !ok {
			in.logger.With("game", tl.GameID, "tick", tick, "actor", tl.Name(actor)).
				Debug("orphaned splat: skipping position-based return credits")
			continue
		}

		ownFlag := flagFor(tl.Map, s.team)
		oppFlag := flagFor(tl.Map, opp)

		if distance(splat, ownFlag) < 10 {
			s.stats.ReturnsInBase++
		}
		if distance(splat, oppFlag) < 10 && !anyHolding(states, opp) {
			s.stats.Saves++
		}
	}
}

func (in *Interpreter) onPowerUp(states []playerState, actor core.ActorID) {
	states[actor].stats.Powerups++
	for i := range states {
		if states[i].team != core.SideNone {
			states[i].stats.TotalPupsInGame++
		}
	}
}

func (in *Interpreter) onStopPreventing(states []playerState, actor core.ActorID, tick int) {
	s := &states[actor]
	if s.preventStart == nil {
		in.logger.With("actor", actor).Debug("stop-preventing with no open start: ignoring")
		return
	}
	s.stats.Prevent += tick - *s.preventStart
	s.preventStart = nil
}

func anyHolding(states []playerState, team core.Side) bool {
	for i := range states {
		if states[i].team == team && states[i].grabTime != nil && states[i].lastHoldEnd == nil {
			return true
		}
	}
	return false
}

func flagFor(m core.MapGeometry, side core.Side) core.FlagPosition {
	if side == core.SideRed {
		return m.RedFlag
	}
	return m.BlueFlag
}

func distance(s core.Splat, f core.FlagPosition) float64 {
	dx := s.X - f.X
	dy := s.Y - f.Y
	return math.Sqrt(dx*dx + dy*dy)
}
