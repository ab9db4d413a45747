// Package timeline implements Component C1, the Timeline Source: given a
// match identifier it yields the core.Timeline the interpreter consumes —
// an ordered (tick, event, actor) stream plus map geometry and splat
// records. ArchiveSource serves the bulk matches/maps index that is
// loaded once per process; LiveSource is the on-demand fetch-by-id
// fallback for a match the archive hasn't picked up yet. Combined wires
// the two together the way a caller actually wants them: archive first,
// live fetch only on a miss.
package timeline

import (
	"context"
	"sort"

	"tagprostats.dev/engine/internal/core"
)

// rawArchive is the bulk matches/maps index as published by the archive
// host: one entry per recorded match, keyed by its tagpro.eu match id.
type rawArchive map[string]rawMatch

// rawMatch is one match's raw timeline, in the shape both the bulk
// archive and the live fetch-by-id endpoint return it.
type rawMatch struct {
	Map     rawMap               `json:"map"`
	Players map[string]rawPlayer `json:"players"`
}

type rawMap struct {
	Name     string     `json:"name"`
	RedFlag  [2]float64 `json:"redFlag"`
	BlueFlag [2]float64 `json:"blueFlag"`
}

type rawPlayer struct {
	Events []rawEvent `json:"events"`
	Splats []rawSplat `json:"splats"`
}

// rawEvent is one (tick, event, actor) triple before it's mapped to
// core.EventKind. Team is only populated alongside a "join" event.
type rawEvent struct {
	Tick int    `json:"tick"`
	Type string `json:"type"`
	Team string `json:"team,omitempty"`
}

type rawSplat struct {
	Tick int     `json:"tick"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

var eventKindByLabel = map[string]core.EventKind{
	"join":                   core.EventJoin,
	"leave":                  core.EventLeave,
	"gameends":               core.EventGameEnds,
	"grab":                   core.EventGrab,
	"drop":                   core.EventDrop,
	"droptemporary":          core.EventDropTemporary,
	"capture":                core.EventCapture,
	"pop":                    core.EventPop,
	"tag":                    core.EventTag,
	"return":                 core.EventReturn,
	"powerup":                core.EventPowerUp,
	"grabduplicatepowerup":   core.EventGrabDuplicatePowerUp,
	"startpreventing":        core.EventStartPreventing,
	"stoppreventing":         core.EventStopPreventing,
}

func parseEventKind(label string) (core.EventKind, bool) {
	kind, ok := eventKindByLabel[normalizeLabel(label)]
	return kind, ok
}

func normalizeLabel(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}

func parseSide(team string) core.Side {
	switch normalizeLabel(team) {
	case "red":
		return core.SideRed
	case "blue":
		return core.SideBlue
	default:
		return core.SideNone
	}
}

// buildTimeline turns one rawMatch into the core.Timeline the interpreter
// consumes: usernames are interned into ActorIDs in a stable (sorted)
// order so the same source file always yields the same ids, and events
// are sorted per spec — (tick, event-label, actor) — since the source is
// the one component responsible for handing the interpreter an
// already-ordered stream.
func buildTimeline(matchID string, rm rawMatch) core.Timeline {
	usernames := make([]string, 0, len(rm.Players))
	for name := range rm.Players {
		usernames = append(usernames, name)
	}
	sort.Strings(usernames)

	actorNames := make([]string, len(usernames))
	actorByName := make(map[string]core.ActorID, len(usernames))
	for i, name := range usernames {
		actorNames[i] = name
		actorByName[name] = core.ActorID(i)
	}

	var events []core.Event
	var splats []core.Splat
	for _, name := range usernames {
		actor := actorByName[name]
		p := rm.Players[name]
		for _, e := range p.Events {
			kind, ok := parseEventKind(e.Type)
			if !ok {
				continue
			}
			events = append(events, core.Event{Tick: e.Tick, Kind: kind, Actor: actor, Team: parseSide(e.Team)})
		}
		for _, sp := range p.Splats {
			splats = append(splats, core.Splat{Tick: sp.Tick, Actor: actor, X: sp.X, Y: sp.Y})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Tick != events[j].Tick {
			return events[i].Tick < events[j].Tick
		}
		if events[i].Kind.Label() != events[j].Kind.Label() {
			return events[i].Kind.Label() < events[j].Kind.Label()
		}
		return events[i].Actor < events[j].Actor
	})

	return core.Timeline{
		GameID: matchID,
		Map: core.MapGeometry{
			Name:     rm.Map.Name,
			RedFlag:  core.FlagPosition{X: rm.Map.RedFlag[0], Y: rm.Map.RedFlag[1]},
			BlueFlag: core.FlagPosition{X: rm.Map.BlueFlag[0], Y: rm.Map.BlueFlag[1]},
		},
		Events:     events,
		Splats:     splats,
		ActorNames: actorNames,
	}
}

// Source is the common interface both ArchiveSource and LiveSource (and
// their Combined wiring) satisfy, so the interpreter's caller never needs
// to know which one is in play.
type Source interface {
	Timeline(ctx context.Context, matchID string) (core.Timeline, error)
}
