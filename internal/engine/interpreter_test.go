package engine

import (
	"context"
	"testing"

	"tagprostats.dev/engine/internal/core"
)

func buildTimeline(gameID string, events []core.Event, splats []core.Splat, names []string) core.Timeline {
	return core.Timeline{
		GameID: gameID,
		Map: core.MapGeometry{
			Name:     "testmap",
			RedFlag:  core.FlagPosition{X: 1, Y: 1},
			BlueFlag: core.FlagPosition{X: 50, Y: 50},
		},
		Events:     events,
		Splats:     splats,
		ActorNames: names,
	}
}

func TestCleanRegulationWin(t *testing.T) {
	const (
		red0 core.ActorID = iota
		blue0
	)
	events := []core.Event{
		{Tick: 0, Kind: core.EventJoin, Actor: red0, Team: core.SideRed},
		{Tick: 0, Kind: core.EventJoin, Actor: blue0, Team: core.SideBlue},
		{Tick: 990, Kind: core.EventGrab, Actor: red0},
		{Tick: 1000, Kind: core.EventCapture, Actor: red0},
		{Tick: 1490, Kind: core.EventGrab, Actor: blue0},
		{Tick: 1500, Kind: core.EventCapture, Actor: blue0},
		{Tick: 1990, Kind: core.EventGrab, Actor: red0},
		{Tick: 2000, Kind: core.EventCapture, Actor: red0},
		{Tick: 2990, Kind: core.EventGrab, Actor: red0},
		{Tick: 3000, Kind: core.EventCapture, Actor: red0},
		{Tick: core.RegulationTicks, Kind: core.EventGameEnds, Actor: red0},
		{Tick: core.RegulationTicks, Kind: core.EventGameEnds, Actor: blue0},
	}
	tl := buildTimeline("g1", events, nil, []string{"Red0", "Blue0"})

	interp := NewInterpreter(core.RegulationTicks, nil)
	result, err := interp.Run(context.Background(), tl)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.WentToOvertime {
		t.Fatalf("expected no overtime")
	}
	if result.RedScore != 3 || result.BlueScore != 1 {
		t.Fatalf("scores = %d-%d, want 3-1", result.RedScore, result.BlueScore)
	}
	if result.Full[red0].Captures != 3 {
		t.Fatalf("red captures = %d, want 3", result.Full[red0].Captures)
	}
	if !result.Full[red0].LessOrEqual(result.Full[red0]) {
		t.Fatalf("LessOrEqual reflexivity broken")
	}
	if result.Regulation[red0] != result.Full[red0] {
		t.Fatalf("regulation stats should equal full-game stats when the timeline never crosses the boundary")
	}

	outcome, t1, t2 := Classify(result.RedScore, result.BlueScore, result.WentToOvertime)
	if outcome != core.OutcomeWin || t1 != 3 || t2 != 0 {
		t.Fatalf("Classify = %v %d/%d, want W 3/0", outcome, t1, t2)
	}
}

func TestOvertimeCapture(t *testing.T) {
	const (
		red0 core.ActorID = iota
		blue0
	)
	events := []core.Event{
		{Tick: 0, Kind: core.EventJoin, Actor: red0, Team: core.SideRed},
		{Tick: 0, Kind: core.EventJoin, Actor: blue0, Team: core.SideBlue},
		{Tick: 990, Kind: core.EventGrab, Actor: red0},
		{Tick: 1000, Kind: core.EventCapture, Actor: red0},
		{Tick: 1990, Kind: core.EventGrab, Actor: blue0},
		{Tick: 2000, Kind: core.EventCapture, Actor: blue0},
		{Tick: 2990, Kind: core.EventGrab, Actor: red0},
		{Tick: 3000, Kind: core.EventCapture, Actor: red0}, // 2-1 now, still regulation
		{Tick: 3990, Kind: core.EventGrab, Actor: blue0},
		{Tick: 4000, Kind: core.EventCapture, Actor: blue0}, // 2-2 at end of regulation
		{Tick: 37990, Kind: core.EventGrab, Actor: red0},
		{Tick: 38000, Kind: core.EventCapture, Actor: red0}, // OT winner, 3-2
		{Tick: 38000, Kind: core.EventGameEnds, Actor: red0},
		{Tick: 38000, Kind: core.EventGameEnds, Actor: blue0},
	}
	tl := buildTimeline("g2", events, nil, []string{"Red0", "Blue0"})

	interp := NewInterpreter(core.RegulationTicks, nil)
	result, err := interp.Run(context.Background(), tl)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.WentToOvertime {
		t.Fatalf("expected overtime")
	}
	if result.RedScore != 3 || result.BlueScore != 2 {
		t.Fatalf("scores = %d-%d, want 3-2", result.RedScore, result.BlueScore)
	}
	if result.Full[red0].Captures != 3 {
		t.Fatalf("red full captures = %d, want 3", result.Full[red0].Captures)
	}
	if result.Regulation[red0].Captures != 2 {
		t.Fatalf("red regulation captures = %d, want 2", result.Regulation[red0].Captures)
	}
	if result.Regulation[blue0].CapsAgainst != 2 {
		t.Fatalf("blue regulation caps_against = %d, want 2", result.Regulation[blue0].CapsAgainst)
	}
	if result.Full[blue0].CapsAgainst != 3 {
		t.Fatalf("blue full caps_against = %d, want 3", result.Full[blue0].CapsAgainst)
	}

	outcome, t1, t2 := Classify(result.RedScore, result.BlueScore, result.WentToOvertime)
	if outcome != core.OutcomeOTWin || t1 != 2 || t2 != 1 {
		t.Fatalf("Classify = %v %d/%d, want OTW 2/1", outcome, t1, t2)
	}
}

func TestHandoffCredit(t *testing.T) {
	const (
		playerA core.ActorID = iota
		playerB
		blue0
	)
	events := []core.Event{
		{Tick: 0, Kind: core.EventJoin, Actor: playerA, Team: core.SideRed},
		{Tick: 0, Kind: core.EventJoin, Actor: playerB, Team: core.SideRed},
		{Tick: 0, Kind: core.EventJoin, Actor: blue0, Team: core.SideBlue},
		{Tick: 1000, Kind: core.EventGrab, Actor: playerA},
		{Tick: 1150, Kind: core.EventDrop, Actor: playerA}, // hold 150 < 180
		{Tick: 1250, Kind: core.EventGrab, Actor: playerB},  // within 120 of A's drop -> handoff
		{Tick: 1550, Kind: core.EventCapture, Actor: playerB}, // handoff resolved in a capture
	}
	tl := buildTimeline("g3", events, nil, []string{"A", "B", "Blue0"})

	interp := NewInterpreter(core.RegulationTicks, nil)
	result, err := interp.Run(context.Background(), tl)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	a := result.Full[playerA]
	b := result.Full[playerB]
	if a.Handoffs != 1 {
		t.Fatalf("A handoffs = %d, want 1", a.Handoffs)
	}
	if b.GrabsOffHandoffs != 1 {
		t.Fatalf("B grabs_off_handoffs = %d, want 1", b.GrabsOffHandoffs)
	}
	if b.CapsOffHandoffs != 1 {
		t.Fatalf("B caps_off_handoffs = %d, want 1", b.CapsOffHandoffs)
	}
	// A handed off to B, and B's possession ended in a capture: that alone
	// credits A with a good handoff, independent of how long B held it.
	if a.GoodHandoffs != 1 {
		t.Fatalf("A good_handoffs = %d, want 1", a.GoodHandoffs)
	}
}

func TestQuickReturn(t *testing.T) {
	const (
		red0 core.ActorID = iota
		blue0
	)
	events := []core.Event{
		{Tick: 0, Kind: core.EventJoin, Actor: red0, Team: core.SideRed},
		{Tick: 0, Kind: core.EventJoin, Actor: blue0, Team: core.SideBlue},
		{Tick: 5000, Kind: core.EventGrab, Actor: red0},
		{Tick: 5100, Kind: core.EventDrop, Actor: red0}, // held 100 ticks, popped the same tick as the return
		{Tick: 5100, Kind: core.EventReturn, Actor: blue0},
	}
	splats := []core.Splat{
		{Tick: 5100, Actor: red0, X: 1000, Y: 1000}, // far from both flags, no save/base credit
	}
	tl := buildTimeline("g4", events, splats, []string{"Red0", "Blue0"})

	interp := NewInterpreter(core.RegulationTicks, nil)
	result, err := interp.Run(context.Background(), tl)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Full[blue0].QuickReturns != 1 {
		t.Fatalf("blue quick_returns = %d, want 1", result.Full[blue0].QuickReturns)
	}
}

func TestSaveDetection(t *testing.T) {
	const (
		red0 core.ActorID = iota
		blue0
	)
	events := []core.Event{
		{Tick: 0, Kind: core.EventJoin, Actor: red0, Team: core.SideRed},
		{Tick: 0, Kind: core.EventJoin, Actor: blue0, Team: core.SideBlue},
		{Tick: 1000, Kind: core.EventGrab, Actor: red0},
		{Tick: 1300, Kind: core.EventDrop, Actor: red0}, // held 300 ticks, popped the same tick as the return
		{Tick: 1300, Kind: core.EventReturn, Actor: blue0},
	}
	splats := []core.Splat{
		{Tick: 1300, Actor: red0, X: 2, Y: 2}, // near the red flag: the blue returner saved an imminent capture
	}
	tl := buildTimeline("g5", events, splats, []string{"Red0", "Blue0"})

	interp := NewInterpreter(core.RegulationTicks, nil)
	result, err := interp.Run(context.Background(), tl)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Full[blue0].Saves != 1 {
		t.Fatalf("blue saves = %d, want 1", result.Full[blue0].Saves)
	}
}

func TestOrphanedSplatDoesNotAbort(t *testing.T) {
	const (
		red0 core.ActorID = iota
		blue0
	)
	events := []core.Event{
		{Tick: 0, Kind: core.EventJoin, Actor: red0, Team: core.SideRed},
		{Tick: 0, Kind: core.EventJoin, Actor: blue0, Team: core.SideBlue},
		{Tick: 1000, Kind: core.EventGrab, Actor: red0},
		{Tick: 1300, Kind: core.EventDrop, Actor: red0}, // held 300 ticks, popped the same tick as the return
		{Tick: 1300, Kind: core.EventReturn, Actor: blue0},
	}
	tl := buildTimeline("g6", events, nil, []string{"Red0", "Blue0"}) // no splats at all

	interp := NewInterpreter(core.RegulationTicks, nil)
	result, err := interp.Run(context.Background(), tl)
	if err != nil {
		t.Fatalf("Run should not error on an orphaned splat: %v", err)
	}
	if result.Full[blue0].Returns != 1 {
		t.Fatalf("blue returns = %d, want 1", result.Full[blue0].Returns)
	}
	if result.Full[blue0].Saves != 0 || result.Full[blue0].ReturnsInBase != 0 {
		t.Fatalf("position-based credits should be skipped for an orphaned splat")
	}
}

func TestJoinAndImmediateLeaveSameTick(t *testing.T) {
	const red0 core.ActorID = 0
	events := []core.Event{
		{Tick: 500, Kind: core.EventJoin, Actor: red0, Team: core.SideRed},
		{Tick: 500, Kind: core.EventLeave, Actor: red0},
	}
	tl := buildTimeline("g7", events, nil, []string{"Red0"})

	interp := NewInterpreter(core.RegulationTicks, nil)
	result, err := interp.Run(context.Background(), tl)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Full[red0].TimePlayed != 0 {
		t.Fatalf("time_played = %d, want 0", result.Full[red0].TimePlayed)
	}
}

func TestUnresolvedTeamIsFatal(t *testing.T) {
	const ghost core.ActorID = 0
	events := []core.Event{
		{Tick: 100, Kind: core.EventGrab, Actor: ghost},
	}
	tl := buildTimeline("g8", events, nil, []string{"Ghost"})

	interp := NewInterpreter(core.RegulationTicks, nil)
	_, err := interp.Run(context.Background(), tl)
	if !core.IsUnresolvedTeam(err) {
		t.Fatalf("expected UnresolvedTeamError, got %v", err)
	}
}
