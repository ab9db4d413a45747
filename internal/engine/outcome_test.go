package engine

import (
	"testing"

	"tagprostats.dev/engine/internal/core"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name                   string
		team1, team2           int
		ot                     bool
		wantOutcome            core.Outcome
		wantP1, wantP2         int
	}{
		{"regulation win", 3, 1, false, core.OutcomeWin, 3, 0},
		{"regulation loss", 1, 3, false, core.OutcomeLoss, 0, 3},
		{"overtime win", 3, 2, true, core.OutcomeOTWin, 2, 1},
		{"overtime loss", 2, 3, true, core.OutcomeOTLoss, 1, 2},
		{"tie", 2, 2, false, core.OutcomeTie, 1, 1},
		{"tie in overtime is still a tie", 2, 2, true, core.OutcomeTie, 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			outcome, p1, p2 := Classify(c.team1, c.team2, c.ot)
			if outcome != c.wantOutcome || p1 != c.wantP1 || p2 != c.wantP2 {
				t.Fatalf("Classify(%d, %d, %v) = %v %d/%d, want %v %d/%d",
					c.team1, c.team2, c.ot, outcome, p1, p2, c.wantOutcome, c.wantP1, c.wantP2)
			}
			if p1+p2 != 3 {
				t.Fatalf("standing points must sum to 3, got %d+%d", p1, p2)
			}
		})
	}
}

func TestClassifyFromSides(t *testing.T) {
	const (
		redTeam  core.TeamSeasonID = 10
		blueTeam core.TeamSeasonID = 20
	)

	t.Run("team1 plays red", func(t *testing.T) {
		outcome, t1Score, t2Score, p1, p2 := ClassifyFromSides(4, 2, redTeam, redTeam, false)
		if outcome != core.OutcomeWin || t1Score != 4 || t2Score != 2 || p1 != 3 || p2 != 0 {
			t.Fatalf("got %v %d-%d %d/%d", outcome, t1Score, t2Score, p1, p2)
		}
	})

	t.Run("team1 plays blue", func(t *testing.T) {
		outcome, t1Score, t2Score, p1, p2 := ClassifyFromSides(4, 2, redTeam, blueTeam, false)
		if outcome != core.OutcomeLoss || t1Score != 2 || t2Score != 4 || p1 != 0 || p2 != 3 {
			t.Fatalf("got %v %d-%d %d/%d", outcome, t1Score, t2Score, p1, p2)
		}
	})
}
