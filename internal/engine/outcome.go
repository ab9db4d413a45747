package engine

import "tagprostats.dev/engine/internal/core"

// Classify derives a game's outcome code and standing points from the
// final team1/team2 scores and the overtime flag. Scores
// are always expressed from team1's perspective; ClassifyFromSides converts
// red/blue scores to team1/team2 first when needed.
func Classify(team1Score, team2Score int, wentToOvertime bool) (outcome core.Outcome, team1Points, team2Points int) {
	switch {
	case team1Score > team2Score && !wentToOvertime:
		return core.OutcomeWin, 3, 0
	case team1Score > team2Score && wentToOvertime:
		return core.OutcomeOTWin, 2, 1
	case team2Score > team1Score && !wentToOvertime:
		return core.OutcomeLoss, 0, 3
	case team2Score > team1Score && wentToOvertime:
		return core.OutcomeOTLoss, 1, 2
	default:
		return core.OutcomeTie, 1, 1
	}
}

// ClassifyFromSides converts red/blue scores to team1/team2 scores using
// the match's red-team mapping, then classifies. redTeam is the
// TeamSeasonID playing red in this game; team1 is the match's Team1.
func ClassifyFromSides(redScore, blueScore int, redTeam, team1 core.TeamSeasonID, wentToOvertime bool) (outcome core.Outcome, team1Score, team2Score, team1Points, team2Points int) {
	if redTeam == team1 {
		team1Score, team2Score = redScore, blueScore
	} else {
		team1Score, team2Score = blueScore, redScore
	}
	outcome, team1Points, team2Points = Classify(team1Score, team2Score, wentToOvertime)
	return outcome, team1Score, team2Score, team1Points, team2Points
}
