// Package scoring holds the pure rules of the prediction game: how a guess is
// scored, when a match stops accepting guesses and how leaderboards are built.
package scoring

import "github.com/Dosada05/callclub/models"

const (
	OutcomePoints   = 3
	HomeGoalsPoints = 1
	AwayGoalsPoints = 1

	// MaxPoints is the best score a single prediction can earn.
	MaxPoints = OutcomePoints + HomeGoalsPoints + AwayGoalsPoints
)

type Outcome int

const (
	Draw Outcome = iota
	HomeWin
	AwayWin
)

func (o Outcome) String() string {
	switch o {
	case HomeWin:
		return "home"
	case AwayWin:
		return "away"
	default:
		return "draw"
	}
}

func OutcomeOf(home, away int) Outcome {
	switch {
	case home > away:
		return HomeWin
	case away > home:
		return AwayWin
	default:
		return Draw
	}
}

// Result is the per-rule breakdown of a scored prediction.
type Result struct {
	CorrectOutcome bool
	CorrectHome    bool
	CorrectAway    bool
	Points         int
}

func (r Result) Exact() bool {
	return r.CorrectHome && r.CorrectAway
}

// Evaluate applies the three independent scoring checks to a guess against a
// final score.
func Evaluate(predHome, predAway, actualHome, actualAway int) Result {
	var r Result
	if OutcomeOf(predHome, predAway) == OutcomeOf(actualHome, actualAway) {
		r.CorrectOutcome = true
		r.Points += OutcomePoints
	}
	if predHome == actualHome {
		r.CorrectHome = true
		r.Points += HomeGoalsPoints
	}
	if predAway == actualAway {
		r.CorrectAway = true
		r.Points += AwayGoalsPoints
	}
	return r
}

// Score returns the points for a guess against a final score, in 0..MaxPoints.
func Score(predHome, predAway, actualHome, actualAway int) int {
	return Evaluate(predHome, predAway, actualHome, actualAway).Points
}

// ScorePrediction scores p against m. Unfinished matches and matches without a
// final score yield 0.
func ScorePrediction(p *models.Prediction, m *models.Match) int {
	if p == nil || !m.HasFinalScore() {
		return 0
	}
	return Score(p.HomePrediction, p.AwayPrediction, *m.HomeScore, *m.AwayScore)
}
