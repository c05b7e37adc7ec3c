package models

// RankingEntry is one row of a leaderboard. It is derived on every read and
// never stored.
type RankingEntry struct {
	Position         int     `json:"position"`
	Username         string  `json:"username"`
	TotalPoints      int     `json:"total_points"`
	CorrectResults   int     `json:"correct_results"`
	CorrectHomeGoals int     `json:"correct_home_goals"`
	CorrectAwayGoals int     `json:"correct_away_goals"`
	ExactScores      int     `json:"exact_scores"`
	TotalPredictions int     `json:"total_predictions"`
	Efficiency       float64 `json:"efficiency"`
}
