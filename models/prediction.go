package models

import "time"

type Prediction struct {
	ID             int64     `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	MatchID        string    `json:"match_id" db:"match_id"`
	ChampionshipID string    `json:"championship_id" db:"championship_id"`
	LeagueID       *string   `json:"league_id" db:"league_id"` // nil for the official context
	RoundNumber    int       `json:"round_number" db:"round_number"`
	HomePrediction int       `json:"home_prediction" db:"home_prediction"`
	AwayPrediction int       `json:"away_prediction" db:"away_prediction"`
	Points         *int      `json:"points" db:"points"` // nil until the match is finished and scored
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ScorelineVotes is how many users predicted one scoreline for a match.
type ScorelineVotes struct {
	MatchID        string `json:"-"`
	HomePrediction int    `json:"home_prediction"`
	AwayPrediction int    `json:"away_prediction"`
	Count          int    `json:"count"`
}

// PublicPrediction is a prediction as seen by other users: guesses on
// unfinished matches stay hidden.
type PublicPrediction struct {
	MatchID        string    `json:"match_id"`
	RoundNumber    int       `json:"round_number"`
	HomeTeam       string    `json:"home_team"`
	AwayTeam       string    `json:"away_team"`
	MatchDate      time.Time `json:"match_date"`
	IsFinished     bool      `json:"is_finished"`
	IsVisible      bool      `json:"is_visible"`
	HomeScore      *int      `json:"home_score"`
	AwayScore      *int      `json:"away_score"`
	HomePrediction *int      `json:"home_prediction"`
	AwayPrediction *int      `json:"away_prediction"`
	Points         *int      `json:"points"`
}
