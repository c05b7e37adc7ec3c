package models

import "time"

type Match struct {
	ID             string    `json:"match_id" db:"id"`
	ChampionshipID string    `json:"championship_id" db:"championship_id"`
	RoundNumber    int       `json:"round_number" db:"round_number"`
	HomeTeam       string    `json:"home_team" db:"home_team"`
	AwayTeam       string    `json:"away_team" db:"away_team"`
	HomeScore      *int      `json:"home_score" db:"home_score"`
	AwayScore      *int      `json:"away_score" db:"away_score"`
	KickoffAt      time.Time `json:"match_date" db:"kickoff_at"`
	Venue          *string   `json:"venue,omitempty" db:"venue"`
	IsFinished     bool      `json:"is_finished" db:"is_finished"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// HasFinalScore reports whether the match is finished and carries both scores.
func (m *Match) HasFinalScore() bool {
	return m != nil && m.IsFinished && m.HomeScore != nil && m.AwayScore != nil
}
