package models

type Championship struct {
	ID          string  `json:"championship_id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Country     string  `json:"country" db:"country"`
	APIID       string  `json:"api_id" db:"api_id"`
	Season      string  `json:"season" db:"season"`
	TotalRounds int     `json:"total_rounds" db:"total_rounds"`
	LogoURL     *string `json:"logo_url,omitempty" db:"logo_url"`
	IsActive    bool    `json:"is_active" db:"is_active"`
}
