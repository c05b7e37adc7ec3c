package models

import (
	"slices"
	"time"
)

type League struct {
	ID             string    `json:"league_id" db:"id"`
	Name           string    `json:"name" db:"name"`
	OwnerUsername  string    `json:"owner_username" db:"owner_username"`
	InviteCode     string    `json:"invite_code" db:"invite_code"`
	ChampionshipID string    `json:"championship_id" db:"championship_id"`
	Members        []string  `json:"members" db:"members"`
	MaxMembers     int       `json:"max_members" db:"max_members"`
	IsActive       bool      `json:"is_active" db:"is_active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

func (l *League) HasMember(username string) bool {
	return slices.Contains(l.Members, username)
}

func (l *League) IsFull() bool {
	return l.MaxMembers > 0 && len(l.Members) >= l.MaxMembers
}
