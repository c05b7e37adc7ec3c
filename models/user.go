package models

import "time"

type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanPremium PlanType = "premium"
	PlanVIP     PlanType = "vip"
)

func (p PlanType) Valid() bool {
	switch p {
	case PlanFree, PlanPremium, PlanVIP:
		return true
	}
	return false
}

type UserRole string

const (
	RolePlayer UserRole = "player"
	RoleAdmin  UserRole = "admin"
)

type User struct {
	Username      string    `json:"username" db:"username"`
	PinHash       string    `json:"-" db:"pin_hash"`
	Plan          PlanType  `json:"plan" db:"plan"`
	Country       string    `json:"country" db:"country"`
	TotalPoints   int       `json:"total_points" db:"total_points"`
	OwnedLeagues  []string  `json:"owned_leagues" db:"owned_leagues"`
	JoinedLeagues []string  `json:"joined_leagues" db:"joined_leagues"`
	IsBanned      bool      `json:"is_banned" db:"is_banned"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
