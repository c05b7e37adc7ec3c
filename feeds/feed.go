// Package feeds pulls fixtures and results from external sports data
// providers.
package feeds

import (
	"context"
	"time"
)

// Fixture is one match as reported by a provider. Scores are nil until the
// provider has a final result.
type Fixture struct {
	ExternalID string
	Round      int
	HomeTeam   string
	AwayTeam   string
	KickoffAt  time.Time
	Venue      *string
	HomeScore  *int
	AwayScore  *int
	Finished   bool
}

type FixtureFeed interface {
	// RoundFixtures returns the fixtures of one round of a provider league
	// season. An unknown round yields an empty slice.
	RoundFixtures(ctx context.Context, leagueAPIID, season string, round int) ([]Fixture, error)
}
