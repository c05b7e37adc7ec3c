package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/callclub/models"
)

func TestAdminUserServiceHidesPinHashes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "ana", models.PlanFree)
	svc := NewAdminUserService(env.store.Users())

	if err := svc.UpdatePlan(ctx, "ana", "gold"); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("unknown plan error = %v, want ErrValidationFailed", err)
	}
	if err := svc.UpdatePlan(ctx, "nobody", models.PlanVIP); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}

	users, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].PinHash != "" {
		t.Errorf("users = %+v, want ana without pin hash", users)
	}
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "ana", models.PlanFree)
	env.addUser(t, "bia", models.PlanFree)
	env.addUser(t, "caio", models.PlanPremium)
	env.addUser(t, "duda", models.PlanVIP)
	env.addChampionship(t, "copa", "Copa", 7)
	env.addMatch(t, "m1", 1, kickoff)
	env.addMatch(t, "m2", 1, kickoff)
	env.predict(t, "ana", "m1", 1, 0)
	env.predict(t, "bia", "m1", 1, 1)
	env.predict(t, "bia", "m2", 0, 2)
	if _, err := env.leagues.CreateLeague(ctx, "duda", "brasileirao", "Friends"); err != nil {
		t.Fatal(err)
	}
	if err := env.store.Users().SetBanned(ctx, "bia", true); err != nil {
		t.Fatal(err)
	}

	svc := NewAdminStatsService(env.store.Users(), env.store.Predictions(), env.store.Matches(), env.store.Leagues(), env.store.Championships())
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	want := AdminStats{
		TotalUsers:         4,
		FreeUsers:          2,
		PremiumUsers:       1,
		VIPUsers:           1,
		TotalPredictions:   3,
		TotalMatches:       2,
		TotalLeagues:       1,
		TotalChampionships: 2,
	}
	if *stats != want {
		t.Errorf("stats = %+v, want %+v", *stats, want)
	}
}
