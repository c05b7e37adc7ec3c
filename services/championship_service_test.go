package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCreateChampionshipSlugsName(t *testing.T) {
	env := newTestEnv(t)
	svc := NewChampionshipService(env.store.Championships(), env.store.Matches(), nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, CreateChampionshipInput{Name: "Série B Brasileira", APIID: "4404"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != "serie-b-brasileira" {
		t.Errorf("id = %q, want %q", c.ID, "serie-b-brasileira")
	}
	if c.TotalRounds != 38 || c.Season != "2026" || c.Country != "BR" || !c.IsActive {
		t.Errorf("defaults = %+v", c)
	}

	if _, err := svc.Create(ctx, CreateChampionshipInput{Name: "Série B Brasileira"}); !errors.Is(err, ErrChampionshipConflict) {
		t.Errorf("duplicate error = %v, want ErrChampionshipConflict", err)
	}
	if _, err := svc.Create(ctx, CreateChampionshipInput{Name: ""}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("empty name error = %v, want ErrValidationFailed", err)
	}
}

func TestUpsertMatchKeepsResult(t *testing.T) {
	env := newTestEnv(t)
	svc := NewChampionshipService(env.store.Championships(), env.store.Matches(), nil)
	ctx := context.Background()

	input := UpsertMatchInput{ID: "m1", ChampionshipID: "brasileirao", RoundNumber: 1, HomeTeam: "Bahia", AwayTeam: "Vasco", KickoffAt: kickoff}
	if _, err := svc.UpsertMatch(ctx, input); err != nil {
		t.Fatalf("UpsertMatch: %v", err)
	}
	if _, err := env.points.OnMatchFinished(ctx, "m1", 2, 2); err != nil {
		t.Fatal(err)
	}

	input.KickoffAt = kickoff.Add(time.Hour)
	m, err := svc.UpsertMatch(ctx, input)
	if err != nil {
		t.Fatal(err)
	}
	if !m.HasFinalScore() || *m.HomeScore != 2 {
		t.Errorf("match = %+v, want result kept", m)
	}

	matches, err := svc.MatchesByRound(ctx, "brasileirao", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || !matches[0].KickoffAt.Equal(kickoff.Add(time.Hour)) {
		t.Errorf("matches = %+v, want the rescheduled match", matches)
	}

	input.ChampionshipID = "serie-z"
	input.ID = "m2"
	if _, err := svc.UpsertMatch(ctx, input); !errors.Is(err, ErrChampionshipNotFound) {
		t.Errorf("unknown championship error = %v, want ErrChampionshipNotFound", err)
	}
	if _, err := svc.MatchesByRound(ctx, "brasileirao", 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("round 0 error = %v, want ErrInvalidInput", err)
	}

	details, err := svc.Get(ctx, "brasileirao")
	if err != nil {
		t.Fatal(err)
	}
	if details.CurrentRound != 1 {
		t.Errorf("current round = %d, want 1", details.CurrentRound)
	}
}

func TestNextMatch(t *testing.T) {
	env := newTestEnv(t)
	svc := NewChampionshipService(env.store.Championships(), env.store.Matches(), func() time.Time { return env.now })
	ctx := context.Background()

	env.addMatch(t, "started", 1, kickoff.Add(-2*time.Hour))
	env.addMatch(t, "later", 1, kickoff.Add(2*time.Hour))
	env.addMatch(t, "soonest", 2, kickoff.Add(time.Hour))
	env.addMatch(t, "done", 2, kickoff.Add(30*time.Minute))
	if _, err := env.points.OnMatchFinished(ctx, "done", 0, 0); err != nil {
		t.Fatal(err)
	}

	next, err := svc.NextMatch(ctx, "brasileirao")
	if err != nil {
		t.Fatalf("NextMatch: %v", err)
	}
	if next.ID != "soonest" {
		t.Errorf("next match = %s, want soonest", next.ID)
	}

	for _, id := range []string{"later", "soonest"} {
		if _, err := env.points.OnMatchFinished(ctx, id, 1, 0); err != nil {
			t.Fatal(err)
		}
	}
	next, err = svc.NextMatch(ctx, "brasileirao")
	if err != nil {
		t.Fatalf("NextMatch without upcoming fixtures: %v", err)
	}
	if next.ID != "started" {
		t.Errorf("fallback match = %s, want started", next.ID)
	}

	if _, err := env.points.OnMatchFinished(ctx, "started", 1, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.NextMatch(ctx, "brasileirao"); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("all finished error = %v, want ErrMatchNotFound", err)
	}
	if _, err := svc.NextMatch(ctx, "serie-z"); !errors.Is(err, ErrChampionshipNotFound) {
		t.Errorf("unknown championship error = %v, want ErrChampionshipNotFound", err)
	}
}

func TestRoundsMarksCurrent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewChampionshipService(env.store.Championships(), env.store.Matches(), nil)
	ctx := context.Background()
	env.addChampionship(t, "copa", "Copa", 3)

	for _, in := range []UpsertMatchInput{
		{ID: "c1", ChampionshipID: "copa", RoundNumber: 1, HomeTeam: "Bahia", AwayTeam: "Vasco", KickoffAt: kickoff},
		{ID: "c2", ChampionshipID: "copa", RoundNumber: 2, HomeTeam: "Vasco", AwayTeam: "Bahia", KickoffAt: kickoff.AddDate(0, 0, 7)},
	} {
		if _, err := svc.UpsertMatch(ctx, in); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := env.points.OnMatchFinished(ctx, "c1", 1, 0); err != nil {
		t.Fatal(err)
	}

	rounds, err := svc.Rounds(ctx, "copa")
	if err != nil {
		t.Fatalf("Rounds: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("len(rounds) = %d, want 3", len(rounds))
	}
	for i, r := range rounds {
		if r.RoundNumber != i+1 || r.ChampionshipID != "copa" || r.IsCurrent != (i+1 == 2) {
			t.Errorf("rounds[%d] = %+v, want round %d current only at 2", i, r, i+1)
		}
	}

	if _, err := svc.Rounds(ctx, "serie-z"); !errors.Is(err, ErrChampionshipNotFound) {
		t.Errorf("unknown championship error = %v, want ErrChampionshipNotFound", err)
	}
}
