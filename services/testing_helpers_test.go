package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
)

var kickoff = time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC)

type testEnv struct {
	store       *repositories.MemoryStore
	points      PointsService
	rankings    RankingService
	leagues     LeagueService
	predictions PredictionService
	now         time.Time
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repositories.NewMemoryStore()
	env := &testEnv{store: store, now: kickoff.Add(-time.Hour)}

	caps := map[models.PlanType]int{models.PlanFree: 0, models.PlanPremium: 2, models.PlanVIP: -1}
	env.points = NewPointsService(store.Matches(), store.Predictions(), store.Users(), discardLogger(), 4)
	env.rankings = NewRankingService(store.Championships(), store.Matches(), store.Predictions(), store.Users(), store.Leagues())
	env.leagues = NewLeagueService(store.Leagues(), store.Users(), store.Championships(), caps, 100)
	env.predictions = NewPredictionService(store.Predictions(), store.Matches(), store.Users(), store.Leagues(),
		func() time.Time { return env.now })

	env.addChampionship(t, "brasileirao", "Brasileirão", 38)
	return env
}

func (e *testEnv) addChampionship(t *testing.T, id, name string, rounds int) {
	t.Helper()
	err := e.store.Championships().Create(context.Background(), &models.Championship{
		ID: id, Name: name, Country: "BR", APIID: "4351", Season: "2026", TotalRounds: rounds, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create championship %s: %v", id, err)
	}
}

func (e *testEnv) addUser(t *testing.T, username string, plan models.PlanType) {
	t.Helper()
	err := e.store.Users().Create(context.Background(), &models.User{Username: username, PinHash: "x", Plan: plan, Country: "BR"})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
}

func (e *testEnv) addMatch(t *testing.T, id string, round int, at time.Time) {
	t.Helper()
	err := e.store.Matches().Upsert(context.Background(), &models.Match{
		ID: id, ChampionshipID: "brasileirao", RoundNumber: round, HomeTeam: "Home " + id, AwayTeam: "Away " + id, KickoffAt: at,
	})
	if err != nil {
		t.Fatalf("create match %s: %v", id, err)
	}
}

func (e *testEnv) predict(t *testing.T, username, matchID string, home, away int) {
	t.Helper()
	_, err := e.predictions.SubmitPrediction(context.Background(), SubmitPredictionInput{
		Username: username, MatchID: matchID, HomePrediction: home, AwayPrediction: away,
	})
	if err != nil {
		t.Fatalf("predict %s %s %d-%d: %v", username, matchID, home, away, err)
	}
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := e.store.Users().GetByUsername(context.Background(), username)
	if err != nil {
		t.Fatalf("get user %s: %v", username, err)
	}
	return u
}

func (e *testEnv) prediction(t *testing.T, username, matchID string) *models.Prediction {
	t.Helper()
	p, err := e.store.Predictions().GetByUserAndMatch(context.Background(), username, matchID)
	if err != nil {
		t.Fatalf("get prediction %s/%s: %v", username, matchID, err)
	}
	return p
}

// pointsState captures every prediction's points and every user's total.
func (e *testEnv) pointsState(t *testing.T) map[string]int {
	t.Helper()
	ctx := context.Background()
	state := make(map[string]int)
	predictions, err := e.store.Predictions().List(ctx, repositories.PredictionFilter{})
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	for _, p := range predictions {
		v := -1
		if p.Points != nil {
			v = *p.Points
		}
		state["p:"+p.Username+"/"+p.MatchID] = v
	}
	users, err := e.store.Users().List(ctx, true)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	for _, u := range users {
		state["u:"+u.Username] = u.TotalPoints
	}
	return state
}

func ptr(v int) *int { return &v }
