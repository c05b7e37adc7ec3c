package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Dosada05/callclub/feeds"
	"github.com/Dosada05/callclub/handlers"
	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
	"github.com/Dosada05/callclub/services"
	"github.com/go-chi/chi/v5"
)

const (
	testSecret        = "routes-test-secret"
	testAdminPassword = "admin-pass"
)

var kickoff = time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC)

type emptyFeed struct{}

func (emptyFeed) RoundFixtures(context.Context, string, string, int) ([]feeds.Fixture, error) {
	return nil, nil
}

type testServer struct {
	router http.Handler
	now    time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := repositories.NewMemoryStore()
	ts := &testServer{now: kickoff.Add(-time.Hour)}

	caps := map[models.PlanType]int{models.PlanFree: 0, models.PlanPremium: 2, models.PlanVIP: -1}
	points := services.NewPointsService(store.Matches(), store.Predictions(), store.Users(), logger, 4)
	rankings := services.NewRankingService(store.Championships(), store.Matches(), store.Predictions(), store.Users(), store.Leagues())
	leagues := services.NewLeagueService(store.Leagues(), store.Users(), store.Championships(), caps, 100)
	predictions := services.NewPredictionService(store.Predictions(), store.Matches(), store.Users(), store.Leagues(),
		func() time.Time { return ts.now })
	championships := services.NewChampionshipService(store.Championships(), store.Matches(), func() time.Time { return ts.now })
	snapshots := services.NewSnapshotService(store.Championships(), rankings, nil, logger)
	sync := services.NewSyncService(store.Championships(), store.Matches(), emptyFeed{}, points, snapshots, logger)

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Auth:         handlers.NewAuthHandler(services.NewAuthService(store.Users(), testAdminPassword), testSecret),
		Prediction:   handlers.NewPredictionHandler(predictions),
		Ranking:      handlers.NewRankingHandler(rankings),
		League:       handlers.NewLeagueHandler(leagues, rankings),
		Championship: handlers.NewChampionshipHandler(championships),
		AdminUser:    handlers.NewAdminUserHandler(services.NewAdminUserService(store.Users())),
		AdminResults: handlers.NewAdminResultsHandler(points, sync, snapshots),
		AdminStats: handlers.NewAdminStatsHandler(services.NewAdminStatsService(
			store.Users(), store.Predictions(), store.Matches(), store.Leagues(), store.Championships())),
		Profile: handlers.NewProfileHandler(services.NewProfileService(
			store.Users(), store.Predictions(), store.Matches(), store.Leagues(), caps, 100)),
		Health: handlers.NewHealthHandler(nil),
	}, Options{JWTSecret: testSecret, AllowedOrigins: []string{"*"}})
	ts.router = router
	return ts
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) expect(t *testing.T, want int, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	rec := s.do(t, method, path, token, body)
	if rec.Code != want {
		t.Fatalf("%s %s: status = %d, want %d (body %s)", method, path, rec.Code, want, rec.Body.String())
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
}

func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	rec := s.expect(t, http.StatusCreated, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": username, "pin": "1234", "country": "br"})
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)
	if out.Token == "" {
		t.Fatalf("register %s: empty token", username)
	}
	return out.Token
}

func (s *testServer) adminToken(t *testing.T) string {
	t.Helper()
	rec := s.expect(t, http.StatusOK, http.MethodPost, "/api/admin/login", "", map[string]string{"password": testAdminPassword})
	var out struct {
		Token string `json:"token"`
	}
	decode(t, rec, &out)
	return out.Token
}

func (s *testServer) seedMatch(t *testing.T, admin string) {
	t.Helper()
	s.expect(t, http.StatusCreated, http.MethodPost, "/api/admin/championships", admin, map[string]interface{}{
		"championship_id": "brasileirao", "name": "Brasileirão", "api_id": "4351", "total_rounds": 38,
	})
	s.expect(t, http.StatusOK, http.MethodPut, "/api/admin/matches", admin, map[string]interface{}{
		"match_id": "m1", "championship_id": "brasileirao", "round_number": 1,
		"home_team": "Flamengo", "away_team": "Palmeiras", "match_date": kickoff,
	})
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	s.expect(t, http.StatusOK, http.MethodGet, "/health", "", nil)
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)
	player := s.register(t, "ana")

	s.expect(t, http.StatusUnauthorized, http.MethodPost, "/api/predictions", "", map[string]interface{}{"match_id": "m1"})
	s.expect(t, http.StatusForbidden, http.MethodPost, "/api/admin/recalculate", player, nil)
	s.expect(t, http.StatusUnauthorized, http.MethodPost, "/api/admin/login", "", map[string]string{"password": "wrong"})
	s.expect(t, http.StatusUnauthorized, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana", "pin": "9999"})
	s.expect(t, http.StatusOK, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ana", "pin": "1234"})
	s.expect(t, http.StatusConflict, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "ana", "pin": "1234"})
	s.expect(t, http.StatusBadRequest, http.MethodPost, "/api/auth/register", "", map[string]string{"username": "admin", "pin": "1234"})
}

func TestPredictionScoringAndRanking(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	s.seedMatch(t, admin)
	ana := s.register(t, "ana")
	bia := s.register(t, "bia")

	s.expect(t, http.StatusOK, http.MethodPost, "/api/predictions", ana,
		map[string]interface{}{"match_id": "m1", "home_prediction": 2, "away_prediction": 1})
	s.expect(t, http.StatusOK, http.MethodPost, "/api/predictions", bia,
		map[string]interface{}{"match_id": "m1", "home_prediction": 0, "away_prediction": 0})
	s.expect(t, http.StatusBadRequest, http.MethodPost, "/api/predictions", bia,
		map[string]interface{}{"match_id": "m1", "home_prediction": -1, "away_prediction": 0})
	s.expect(t, http.StatusNotFound, http.MethodPost, "/api/predictions", bia,
		map[string]interface{}{"match_id": "missing", "home_prediction": 1, "away_prediction": 0})

	var status services.LockStatus
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/matches/m1/lock-status", "", nil), &status)
	if status.IsLocked {
		t.Error("match locked an hour before kickoff")
	}

	var public struct {
		Predictions []models.PublicPrediction `json:"predictions"`
	}
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/users/ana/predictions?championship_id=brasileirao", "", nil), &public)
	if len(public.Predictions) != 1 || public.Predictions[0].HomePrediction != nil {
		t.Errorf("public predictions before kickoff = %+v, want one hidden guess", public.Predictions)
	}

	s.now = kickoff.Add(time.Minute)
	s.expect(t, http.StatusLocked, http.MethodPost, "/api/predictions", bia,
		map[string]interface{}{"match_id": "m1", "home_prediction": 2, "away_prediction": 1})

	var result struct {
		Recalculated int `json:"predictions_recalculated"`
	}
	decode(t, s.expect(t, http.StatusOK, http.MethodPost, "/api/admin/matches/m1/result", admin,
		map[string]interface{}{"home_score": 2, "away_score": 1, "is_finished": true}), &result)
	if result.Recalculated != 2 {
		t.Errorf("predictions_recalculated = %d, want 2", result.Recalculated)
	}

	var ranking services.ChampionshipRanking
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/rankings/championships/brasileirao", "", nil), &ranking)
	if len(ranking.Ranking) != 2 {
		t.Fatalf("ranking has %d entries, want 2", len(ranking.Ranking))
	}
	if got := ranking.Ranking[0]; got.Username != "ana" || got.TotalPoints != 5 || got.ExactScores != 1 || got.Efficiency != 100 {
		t.Errorf("first entry = %+v, want ana with 5 points and 1 exact score", got)
	}
	if got := ranking.Ranking[1]; got.Username != "bia" || got.TotalPoints != 0 || got.Position != 2 {
		t.Errorf("second entry = %+v, want bia at position 2 with 0 points", got)
	}

	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/rankings/championships/brasileirao/rounds/1", "", nil), &ranking)
	if ranking.Round != 1 || ranking.Ranking[0].Username != "ana" {
		t.Errorf("round ranking = %+v", ranking)
	}
	s.expect(t, http.StatusBadRequest, http.MethodGet, "/api/rankings/championships/brasileirao/rounds/0", "", nil)
	s.expect(t, http.StatusNotFound, http.MethodGet, "/api/rankings/championships/nope", "", nil)

	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/users/ana/predictions?championship_id=brasileirao", "", nil), &public)
	if p := public.Predictions[0]; p.HomePrediction == nil || *p.HomePrediction != 2 || p.Points == nil || *p.Points != 5 {
		t.Errorf("public prediction after the match = %+v, want visible 2-1 worth 5", p)
	}

	var recalc struct {
		Users int `json:"users_updated"`
	}
	decode(t, s.expect(t, http.StatusOK, http.MethodPost, "/api/admin/recalculate", admin, nil), &recalc)
	if recalc.Users != 2 {
		t.Errorf("users_updated = %d, want 2", recalc.Users)
	}
}

func TestLeagueLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	s.seedMatch(t, admin)
	ana := s.register(t, "ana")
	bia := s.register(t, "bia")

	create := map[string]string{"name": "Friends", "championship_id": "brasileirao"}
	s.expect(t, http.StatusForbidden, http.MethodPost, "/api/leagues", ana, create)
	s.expect(t, http.StatusNoContent, http.MethodPatch, "/api/admin/users/ana/plan", admin, map[string]string{"plan": "premium"})

	var created struct {
		League models.League `json:"league"`
	}
	decode(t, s.expect(t, http.StatusCreated, http.MethodPost, "/api/leagues", ana, create), &created)
	league := created.League
	if len(league.InviteCode) != 6 || league.OwnerUsername != "ana" {
		t.Fatalf("created league = %+v", league)
	}

	s.expect(t, http.StatusOK, http.MethodPost, "/api/leagues/join", bia, map[string]string{"invite_code": " " + league.InviteCode + " "})
	s.expect(t, http.StatusConflict, http.MethodPost, "/api/leagues/join", bia, map[string]string{"invite_code": league.InviteCode})
	s.expect(t, http.StatusNotFound, http.MethodPost, "/api/leagues/join", bia, map[string]string{"invite_code": "ZZZZZZ"})

	var details services.LeagueRanking
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/leagues/"+league.ID, bia, nil), &details)
	if len(details.Ranking) != 2 || len(details.League.Members) != 2 {
		t.Errorf("league details = %+v, want two members ranked", details)
	}

	var mine struct {
		Leagues []models.League `json:"leagues"`
	}
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/leagues/mine", bia, nil), &mine)
	if len(mine.Leagues) != 1 || mine.Leagues[0].ID != league.ID {
		t.Errorf("bia's leagues = %+v", mine.Leagues)
	}

	s.expect(t, http.StatusForbidden, http.MethodPost, "/api/leagues/"+league.ID+"/leave", ana, nil)
	s.expect(t, http.StatusForbidden, http.MethodDelete, "/api/leagues/"+league.ID, bia, nil)
	s.expect(t, http.StatusNoContent, http.MethodPost, "/api/leagues/"+league.ID+"/leave", bia, nil)
	s.expect(t, http.StatusNoContent, http.MethodDelete, "/api/leagues/"+league.ID, ana, nil)
	s.expect(t, http.StatusNotFound, http.MethodGet, "/api/leagues/"+league.ID, ana, nil)
	s.expect(t, http.StatusNotFound, http.MethodGet, "/api/rankings/leagues/"+league.ID, "", nil)
}

func TestAdminBanRemovesUserFromRanking(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	s.seedMatch(t, admin)
	s.register(t, "ana")
	s.register(t, "bia")

	s.expect(t, http.StatusNoContent, http.MethodPatch, "/api/admin/users/bia/ban", admin, map[string]bool{"banned": true})
	s.expect(t, http.StatusNotFound, http.MethodPatch, "/api/admin/users/nobody/ban", admin, map[string]bool{"banned": true})

	var ranking services.ChampionshipRanking
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/rankings/championships/brasileirao", "", nil), &ranking)
	if len(ranking.Ranking) != 1 || ranking.Ranking[0].Username != "ana" {
		t.Errorf("ranking = %+v, want only ana", ranking.Ranking)
	}
	s.expect(t, http.StatusUnauthorized, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "bia", "pin": "1234"})

	var sync services.SyncReport
	decode(t, s.expect(t, http.StatusOK, http.MethodPost, "/api/admin/sync", admin, nil), &sync)
	if len(sync.Errors) != 0 {
		t.Errorf("sync errors = %v", sync.Errors)
	}
}

func TestMatchdayProfileAndStatsEndpoints(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken(t)
	s.seedMatch(t, admin)
	ana := s.register(t, "ana")
	bia := s.register(t, "bia")
	for _, token := range []string{ana, bia} {
		s.expect(t, http.StatusOK, http.MethodPost, "/api/predictions", token,
			map[string]interface{}{"match_id": "m1", "home_prediction": 1, "away_prediction": 0})
	}

	var next struct {
		Match models.Match `json:"match"`
	}
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/championships/brasileirao/next-match", "", nil), &next)
	if next.Match.ID != "m1" {
		t.Errorf("next match = %+v, want m1", next.Match)
	}

	var rounds struct {
		Rounds []services.RoundInfo `json:"rounds"`
	}
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/championships/brasileirao/rounds", "", nil), &rounds)
	if len(rounds.Rounds) != 38 || !rounds.Rounds[0].IsCurrent || rounds.Rounds[1].IsCurrent {
		t.Errorf("rounds = %d entries, first %+v, want 38 with round 1 current", len(rounds.Rounds), rounds.Rounds[0])
	}

	var popular struct {
		Popular map[string]models.ScorelineVotes `json:"popular"`
	}
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/matches/popular-predictions?match_ids=m1,m9", "", nil), &popular)
	if got, ok := popular.Popular["m1"]; !ok || got.Count != 2 || got.HomePrediction != 1 || got.AwayPrediction != 0 {
		t.Errorf("popular = %+v, want m1 1-0 with 2 votes", popular.Popular)
	}
	s.expect(t, http.StatusBadRequest, http.MethodGet, "/api/matches/popular-predictions", "", nil)

	var profile services.UserProfile
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/users/ana/profile", "", nil), &profile)
	if profile.User == nil || profile.User.Username != "ana" || len(profile.Predictions) != 1 || profile.Predictions[0].HomePrediction != nil {
		t.Errorf("profile = %+v, want ana with one hidden guess", profile)
	}
	s.expect(t, http.StatusNotFound, http.MethodGet, "/api/users/nobody/profile", "", nil)

	s.expect(t, http.StatusForbidden, http.MethodGet, "/api/admin/stats", ana, nil)
	var stats services.AdminStats
	decode(t, s.expect(t, http.StatusOK, http.MethodGet, "/api/admin/stats", admin, nil), &stats)
	if stats.TotalUsers != 2 || stats.FreeUsers != 2 || stats.TotalPredictions != 2 || stats.TotalMatches != 1 || stats.TotalChampionships != 1 {
		t.Errorf("stats = %+v", stats)
	}

	s.now = kickoff.Add(3 * time.Hour)
	s.expect(t, http.StatusOK, http.MethodPost, "/api/admin/matches/m1/result", admin,
		map[string]interface{}{"home_score": 1, "away_score": 0, "is_finished": true})
	s.expect(t, http.StatusNotFound, http.MethodGet, "/api/championships/brasileirao/next-match", "", nil)
}
