package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/callclub/models"
)

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.addUser(t, "owner", models.PlanVIP)
	env.addUser(t, "ana", models.PlanFree)
	env.addMatch(t, "m1", 1, kickoff)
	env.addMatch(t, "m2", 1, kickoff.Add(time.Hour))
	env.addMatch(t, "m3", 2, kickoff.AddDate(0, 0, 7))
	env.predict(t, "ana", "m1", 2, 1)
	env.predict(t, "ana", "m2", 0, 0)
	env.predict(t, "ana", "m3", 1, 3)
	if _, err := env.points.OnMatchFinished(ctx, "m1", 2, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := env.points.OnMatchFinished(ctx, "m2", 1, 0); err != nil {
		t.Fatal(err)
	}

	league, err := env.leagues.CreateLeague(ctx, "owner", "brasileirao", "Friends")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.leagues.JoinLeague(ctx, "ana", league.InviteCode); err != nil {
		t.Fatal(err)
	}

	svc := NewProfileService(env.store.Users(), env.store.Predictions(), env.store.Matches(), env.store.Leagues(),
		map[models.PlanType]int{models.PlanFree: 0, models.PlanVIP: -1}, 30)
	profile, err := svc.GetProfile(ctx, "ana")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}

	if profile.User.Username != "ana" || profile.User.PinHash != "" {
		t.Errorf("user = %+v, want ana without pin hash", profile.User)
	}
	want := ProfileStatistics{TotalPoints: 5, PerfectScores: 1, GamesPlayed: 2}
	if profile.Statistics != want {
		t.Errorf("statistics = %+v, want %+v", profile.Statistics, want)
	}
	if profile.PlanInfo != (PlanInfo{Plan: models.PlanFree, MaxLeaguesOwned: 0, MaxLeagueMembers: 30}) {
		t.Errorf("plan info = %+v", profile.PlanInfo)
	}

	if len(profile.JoinedLeagues) != 1 || profile.JoinedLeagues[0].ID != league.ID {
		t.Fatalf("joined leagues = %+v, want %s", profile.JoinedLeagues, league.ID)
	}
	if profile.JoinedLeagues[0].InviteCode != "" {
		t.Error("profile exposes the league invite code")
	}

	if len(profile.Predictions) != 3 {
		t.Fatalf("len(predictions) = %d, want 3", len(profile.Predictions))
	}
	latest := profile.Predictions[0]
	if latest.MatchID != "m3" || latest.IsVisible || latest.HomePrediction != nil {
		t.Errorf("open match entry = %+v, want m3 with the guess hidden", latest)
	}
	oldest := profile.Predictions[2]
	if oldest.MatchID != "m1" || !oldest.IsVisible || *oldest.HomePrediction != 2 || *oldest.Points != 5 {
		t.Errorf("finished match entry = %+v, want m1 2-1 worth 5", oldest)
	}
	if oldest.HomeTeam != "Home m1" || *oldest.HomeScore != 2 {
		t.Errorf("finished match entry lacks match data: %+v", oldest)
	}

	vip, err := svc.GetProfile(ctx, "owner")
	if err != nil {
		t.Fatal(err)
	}
	if vip.PlanInfo.MaxLeaguesOwned != -1 || vip.Statistics != (ProfileStatistics{}) {
		t.Errorf("owner profile = %+v / %+v, want unlimited leagues and no games", vip.PlanInfo, vip.Statistics)
	}

	if _, err := svc.GetProfile(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user error = %v, want ErrUserNotFound", err)
	}
}
