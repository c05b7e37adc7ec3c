package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const roundPayload = `{"events":[
  {"idEvent":"2001","strHomeTeam":"Flamengo","strAwayTeam":"Palmeiras","intHomeScore":"2","intAwayScore":"1",
   "strTimestamp":"2026-04-12T19:00:00","strVenue":"Maracana","strStatus":"Match Finished"},
  {"idEvent":"2002","strHomeTeam":"Santos","strAwayTeam":"Gremio","intHomeScore":null,"intAwayScore":null,
   "dateEvent":"2026-04-13","strTime":"21:30:00+00:00","strVenue":"","strStatus":"Not Started"},
  {"idEvent":"2003","strHomeTeam":"Bahia","strAwayTeam":"Vasco","intHomeScore":"1","intAwayScore":"0",
   "strTimestamp":"2026-04-13T18:00:00","strStatus":"2H"},
  {"idEvent":"","strHomeTeam":"Broken","strAwayTeam":"Event"}
]}`

func TestSportsDBRoundFixtures(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(roundPayload))
	}))
	defer srv.Close()

	client := NewSportsDBClient(SportsDBConfig{BaseURL: srv.URL, APIKey: "123"})
	fixtures, err := client.RoundFixtures(context.Background(), "4351", "2026", 3)
	if err != nil {
		t.Fatalf("RoundFixtures: %v", err)
	}

	if gotPath != "/123/eventsround.php" {
		t.Errorf("path = %q, want %q", gotPath, "/123/eventsround.php")
	}
	if gotQuery != "id=4351&r=3&s=2026" {
		t.Errorf("query = %q, want %q", gotQuery, "id=4351&r=3&s=2026")
	}
	if len(fixtures) != 3 {
		t.Fatalf("len(fixtures) = %d, want 3", len(fixtures))
	}

	finished := fixtures[0]
	if !finished.Finished || finished.HomeScore == nil || *finished.HomeScore != 2 || *finished.AwayScore != 1 {
		t.Errorf("fixture 2001 = %+v, want finished 2-1", finished)
	}
	if want := time.Date(2026, 4, 12, 19, 0, 0, 0, time.UTC); !finished.KickoffAt.Equal(want) {
		t.Errorf("kickoff = %v, want %v", finished.KickoffAt, want)
	}
	if finished.Venue == nil || *finished.Venue != "Maracana" {
		t.Errorf("venue = %v, want Maracana", finished.Venue)
	}
	if finished.Round != 3 {
		t.Errorf("round = %d, want 3", finished.Round)
	}

	scheduled := fixtures[1]
	if scheduled.Finished || scheduled.HomeScore != nil || scheduled.Venue != nil {
		t.Errorf("fixture 2002 = %+v, want scheduled without scores or venue", scheduled)
	}
	if want := time.Date(2026, 4, 13, 21, 30, 0, 0, time.UTC); !scheduled.KickoffAt.Equal(want) {
		t.Errorf("kickoff = %v, want %v", scheduled.KickoffAt, want)
	}

	if fixtures[2].Finished {
		t.Error("fixture 2003 is in play and must not be finished")
	}
}

func TestSportsDBNoEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"events":null}`))
	}))
	defer srv.Close()

	fixtures, err := NewSportsDBClient(SportsDBConfig{BaseURL: srv.URL}).RoundFixtures(context.Background(), "4351", "2026", 40)
	if err != nil {
		t.Fatalf("RoundFixtures: %v", err)
	}
	if len(fixtures) != 0 {
		t.Errorf("len(fixtures) = %d, want 0", len(fixtures))
	}
}

func TestSportsDBErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewSportsDBClient(SportsDBConfig{BaseURL: srv.URL}).RoundFixtures(context.Background(), "4351", "2026", 1)
	if err == nil {
		t.Fatal("RoundFixtures error = nil, want status error")
	}
}
