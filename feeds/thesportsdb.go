package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSportsDBBaseURL = "https://www.thesportsdb.com/api/v1/json"
	defaultSportsDBAPIKey  = "3"
	defaultSportsDBTimeout = 30 * time.Second
	maxErrorBodyBytes      = 512
)

// Provider statuses for matches still in play; scores reported with them
// are not final.
var liveStatuses = map[string]bool{
	"1H": true, "HT": true, "2H": true, "ET": true, "BT": true, "P": true, "LIVE": true,
}

type SportsDBConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	Logger     *slog.Logger
}

type SportsDBClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger
}

func NewSportsDBClient(cfg SportsDBConfig) *SportsDBClient {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultSportsDBTimeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultSportsDBBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = defaultSportsDBAPIKey
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &SportsDBClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

type sportsDBEvent struct {
	IDEvent      string  `json:"idEvent"`
	IntRound     string  `json:"intRound"`
	StrHomeTeam  string  `json:"strHomeTeam"`
	StrAwayTeam  string  `json:"strAwayTeam"`
	IntHomeScore *string `json:"intHomeScore"`
	IntAwayScore *string `json:"intAwayScore"`
	StrTimestamp string  `json:"strTimestamp"`
	DateEvent    string  `json:"dateEvent"`
	StrTime      string  `json:"strTime"`
	StrVenue     string  `json:"strVenue"`
	StrStatus    string  `json:"strStatus"`
}

type sportsDBEnvelope struct {
	Events []sportsDBEvent `json:"events"`
}

func (c *SportsDBClient) RoundFixtures(ctx context.Context, leagueAPIID, season string, round int) ([]Fixture, error) {
	if leagueAPIID == "" {
		return nil, fmt.Errorf("league api id is required")
	}
	if round < 1 {
		return nil, fmt.Errorf("round must be positive, got %d", round)
	}

	query := url.Values{}
	query.Set("id", leagueAPIID)
	query.Set("r", strconv.Itoa(round))
	query.Set("s", season)
	endpoint := fmt.Sprintf("%s/%s/eventsround.php?%s", c.baseURL, url.PathEscape(c.apiKey), query.Encode())

	var envelope sportsDBEnvelope
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, fmt.Errorf("fetch round %d of league %s season %s: %w", round, leagueAPIID, season, err)
	}

	fixtures := make([]Fixture, 0, len(envelope.Events))
	for _, ev := range envelope.Events {
		fixture, ok := toFixture(ev, round)
		if !ok {
			c.logger.WarnContext(ctx, "Skipping malformed feed event",
				slog.String("event_id", ev.IDEvent),
				slog.String("league_api_id", leagueAPIID),
				slog.Int("round", round),
			)
			continue
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, nil
}

func (c *SportsDBClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func toFixture(ev sportsDBEvent, round int) (Fixture, bool) {
	if ev.IDEvent == "" || ev.StrHomeTeam == "" || ev.StrAwayTeam == "" {
		return Fixture{}, false
	}
	kickoff, ok := parseKickoff(ev)
	if !ok {
		return Fixture{}, false
	}

	f := Fixture{
		ExternalID: ev.IDEvent,
		Round:      round,
		HomeTeam:   ev.StrHomeTeam,
		AwayTeam:   ev.StrAwayTeam,
		KickoffAt:  kickoff,
	}
	if venue := strings.TrimSpace(ev.StrVenue); venue != "" {
		f.Venue = &venue
	}

	home, homeOK := parseScore(ev.IntHomeScore)
	away, awayOK := parseScore(ev.IntAwayScore)
	if homeOK && awayOK {
		f.HomeScore = &home
		f.AwayScore = &away
		f.Finished = !liveStatuses[strings.ToUpper(strings.TrimSpace(ev.StrStatus))]
	}
	return f, true
}

// parseKickoff prefers the full UTC timestamp and falls back to date + time.
func parseKickoff(ev sportsDBEvent) (time.Time, bool) {
	if ts := strings.TrimSpace(ev.StrTimestamp); ts != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
			if t, err := time.Parse(layout, ts); err == nil {
				return t.UTC(), true
			}
		}
	}
	if ev.DateEvent == "" {
		return time.Time{}, false
	}
	clock := strings.TrimSpace(ev.StrTime)
	if len(clock) > 8 {
		clock = clock[:8]
	}
	if clock == "" {
		clock = "00:00:00"
	}
	t, err := time.Parse("2006-01-02 15:04:05", ev.DateEvent+" "+clock)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func parseScore(raw *string) (int, bool) {
	if raw == nil {
		return 0, false
	}
	s := strings.TrimSpace(*raw)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
