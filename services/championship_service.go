package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
	"github.com/gosimple/slug"
)

const (
	defaultTotalRounds = 38
	defaultSeason      = "2026"
)

type ChampionshipService interface {
	List(ctx context.Context, activeOnly bool) ([]*models.Championship, error)
	Get(ctx context.Context, id string) (*ChampionshipDetails, error)
	Create(ctx context.Context, input CreateChampionshipInput) (*models.Championship, error)
	MatchesByRound(ctx context.Context, championshipID string, round int) ([]*models.Match, error)
	// UpsertMatch creates a fixture or reschedules an existing one. Scores
	// and the finished flag of an existing match are left alone; results go
	// through PointsService.
	UpsertMatch(ctx context.Context, input UpsertMatchInput) (*models.Match, error)
	// NextMatch returns the earliest unfinished match that has not kicked off
	// yet, falling back to the earliest unfinished one.
	NextMatch(ctx context.Context, championshipID string) (*models.Match, error)
	Rounds(ctx context.Context, championshipID string) ([]RoundInfo, error)
}

type RoundInfo struct {
	ChampionshipID string `json:"championship_id"`
	RoundNumber    int    `json:"round_number"`
	IsCurrent      bool   `json:"is_current"`
}

type ChampionshipDetails struct {
	*models.Championship
	CurrentRound int `json:"current_round"`
}

type CreateChampionshipInput struct {
	ID          string  `json:"championship_id"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	APIID       string  `json:"api_id"`
	Season      string  `json:"season"`
	TotalRounds int     `json:"total_rounds"`
	LogoURL     *string `json:"logo_url"`
}

type UpsertMatchInput struct {
	ID             string    `json:"match_id"`
	ChampionshipID string    `json:"championship_id"`
	RoundNumber    int       `json:"round_number"`
	HomeTeam       string    `json:"home_team"`
	AwayTeam       string    `json:"away_team"`
	KickoffAt      time.Time `json:"match_date"`
	Venue          *string   `json:"venue"`
}

type championshipService struct {
	championshipRepo repositories.ChampionshipRepository
	matchRepo        repositories.MatchRepository
	now              func() time.Time
}

// NewChampionshipService builds the fixture service. now is the clock NextMatch
// compares kickoffs against; nil means time.Now.
func NewChampionshipService(championshipRepo repositories.ChampionshipRepository, matchRepo repositories.MatchRepository, now func() time.Time) ChampionshipService {
	if now == nil {
		now = time.Now
	}
	return &championshipService{
		championshipRepo: championshipRepo,
		matchRepo:        matchRepo,
		now:              now,
	}
}

func (s *championshipService) List(ctx context.Context, activeOnly bool) ([]*models.Championship, error) {
	championships, err := s.championshipRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list championships: %w", err)
	}
	return championships, nil
}

func (s *championshipService) Get(ctx context.Context, id string) (*ChampionshipDetails, error) {
	championship, err := s.championshipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "failed to get championship")
	}
	matches, err := s.matchRepo.List(ctx, repositories.MatchFilter{ChampionshipID: id})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return &ChampionshipDetails{Championship: championship, CurrentRound: CurrentRound(matches)}, nil
}

func (s *championshipService) Create(ctx context.Context, input CreateChampionshipInput) (*models.Championship, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: championship name is required", ErrValidationFailed)
	}
	id := slug.Make(strings.TrimSpace(input.ID))
	if id == "" {
		id = slug.Make(name)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: championship id cannot be derived from name %q", ErrValidationFailed, name)
	}
	if input.TotalRounds < 0 {
		return nil, fmt.Errorf("%w: total_rounds must be positive", ErrValidationFailed)
	}

	championship := &models.Championship{
		ID:          id,
		Name:        name,
		Country:     strings.ToUpper(strings.TrimSpace(input.Country)),
		APIID:       strings.TrimSpace(input.APIID),
		Season:      strings.TrimSpace(input.Season),
		TotalRounds: input.TotalRounds,
		LogoURL:     input.LogoURL,
		IsActive:    true,
	}
	if championship.Country == "" {
		championship.Country = defaultCountry
	}
	if championship.Season == "" {
		championship.Season = defaultSeason
	}
	if championship.TotalRounds == 0 {
		championship.TotalRounds = defaultTotalRounds
	}

	if err := s.championshipRepo.Create(ctx, championship); err != nil {
		return nil, translateRepoError(err, "failed to create championship")
	}
	return championship, nil
}

func (s *championshipService) MatchesByRound(ctx context.Context, championshipID string, round int) ([]*models.Match, error) {
	if round < 1 {
		return nil, fmt.Errorf("%w: round must be positive", ErrInvalidInput)
	}
	if _, err := s.championshipRepo.GetByID(ctx, championshipID); err != nil {
		return nil, translateRepoError(err, "failed to get championship")
	}
	matches, err := s.matchRepo.List(ctx, repositories.MatchFilter{ChampionshipID: championshipID, Round: round})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *championshipService) UpsertMatch(ctx context.Context, input UpsertMatchInput) (*models.Match, error) {
	switch {
	case strings.TrimSpace(input.ID) == "":
		return nil, fmt.Errorf("%w: match_id is required", ErrValidationFailed)
	case input.RoundNumber < 1:
		return nil, fmt.Errorf("%w: round_number must be positive", ErrValidationFailed)
	case strings.TrimSpace(input.HomeTeam) == "" || strings.TrimSpace(input.AwayTeam) == "":
		return nil, fmt.Errorf("%w: both teams are required", ErrValidationFailed)
	case input.KickoffAt.IsZero():
		return nil, fmt.Errorf("%w: match_date is required", ErrValidationFailed)
	}

	match := &models.Match{
		ID:             strings.TrimSpace(input.ID),
		ChampionshipID: input.ChampionshipID,
		RoundNumber:    input.RoundNumber,
		HomeTeam:       strings.TrimSpace(input.HomeTeam),
		AwayTeam:       strings.TrimSpace(input.AwayTeam),
		KickoffAt:      input.KickoffAt.UTC(),
		Venue:          input.Venue,
	}

	existing, err := s.matchRepo.GetByID(ctx, match.ID)
	switch {
	case err == nil:
		match.HomeScore = existing.HomeScore
		match.AwayScore = existing.AwayScore
		match.IsFinished = existing.IsFinished
	case !errors.Is(err, repositories.ErrMatchNotFound):
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	if err := s.matchRepo.Upsert(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchChampionshipInvalid) {
			return nil, ErrChampionshipNotFound
		}
		return nil, fmt.Errorf("failed to save match: %w", err)
	}
	return match, nil
}

func (s *championshipService) NextMatch(ctx context.Context, championshipID string) (*models.Match, error) {
	if _, err := s.championshipRepo.GetByID(ctx, championshipID); err != nil {
		return nil, translateRepoError(err, "failed to get championship")
	}
	matches, err := s.matchRepo.List(ctx, repositories.MatchFilter{ChampionshipID: championshipID})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	now := s.now()
	var upcoming, open *models.Match
	for _, m := range matches {
		if m.IsFinished {
			continue
		}
		if open == nil || m.KickoffAt.Before(open.KickoffAt) {
			open = m
		}
		if m.KickoffAt.After(now) && (upcoming == nil || m.KickoffAt.Before(upcoming.KickoffAt)) {
			upcoming = m
		}
	}
	switch {
	case upcoming != nil:
		return upcoming, nil
	case open != nil:
		return open, nil
	}
	return nil, ErrMatchNotFound
}

func (s *championshipService) Rounds(ctx context.Context, championshipID string) ([]RoundInfo, error) {
	championship, err := s.championshipRepo.GetByID(ctx, championshipID)
	if err != nil {
		return nil, translateRepoError(err, "failed to get championship")
	}
	matches, err := s.matchRepo.List(ctx, repositories.MatchFilter{ChampionshipID: championshipID})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	current := CurrentRound(matches)
	rounds := make([]RoundInfo, 0, championship.TotalRounds)
	for n := 1; n <= championship.TotalRounds; n++ {
		rounds = append(rounds, RoundInfo{ChampionshipID: championship.ID, RoundNumber: n, IsCurrent: n == current})
	}
	return rounds, nil
}
