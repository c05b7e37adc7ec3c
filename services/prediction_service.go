package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
	"github.com/Dosada05/callclub/scoring"
)

type PredictionService interface {
	SubmitPrediction(ctx context.Context, input SubmitPredictionInput) (*models.Prediction, error)
	LockStatus(ctx context.Context, matchID string) (*LockStatus, error)
	ListUserPredictions(ctx context.Context, username, championshipID string, round int) ([]*models.Prediction, error)
	// PublicPredictions lists what other users may see of username's
	// predictions in a championship: guesses stay hidden until the match ends.
	PublicPredictions(ctx context.Context, username, championshipID string) ([]models.PublicPrediction, error)
	// PopularPredictions maps each match to its most predicted scoreline.
	// Matches nobody predicted are absent from the result.
	PopularPredictions(ctx context.Context, matchIDs []string) (map[string]models.ScorelineVotes, error)
}

const popularBatchMaxMatches = 100

type SubmitPredictionInput struct {
	Username       string  `json:"-"`
	MatchID        string  `json:"match_id"`
	HomePrediction int     `json:"home_prediction"`
	AwayPrediction int     `json:"away_prediction"`
	ChampionshipID string  `json:"championship_id"`
	LeagueID       *string `json:"league_id"`
}

type LockStatus struct {
	MatchID    string    `json:"match_id"`
	IsLocked   bool      `json:"is_locked"`
	IsFinished bool      `json:"is_finished"`
	MatchDate  time.Time `json:"match_date"`
	LocksAt    time.Time `json:"locks_at"`
}

type predictionService struct {
	predictionRepo repositories.PredictionRepository
	matchRepo      repositories.MatchRepository
	userRepo       repositories.UserRepository
	leagueRepo     repositories.LeagueRepository
	now            func() time.Time
}

// NewPredictionService builds the prediction write path. now is the clock the
// lock policy is checked against; nil means time.Now.
func NewPredictionService(
	predictionRepo repositories.PredictionRepository,
	matchRepo repositories.MatchRepository,
	userRepo repositories.UserRepository,
	leagueRepo repositories.LeagueRepository,
	now func() time.Time,
) PredictionService {
	if now == nil {
		now = time.Now
	}
	return &predictionService{
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		userRepo:       userRepo,
		leagueRepo:     leagueRepo,
		now:            now,
	}
}

func (s *predictionService) SubmitPrediction(ctx context.Context, input SubmitPredictionInput) (*models.Prediction, error) {
	if input.HomePrediction < 0 || input.AwayPrediction < 0 {
		return nil, fmt.Errorf("%w: predicted scores must be non-negative", ErrInvalidInput)
	}
	if strings.TrimSpace(input.MatchID) == "" {
		return nil, fmt.Errorf("%w: match_id is required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsBanned {
		return nil, ErrUnauthorized
	}

	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return nil, translateRepoError(err, "failed to get match")
	}
	if input.ChampionshipID != "" && input.ChampionshipID != match.ChampionshipID {
		return nil, fmt.Errorf("%w: match %s is not part of championship %s", ErrInvalidInput, match.ID, input.ChampionshipID)
	}
	if scoring.IsLocked(match.KickoffAt, match.IsFinished, s.now()) {
		return nil, ErrPredictionLocked
	}

	var leagueID *string
	if id := strings.TrimSpace(derefString(input.LeagueID)); id != "" {
		league, err := s.leagueRepo.GetByID(ctx, id)
		if err != nil {
			return nil, translateRepoError(err, "failed to get league")
		}
		if !league.HasMember(user.Username) || league.ChampionshipID != match.ChampionshipID {
			return nil, fmt.Errorf("%w: prediction cannot be made in league %s", ErrInvalidInput, id)
		}
		leagueID = &id
	}

	prediction := &models.Prediction{
		Username:       user.Username,
		MatchID:        match.ID,
		ChampionshipID: match.ChampionshipID,
		LeagueID:       leagueID,
		RoundNumber:    match.RoundNumber,
		HomePrediction: input.HomePrediction,
		AwayPrediction: input.AwayPrediction,
	}
	if err := s.predictionRepo.Upsert(ctx, prediction); err != nil {
		if errors.Is(err, repositories.ErrPredictionRefInvalid) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}
	return prediction, nil
}

func (s *predictionService) LockStatus(ctx context.Context, matchID string) (*LockStatus, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, translateRepoError(err, "failed to get match")
	}
	return &LockStatus{
		MatchID:    match.ID,
		IsLocked:   scoring.IsLocked(match.KickoffAt, match.IsFinished, s.now()),
		IsFinished: match.IsFinished,
		MatchDate:  match.KickoffAt,
		LocksAt:    match.KickoffAt.Add(scoring.LockGrace),
	}, nil
}

func (s *predictionService) ListUserPredictions(ctx context.Context, username, championshipID string, round int) ([]*models.Prediction, error) {
	if round < 0 {
		return nil, fmt.Errorf("%w: round must not be negative", ErrInvalidInput)
	}
	predictions, err := s.predictionRepo.List(ctx, repositories.PredictionFilter{
		Username:       username,
		ChampionshipID: championshipID,
		Round:          round,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	return predictions, nil
}

func (s *predictionService) PublicPredictions(ctx context.Context, username, championshipID string) ([]models.PublicPrediction, error) {
	if _, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, translateRepoError(err, "failed to get user")
	}

	predictions, err := s.predictionRepo.List(ctx, repositories.PredictionFilter{Username: username, ChampionshipID: championshipID})
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	matches, err := s.matchRepo.List(ctx, repositories.MatchFilter{ChampionshipID: championshipID})
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	byID := make(map[string]*models.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	result := make([]models.PublicPrediction, 0, len(predictions))
	for _, p := range predictions {
		result = append(result, publicView(p, byID[p.MatchID]))
	}

	slices.SortFunc(result, func(a, b models.PublicPrediction) int {
		return cmp.Or(
			cmp.Compare(a.RoundNumber, b.RoundNumber),
			a.MatchDate.Compare(b.MatchDate),
			cmp.Compare(a.MatchID, b.MatchID),
		)
	})
	return result, nil
}

func (s *predictionService) PopularPredictions(ctx context.Context, matchIDs []string) (map[string]models.ScorelineVotes, error) {
	ids := make([]string, 0, len(matchIDs))
	for _, id := range matchIDs {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	switch {
	case len(ids) == 0:
		return nil, fmt.Errorf("%w: at least one match id is required", ErrInvalidInput)
	case len(ids) > popularBatchMaxMatches:
		return nil, fmt.Errorf("%w: at most %d match ids per request", ErrInvalidInput, popularBatchMaxMatches)
	}

	votes, err := s.predictionRepo.PopularScorelines(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count popular scorelines: %w", err)
	}
	popular := make(map[string]models.ScorelineVotes, len(votes))
	for _, v := range votes {
		popular[v.MatchID] = *v
	}
	return popular, nil
}

// publicView shows p next to its match. The guess and the points stay hidden
// until the match is finished; m may be nil.
func publicView(p *models.Prediction, m *models.Match) models.PublicPrediction {
	view := models.PublicPrediction{
		MatchID:     p.MatchID,
		RoundNumber: p.RoundNumber,
	}
	if m == nil {
		return view
	}
	view.HomeTeam = m.HomeTeam
	view.AwayTeam = m.AwayTeam
	view.MatchDate = m.KickoffAt
	view.IsFinished = m.IsFinished
	if m.IsFinished {
		view.IsVisible = true
		view.HomeScore = m.HomeScore
		view.AwayScore = m.AwayScore
		view.HomePrediction = intPtr(p.HomePrediction)
		view.AwayPrediction = intPtr(p.AwayPrediction)
		view.Points = p.Points
	}
	return view
}
