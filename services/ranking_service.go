package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
	"github.com/Dosada05/callclub/scoring"
	"golang.org/x/sync/errgroup"
)

type ChampionshipRanking struct {
	ChampionshipID   string                `json:"championship_id"`
	ChampionshipName string                `json:"championship_name"`
	Round            int                   `json:"round,omitempty"`
	CurrentRound     int                   `json:"current_round"`
	TotalRounds      int                   `json:"total_rounds"`
	Ranking          []models.RankingEntry `json:"ranking"`
}

type LeagueRanking struct {
	League  *models.League        `json:"league"`
	Ranking []models.RankingEntry `json:"ranking"`
}

type RankingService interface {
	GetChampionshipRanking(ctx context.Context, championshipID string) (*ChampionshipRanking, error)
	GetRoundRanking(ctx context.Context, championshipID string, round int) (*ChampionshipRanking, error)
	GetLeagueRanking(ctx context.Context, leagueID string) (*LeagueRanking, error)
}

type rankingService struct {
	championshipRepo repositories.ChampionshipRepository
	matchRepo        repositories.MatchRepository
	predictionRepo   repositories.PredictionRepository
	userRepo         repositories.UserRepository
	leagueRepo       repositories.LeagueRepository
}

func NewRankingService(
	championshipRepo repositories.ChampionshipRepository,
	matchRepo repositories.MatchRepository,
	predictionRepo repositories.PredictionRepository,
	userRepo repositories.UserRepository,
	leagueRepo repositories.LeagueRepository,
) RankingService {
	return &rankingService{
		championshipRepo: championshipRepo,
		matchRepo:        matchRepo,
		predictionRepo:   predictionRepo,
		userRepo:         userRepo,
		leagueRepo:       leagueRepo,
	}
}

// rankingSnapshot is everything one ranking read needs, loaded concurrently.
type rankingSnapshot struct {
	championship *models.Championship
	matches      []*models.Match
	predictions  []*models.Prediction
	members      []string
}

// loadSnapshot reads the championship, its matches and predictions, and the
// non-banned users when members is nil.
// Predictions are not narrowed by round here; Rank scopes them through their
// match.
func (s *rankingService) loadSnapshot(ctx context.Context, championshipID string, members []string) (*rankingSnapshot, error) {
	snap := &rankingSnapshot{members: members}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := s.championshipRepo.GetByID(gCtx, championshipID)
		if err != nil {
			return translateRepoError(err, "failed to get championship")
		}
		snap.championship = c
		return nil
	})
	g.Go(func() error {
		// Every round is loaded so the current round can be derived.
		matches, err := s.matchRepo.List(gCtx, repositories.MatchFilter{ChampionshipID: championshipID})
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		snap.matches = matches
		return nil
	})
	g.Go(func() error {
		predictions, err := s.predictionRepo.List(gCtx, repositories.PredictionFilter{ChampionshipID: championshipID})
		if err != nil {
			return fmt.Errorf("failed to list predictions: %w", err)
		}
		snap.predictions = predictions
		return nil
	})
	if members == nil {
		g.Go(func() error {
			users, err := s.userRepo.List(gCtx, false)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}
			snap.members = make([]string, 0, len(users))
			for _, u := range users {
				snap.members = append(snap.members, u.Username)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *rankingService) GetChampionshipRanking(ctx context.Context, championshipID string) (*ChampionshipRanking, error) {
	return s.championshipRanking(ctx, championshipID, 0)
}

func (s *rankingService) GetRoundRanking(ctx context.Context, championshipID string, round int) (*ChampionshipRanking, error) {
	if round < 1 {
		return nil, fmt.Errorf("%w: round must be positive", ErrInvalidInput)
	}
	return s.championshipRanking(ctx, championshipID, round)
}

func (s *rankingService) championshipRanking(ctx context.Context, championshipID string, round int) (*ChampionshipRanking, error) {
	snap, err := s.loadSnapshot(ctx, championshipID, nil)
	if err != nil {
		return nil, err
	}

	scope := scoring.Scope{ChampionshipID: championshipID, Round: round}
	return &ChampionshipRanking{
		ChampionshipID:   snap.championship.ID,
		ChampionshipName: snap.championship.Name,
		Round:            round,
		CurrentRound:     CurrentRound(snap.matches),
		TotalRounds:      snap.championship.TotalRounds,
		Ranking:          scoring.Rank(snap.predictions, snap.matches, snap.members, scope),
	}, nil
}

func (s *rankingService) GetLeagueRanking(ctx context.Context, leagueID string) (*LeagueRanking, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, translateRepoError(err, "failed to get league")
	}

	members := league.Members
	if members == nil {
		members = []string{}
	}
	snap, err := s.loadSnapshot(ctx, league.ChampionshipID, members)
	if err != nil {
		return nil, err
	}

	scope := scoring.Scope{ChampionshipID: league.ChampionshipID}
	return &LeagueRanking{
		League:  league,
		Ranking: scoring.Rank(snap.predictions, snap.matches, snap.members, scope),
	}, nil
}

// CurrentRound is the lowest round that still has an unfinished match. When
// every match is finished it is the highest round seen, and 1 when there are
// no matches at all.
func CurrentRound(matches []*models.Match) int {
	lowestOpen, highest := 0, 0
	for _, m := range matches {
		if m.RoundNumber > highest {
			highest = m.RoundNumber
		}
		if !m.IsFinished && (lowestOpen == 0 || m.RoundNumber < lowestOpen) {
			lowestOpen = m.RoundNumber
		}
	}
	switch {
	case lowestOpen > 0:
		return lowestOpen
	case highest > 0:
		return highest
	}
	return 1
}
