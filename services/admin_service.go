package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
)

type AdminUserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdatePlan(ctx context.Context, username string, plan models.PlanType) error
	// SetBanned bans or unbans a user. Banned users drop out of championship
	// rankings and cannot predict.
	SetBanned(ctx context.Context, username string, banned bool) error
}

type adminUserService struct {
	userRepo repositories.UserRepository
}

func NewAdminUserService(userRepo repositories.UserRepository) AdminUserService {
	return &adminUserService{userRepo: userRepo}
}

func (s *adminUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		u.PinHash = ""
	}
	return users, nil
}

func (s *adminUserService) UpdatePlan(ctx context.Context, username string, plan models.PlanType) error {
	if !plan.Valid() {
		return fmt.Errorf("%w: unknown plan %q", ErrValidationFailed, plan)
	}
	return translateRepoError(s.userRepo.SetPlan(ctx, username, plan), "failed to update plan")
}

func (s *adminUserService) SetBanned(ctx context.Context, username string, banned bool) error {
	return translateRepoError(s.userRepo.SetBanned(ctx, username, banned), "failed to update ban")
}

type AdminStatsService interface {
	Stats(ctx context.Context) (*AdminStats, error)
}

// AdminStats counts every stored entity. Banned users count under their plan.
type AdminStats struct {
	TotalUsers         int `json:"total_users"`
	FreeUsers          int `json:"free_users"`
	PremiumUsers       int `json:"premium_users"`
	VIPUsers           int `json:"vip_users"`
	TotalPredictions   int `json:"total_predictions"`
	TotalMatches       int `json:"total_matches"`
	TotalLeagues       int `json:"total_leagues"`
	TotalChampionships int `json:"total_championships"`
}

type adminStatsService struct {
	userRepo         repositories.UserRepository
	predictionRepo   repositories.PredictionRepository
	matchRepo        repositories.MatchRepository
	leagueRepo       repositories.LeagueRepository
	championshipRepo repositories.ChampionshipRepository
}

func NewAdminStatsService(
	userRepo repositories.UserRepository,
	predictionRepo repositories.PredictionRepository,
	matchRepo repositories.MatchRepository,
	leagueRepo repositories.LeagueRepository,
	championshipRepo repositories.ChampionshipRepository,
) AdminStatsService {
	return &adminStatsService{
		userRepo:         userRepo,
		predictionRepo:   predictionRepo,
		matchRepo:        matchRepo,
		leagueRepo:       leagueRepo,
		championshipRepo: championshipRepo,
	}
}

func (s *adminStatsService) Stats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats

	byPlan, err := s.userRepo.CountByPlan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	for _, n := range byPlan {
		stats.TotalUsers += n
	}
	stats.FreeUsers = byPlan[models.PlanFree]
	stats.PremiumUsers = byPlan[models.PlanPremium]
	stats.VIPUsers = byPlan[models.PlanVIP]

	if stats.TotalPredictions, err = s.predictionRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}
	if stats.TotalMatches, err = s.matchRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count matches: %w", err)
	}
	if stats.TotalLeagues, err = s.leagueRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count leagues: %w", err)
	}
	championships, err := s.championshipRepo.List(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list championships: %w", err)
	}
	stats.TotalChampionships = len(championships)
	return &stats, nil
}
