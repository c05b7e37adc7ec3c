package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
	"github.com/Dosada05/callclub/scoring"
)

const profileRecentPredictions = 50

type ProfileService interface {
	// GetProfile is the public page of a user: the leagues they joined, their
	// latest predictions and their game statistics.
	GetProfile(ctx context.Context, username string) (*UserProfile, error)
}

type UserProfile struct {
	User          *models.User              `json:"user"`
	JoinedLeagues []*models.League          `json:"joined_leagues"`
	Predictions   []models.PublicPrediction `json:"predictions"`
	Statistics    ProfileStatistics         `json:"statistics"`
	PlanInfo      PlanInfo                  `json:"plan_info"`
}

type ProfileStatistics struct {
	TotalPoints   int `json:"total_points"`
	PerfectScores int `json:"perfect_scores"`
	GamesPlayed   int `json:"games_played"`
}

type PlanInfo struct {
	Plan             models.PlanType `json:"plan"`
	MaxLeaguesOwned  int             `json:"max_leagues_owned"` // -1 means no limit
	MaxLeagueMembers int             `json:"max_league_members"`
}

type profileService struct {
	userRepo       repositories.UserRepository
	predictionRepo repositories.PredictionRepository
	matchRepo      repositories.MatchRepository
	leagueRepo     repositories.LeagueRepository
	planCaps       map[models.PlanType]int
	maxMembers     int
}

func NewProfileService(
	userRepo repositories.UserRepository,
	predictionRepo repositories.PredictionRepository,
	matchRepo repositories.MatchRepository,
	leagueRepo repositories.LeagueRepository,
	planCaps map[models.PlanType]int,
	maxMembers int,
) ProfileService {
	if maxMembers <= 0 {
		maxMembers = defaultLeagueMaxMember
	}
	return &profileService{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
		matchRepo:      matchRepo,
		leagueRepo:     leagueRepo,
		planCaps:       planCaps,
		maxMembers:     maxMembers,
	}
}

func (s *profileService) GetProfile(ctx context.Context, username string) (*UserProfile, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, translateRepoError(err, "failed to get user")
	}
	user.PinHash = ""

	leagues, err := s.leagueRepo.ListByIDs(ctx, user.JoinedLeagues)
	if err != nil {
		return nil, fmt.Errorf("failed to list joined leagues: %w", err)
	}
	for _, l := range leagues {
		l.InviteCode = ""
	}

	predictions, err := s.predictionRepo.List(ctx, repositories.PredictionFilter{Username: user.Username})
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	var stats ProfileStatistics
	for _, p := range predictions {
		if p.Points == nil {
			continue
		}
		stats.GamesPlayed++
		stats.TotalPoints += *p.Points
		if *p.Points == scoring.MaxPoints {
			stats.PerfectScores++
		}
	}

	slices.SortFunc(predictions, func(a, b *models.Prediction) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})
	recent := make([]models.PublicPrediction, 0, min(len(predictions), profileRecentPredictions))
	for _, p := range predictions {
		if len(recent) == profileRecentPredictions {
			break
		}
		m, err := s.matchRepo.GetByID(ctx, p.MatchID)
		if err != nil {
			if errors.Is(err, repositories.ErrMatchNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to get match %s: %w", p.MatchID, err)
		}
		recent = append(recent, publicView(p, m))
	}

	return &UserProfile{
		User:          user,
		JoinedLeagues: leagues,
		Predictions:   recent,
		Statistics:    stats,
		PlanInfo: PlanInfo{
			Plan:             user.Plan,
			MaxLeaguesOwned:  planOwnershipCap(s.planCaps, user.Plan),
			MaxLeagueMembers: s.maxMembers,
		},
	}, nil
}
