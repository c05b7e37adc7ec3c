package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
	"github.com/google/uuid"
)

const (
	inviteCodeLength       = 6
	inviteCodeAlphabet     = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	inviteCodeMaxAttempts  = 5
	leagueIDLength         = 8
	defaultLeagueMaxMember = 100
)

type LeagueService interface {
	CreateLeague(ctx context.Context, ownerUsername, championshipID, name string) (*models.League, error)
	JoinLeague(ctx context.Context, username, inviteCode string) (*models.League, error)
	LeaveLeague(ctx context.Context, username, leagueID string) error
	DeleteLeague(ctx context.Context, leagueID, actingUsername string) error
	GetLeague(ctx context.Context, leagueID string) (*models.League, error)
	ListUserLeagues(ctx context.Context, username string) ([]*models.League, error)
}

type CreateLeagueInput struct {
	Name           string `json:"name"`
	ChampionshipID string `json:"championship_id"`
}

type JoinLeagueInput struct {
	InviteCode string `json:"invite_code"`
}

type leagueService struct {
	leagueRepo       repositories.LeagueRepository
	userRepo         repositories.UserRepository
	championshipRepo repositories.ChampionshipRepository
	planCaps         map[models.PlanType]int
	maxMembers       int
	newInviteCode    func() (string, error)
	newLeagueID      func() string
}

// NewLeagueService builds the membership manager. planCaps holds how many
// leagues a user of each plan may own; a negative cap means no limit and a
// plan missing from the map may own none.
func NewLeagueService(
	leagueRepo repositories.LeagueRepository,
	userRepo repositories.UserRepository,
	championshipRepo repositories.ChampionshipRepository,
	planCaps map[models.PlanType]int,
	maxMembers int,
) LeagueService {
	if maxMembers <= 0 {
		maxMembers = defaultLeagueMaxMember
	}
	return &leagueService{
		leagueRepo:       leagueRepo,
		userRepo:         userRepo,
		championshipRepo: championshipRepo,
		planCaps:         planCaps,
		maxMembers:       maxMembers,
		newInviteCode:    generateInviteCode,
		newLeagueID:      generateLeagueID,
	}
}

func generateInviteCode() (string, error) {
	var sb strings.Builder
	alphabetSize := big.NewInt(int64(len(inviteCodeAlphabet)))
	for i := 0; i < inviteCodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		sb.WriteByte(inviteCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

func generateLeagueID() string {
	return uuid.NewString()[:leagueIDLength]
}

func normalizeInviteCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *leagueService) ownershipCap(plan models.PlanType) int {
	return planOwnershipCap(s.planCaps, plan)
}

// planOwnershipCap is how many leagues a plan may own; -1 means no limit and
// unknown plans own none.
func planOwnershipCap(caps map[models.PlanType]int, plan models.PlanType) int {
	if limit, ok := caps[plan]; ok {
		return limit
	}
	return 0
}

func (s *leagueService) CreateLeague(ctx context.Context, ownerUsername, championshipID, name string) (*models.League, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: league name is required", ErrValidationFailed)
	}

	owner, err := s.userRepo.GetByUsername(ctx, ownerUsername)
	if err != nil {
		return nil, translateRepoError(err, "failed to get league owner")
	}
	if _, err := s.championshipRepo.GetByID(ctx, championshipID); err != nil {
		return nil, translateRepoError(err, "failed to get championship")
	}

	if limit := s.ownershipCap(owner.Plan); limit >= 0 && len(owner.OwnedLeagues) >= limit {
		return nil, ErrLeagueCapReached
	}

	league := &models.League{
		Name:           name,
		OwnerUsername:  owner.Username,
		ChampionshipID: championshipID,
		Members:        []string{owner.Username},
		MaxMembers:     s.maxMembers,
		IsActive:       true,
	}

	created := false
	for attempt := 0; attempt < inviteCodeMaxAttempts && !created; attempt++ {
		code, err := s.newInviteCode()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInviteCodeExhausted, err)
		}
		exists, err := s.leagueRepo.InviteCodeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to check invite code: %w", err)
		}
		if exists {
			continue
		}

		league.ID = s.newLeagueID()
		league.InviteCode = code
		err = s.leagueRepo.Create(ctx, league)
		switch {
		case err == nil:
			created = true
		case errors.Is(err, repositories.ErrLeagueInviteCodeConflict),
			errors.Is(err, repositories.ErrLeagueIDConflict):
			// Taken between the check and the insert.
		case errors.Is(err, repositories.ErrLeagueRefInvalid):
			return nil, ErrChampionshipNotFound
		default:
			return nil, fmt.Errorf("failed to create league: %w", err)
		}
	}
	if !created {
		return nil, fmt.Errorf("%w after %d attempts", ErrInviteCodeExhausted, inviteCodeMaxAttempts)
	}

	if err := s.userRepo.AddOwnedLeague(ctx, owner.Username, league.ID); err != nil {
		return nil, translateRepoError(err, "failed to record owned league")
	}
	if err := s.userRepo.AddJoinedLeague(ctx, owner.Username, league.ID); err != nil {
		return nil, translateRepoError(err, "failed to record joined league")
	}
	return league, nil
}

func (s *leagueService) JoinLeague(ctx context.Context, username, inviteCode string) (*models.League, error) {
	code := normalizeInviteCode(inviteCode)
	if code == "" {
		return nil, fmt.Errorf("%w: invite code is required", ErrValidationFailed)
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, translateRepoError(err, "failed to get user")
	}

	league, err := s.leagueRepo.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, translateRepoError(err, "failed to get league by invite code")
	}
	if !league.IsActive {
		return nil, ErrLeagueNotFound
	}

	if league.HasMember(username) {
		// The league side is already done; finish the user side so a retried
		// join converges.
		if err := s.userRepo.AddJoinedLeague(ctx, username, league.ID); err != nil {
			return nil, translateRepoError(err, "failed to repair joined league")
		}
		return nil, ErrAlreadyMember
	}
	if league.IsFull() {
		return nil, ErrLeagueFull
	}

	added, err := s.leagueRepo.AddMember(ctx, league.ID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to add league member: %w", err)
	}
	if !added {
		// Lost a race: re-read to tell which guard refused the append.
		current, getErr := s.leagueRepo.GetByID(ctx, league.ID)
		if getErr != nil {
			return nil, translateRepoError(getErr, "failed to reload league")
		}
		if current.HasMember(username) {
			return nil, ErrAlreadyMember
		}
		return nil, ErrLeagueFull
	}

	if err := s.userRepo.AddJoinedLeague(ctx, username, league.ID); err != nil {
		return nil, translateRepoError(err, "failed to record joined league")
	}

	league.Members = append(league.Members, username)
	return league, nil
}

func (s *leagueService) LeaveLeague(ctx context.Context, username, leagueID string) error {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return translateRepoError(err, "failed to get league")
	}
	if league.OwnerUsername == username {
		return ErrOwnerCannotLeave
	}

	if err := s.leagueRepo.RemoveMember(ctx, leagueID, username); err != nil {
		return translateRepoError(err, "failed to remove league member")
	}
	err = s.userRepo.RemoveJoinedLeague(ctx, username, leagueID)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to remove joined league: %w", err)
	}
	return nil
}

func (s *leagueService) DeleteLeague(ctx context.Context, leagueID, actingUsername string) error {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return translateRepoError(err, "failed to get league")
	}
	if league.OwnerUsername != actingUsername {
		return ErrNotLeagueOwner
	}

	// Users first: if the delete below fails the league is still there to retry.
	if err := s.userRepo.RemoveLeagueReferences(ctx, leagueID); err != nil {
		return fmt.Errorf("failed to remove league references: %w", err)
	}
	if err := s.leagueRepo.Delete(ctx, leagueID); err != nil {
		return translateRepoError(err, "failed to delete league")
	}
	return nil
}

func (s *leagueService) GetLeague(ctx context.Context, leagueID string) (*models.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, translateRepoError(err, "failed to get league")
	}
	return league, nil
}

func (s *leagueService) ListUserLeagues(ctx context.Context, username string) ([]*models.League, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, translateRepoError(err, "failed to get user")
	}

	ids := make([]string, 0, len(user.OwnedLeagues)+len(user.JoinedLeagues))
	seen := make(map[string]struct{}, cap(ids))
	for _, id := range append(append([]string{}, user.OwnedLeagues...), user.JoinedLeagues...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	leagues, err := s.leagueRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	return leagues, nil
}
