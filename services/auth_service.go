package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
	"golang.org/x/crypto/bcrypt"
)

// AdminUsername is the subject of admin tokens. No account may register it.
const AdminUsername = "admin"

const (
	pinLength         = 4
	usernameMaxLength = 32
	defaultCountry    = "BR"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	// AdminLogin checks password against the configured admin password.
	AdminLogin(password string) error
}

type RegisterInput struct {
	Username string          `json:"username"`
	Pin      string          `json:"pin"`
	Country  string          `json:"country"`
	Plan     models.PlanType `json:"-"`
}

type LoginInput struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

type authService struct {
	userRepo      repositories.UserRepository
	adminPassword string
}

func NewAuthService(userRepo repositories.UserRepository, adminPassword string) AuthService {
	return &authService{
		userRepo:      userRepo,
		adminPassword: adminPassword,
	}
}

func validatePin(pin string) error {
	if len(pin) != pinLength {
		return fmt.Errorf("%w: pin must have %d digits", ErrValidationFailed, pinLength)
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: pin must be numeric", ErrValidationFailed)
		}
	}
	return nil
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || len(username) > usernameMaxLength {
		return nil, fmt.Errorf("%w: username must have 1 to %d characters", ErrValidationFailed, usernameMaxLength)
	}
	if strings.EqualFold(username, AdminUsername) {
		return nil, fmt.Errorf("%w: username %q is reserved", ErrValidationFailed, username)
	}
	if err := validatePin(input.Pin); err != nil {
		return nil, err
	}

	plan := input.Plan
	if plan == "" {
		plan = models.PlanFree
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("%w: unknown plan %q", ErrValidationFailed, plan)
	}
	country := strings.ToUpper(strings.TrimSpace(input.Country))
	if country == "" {
		country = defaultCountry
	}

	hashedPin, err := bcrypt.GenerateFromPassword([]byte(input.Pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	user := &models.User{
		Username: username,
		PinHash:  string(hashedPin),
		Plan:     plan,
		Country:  country,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translateRepoError(err, "failed to create user")
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PinHash), []byte(input.Pin))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to compare pin hash: %w", err)
	}
	if user.IsBanned {
		return nil, ErrUnauthorized
	}

	user.PinHash = ""
	return user, nil
}

func (s *authService) AdminLogin(password string) error {
	if s.adminPassword == "" || subtle.ConstantTimeCompare([]byte(password), []byte(s.adminPassword)) != 1 {
		return ErrInvalidCredentials
	}
	return nil
}
