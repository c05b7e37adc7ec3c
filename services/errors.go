package services

import "errors"

// Errors shared by the services and mapped to HTTP statuses by the handlers.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrMatchNotFound        = errors.New("match not found")
	ErrLeagueNotFound       = errors.New("league not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrChampionshipNotFound = errors.New("championship not found")

	// Prediction writes
	ErrPredictionLocked = errors.New("predictions for this match are locked")

	// Membership policy
	ErrAlreadyMember    = errors.New("user is already a member of this league")
	ErrOwnerCannotLeave = errors.New("the league owner cannot leave, delete the league instead")
	ErrLeagueFull       = errors.New("league has reached its member limit")
	ErrNotLeagueOwner   = errors.New("only the league owner can perform this action")
	ErrLeagueCapReached = errors.New("league limit for the user's plan reached")

	// Validation
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidationFailed = errors.New("validation failed")

	// Conflicts
	ErrUsernameConflict     = errors.New("username is already taken")
	ErrChampionshipConflict = errors.New("championship already exists")

	// Auth
	ErrUnauthorized        = errors.New("user is not allowed to act")
	ErrInvalidCredentials  = errors.New("invalid username or pin")
	ErrInviteCodeExhausted = errors.New("failed to generate unique invite code")
)
