package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/callclub/repositories"
)

// translateRepoError maps repository sentinels onto service sentinels and
// wraps everything else with op.
func translateRepoError(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrLeagueNotFound):
		return ErrLeagueNotFound
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	case errors.Is(err, repositories.ErrChampionshipNotFound):
		return ErrChampionshipNotFound
	case errors.Is(err, repositories.ErrPredictionNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrUserUsernameConflict):
		return ErrUsernameConflict
	case errors.Is(err, repositories.ErrChampionshipConflict):
		return ErrChampionshipConflict
	}
	return fmt.Errorf("%s: %w", op, err)
}

func intPtr(v int) *int {
	return &v
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
