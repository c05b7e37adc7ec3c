package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
	"github.com/Dosada05/callclub/scoring"
	"golang.org/x/sync/errgroup"
)

const defaultRecalcConcurrency = 8

type PointsService interface {
	// OnMatchFinished stores the final score, rescores the predictions of that
	// match and resums the totals of the users who predicted it. It returns
	// the number of predictions recalculated.
	OnMatchFinished(ctx context.Context, matchID string, homeScore, awayScore int) (int, error)
	// RecalculateAll rederives every prediction's points and every user's
	// total from the current match state. It returns the number of users
	// updated. Running it again with unchanged data changes nothing.
	RecalculateAll(ctx context.Context) (int, error)
	// UpdateMatchResult applies an admin correction to a match. Finishing a
	// match goes through OnMatchFinished; reopening it clears its points.
	UpdateMatchResult(ctx context.Context, input MatchResultInput) (int, error)
}

type MatchResultInput struct {
	MatchID    string `json:"-"`
	HomeScore  *int   `json:"home_score"`
	AwayScore  *int   `json:"away_score"`
	IsFinished *bool  `json:"is_finished"`
}

type pointsService struct {
	matchRepo      repositories.MatchRepository
	predictionRepo repositories.PredictionRepository
	userRepo       repositories.UserRepository
	logger         *slog.Logger
	concurrency    int
}

func NewPointsService(
	matchRepo repositories.MatchRepository,
	predictionRepo repositories.PredictionRepository,
	userRepo repositories.UserRepository,
	logger *slog.Logger,
	concurrency int,
) PointsService {
	if concurrency <= 0 {
		concurrency = defaultRecalcConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &pointsService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		userRepo:       userRepo,
		logger:         logger,
		concurrency:    concurrency,
	}
}

func (s *pointsService) OnMatchFinished(ctx context.Context, matchID string, homeScore, awayScore int) (int, error) {
	if homeScore < 0 || awayScore < 0 {
		return 0, fmt.Errorf("%w: scores must be non-negative", ErrInvalidInput)
	}
	if _, err := s.matchRepo.GetByID(ctx, matchID); err != nil {
		return 0, translateRepoError(err, "failed to get match")
	}
	if err := s.matchRepo.UpdateResult(ctx, matchID, &homeScore, &awayScore, true); err != nil {
		return 0, translateRepoError(err, "failed to store match result")
	}

	predictions, err := s.predictionRepo.List(ctx, repositories.PredictionFilter{MatchID: matchID})
	if err != nil {
		return 0, fmt.Errorf("failed to list predictions for match %s: %w", matchID, err)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, p := range predictions {
		points := scoring.Score(p.HomePrediction, p.AwayPrediction, homeScore, awayScore)
		id := p.ID
		g.Go(func() error {
			return s.predictionRepo.UpdatePoints(gCtx, id, &points)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to write points for match %s: %w", matchID, err)
	}

	if err := s.resumUsers(ctx, affectedUsers(predictions)); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "Match finished and scored",
		slog.String("match_id", matchID),
		slog.Int("home_score", homeScore),
		slog.Int("away_score", awayScore),
		slog.Int("predictions", len(predictions)),
	)
	return len(predictions), nil
}

func (s *pointsService) RecalculateAll(ctx context.Context) (int, error) {
	var (
		matches     []*models.Match
		predictions []*models.Prediction
		users       []*models.User
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.List(gCtx, repositories.MatchFilter{})
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		predictions, err = s.predictionRepo.List(gCtx, repositories.PredictionFilter{})
		if err != nil {
			return fmt.Errorf("failed to list predictions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.userRepo.List(gCtx, true)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	byMatch := make(map[string]*models.Match, len(matches))
	for _, m := range matches {
		byMatch[m.ID] = m
	}

	totals := make(map[string]int, len(users))
	for _, u := range users {
		totals[u.Username] = 0
	}

	type pointsWrite struct {
		id     int64
		points *int
	}
	var writes []pointsWrite
	scored, cleared := 0, 0

	for _, p := range predictions {
		m := byMatch[p.MatchID]
		if !m.HasFinalScore() {
			if p.Points != nil {
				writes = append(writes, pointsWrite{id: p.ID})
				cleared++
			}
			continue
		}
		points := scoring.ScorePrediction(p, m)
		totals[p.Username] += points
		scored++
		if p.Points == nil || *p.Points != points {
			writes = append(writes, pointsWrite{id: p.ID, points: intPtr(points)})
		}
	}

	wg, wCtx := errgroup.WithContext(ctx)
	wg.SetLimit(s.concurrency)
	for _, w := range writes {
		wg.Go(func() error {
			return s.predictionRepo.UpdatePoints(wCtx, w.id, w.points)
		})
	}
	if err := wg.Wait(); err != nil {
		return 0, fmt.Errorf("failed to write prediction points: %w", err)
	}

	ug, uCtx := errgroup.WithContext(ctx)
	ug.SetLimit(s.concurrency)
	for username, total := range totals {
		ug.Go(func() error {
			err := s.userRepo.SetTotalPoints(uCtx, username, total)
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil
			}
			return err
		})
	}
	if err := ug.Wait(); err != nil {
		return 0, fmt.Errorf("failed to write user totals: %w", err)
	}

	s.logger.InfoContext(ctx, "Recalculated all points",
		slog.Int("predictions_scored", scored),
		slog.Int("predictions_cleared", cleared),
		slog.Int("points_written", len(writes)),
		slog.Int("users", len(totals)),
	)
	return len(totals), nil
}

func (s *pointsService) UpdateMatchResult(ctx context.Context, input MatchResultInput) (int, error) {
	match, err := s.matchRepo.GetByID(ctx, input.MatchID)
	if err != nil {
		return 0, translateRepoError(err, "failed to get match")
	}

	home, away, finished := match.HomeScore, match.AwayScore, match.IsFinished
	if input.HomeScore != nil {
		home = input.HomeScore
	}
	if input.AwayScore != nil {
		away = input.AwayScore
	}
	if input.IsFinished != nil {
		finished = *input.IsFinished
	}
	if (home != nil && *home < 0) || (away != nil && *away < 0) {
		return 0, fmt.Errorf("%w: scores must be non-negative", ErrInvalidInput)
	}

	if finished {
		if home == nil || away == nil {
			return 0, fmt.Errorf("%w: a finished match needs both scores", ErrInvalidInput)
		}
		return s.OnMatchFinished(ctx, match.ID, *home, *away)
	}

	if err := s.matchRepo.UpdateResult(ctx, match.ID, home, away, false); err != nil {
		return 0, translateRepoError(err, "failed to update match")
	}

	predictions, err := s.predictionRepo.List(ctx, repositories.PredictionFilter{MatchID: match.ID})
	if err != nil {
		return 0, fmt.Errorf("failed to list predictions for match %s: %w", match.ID, err)
	}
	var stale []*models.Prediction
	for _, p := range predictions {
		if p.Points != nil {
			stale = append(stale, p)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, p := range stale {
		g.Go(func() error {
			return s.predictionRepo.UpdatePoints(gCtx, p.ID, nil)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to clear points for match %s: %w", match.ID, err)
	}
	if err := s.resumUsers(ctx, affectedUsers(stale)); err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "Match reopened, points cleared",
		slog.String("match_id", match.ID),
		slog.Int("predictions", len(stale)),
	)
	return len(stale), nil
}

// resumUsers rewrites the cached total of each user from their stored points.
func (s *pointsService) resumUsers(ctx context.Context, usernames []string) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, username := range usernames {
		g.Go(func() error {
			total, err := s.predictionRepo.SumPointsByUsername(gCtx, username)
			if err != nil {
				return fmt.Errorf("failed to sum points of %s: %w", username, err)
			}
			err = s.userRepo.SetTotalPoints(gCtx, username, total)
			if errors.Is(err, repositories.ErrUserNotFound) {
				s.logger.WarnContext(gCtx, "Prediction owner missing while resumming", slog.String("username", username))
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

func affectedUsers(predictions []*models.Prediction) []string {
	usernames := make([]string, 0, len(predictions))
	for _, p := range predictions {
		usernames = append(usernames, p.Username)
	}
	slices.Sort(usernames)
	return slices.Compact(usernames)
}
