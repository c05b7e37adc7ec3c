package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/callclub/feeds"
	"github.com/Dosada05/callclub/models"
	"github.com/Dosada05/callclub/repositories"
)

type SyncReport struct {
	MatchesCreated    int      `json:"matches_created"`
	MatchesUpdated    int      `json:"matches_updated"`
	ResultsUpdated    int      `json:"results_updated"`
	UsersRecalculated int      `json:"users_recalculated"`
	SnapshotsUploaded int      `json:"snapshots_uploaded"`
	Errors            []string `json:"errors"`
}

type SyncService interface {
	// SyncResults pulls every round of every active championship from the
	// feed, stores new fixtures and final scores, then recalculates all
	// points and republishes the ranking snapshots. A failing round is
	// logged, reported and skipped.
	SyncResults(ctx context.Context) (*SyncReport, error)
}

type syncService struct {
	championshipRepo repositories.ChampionshipRepository
	matchRepo        repositories.MatchRepository
	feed             feeds.FixtureFeed
	points           PointsService
	snapshots        SnapshotService
	logger           *slog.Logger
}

func NewSyncService(
	championshipRepo repositories.ChampionshipRepository,
	matchRepo repositories.MatchRepository,
	feed feeds.FixtureFeed,
	points PointsService,
	snapshots SnapshotService,
	logger *slog.Logger,
) SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &syncService{
		championshipRepo: championshipRepo,
		matchRepo:        matchRepo,
		feed:             feed,
		points:           points,
		snapshots:        snapshots,
		logger:           logger,
	}
}

func (s *syncService) SyncResults(ctx context.Context) (*SyncReport, error) {
	championships, err := s.championshipRepo.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list championships: %w", err)
	}

	report := &SyncReport{Errors: []string{}}
	for _, c := range championships {
		if c.APIID == "" {
			continue
		}
		for round := 1; round <= c.TotalRounds; round++ {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			fixtures, err := s.feed.RoundFixtures(ctx, c.APIID, c.Season, round)
			if err != nil {
				s.logger.WarnContext(ctx, "Feed round failed",
					slog.String("championship_id", c.ID),
					slog.Int("round", round),
					slog.Any("error", err),
				)
				report.Errors = append(report.Errors, fmt.Sprintf("%s R%d: %v", c.ID, round, err))
				continue
			}
			for _, f := range fixtures {
				if err := s.applyFixture(ctx, c, f, report); err != nil {
					return report, err
				}
			}
		}
	}

	users, err := s.points.RecalculateAll(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to recalculate points after sync: %w", err)
	}
	report.UsersRecalculated = users

	if s.snapshots != nil {
		uploaded, err := s.snapshots.PublishChampionshipSnapshots(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "Snapshot publishing failed after sync", slog.Any("error", err))
			report.Errors = append(report.Errors, fmt.Sprintf("snapshots: %v", err))
		}
		report.SnapshotsUploaded = uploaded
	}

	s.logger.InfoContext(ctx, "Fixture sync finished",
		slog.Int("matches_created", report.MatchesCreated),
		slog.Int("matches_updated", report.MatchesUpdated),
		slog.Int("results_updated", report.ResultsUpdated),
		slog.Int("users_recalculated", report.UsersRecalculated),
		slog.Int("errors", len(report.Errors)),
	)
	return report, nil
}

// applyFixture stores one feed fixture. Scheduling fields are upserted; a
// final score only moves a match forward to finished, it never reopens one.
func (s *syncService) applyFixture(ctx context.Context, c *models.Championship, f feeds.Fixture, report *SyncReport) error {
	existing, err := s.matchRepo.GetByID(ctx, f.ExternalID)
	if err != nil && !errors.Is(err, repositories.ErrMatchNotFound) {
		return fmt.Errorf("failed to get match %s: %w", f.ExternalID, err)
	}

	if existing == nil {
		match := &models.Match{
			ID:             f.ExternalID,
			ChampionshipID: c.ID,
			RoundNumber:    f.Round,
			HomeTeam:       f.HomeTeam,
			AwayTeam:       f.AwayTeam,
			KickoffAt:      f.KickoffAt,
			Venue:          f.Venue,
		}
		if f.Finished {
			match.HomeScore, match.AwayScore, match.IsFinished = f.HomeScore, f.AwayScore, true
		}
		if err := s.matchRepo.Upsert(ctx, match); err != nil {
			return fmt.Errorf("failed to create match %s: %w", f.ExternalID, err)
		}
		report.MatchesCreated++
		return nil
	}

	if scheduleChanged(existing, c.ID, f) {
		updated := *existing
		updated.ChampionshipID = c.ID
		updated.RoundNumber = f.Round
		updated.HomeTeam = f.HomeTeam
		updated.AwayTeam = f.AwayTeam
		updated.KickoffAt = f.KickoffAt
		updated.Venue = f.Venue
		if err := s.matchRepo.Upsert(ctx, &updated); err != nil {
			return fmt.Errorf("failed to update match %s: %w", f.ExternalID, err)
		}
		report.MatchesUpdated++
	}

	if f.Finished && resultChanged(existing, f) {
		if err := s.matchRepo.UpdateResult(ctx, existing.ID, f.HomeScore, f.AwayScore, true); err != nil {
			return fmt.Errorf("failed to store result of match %s: %w", f.ExternalID, err)
		}
		report.ResultsUpdated++
	}
	return nil
}

func scheduleChanged(m *models.Match, championshipID string, f feeds.Fixture) bool {
	return m.ChampionshipID != championshipID ||
		m.RoundNumber != f.Round ||
		m.HomeTeam != f.HomeTeam ||
		m.AwayTeam != f.AwayTeam ||
		!m.KickoffAt.Equal(f.KickoffAt) ||
		derefString(m.Venue) != derefString(f.Venue)
}

func resultChanged(m *models.Match, f feeds.Fixture) bool {
	if !m.HasFinalScore() {
		return true
	}
	return *m.HomeScore != *f.HomeScore || *m.AwayScore != *f.AwayScore
}
