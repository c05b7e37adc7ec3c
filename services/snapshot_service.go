package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/callclub/repositories"
	"github.com/Dosada05/callclub/storage"
)

const snapshotKeyPrefix = "rankings/"

type SnapshotService interface {
	// PublishChampionshipSnapshots uploads the ranking of every active
	// championship as JSON. It returns how many snapshots were published and
	// does nothing when no uploader is configured.
	PublishChampionshipSnapshots(ctx context.Context) (int, error)
}

type RankingSnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	*ChampionshipRanking
}

type snapshotService struct {
	championshipRepo repositories.ChampionshipRepository
	rankingService   RankingService
	uploader         storage.FileUploader
	logger           *slog.Logger
	now              func() time.Time
}

func NewSnapshotService(
	championshipRepo repositories.ChampionshipRepository,
	rankingService RankingService,
	uploader storage.FileUploader,
	logger *slog.Logger,
) SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &snapshotService{
		championshipRepo: championshipRepo,
		rankingService:   rankingService,
		uploader:         uploader,
		logger:           logger,
		now:              time.Now,
	}
}

func SnapshotKey(championshipID string) string {
	return snapshotKeyPrefix + championshipID + ".json"
}

func (s *snapshotService) PublishChampionshipSnapshots(ctx context.Context) (int, error) {
	if s.uploader == nil {
		s.logger.DebugContext(ctx, "Snapshot publishing skipped, no uploader configured")
		return 0, nil
	}

	championships, err := s.championshipRepo.List(ctx, true)
	if err != nil {
		return 0, fmt.Errorf("failed to list championships: %w", err)
	}

	published := 0
	for _, c := range championships {
		ranking, err := s.rankingService.GetChampionshipRanking(ctx, c.ID)
		if err != nil {
			return published, fmt.Errorf("failed to build ranking for %s: %w", c.ID, err)
		}

		payload, err := json.Marshal(RankingSnapshot{GeneratedAt: s.now().UTC(), ChampionshipRanking: ranking})
		if err != nil {
			return published, fmt.Errorf("failed to encode ranking for %s: %w", c.ID, err)
		}

		result, err := s.uploader.Upload(ctx, SnapshotKey(c.ID), "application/json", bytes.NewReader(payload))
		if err != nil {
			return published, fmt.Errorf("failed to upload ranking for %s: %w", c.ID, err)
		}
		published++

		s.logger.InfoContext(ctx, "Ranking snapshot published",
			slog.String("championship_id", c.ID),
			slog.String("location", result.Location),
			slog.Int("entries", len(ranking.Ranking)),
		)
	}
	return published, nil
}
