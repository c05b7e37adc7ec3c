package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/callclub/config"
	"github.com/Dosada05/callclub/db"
	"github.com/Dosada05/callclub/feeds"
	"github.com/Dosada05/callclub/handlers"
	"github.com/Dosada05/callclub/repositories"
	api "github.com/Dosada05/callclub/routes"
	"github.com/Dosada05/callclub/services"
	"github.com/Dosada05/callclub/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-co-op/gocron/v2"
)

type repositorySet struct {
	championships repositories.ChampionshipRepository
	matches       repositories.MatchRepository
	predictions   repositories.PredictionRepository
	users         repositories.UserRepository
	leagues       repositories.LeagueRepository
}

// @title CallClub API
// @version 1.0
// @description Score predictions, rankings and private leagues for football championships.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Bool("memory_store", cfg.UsesMemoryStore()))

	var (
		repos  repositorySet
		pinger handlers.Pinger
	)
	if cfg.UsesMemoryStore() {
		store := repositories.NewMemoryStore()
		repos = repositorySet{store.Championships(), store.Matches(), store.Predictions(), store.Users(), store.Leagues()}
		logger.Warn("using in-memory store, data is lost on restart")
	} else {
		dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
		if err != nil {
			logger.Error("failed to connect to database", slog.Any("error", err))
			os.Exit(1)
		}
		defer closeDB(logger, dbConn)
		logger.Info("database connection established")

		migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = db.Migrate(migrateCtx, dbConn)
		cancel()
		if err != nil {
			logger.Error("failed to apply database schema", slog.Any("error", err))
			os.Exit(1)
		}

		repos = repositorySet{
			championships: repositories.NewPostgresChampionshipRepository(dbConn),
			matches:       repositories.NewPostgresMatchRepository(dbConn),
			predictions:   repositories.NewPostgresPredictionRepository(dbConn),
			users:         repositories.NewPostgresUserRepository(dbConn),
			leagues:       repositories.NewPostgresLeagueRepository(dbConn),
		}
		pinger = dbConn
	}
	logger.Info("repositories initialized")

	var uploader storage.FileUploader
	if cfg.R2Enabled() {
		uploader, err = storage.NewCloudflareR2Uploader(context.Background(), storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	feed := feeds.NewSportsDBClient(feeds.SportsDBConfig{
		BaseURL: cfg.SportsDBBaseURL,
		APIKey:  cfg.SportsDBAPIKey,
		Logger:  logger,
	})

	authService := services.NewAuthService(repos.users, cfg.AdminPassword)
	adminUserService := services.NewAdminUserService(repos.users)
	championshipService := services.NewChampionshipService(repos.championships, repos.matches, time.Now)
	pointsService := services.NewPointsService(repos.matches, repos.predictions, repos.users, logger, cfg.RecalcConcurrency)
	rankingService := services.NewRankingService(repos.championships, repos.matches, repos.predictions, repos.users, repos.leagues)
	leagueService := services.NewLeagueService(repos.leagues, repos.users, repos.championships, cfg.LeagueCaps, cfg.LeagueMaxMembers)
	predictionService := services.NewPredictionService(repos.predictions, repos.matches, repos.users, repos.leagues, time.Now)
	profileService := services.NewProfileService(repos.users, repos.predictions, repos.matches, repos.leagues, cfg.LeagueCaps, cfg.LeagueMaxMembers)
	adminStatsService := services.NewAdminStatsService(repos.users, repos.predictions, repos.matches, repos.leagues, repos.championships)
	snapshotService := services.NewSnapshotService(repos.championships, rankingService, uploader, logger)
	syncService := services.NewSyncService(repos.championships, repos.matches, feed, pointsService, snapshotService, logger)
	logger.Info("services initialized")

	scheduler, err := startSyncScheduler(logger, syncService, cfg.SyncInterval)
	if err != nil {
		logger.Error("failed to start sync scheduler", slog.Any("error", err))
		os.Exit(1)
	}

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Handlers{
		Auth:         handlers.NewAuthHandler(authService, cfg.JWTSecretKey),
		Prediction:   handlers.NewPredictionHandler(predictionService),
		Ranking:      handlers.NewRankingHandler(rankingService),
		League:       handlers.NewLeagueHandler(leagueService, rankingService),
		Championship: handlers.NewChampionshipHandler(championshipService),
		AdminUser:    handlers.NewAdminUserHandler(adminUserService),
		AdminResults: handlers.NewAdminResultsHandler(pointsService, syncService, snapshotService),
		AdminStats:   handlers.NewAdminStatsHandler(adminStatsService),
		Profile:      handlers.NewProfileHandler(profileService),
		Health:       handlers.NewHealthHandler(pinger),
	}, api.Options{
		JWTSecret:      cfg.JWTSecretKey,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		RequestTimeout: 60 * time.Second,
	})
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
		} else {
			logger.Info("server shutdown complete")
		}
	}

	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			logger.Error("failed to stop sync scheduler", slog.Any("error", err))
		}
	}
	logger.Info("application exited")
}

// startSyncScheduler runs the fixture sync every interval. A zero interval
// disables the job and returns a nil scheduler.
func startSyncScheduler(logger *slog.Logger, syncService services.SyncService, interval time.Duration) (gocron.Scheduler, error) {
	if interval <= 0 {
		logger.Info("fixture sync scheduler disabled")
		return nil, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			defer cancel()

			report, err := syncService.SyncResults(ctx)
			if err != nil {
				logger.Error("scheduled sync failed", slog.Any("error", err))
				return
			}
			logger.Info("scheduled sync finished",
				slog.Int("matches_created", report.MatchesCreated),
				slog.Int("results_updated", report.ResultsUpdated),
				slog.Int("users_recalculated", report.UsersRecalculated),
				slog.Int("errors", len(report.Errors)))
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule sync job: %w", err)
	}

	scheduler.Start()
	logger.Info("fixture sync scheduler started", slog.Duration("interval", interval))
	return scheduler, nil
}

func closeDB(logger *slog.Logger, dbConn *sql.DB) {
	if err := dbConn.Close(); err != nil {
		logger.Error("failed to close database connection", slog.Any("error", err))
		return
	}
	logger.Info("database connection closed")
}
