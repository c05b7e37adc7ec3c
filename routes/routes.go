package routes

import (
	"net/http"
	"time"

	_ "github.com/Dosada05/callclub/docs"
	"github.com/Dosada05/callclub/handlers"
	"github.com/Dosada05/callclub/middleware"
	"github.com/Dosada05/callclub/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	Prediction   *handlers.PredictionHandler
	Ranking      *handlers.RankingHandler
	League       *handlers.LeagueHandler
	Championship *handlers.ChampionshipHandler
	AdminUser    *handlers.AdminUserHandler
	AdminResults *handlers.AdminResultsHandler
	AdminStats   *handlers.AdminStatsHandler
	Profile      *handlers.ProfileHandler
	Health       *handlers.HealthHandler
}

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func SetupRoutes(router *chi.Mux, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	if opts.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(opts.JWTSecret)

	router.Get("/health", h.Health.Health)
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/championships", func(r chi.Router) {
			r.Get("/", h.Championship.List)
			r.Get("/{championshipID}", h.Championship.Get)
			r.Get("/{championshipID}/next-match", h.Championship.NextMatch)
			r.Get("/{championshipID}/rounds", h.Championship.Rounds)
			r.Get("/{championshipID}/rounds/{round}/matches", h.Championship.MatchesByRound)
		})

		r.Get("/matches/popular-predictions", h.Prediction.Popular)
		r.Get("/matches/{matchID}/lock-status", h.Prediction.LockStatus)
		r.Get("/users/{username}/predictions", h.Prediction.ListPublic)
		r.Get("/users/{username}/profile", h.Profile.Get)

		r.Route("/rankings", func(r chi.Router) {
			r.Get("/championships/{championshipID}", h.Ranking.Championship)
			r.Get("/championships/{championshipID}/rounds/{round}", h.Ranking.Round)
			r.Get("/leagues/{leagueID}", h.Ranking.League)
		})

		r.Route("/predictions", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.Prediction.Submit)
			r.Get("/me", h.Prediction.ListMine)
		})

		r.Route("/leagues", func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", h.League.Create)
			r.Post("/join", h.League.Join)
			r.Get("/mine", h.League.ListMine)
			r.Get("/{leagueID}", h.League.Get)
			r.Post("/{leagueID}/leave", h.League.Leave)
			r.Delete("/{leagueID}", h.League.Delete)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.Auth.AdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(middleware.Authorize(models.RoleAdmin))

				r.Post("/matches/{matchID}/result", h.AdminResults.UpdateMatchResult)
				r.Put("/matches", h.Championship.UpsertMatch)
				r.Post("/recalculate", h.AdminResults.Recalculate)
				r.Post("/sync", h.AdminResults.Sync)
				r.Post("/snapshots", h.AdminResults.PublishSnapshots)
				r.Post("/championships", h.Championship.Create)

				r.Get("/stats", h.AdminStats.Stats)
				r.Get("/users", h.AdminUser.ListUsers)
				r.Patch("/users/{username}/plan", h.AdminUser.UpdatePlan)
				r.Patch("/users/{username}/ban", h.AdminUser.SetBanned)
			})
		})
	})
}
