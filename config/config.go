package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Dosada05/callclub/models"
	"github.com/joho/godotenv"
)

// MemoryDatabaseURL selects the in-memory store instead of Postgres.
const MemoryDatabaseURL = "memory"

// Config holds every setting of the service.
type Config struct {
	DatabaseURL   string
	JWTSecretKey  string
	AdminPassword string
	ServerPort    int

	LeagueMaxMembers  int
	LeagueCaps        map[models.PlanType]int
	RecalcConcurrency int

	SyncInterval    time.Duration
	SportsDBBaseURL string
	SportsDBAPIKey  string

	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// UsesMemoryStore reports whether the service runs without a database.
func (c *Config) UsesMemoryStore() bool {
	return c.DatabaseURL == MemoryDatabaseURL
}

// R2Enabled reports whether snapshot publishing is configured.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != ""
}

// Load reads the configuration from the environment, loading a .env file
// first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecretKey:    os.Getenv("JWT_SECRET_KEY"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		SportsDBBaseURL: os.Getenv("SPORTSDB_BASE_URL"),
		SportsDBAPIKey:  envOr("SPORTSDB_API_KEY", "3"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, errors.New("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.AdminPassword == "" {
		return nil, errors.New("ADMIN_PASSWORD environment variable is not set")
	}

	var err error
	if cfg.ServerPort, err = intEnv("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}

	if cfg.LeagueMaxMembers, err = intEnv("LEAGUE_MAX_MEMBERS", 100); err != nil {
		return nil, err
	}
	if cfg.LeagueMaxMembers < 2 {
		return nil, fmt.Errorf("LEAGUE_MAX_MEMBERS must be at least 2, got %d", cfg.LeagueMaxMembers)
	}

	cfg.LeagueCaps = make(map[models.PlanType]int, 3)
	for plan, def := range map[models.PlanType]int{models.PlanFree: 0, models.PlanPremium: 2, models.PlanVIP: -1} {
		name := "LEAGUE_CAP_" + strings.ToUpper(string(plan))
		if cfg.LeagueCaps[plan], err = intEnv(name, def); err != nil {
			return nil, err
		}
	}

	if cfg.RecalcConcurrency, err = intEnv("RECALC_CONCURRENCY", 8); err != nil {
		return nil, err
	}
	if cfg.RecalcConcurrency < 1 {
		return nil, fmt.Errorf("RECALC_CONCURRENCY must be positive, got %d", cfg.RecalcConcurrency)
	}

	if raw := os.Getenv("SYNC_INTERVAL"); raw != "" {
		cfg.SyncInterval, err = time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SYNC_INTERVAL environment variable: %w", err)
		}
		if cfg.SyncInterval < 0 {
			return nil, fmt.Errorf("SYNC_INTERVAL must not be negative, got %s", cfg.SyncInterval)
		}
	}

	cfg.CORSAllowedOrigins = splitList(envOr("CORS_ALLOWED_ORIGINS", "*"))

	r2 := []string{cfg.R2AccountID, cfg.R2AccessKeyID, cfg.R2SecretAccessKey, cfg.R2BucketName, cfg.R2PublicBaseURL}
	set := 0
	for _, v := range r2 {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != len(r2) {
		return nil, errors.New("R2 settings are incomplete: set all of R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME, R2_PUBLIC_BASE_URL or none")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
