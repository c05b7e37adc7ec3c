package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/callclub/models"
)

var (
	ErrMatchNotFound            = errors.New("match not found")
	ErrMatchChampionshipInvalid = errors.New("match championship conflict or invalid")
)

// MatchFilter selects matches. Zero values disable a condition.
type MatchFilter struct {
	ChampionshipID string
	Round          int
	FinishedOnly   bool
}

type MatchRepository interface {
	GetByID(ctx context.Context, id string) (*models.Match, error)
	List(ctx context.Context, filter MatchFilter) ([]*models.Match, error)
	// Upsert inserts the match or overwrites every column of an existing one.
	// Predictions on the match follow a change of round or championship.
	Upsert(ctx context.Context, match *models.Match) error
	// UpdateResult writes the score and the finished flag of one match.
	UpdateResult(ctx context.Context, id string, homeScore, awayScore *int, finished bool) error
	Count(ctx context.Context) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, championship_id, round_number, home_team, away_team, home_score, away_score, kickoff_at, venue, is_finished, updated_at`

func scanMatch(row rowScanner) (*models.Match, error) {
	var m models.Match
	var homeScore, awayScore sql.NullInt64
	err := row.Scan(
		&m.ID, &m.ChampionshipID, &m.RoundNumber, &m.HomeTeam, &m.AwayTeam,
		&homeScore, &awayScore, &m.KickoffAt, &m.Venue, &m.IsFinished, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	m.HomeScore = nullIntPtr(homeScore)
	m.AwayScore = nullIntPtr(awayScore)
	return &m, nil
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresMatchRepository) List(ctx context.Context, filter MatchFilter) ([]*models.Match, error) {
	var conditions []string
	var args []interface{}

	if filter.ChampionshipID != "" {
		args = append(args, filter.ChampionshipID)
		conditions = append(conditions, "championship_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Round > 0 {
		args = append(args, filter.Round)
		conditions = append(conditions, "round_number = $"+strconv.Itoa(len(args)))
	}
	if filter.FinishedOnly {
		conditions = append(conditions, "is_finished")
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches`)
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY round_number ASC, kickoff_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Upsert(ctx context.Context, m *models.Match) error {
	query := `
		WITH upserted AS (
			INSERT INTO matches
				(id, championship_id, round_number, home_team, away_team, home_score, away_score, kickoff_at, venue, is_finished)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				championship_id = EXCLUDED.championship_id,
				round_number = EXCLUDED.round_number,
				home_team = EXCLUDED.home_team,
				away_team = EXCLUDED.away_team,
				home_score = EXCLUDED.home_score,
				away_score = EXCLUDED.away_score,
				kickoff_at = EXCLUDED.kickoff_at,
				venue = EXCLUDED.venue,
				is_finished = EXCLUDED.is_finished,
				updated_at = NOW()
			RETURNING id, championship_id, round_number, updated_at
		), moved AS (
			UPDATE predictions p SET
				championship_id = u.championship_id,
				round_number = u.round_number
			FROM upserted u
			WHERE p.match_id = u.id
				AND (p.championship_id <> u.championship_id OR p.round_number <> u.round_number)
		)
		SELECT updated_at FROM upserted`

	err := r.db.QueryRowContext(ctx, query,
		m.ID, m.ChampionshipID, m.RoundNumber, m.HomeTeam, m.AwayTeam,
		m.HomeScore, m.AwayScore, m.KickoffAt, m.Venue, m.IsFinished,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
			return ErrMatchChampionshipInvalid
		}
		return err
	}
	return nil
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id string, homeScore, awayScore *int, finished bool) error {
	query := `
		UPDATE matches SET
			home_score = $1,
			away_score = $2,
			is_finished = $3,
			updated_at = NOW()
		WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, homeScore, awayScore, finished, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
