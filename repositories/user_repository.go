package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/callclub/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserUsernameConflict = errors.New("user username conflict")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, includeBanned bool) ([]*models.User, error)
	SetTotalPoints(ctx context.Context, username string, total int) error
	SetBanned(ctx context.Context, username string, banned bool) error
	SetPlan(ctx context.Context, username string, plan models.PlanType) error
	AddOwnedLeague(ctx context.Context, username, leagueID string) error
	AddJoinedLeague(ctx context.Context, username, leagueID string) error
	RemoveJoinedLeague(ctx context.Context, username, leagueID string) error
	// RemoveLeagueReferences drops leagueID from the owned and joined lists of every user.
	RemoveLeagueReferences(ctx context.Context, leagueID string) error
	// CountByPlan counts every user, banned ones included, per plan.
	CountByPlan(ctx context.Context) (map[models.PlanType]int, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `username, pin_hash, plan, country, total_points, owned_leagues, joined_leagues, is_banned, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.Username, &u.PinHash, &u.Plan, &u.Country, &u.TotalPoints,
		pq.Array(&u.OwnedLeagues), pq.Array(&u.JoinedLeagues), &u.IsBanned, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, pin_hash, plan, country)
		VALUES ($1, $2, $3, $4)
		RETURNING total_points, is_banned, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.PinHash,
		user.Plan,
		user.Country,
	).Scan(&user.TotalPoints, &user.IsBanned, &user.CreatedAt)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqUniqueViolation {
			return ErrUserUsernameConflict
		}
		return err
	}
	user.OwnedLeagues = []string{}
	user.JoinedLeagues = []string{}
	return nil
}

func (r *postgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *postgresUserRepository) List(ctx context.Context, includeBanned bool) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	if !includeBanned {
		query += ` WHERE NOT is_banned`
	}
	query += ` ORDER BY username ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, scanErr := scanUser(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		users = append(users, u)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *postgresUserRepository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) SetTotalPoints(ctx context.Context, username string, total int) error {
	return r.exec(ctx, `UPDATE users SET total_points = $2 WHERE username = $1`, username, total)
}

func (r *postgresUserRepository) SetBanned(ctx context.Context, username string, banned bool) error {
	return r.exec(ctx, `UPDATE users SET is_banned = $2 WHERE username = $1`, username, banned)
}

func (r *postgresUserRepository) SetPlan(ctx context.Context, username string, plan models.PlanType) error {
	return r.exec(ctx, `UPDATE users SET plan = $2 WHERE username = $1`, username, plan)
}

func (r *postgresUserRepository) AddOwnedLeague(ctx context.Context, username, leagueID string) error {
	query := `
		UPDATE users SET owned_leagues = CASE
			WHEN $2 = ANY(owned_leagues) THEN owned_leagues
			ELSE array_append(owned_leagues, $2)
		END
		WHERE username = $1`
	return r.exec(ctx, query, username, leagueID)
}

func (r *postgresUserRepository) AddJoinedLeague(ctx context.Context, username, leagueID string) error {
	query := `
		UPDATE users SET joined_leagues = CASE
			WHEN $2 = ANY(joined_leagues) THEN joined_leagues
			ELSE array_append(joined_leagues, $2)
		END
		WHERE username = $1`
	return r.exec(ctx, query, username, leagueID)
}

func (r *postgresUserRepository) RemoveJoinedLeague(ctx context.Context, username, leagueID string) error {
	query := `UPDATE users SET joined_leagues = array_remove(joined_leagues, $2) WHERE username = $1`
	return r.exec(ctx, query, username, leagueID)
}

func (r *postgresUserRepository) RemoveLeagueReferences(ctx context.Context, leagueID string) error {
	query := `
		UPDATE users SET
			owned_leagues = array_remove(owned_leagues, $1),
			joined_leagues = array_remove(joined_leagues, $1)
		WHERE $1 = ANY(owned_leagues) OR $1 = ANY(joined_leagues)`

	_, err := r.db.ExecContext(ctx, query, leagueID)
	return err
}

func (r *postgresUserRepository) CountByPlan(ctx context.Context) (map[models.PlanType]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT plan, COUNT(*) FROM users GROUP BY plan`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.PlanType]int)
	for rows.Next() {
		var plan models.PlanType
		var n int
		if err := rows.Scan(&plan, &n); err != nil {
			return nil, err
		}
		counts[plan] = n
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
