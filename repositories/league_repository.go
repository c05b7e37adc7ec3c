package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/callclub/models"
	"github.com/lib/pq"
)

var (
	ErrLeagueNotFound           = errors.New("league not found")
	ErrLeagueInviteCodeConflict = errors.New("league invite code conflict")
	ErrLeagueIDConflict         = errors.New("league id conflict")
	ErrLeagueRefInvalid         = errors.New("league owner or championship conflict or invalid")
)

type LeagueRepository interface {
	// Create inserts the league with its initial member list.
	Create(ctx context.Context, league *models.League) error
	GetByID(ctx context.Context, id string) (*models.League, error)
	GetByInviteCode(ctx context.Context, code string) (*models.League, error)
	InviteCodeExists(ctx context.Context, code string) (bool, error)
	ListByIDs(ctx context.Context, ids []string) ([]*models.League, error)
	// AddMember appends username when it is not a member yet and the league
	// has room. It reports whether the member list changed.
	AddMember(ctx context.Context, id, username string) (bool, error)
	RemoveMember(ctx context.Context, id, username string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

const leagueColumns = `id, name, owner_username, invite_code, championship_id, members, max_members, is_active, created_at`

func scanLeague(row rowScanner) (*models.League, error) {
	var l models.League
	err := row.Scan(
		&l.ID, &l.Name, &l.OwnerUsername, &l.InviteCode, &l.ChampionshipID,
		pq.Array(&l.Members), &l.MaxMembers, &l.IsActive, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *postgresLeagueRepository) Create(ctx context.Context, league *models.League) error {
	query := `
		INSERT INTO leagues (id, name, owner_username, invite_code, championship_id, members, max_members, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		league.ID,
		league.Name,
		league.OwnerUsername,
		league.InviteCode,
		league.ChampionshipID,
		pq.Array(league.Members),
		league.MaxMembers,
		league.IsActive,
	).Scan(&league.CreatedAt)
	if err != nil {
		if code, constraint, ok := constraintViolation(err); ok {
			switch code {
			case pqUniqueViolation:
				switch constraint {
				case "leagues_invite_code_key":
					return ErrLeagueInviteCodeConflict
				case "leagues_pkey":
					return ErrLeagueIDConflict
				}
			case pqForeignKeyViolation:
				return ErrLeagueRefInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id string) (*models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE id = $1`
	return scanLeague(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresLeagueRepository) GetByInviteCode(ctx context.Context, code string) (*models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE invite_code = $1`
	return scanLeague(r.db.QueryRowContext(ctx, query, code))
}

func (r *postgresLeagueRepository) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM leagues WHERE invite_code = $1)`, code).Scan(&exists)
	return exists, err
}

func (r *postgresLeagueRepository) ListByIDs(ctx context.Context, ids []string) ([]*models.League, error) {
	leagues := make([]*models.League, 0, len(ids))
	if len(ids) == 0 {
		return leagues, nil
	}

	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE id = ANY($1) ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		l, scanErr := scanLeague(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		leagues = append(leagues, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return leagues, nil
}

func (r *postgresLeagueRepository) AddMember(ctx context.Context, id, username string) (bool, error) {
	query := `
		UPDATE leagues SET members = array_append(members, $2)
		WHERE id = $1
			AND NOT ($2 = ANY(members))
			AND (max_members <= 0 OR cardinality(members) < max_members)`

	result, err := r.db.ExecContext(ctx, query, id, username)
	if err != nil {
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rowsAffected > 0, nil
}

func (r *postgresLeagueRepository) RemoveMember(ctx context.Context, id, username string) error {
	query := `UPDATE leagues SET members = array_remove(members, $2) WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, username)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrLeagueNotFound)
}

func (r *postgresLeagueRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM leagues`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
