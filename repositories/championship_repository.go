package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Dosada05/callclub/models"
)

var (
	ErrChampionshipNotFound = errors.New("championship not found")
	ErrChampionshipConflict = errors.New("championship id conflict")
)

type ChampionshipRepository interface {
	Create(ctx context.Context, championship *models.Championship) error
	GetByID(ctx context.Context, id string) (*models.Championship, error)
	// List returns championships ordered by name; activeOnly skips disabled ones.
	List(ctx context.Context, activeOnly bool) ([]*models.Championship, error)
}

type postgresChampionshipRepository struct {
	db *sql.DB
}

func NewPostgresChampionshipRepository(db *sql.DB) ChampionshipRepository {
	return &postgresChampionshipRepository{db: db}
}

const championshipColumns = `id, name, country, api_id, season, total_rounds, logo_url, is_active`

func scanChampionship(row rowScanner) (*models.Championship, error) {
	var c models.Championship
	err := row.Scan(&c.ID, &c.Name, &c.Country, &c.APIID, &c.Season, &c.TotalRounds, &c.LogoURL, &c.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrChampionshipNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresChampionshipRepository) Create(ctx context.Context, c *models.Championship) error {
	query := `
		INSERT INTO championships (id, name, country, api_id, season, total_rounds, logo_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Country, c.APIID, c.Season, c.TotalRounds, c.LogoURL, c.IsActive,
	)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqUniqueViolation {
			return ErrChampionshipConflict
		}
		return err
	}
	return nil
}

func (r *postgresChampionshipRepository) GetByID(ctx context.Context, id string) (*models.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE id = $1`
	return scanChampionship(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresChampionshipRepository) List(ctx context.Context, activeOnly bool) ([]*models.Championship, error) {
	query := `SELECT ` + championshipColumns + ` FROM championships WHERE ($1 = FALSE OR is_active) ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	championships := make([]*models.Championship, 0)
	for rows.Next() {
		c, scanErr := scanChampionship(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		championships = append(championships, c)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return championships, nil
}
