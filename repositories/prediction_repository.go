package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"

	"github.com/Dosada05/callclub/models"
	"github.com/lib/pq"
)

var (
	ErrPredictionNotFound   = errors.New("prediction not found")
	ErrPredictionRefInvalid = errors.New("prediction user or match conflict or invalid")
)

// PredictionFilter selects predictions. Zero values disable a condition.
type PredictionFilter struct {
	Username       string
	MatchID        string
	ChampionshipID string
	Round          int
}

type PredictionRepository interface {
	// Upsert creates the prediction for (username, match) or overwrites the
	// guess of the existing one. Points are reset to NULL either way.
	Upsert(ctx context.Context, prediction *models.Prediction) error
	GetByUserAndMatch(ctx context.Context, username, matchID string) (*models.Prediction, error)
	List(ctx context.Context, filter PredictionFilter) ([]*models.Prediction, error)
	// UpdatePoints overwrites the points of one prediction; nil clears them.
	UpdatePoints(ctx context.Context, id int64, points *int) error
	// SumPointsByUsername adds up every non-null points value of the user.
	SumPointsByUsername(ctx context.Context, username string) (int, error)
	// PopularScorelines returns the most predicted scoreline of every match in
	// matchIDs that has predictions. Ties go to the lower home score, then the
	// lower away score.
	PopularScorelines(ctx context.Context, matchIDs []string) ([]*models.ScorelineVotes, error)
	Count(ctx context.Context) (int, error)
}

type postgresPredictionRepository struct {
	db *sql.DB
}

func NewPostgresPredictionRepository(db *sql.DB) PredictionRepository {
	return &postgresPredictionRepository{db: db}
}

const predictionColumns = `id, username, match_id, championship_id, league_id, round_number, home_prediction, away_prediction, points, created_at`

func scanPrediction(row rowScanner) (*models.Prediction, error) {
	var p models.Prediction
	var points sql.NullInt64
	err := row.Scan(
		&p.ID, &p.Username, &p.MatchID, &p.ChampionshipID, &p.LeagueID, &p.RoundNumber,
		&p.HomePrediction, &p.AwayPrediction, &points, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPredictionNotFound
		}
		return nil, err
	}
	p.Points = nullIntPtr(points)
	return &p, nil
}

func (r *postgresPredictionRepository) Upsert(ctx context.Context, p *models.Prediction) error {
	query := `
		INSERT INTO predictions
			(username, match_id, championship_id, league_id, round_number, home_prediction, away_prediction)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username, match_id) DO UPDATE SET
			championship_id = EXCLUDED.championship_id,
			league_id = EXCLUDED.league_id,
			round_number = EXCLUDED.round_number,
			home_prediction = EXCLUDED.home_prediction,
			away_prediction = EXCLUDED.away_prediction,
			points = NULL
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Username, p.MatchID, p.ChampionshipID, p.LeagueID, p.RoundNumber, p.HomePrediction, p.AwayPrediction,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if code, _, ok := constraintViolation(err); ok && code == pqForeignKeyViolation {
			return ErrPredictionRefInvalid
		}
		return err
	}
	p.Points = nil
	return nil
}

func (r *postgresPredictionRepository) GetByUserAndMatch(ctx context.Context, username, matchID string) (*models.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions WHERE username = $1 AND match_id = $2`
	return scanPrediction(r.db.QueryRowContext(ctx, query, username, matchID))
}

func (r *postgresPredictionRepository) List(ctx context.Context, filter PredictionFilter) ([]*models.Prediction, error) {
	var conditions []string
	var args []interface{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, column+" = $"+strconv.Itoa(len(args)))
	}
	if filter.Username != "" {
		add("username", filter.Username)
	}
	if filter.MatchID != "" {
		add("match_id", filter.MatchID)
	}
	if filter.ChampionshipID != "" {
		add("championship_id", filter.ChampionshipID)
	}
	if filter.Round > 0 {
		add("round_number", filter.Round)
	}

	queryBuilder := strings.Builder{}
	queryBuilder.WriteString(`SELECT ` + predictionColumns + ` FROM predictions`)
	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	predictions := make([]*models.Prediction, 0)
	for rows.Next() {
		p, scanErr := scanPrediction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		predictions = append(predictions, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *postgresPredictionRepository) UpdatePoints(ctx context.Context, id int64, points *int) error {
	query := `UPDATE predictions SET points = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, points, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPredictionNotFound)
}

func (r *postgresPredictionRepository) SumPointsByUsername(ctx context.Context, username string) (int, error) {
	query := `SELECT COALESCE(SUM(points), 0) FROM predictions WHERE username = $1 AND points IS NOT NULL`

	var total int
	if err := r.db.QueryRowContext(ctx, query, username).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postgresPredictionRepository) PopularScorelines(ctx context.Context, matchIDs []string) ([]*models.ScorelineVotes, error) {
	query := `
		SELECT DISTINCT ON (match_id) match_id, home_prediction, away_prediction, COUNT(*) AS votes
		FROM predictions
		WHERE match_id = ANY($1)
		GROUP BY match_id, home_prediction, away_prediction
		ORDER BY match_id, votes DESC, home_prediction ASC, away_prediction ASC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	popular := make([]*models.ScorelineVotes, 0, len(matchIDs))
	for rows.Next() {
		var v models.ScorelineVotes
		if err := rows.Scan(&v.MatchID, &v.HomePrediction, &v.AwayPrediction, &v.Count); err != nil {
			return nil, err
		}
		popular = append(popular, &v)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return popular, nil
}

func (r *postgresPredictionRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
