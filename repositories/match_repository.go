package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/onetoc/onetoc-backend/models"
)

var (
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchTeamInvalid = errors.New("match references an unknown team")
)

type MatchUpdate struct {
	Name        *string
	Status      *models.MatchStatus
	Media       *string
	SecondMedia *string
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error)
	Update(ctx context.Context, id int, update MatchUpdate) error
	ClearMedia(ctx context.Context, id int) error
	// FinishStale completes in-progress matches started before the cutoff
	// and returns their ids.
	FinishStale(ctx context.Context, cutoff time.Time) ([]int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, team_id, name, media, second_media, status, started_at, finished_at, created_at`

func scanMatch(row interface{ Scan(...any) error }) (*models.Match, error) {
	match := &models.Match{}
	err := row.Scan(
		&match.ID,
		&match.TeamID,
		&match.Name,
		&match.Media,
		&match.SecondMedia,
		&match.Status,
		&match.StartedAt,
		&match.FinishedAt,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (team_id, name, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, match.TeamID, match.Name, match.Status).
		Scan(&match.ID, &match.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchTeamInvalid
	}
	return err
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE team_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Update(ctx context.Context, id int, update MatchUpdate) error {
	query := `
		UPDATE matches
		SET name = COALESCE($1, name),
		    status = COALESCE($2, status),
		    media = COALESCE($3, media),
		    second_media = COALESCE($4, second_media),
		    started_at = COALESCE($5, started_at),
		    finished_at = COALESCE($6, finished_at)
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		update.Name,
		update.Status,
		update.Media,
		update.SecondMedia,
		update.StartedAt,
		update.FinishedAt,
		id,
	)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) FinishStale(ctx context.Context, cutoff time.Time) ([]int, error) {
	query := `
		UPDATE matches
		SET status = $1, finished_at = NOW()
		WHERE status = $2 AND started_at IS NOT NULL AND started_at < $3
		RETURNING id`

	rows, err := r.db.QueryContext(ctx, query, models.MatchStatusCompleted, models.MatchStatusInProgress, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, scanErr
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresMatchRepository) ClearMedia(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE matches SET media = NULL WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrMatchNotFound
	}
	return nil
}
