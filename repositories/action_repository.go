package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/onetoc/onetoc-backend/models"
)

var (
	ErrActionNotFound    = errors.New("action not found")
	ErrActionKeyConflict = errors.New("action key is already defined for this team")
	ErrActionTeamInvalid = errors.New("action references an unknown team")
)

type ActionUpdate struct {
	Name    *string
	Color   *string
	Enabled *bool
}

type ActionRepository interface {
	Create(ctx context.Context, action *models.Action) error
	CreateDefaults(ctx context.Context, teamID int) error
	GetByID(ctx context.Context, id int) (*models.Action, error)
	GetByTeamAndKey(ctx context.Context, teamID int, key string) (*models.Action, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.Action, error)
	Update(ctx context.Context, id int, update ActionUpdate) error
	SetStatus(ctx context.Context, id int, status models.EntityStatus) error
}

type postgresActionRepository struct {
	db *sql.DB
}

func NewPostgresActionRepository(db *sql.DB) ActionRepository {
	return &postgresActionRepository{db: db}
}

const actionColumns = `id, team_id, key, name, color, enabled, is_default, status, created_at`

func scanAction(row interface{ Scan(...any) error }) (*models.Action, error) {
	action := &models.Action{}
	err := row.Scan(
		&action.ID,
		&action.TeamID,
		&action.Key,
		&action.Name,
		&action.Color,
		&action.Enabled,
		&action.Default,
		&action.Status,
		&action.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return action, nil
}

func (r *postgresActionRepository) Create(ctx context.Context, action *models.Action) error {
	query := `
		INSERT INTO actions (team_id, key, name, color, enabled, is_default, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		action.TeamID,
		action.Key,
		action.Name,
		action.Color,
		action.Enabled,
		action.Default,
		action.Status,
	).Scan(&action.ID, &action.CreatedAt)

	return r.handleActionError(err)
}

// CreateDefaults seeds the system action set for a fresh team. Existing keys
// are left untouched so reseeding is safe.
func (r *postgresActionRepository) CreateDefaults(ctx context.Context, teamID int) error {
	query := `
		INSERT INTO actions (team_id, key, name, color, enabled, is_default, status)
		VALUES ($1, $2, $3, '', TRUE, TRUE, $4)
		ON CONFLICT (team_id, key) DO NOTHING`

	for _, key := range models.DefaultActionKeys {
		if _, err := r.db.ExecContext(ctx, query, teamID, key, key, models.StatusActive); err != nil {
			return fmt.Errorf("failed to seed default action %q: %w", key, r.handleActionError(err))
		}
	}
	return nil
}

func (r *postgresActionRepository) GetByID(ctx context.Context, id int) (*models.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE id = $1`
	action, err := scanAction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	return action, nil
}

func (r *postgresActionRepository) GetByTeamAndKey(ctx context.Context, teamID int, key string) (*models.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE team_id = $1 AND key = $2 AND status != $3`
	action, err := scanAction(r.db.QueryRowContext(ctx, query, teamID, key, models.StatusDeleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	return action, nil
}

func (r *postgresActionRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.Action, error) {
	query := `SELECT ` + actionColumns + ` FROM actions WHERE team_id = $1 AND status != $2 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, teamID, models.StatusDeleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actions := make([]*models.Action, 0)
	for rows.Next() {
		action, scanErr := scanAction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		actions = append(actions, action)
	}
	return actions, rows.Err()
}

func (r *postgresActionRepository) Update(ctx context.Context, id int, update ActionUpdate) error {
	query := `
		UPDATE actions
		SET name = COALESCE($1, name),
		    color = COALESCE($2, color),
		    enabled = COALESCE($3, enabled)
		WHERE id = $4 AND status != $5`

	result, err := r.db.ExecContext(ctx, query, update.Name, update.Color, update.Enabled, id, models.StatusDeleted)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrActionNotFound
	}
	return nil
}

func (r *postgresActionRepository) SetStatus(ctx context.Context, id int, status models.EntityStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE actions SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrActionNotFound
	}
	return nil
}

func (r *postgresActionRepository) handleActionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505": // unique_violation
			return ErrActionKeyConflict
		case "23503": // foreign_key_violation
			return ErrActionTeamInvalid
		}
	}
	return err
}
