package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/onetoc/onetoc-backend/models"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrEventMatchInvalid  = errors.New("event references an unknown match")
	ErrEventActionInvalid = errors.New("event references an unknown action")
)

type EventRepository interface {
	Create(ctx context.Context, event *models.MatchEvent) error
	GetByID(ctx context.Context, id int) (*models.MatchEvent, error)
	ListByMatch(ctx context.Context, matchID int, activeOnly bool) ([]*models.MatchEvent, error)
	SetDelayStart(ctx context.Context, id int, delayStart int) error
	SetDelayStartBulk(ctx context.Context, ids []int, delayStart int) error
	SetStatus(ctx context.Context, id int, status models.EntityStatus) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

const eventColumns = `id, match_id, action_id, type, start_seconds, delay_start, status, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.MatchEvent, error) {
	event := &models.MatchEvent{}
	err := row.Scan(
		&event.ID,
		&event.MatchID,
		&event.ActionID,
		&event.Type,
		&event.Start,
		&event.DelayStart,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

func (r *postgresEventRepository) Create(ctx context.Context, event *models.MatchEvent) error {
	query := `
		INSERT INTO match_events (match_id, action_id, type, start_seconds, delay_start, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		event.MatchID,
		event.ActionID,
		event.Type,
		event.Start,
		event.DelayStart,
		event.Status,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)

	return r.handleEventError(err)
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.MatchEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM match_events WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// ListByMatch returns events in creation order. Presentation orderings
// (effective time ascending, created_at descending) are computed by the
// service, not stored.
func (r *postgresEventRepository) ListByMatch(ctx context.Context, matchID int, activeOnly bool) ([]*models.MatchEvent, error) {
	query := `SELECT ` + eventColumns + ` FROM match_events WHERE match_id = $1`
	args := []interface{}{matchID}
	if activeOnly {
		query += ` AND status = $2`
		args = append(args, models.StatusActive)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.MatchEvent, 0)
	for rows.Next() {
		event, scanErr := scanEvent(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) SetDelayStart(ctx context.Context, id int, delayStart int) error {
	query := `UPDATE match_events SET delay_start = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, delayStart, id)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// SetDelayStartBulk overwrites delay_start uniformly, clamped per event so
// the effective timestamp start - delay_start never goes negative.
func (r *postgresEventRepository) SetDelayStartBulk(ctx context.Context, ids []int, delayStart int) error {
	if len(ids) == 0 {
		return nil
	}
	query := `
		UPDATE match_events
		SET delay_start = LEAST($1, GREATEST(FLOOR(start_seconds)::int, 0)),
		    updated_at = NOW()
		WHERE id = ANY($2)`

	_, err := r.db.ExecContext(ctx, query, delayStart, pq.Array(ids))
	return err
}

func (r *postgresEventRepository) SetStatus(ctx context.Context, id int, status models.EntityStatus) error {
	query := `UPDATE match_events SET status = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *postgresEventRepository) handleEventError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		switch pqErr.Constraint {
		case "match_events_match_id_fkey":
			return ErrEventMatchInvalid
		case "match_events_action_id_fkey":
			return ErrEventActionInvalid
		}
	}
	return err
}
