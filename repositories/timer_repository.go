package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/onetoc/onetoc-backend/timer"
)

// postgresTimerStore persists match clock checkpoints so running clocks keep
// their elapsed time across service restarts.
type postgresTimerStore struct {
	db *sql.DB
}

func NewPostgresTimerStore(db *sql.DB) timer.Store {
	return &postgresTimerStore{db: db}
}

func (r *postgresTimerStore) Load(ctx context.Context, matchID int) (timer.State, bool, error) {
	query := `SELECT elapsed_seconds, running, last_update_ms FROM match_timers WHERE match_id = $1`

	var state timer.State
	err := r.db.QueryRowContext(ctx, query, matchID).
		Scan(&state.ElapsedSeconds, &state.Running, &state.LastUpdateMs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return timer.State{}, false, nil
		}
		return timer.State{}, false, err
	}
	return state, true, nil
}

func (r *postgresTimerStore) Save(ctx context.Context, matchID int, state timer.State) error {
	query := `
		INSERT INTO match_timers (match_id, elapsed_seconds, running, last_update_ms)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (match_id) DO UPDATE
		SET elapsed_seconds = EXCLUDED.elapsed_seconds,
		    running = EXCLUDED.running,
		    last_update_ms = EXCLUDED.last_update_ms`

	_, err := r.db.ExecContext(ctx, query, matchID, state.ElapsedSeconds, state.Running, state.LastUpdateMs)
	return err
}

func (r *postgresTimerStore) Delete(ctx context.Context, matchID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM match_timers WHERE match_id = $1`, matchID)
	return err
}
