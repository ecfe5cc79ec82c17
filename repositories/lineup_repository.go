package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/onetoc/onetoc-backend/models"
)

var ErrLineupPlayerInvalid = errors.New("lineup references an unknown player")

type LineupRepository interface {
	ListByMatch(ctx context.Context, matchID int) ([]*models.LineupSlot, error)
	// ReplaceForMatch swaps the whole lineup atomically. Partial writes are
	// never visible to readers.
	ReplaceForMatch(ctx context.Context, matchID int, slots []*models.LineupSlot) error
}

type postgresLineupRepository struct {
	db *sql.DB
}

func NewPostgresLineupRepository(db *sql.DB) LineupRepository {
	return &postgresLineupRepository{db: db}
}

func (r *postgresLineupRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.LineupSlot, error) {
	query := `
		SELECT l.id, l.match_id, l.player_id, l.is_starter, l.created_at,
		       p.id, p.team_id, p.name, p.number, p.position, p.total_minutes, p.is_active, p.created_at
		FROM lineups l
		JOIN players p ON p.id = l.player_id
		WHERE l.match_id = $1
		ORDER BY l.is_starter DESC, p.number ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]*models.LineupSlot, 0)
	for rows.Next() {
		var slot models.LineupSlot
		var player models.Player
		if scanErr := rows.Scan(
			&slot.ID,
			&slot.MatchID,
			&slot.PlayerID,
			&slot.IsStarter,
			&slot.CreatedAt,
			&player.ID,
			&player.TeamID,
			&player.Name,
			&player.Number,
			&player.Position,
			&player.TotalMinutes,
			&player.Active,
			&player.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		slot.Player = &player
		slots = append(slots, &slot)
	}
	return slots, rows.Err()
}

func (r *postgresLineupRepository) ReplaceForMatch(ctx context.Context, matchID int, slots []*models.LineupSlot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin lineup transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM lineups WHERE match_id = $1`, matchID); err != nil {
		return err
	}

	insert := `
		INSERT INTO lineups (match_id, player_id, is_starter)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	for _, slot := range slots {
		if err = tx.QueryRowContext(ctx, insert, matchID, slot.PlayerID, slot.IsStarter).
			Scan(&slot.ID, &slot.CreatedAt); err != nil {
			return err
		}
		slot.MatchID = matchID
	}

	return tx.Commit()
}
