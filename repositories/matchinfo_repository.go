package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/onetoc/onetoc-backend/models"
)

var (
	ErrMatchInfoNotFound     = errors.New("match info not found")
	ErrMatchInfoFieldInvalid = errors.New("unknown match info counter field")
)

// counterColumns whitelists the columns reachable through PATCH bodies and
// increment calls. Field names arrive from clients and must never be
// interpolated unchecked.
var counterColumns = map[string]bool{
	"goal":                  true,
	"goal_opponent":         true,
	"yellow_card":           true,
	"yellow_card_opponent":  true,
	"red_card":              true,
	"red_card_opponent":     true,
	"corner":                true,
	"corner_opponent":       true,
	"substitution":          true,
	"substitution_opponent": true,
}

type MatchInfoRepository interface {
	Create(ctx context.Context, matchID int) (*models.MatchInfo, error)
	GetByID(ctx context.Context, id int) (*models.MatchInfo, error)
	GetByMatch(ctx context.Context, matchID int) (*models.MatchInfo, error)
	IncrementField(ctx context.Context, matchID int, field string) error
	SetFields(ctx context.Context, id int, fields map[string]int) error
}

type postgresMatchInfoRepository struct {
	db *sql.DB
}

func NewPostgresMatchInfoRepository(db *sql.DB) MatchInfoRepository {
	return &postgresMatchInfoRepository{db: db}
}

const matchInfoColumns = `id, match_id, goal, goal_opponent, yellow_card, yellow_card_opponent,
	red_card, red_card_opponent, corner, corner_opponent, substitution, substitution_opponent, created_at`

func scanMatchInfo(row interface{ Scan(...any) error }) (*models.MatchInfo, error) {
	info := &models.MatchInfo{}
	err := row.Scan(
		&info.ID,
		&info.MatchID,
		&info.Goal,
		&info.GoalOpponent,
		&info.YellowCard,
		&info.YellowCardOpponent,
		&info.RedCard,
		&info.RedCardOpponent,
		&info.Corner,
		&info.CornerOpponent,
		&info.Substitution,
		&info.SubstitutionOpponent,
		&info.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func (r *postgresMatchInfoRepository) Create(ctx context.Context, matchID int) (*models.MatchInfo, error) {
	query := `
		INSERT INTO match_info (match_id)
		VALUES ($1)
		ON CONFLICT (match_id) DO UPDATE SET match_id = EXCLUDED.match_id
		RETURNING ` + matchInfoColumns

	return scanMatchInfo(r.db.QueryRowContext(ctx, query, matchID))
}

func (r *postgresMatchInfoRepository) GetByID(ctx context.Context, id int) (*models.MatchInfo, error) {
	query := `SELECT ` + matchInfoColumns + ` FROM match_info WHERE id = $1`
	info, err := scanMatchInfo(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchInfoNotFound
		}
		return nil, err
	}
	return info, nil
}

func (r *postgresMatchInfoRepository) GetByMatch(ctx context.Context, matchID int) (*models.MatchInfo, error) {
	query := `SELECT ` + matchInfoColumns + ` FROM match_info WHERE match_id = $1`
	info, err := scanMatchInfo(r.db.QueryRowContext(ctx, query, matchID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchInfoNotFound
		}
		return nil, err
	}
	return info, nil
}

func (r *postgresMatchInfoRepository) IncrementField(ctx context.Context, matchID int, field string) error {
	if !counterColumns[field] {
		return ErrMatchInfoFieldInvalid
	}
	query := fmt.Sprintf(`UPDATE match_info SET %s = %s + 1 WHERE match_id = $1`, field, field)
	result, err := r.db.ExecContext(ctx, query, matchID)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrMatchInfoNotFound
	}
	return nil
}

func (r *postgresMatchInfoRepository) SetFields(ctx context.Context, id int, fields map[string]int) error {
	if len(fields) == 0 {
		return nil
	}

	query := `UPDATE match_info SET `
	args := make([]interface{}, 0, len(fields)+1)
	index := 1
	for field, value := range fields {
		if !counterColumns[field] {
			return ErrMatchInfoFieldInvalid
		}
		if index > 1 {
			query += ", "
		}
		query += fmt.Sprintf("%s = $%d", field, index)
		args = append(args, value)
		index++
	}
	query += fmt.Sprintf(" WHERE id = $%d", index)
	args = append(args, id)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rowsAffected, checkErr := checkRowsAffected(result)
	if checkErr != nil {
		return checkErr
	}
	if rowsAffected == 0 {
		return ErrMatchInfoNotFound
	}
	return nil
}
