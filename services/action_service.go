package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/repositories"
)

type ActionService interface {
	CreateAction(ctx context.Context, input CreateActionInput) (*models.Action, error)
	ListActionsByTeam(ctx context.Context, teamID int) ([]*models.Action, error)
	UpdateAction(ctx context.Context, id int, input UpdateActionInput) (*models.Action, error)
	// DeleteAction is a soft delete: the definition stays resolvable for
	// already recorded events.
	DeleteAction(ctx context.Context, id int) error
}

type CreateActionInput struct {
	TeamID int    `json:"team"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Color  string `json:"color"`
}

type UpdateActionInput struct {
	Name    *string `json:"name"`
	Color   *string `json:"color"`
	Enabled *bool   `json:"enabled"`
}

type actionService struct {
	actionRepo repositories.ActionRepository
}

func NewActionService(actionRepo repositories.ActionRepository) ActionService {
	return &actionService{actionRepo: actionRepo}
}

func (s *actionService) CreateAction(ctx context.Context, input CreateActionInput) (*models.Action, error) {
	if input.Key == "" {
		return nil, ErrActionKeyRequired
	}

	action := &models.Action{
		TeamID:  input.TeamID,
		Key:     input.Key,
		Name:    input.Name,
		Color:   input.Color,
		Enabled: true,
		Default: false,
		Status:  models.StatusActive,
	}
	if err := s.actionRepo.Create(ctx, action); err != nil {
		switch {
		case errors.Is(err, repositories.ErrActionKeyConflict):
			return nil, ErrActionKeyConflict
		case errors.Is(err, repositories.ErrActionTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create action: %w", err)
	}
	return action, nil
}

func (s *actionService) ListActionsByTeam(ctx context.Context, teamID int) ([]*models.Action, error) {
	return s.actionRepo.ListByTeam(ctx, teamID)
}

func (s *actionService) UpdateAction(ctx context.Context, id int, input UpdateActionInput) (*models.Action, error) {
	update := repositories.ActionUpdate{
		Name:    input.Name,
		Color:   input.Color,
		Enabled: input.Enabled,
	}
	if err := s.actionRepo.Update(ctx, id, update); err != nil {
		if errors.Is(err, repositories.ErrActionNotFound) {
			return nil, ErrActionNotFound
		}
		return nil, err
	}
	return s.actionRepo.GetByID(ctx, id)
}

func (s *actionService) DeleteAction(ctx context.Context, id int) error {
	if err := s.actionRepo.SetStatus(ctx, id, models.StatusDeleted); err != nil {
		if errors.Is(err, repositories.ErrActionNotFound) {
			return ErrActionNotFound
		}
		return err
	}
	return nil
}
