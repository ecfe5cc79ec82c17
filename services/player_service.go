package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/repositories"
)

type PlayerService interface {
	CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error)
	ListPlayersByTeam(ctx context.Context, teamID int) ([]*models.Player, error)
	UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int) error
}

type CreatePlayerInput struct {
	TeamID   int    `json:"team"`
	Name     string `json:"name"`
	Number   string `json:"number"`
	Position string `json:"position"`
}

type UpdatePlayerInput struct {
	Name     *string `json:"name"`
	Number   *string `json:"number"`
	Position *string `json:"position"`
	Active   *bool   `json:"is_active"`
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
}

func NewPlayerService(playerRepo repositories.PlayerRepository, teamRepo repositories.TeamRepository) PlayerService {
	return &playerService{playerRepo: playerRepo, teamRepo: teamRepo}
}

func (s *playerService) CreatePlayer(ctx context.Context, input CreatePlayerInput) (*models.Player, error) {
	if input.Name == "" {
		return nil, ErrPlayerNameRequired
	}

	player := &models.Player{
		TeamID:   input.TeamID,
		Name:     input.Name,
		Number:   input.Number,
		Position: input.Position,
		Active:   true,
	}
	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	return player, nil
}

func (s *playerService) ListPlayersByTeam(ctx context.Context, teamID int) ([]*models.Player, error) {
	return s.playerRepo.ListByTeam(ctx, teamID)
}

func (s *playerService) UpdatePlayer(ctx context.Context, id int, input UpdatePlayerInput) (*models.Player, error) {
	update := repositories.PlayerUpdate{
		Name:     input.Name,
		Number:   input.Number,
		Position: input.Position,
		Active:   input.Active,
	}
	if err := s.playerRepo.Update(ctx, id, update); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return s.playerRepo.GetByID(ctx, id)
}

func (s *playerService) DeletePlayer(ctx context.Context, id int) error {
	if err := s.playerRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return err
	}
	return nil
}
