package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/repositories"
)

type TeamService interface {
	CreateClub(ctx context.Context, name string) (*models.Club, error)
	ListClubs(ctx context.Context) ([]*models.Club, error)
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeamByID(ctx context.Context, id int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]*models.Team, error)
}

type CreateTeamInput struct {
	Name   string `json:"name"`
	ClubID int    `json:"club"`
}

type teamService struct {
	clubRepo   repositories.ClubRepository
	teamRepo   repositories.TeamRepository
	actionRepo repositories.ActionRepository
	logger     *slog.Logger
}

func NewTeamService(
	clubRepo repositories.ClubRepository,
	teamRepo repositories.TeamRepository,
	actionRepo repositories.ActionRepository,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		clubRepo:   clubRepo,
		teamRepo:   teamRepo,
		actionRepo: actionRepo,
		logger:     logger,
	}
}

func (s *teamService) CreateClub(ctx context.Context, name string) (*models.Club, error) {
	if name == "" {
		return nil, ErrTeamNameRequired
	}
	club := &models.Club{Name: name}
	if err := s.clubRepo.Create(ctx, club); err != nil {
		return nil, fmt.Errorf("failed to create club: %w", err)
	}
	return club, nil
}

func (s *teamService) ListClubs(ctx context.Context) ([]*models.Club, error) {
	return s.clubRepo.List(ctx)
}

// CreateTeam also seeds the team's default action set so event recording
// works immediately for a fresh team.
func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	if input.Name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{Name: input.Name, ClubID: input.ClubID}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		case errors.Is(err, repositories.ErrTeamClubInvalid):
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if err := s.actionRepo.CreateDefaults(ctx, team.ID); err != nil {
		// The team exists; a missing default action surfaces later as a
		// resolution error, so don't fail creation over it.
		s.logger.Error("failed to seed default actions",
			slog.Int("team_id", team.ID), slog.Any("error", err))
	}

	return team, nil
}

func (s *teamService) GetTeamByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]*models.Team, error) {
	return s.teamRepo.List(ctx)
}
