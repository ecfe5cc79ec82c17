package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/repositories"
	"github.com/onetoc/onetoc-backend/storage"
	"github.com/onetoc/onetoc-backend/timer"
)

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatchByID(ctx context.Context, id int) (*models.Match, error)
	ListMatchesByTeam(ctx context.Context, teamID int) ([]*models.Match, error)
	UpdateMatch(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error)
	// AttachVideo uploads match footage and stores its public URL on the
	// match record, replacing any previous upload.
	AttachVideo(ctx context.Context, matchID int, contentType string, file io.Reader) (*models.Match, error)
	RemoveVideo(ctx context.Context, matchID int) error
	// AutoFinishStaleMatches completes in-progress matches whose kickoff is
	// older than staleMatchHorizon. Run from the background scheduler.
	AutoFinishStaleMatches(ctx context.Context) error
}

type CreateMatchInput struct {
	TeamID int    `json:"team"`
	Name   string `json:"name"`
}

type UpdateMatchInput struct {
	Name   *string             `json:"name"`
	Status *models.MatchStatus `json:"status"`
}

type matchService struct {
	matchRepo  repositories.MatchRepository
	infoRepo   repositories.MatchInfoRepository
	uploader   storage.FileUploader
	timerStore timer.Store
	logger     *slog.Logger
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	infoRepo repositories.MatchInfoRepository,
	uploader storage.FileUploader,
	timerStore timer.Store,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		matchRepo:  matchRepo,
		infoRepo:   infoRepo,
		uploader:   uploader,
		timerStore: timerStore,
		logger:     logger,
	}
}

// CreateMatch also provisions the match_info counter row so later
// increments never race against lazy creation.
func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if input.Name == "" {
		return nil, ErrMatchNameRequired
	}

	match := &models.Match{
		TeamID: input.TeamID,
		Name:   input.Name,
		Status: models.MatchStatusScheduled,
	}
	if err := s.matchRepo.Create(ctx, match); err != nil {
		if errors.Is(err, repositories.ErrMatchTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	if _, err := s.infoRepo.Create(ctx, match.ID); err != nil {
		return nil, fmt.Errorf("failed to create match info for match %d: %w", match.ID, err)
	}
	return match, nil
}

func (s *matchService) GetMatchByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListMatchesByTeam(ctx context.Context, teamID int) ([]*models.Match, error) {
	return s.matchRepo.ListByTeam(ctx, teamID)
}

func (s *matchService) UpdateMatch(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error) {
	update := repositories.MatchUpdate{Name: input.Name, Status: input.Status}
	if input.Status != nil {
		now := time.Now()
		switch *input.Status {
		case models.MatchStatusInProgress:
			update.StartedAt = &now
		case models.MatchStatusCompleted, models.MatchStatusCanceled:
			update.FinishedAt = &now
		}
	}

	if err := s.matchRepo.Update(ctx, id, update); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	// Завершённому матчу контрольная точка таймера больше не нужна.
	if input.Status != nil && (*input.Status == models.MatchStatusCompleted || *input.Status == models.MatchStatusCanceled) {
		if err := s.timerStore.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to delete timer checkpoint",
				slog.Int("match_id", id), slog.Any("error", err))
		}
	}

	return s.matchRepo.GetByID(ctx, id)
}

// staleMatchHorizon: ни один футбольный матч не идёт дольше четырёх часов,
// всё, что старше — забытый оператором таймер.
const staleMatchHorizon = 4 * time.Hour

func (s *matchService) AutoFinishStaleMatches(ctx context.Context) error {
	cutoff := time.Now().Add(-staleMatchHorizon)
	ids, err := s.matchRepo.FinishStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to finish stale matches: %w", err)
	}
	for _, id := range ids {
		s.logger.Info("auto-completed stale match", slog.Int("match_id", id))
	}
	return nil
}

func (s *matchService) AttachVideo(ctx context.Context, matchID int, contentType string, file io.Reader) (*models.Match, error) {
	match, err := s.GetMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("match-video/%d/%d", matchID, time.Now().UnixNano())
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload match video: %w", err)
	}

	oldKey := ""
	if match.Media != nil {
		if key, ok := s.uploader.KeyFromURL(*match.Media); ok {
			oldKey = key
		}
	}
	if err := s.matchRepo.Update(ctx, matchID, repositories.MatchUpdate{Media: &result.Location}); err != nil {
		return nil, err
	}

	if oldKey != "" {
		if delErr := s.uploader.Delete(ctx, oldKey); delErr != nil {
			s.logger.Warn("failed to delete replaced match video",
				slog.String("key", oldKey), slog.Any("error", delErr))
		}
	}

	return s.matchRepo.GetByID(ctx, matchID)
}

func (s *matchService) RemoveVideo(ctx context.Context, matchID int) error {
	match, err := s.GetMatchByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match.Media == nil {
		return ErrMatchHasNoVideo
	}

	if key, ok := s.uploader.KeyFromURL(*match.Media); ok {
		if err := s.uploader.Delete(ctx, key); err != nil {
			s.logger.Warn("failed to delete match video object",
				slog.String("key", key), slog.Any("error", err))
		}
	}
	return s.matchRepo.ClearMedia(ctx, matchID)
}
