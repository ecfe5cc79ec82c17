package services

import (
	"context"
	"errors"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/repositories"
)

type MatchInfoService interface {
	GetByMatch(ctx context.Context, matchID int) (*models.MatchInfo, error)
	// UpdateCounters overwrites counters with absolute values, e.g. a manual
	// score correction. This is also the sanctioned path to fix drift
	// between counters and the event log.
	UpdateCounters(ctx context.Context, id int, fields map[string]int) (*models.MatchInfo, error)
}

type matchInfoService struct {
	infoRepo repositories.MatchInfoRepository
}

func NewMatchInfoService(infoRepo repositories.MatchInfoRepository) MatchInfoService {
	return &matchInfoService{infoRepo: infoRepo}
}

func (s *matchInfoService) GetByMatch(ctx context.Context, matchID int) (*models.MatchInfo, error) {
	info, err := s.infoRepo.GetByMatch(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchInfoNotFound) {
			return nil, ErrMatchInfoNotFound
		}
		return nil, err
	}
	return info, nil
}

func (s *matchInfoService) UpdateCounters(ctx context.Context, id int, fields map[string]int) (*models.MatchInfo, error) {
	for field, value := range fields {
		if value < 0 {
			return nil, ErrValidationFailed
		}
		if _, ok := models.CounterField(field); !ok {
			return nil, repositories.ErrMatchInfoFieldInvalid
		}
	}

	if err := s.infoRepo.SetFields(ctx, id, fields); err != nil {
		if errors.Is(err, repositories.ErrMatchInfoNotFound) {
			return nil, ErrMatchInfoNotFound
		}
		return nil, err
	}
	return s.infoRepo.GetByID(ctx, id)
}
