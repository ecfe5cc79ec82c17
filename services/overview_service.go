package services

import (
	"context"

	"github.com/onetoc/onetoc-backend/models"
	"golang.org/x/sync/errgroup"
)

// SideStats counts recorded events per category for one side of the pitch.
type SideStats struct {
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
	Corners       int `json:"corners"`
	Substitutions int `json:"substitutions"`
}

type MatchStats struct {
	Home SideStats `json:"home"`
	Away SideStats `json:"away"`
}

// MatchOverview aggregates everything the analysis screen shows for one
// match in a single response.
type MatchOverview struct {
	Match  *models.Match        `json:"match"`
	Info   *models.MatchInfo    `json:"info"`
	Events []*models.MatchEvent `json:"events"`
	Stats  MatchStats           `json:"stats"`
}

type OverviewService interface {
	GetMatchOverview(ctx context.Context, matchID int) (*MatchOverview, error)
}

type overviewService struct {
	matchService MatchService
	infoService  MatchInfoService
	eventService EventService
}

func NewOverviewService(
	matchService MatchService,
	infoService MatchInfoService,
	eventService EventService,
) OverviewService {
	return &overviewService{
		matchService: matchService,
		infoService:  infoService,
		eventService: eventService,
	}
}

func (s *overviewService) GetMatchOverview(ctx context.Context, matchID int) (*MatchOverview, error) {
	overview := &MatchOverview{}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		match, err := s.matchService.GetMatchByID(groupCtx, matchID)
		if err != nil {
			return err
		}
		overview.Match = match
		return nil
	})
	group.Go(func() error {
		info, err := s.infoService.GetByMatch(groupCtx, matchID)
		if err != nil {
			return err
		}
		overview.Info = info
		return nil
	})
	group.Go(func() error {
		events, err := s.eventService.ListMatchLog(groupCtx, matchID)
		if err != nil {
			return err
		}
		overview.Events = events
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	overview.Stats = computeStats(overview.Events)
	return overview, nil
}

func computeStats(events []*models.MatchEvent) MatchStats {
	count := func(eventType string) int {
		total := 0
		for _, event := range events {
			if event.Type == eventType {
				total++
			}
		}
		return total
	}

	return MatchStats{
		Home: SideStats{
			YellowCards:   count("yellow_card"),
			RedCards:      count("red_card"),
			Corners:       count("corner"),
			Substitutions: count("substitution"),
		},
		Away: SideStats{
			YellowCards:   count("yellow_card_opponent"),
			RedCards:      count("red_card_opponent"),
			Corners:       count("corner_opponent"),
			Substitutions: count("substitution_opponent"),
		},
	}
}
