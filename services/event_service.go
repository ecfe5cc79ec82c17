package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/onetoc/onetoc-backend/live"
	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/repositories"
)

// DefaultDelayStart compensates for the lag between the real-world moment
// and the operator pressing the record button.
const DefaultDelayStart = 7

// automaticKey is the generic event button; it records an event but never
// touches the match info counters.
const automaticKey = "automatic"

// TimerReader supplies the current elapsed seconds of a match clock.
type TimerReader interface {
	Current(ctx context.Context, matchID int) (seconds int, running bool)
}

// EventBroadcaster pushes event updates to live feed subscribers.
type EventBroadcaster interface {
	BroadcastToRoom(roomID string, message interface{})
}

// RecordedEvent is the result of RecordEvent. CounterUpdated reports the
// best-effort aggregate increment separately from event creation: a failed
// increment never rolls the event back.
type RecordedEvent struct {
	Event          *models.MatchEvent `json:"event"`
	CounterUpdated bool               `json:"counter_updated"`
}

type EventService interface {
	RecordEvent(ctx context.Context, matchID int, actionKey string) (*RecordedEvent, error)
	// ListMatchLog returns active events ordered by effective timestamp
	// ascending, creation order breaking ties.
	ListMatchLog(ctx context.Context, matchID int) ([]*models.MatchEvent, error)
	// ListLiveFeed returns active events newest first.
	ListLiveFeed(ctx context.Context, matchID int) ([]*models.MatchEvent, error)
	AdjustDelays(ctx context.Context, ids []int, newDelayStart int) ([]*models.MatchEvent, error)
	AdjustDelay(ctx context.Context, eventID int, deltaSeconds int) (*models.MatchEvent, error)
	HideEvent(ctx context.Context, eventID int) error
}

type eventService struct {
	eventRepo  repositories.EventRepository
	actionRepo repositories.ActionRepository
	matchRepo  repositories.MatchRepository
	infoRepo   repositories.MatchInfoRepository
	timers     TimerReader
	hub        EventBroadcaster
	logger     *slog.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	actionRepo repositories.ActionRepository,
	matchRepo repositories.MatchRepository,
	infoRepo repositories.MatchInfoRepository,
	timers TimerReader,
	hub EventBroadcaster,
	logger *slog.Logger,
) EventService {
	return &eventService{
		eventRepo:  eventRepo,
		actionRepo: actionRepo,
		matchRepo:  matchRepo,
		infoRepo:   infoRepo,
		timers:     timers,
		hub:        hub,
		logger:     logger,
	}
}

func (s *eventService) RecordEvent(ctx context.Context, matchID int, actionKey string) (*RecordedEvent, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}

	// The action key must resolve against the owning team's definitions
	// before anything is written.
	action, err := s.actionRepo.GetByTeamAndKey(ctx, match.TeamID, actionKey)
	if err != nil {
		if errors.Is(err, repositories.ErrActionNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrActionNotFound, actionKey)
		}
		return nil, err
	}

	elapsed, _ := s.timers.Current(ctx, matchID)
	event := &models.MatchEvent{
		MatchID:    matchID,
		ActionID:   action.ID,
		Type:       actionKey,
		Start:      float64(elapsed),
		DelayStart: DefaultDelayStart,
		Status:     models.StatusActive,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to record event: %w", err)
	}

	recorded := &RecordedEvent{Event: event}
	if actionKey != automaticKey {
		recorded.CounterUpdated = s.incrementCounter(ctx, matchID, actionKey)
	}

	s.broadcast(matchID, "EVENT_RECORDED", event)
	return recorded, nil
}

// incrementCounter bumps the denormalized match info counter. Failures are
// reported on the response and logged, never propagated: counters may drift
// and are corrected through the matchInfo PATCH.
func (s *eventService) incrementCounter(ctx context.Context, matchID int, actionKey string) bool {
	field, ok := models.CounterField(actionKey)
	if !ok {
		return false
	}
	if err := s.infoRepo.IncrementField(ctx, matchID, field); err != nil {
		s.logger.Error("failed to increment match info counter",
			slog.Int("match_id", matchID),
			slog.String("field", field),
			slog.Any("error", err))
		return false
	}
	return true
}

func (s *eventService) ListMatchLog(ctx context.Context, matchID int) ([]*models.MatchEvent, error) {
	events, err := s.eventRepo.ListByMatch(ctx, matchID, true)
	if err != nil {
		return nil, err
	}
	// Stable sort keeps creation order for equal effective timestamps.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EffectiveStart() < events[j].EffectiveStart()
	})
	return events, nil
}

func (s *eventService) ListLiveFeed(ctx context.Context, matchID int) ([]*models.MatchEvent, error) {
	events, err := s.eventRepo.ListByMatch(ctx, matchID, true)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	return events, nil
}

// AdjustDelays re-synchronizes the listed events against an externally
// reviewed video by overwriting delay_start uniformly. The recorder sends
// every event id of the match. Each event's offset is clamped so its
// effective timestamp stays non-negative.
func (s *eventService) AdjustDelays(ctx context.Context, ids []int, newDelayStart int) ([]*models.MatchEvent, error) {
	if newDelayStart < 0 {
		return nil, ErrDelayNotNegative
	}
	if len(ids) == 0 {
		return []*models.MatchEvent{}, nil
	}

	// The first event anchors the owning match; cross-match id lists are not
	// a supported client behavior.
	first, err := s.eventRepo.GetByID(ctx, ids[0])
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if err := s.eventRepo.SetDelayStartBulk(ctx, ids, newDelayStart); err != nil {
		return nil, fmt.Errorf("failed to adjust event delays: %w", err)
	}

	adjusted, err := s.ListMatchLog(ctx, first.MatchID)
	if err != nil {
		return nil, err
	}
	s.broadcast(first.MatchID, "EVENTS_ADJUSTED", adjusted)
	return adjusted, nil
}

// AdjustDelay shifts one event's offset by deltaSeconds (incremental, not
// absolute), clamped to keep the effective timestamp within [0, start].
func (s *eventService) AdjustDelay(ctx context.Context, eventID int, deltaSeconds int) (*models.MatchEvent, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	newDelay := event.DelayStart + deltaSeconds
	if newDelay < 0 {
		newDelay = 0
	}
	if maxDelay := int(event.Start); newDelay > maxDelay {
		newDelay = maxDelay
	}

	if err := s.eventRepo.SetDelayStart(ctx, eventID, newDelay); err != nil {
		return nil, err
	}
	event.DelayStart = newDelay

	s.broadcast(event.MatchID, "EVENT_ADJUSTED", event)
	return event, nil
}

// HideEvent soft-deletes: the event disappears from listings but stays in
// storage. The transition is irreversible through the API.
func (s *eventService) HideEvent(ctx context.Context, eventID int) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	if event.Status == models.StatusDeleted {
		return ErrEventAlreadyHidden
	}

	if err := s.eventRepo.SetStatus(ctx, eventID, models.StatusDeleted); err != nil {
		return err
	}

	s.broadcast(event.MatchID, "EVENT_HIDDEN", map[string]int{"id": eventID})
	return nil
}

func (s *eventService) broadcast(matchID int, messageType string, payload interface{}) {
	if s.hub == nil {
		return
	}
	roomID := live.RoomForMatch(matchID)
	s.hub.BroadcastToRoom(roomID, live.Message{
		Type:    messageType,
		Payload: payload,
		RoomID:  roomID,
	})
}
