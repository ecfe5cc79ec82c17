package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/repositories"
)

// In-memory repository fakes. They implement just enough semantics for the
// service tests: id assignment, creation ordering, clamped bulk updates.

type fakeMatchRepo struct {
	matches map[int]*models.Match
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{matches: make(map[int]*models.Match)}
	for _, match := range matches {
		repo.matches[match.ID] = match
	}
	return repo
}

func (f *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	match.ID = len(f.matches) + 1
	match.CreatedAt = time.Now()
	f.matches[match.ID] = match
	return nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return match, nil
}

func (f *fakeMatchRepo) ListByTeam(_ context.Context, teamID int) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, match := range f.matches {
		if match.TeamID == teamID {
			matches = append(matches, match)
		}
	}
	return matches, nil
}

func (f *fakeMatchRepo) Update(_ context.Context, id int, update repositories.MatchUpdate) error {
	match, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if update.Name != nil {
		match.Name = *update.Name
	}
	if update.Status != nil {
		match.Status = *update.Status
	}
	if update.Media != nil {
		match.Media = update.Media
	}
	return nil
}

func (f *fakeMatchRepo) ClearMedia(_ context.Context, id int) error {
	match, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Media = nil
	return nil
}

func (f *fakeMatchRepo) FinishStale(_ context.Context, cutoff time.Time) ([]int, error) {
	finished := make([]int, 0)
	for id, match := range f.matches {
		if match.Status == models.MatchStatusInProgress && match.StartedAt != nil && match.StartedAt.Before(cutoff) {
			match.Status = models.MatchStatusCompleted
			finished = append(finished, id)
		}
	}
	return finished, nil
}

type fakeActionRepo struct {
	actions []*models.Action
}

func (f *fakeActionRepo) Create(_ context.Context, action *models.Action) error {
	action.ID = len(f.actions) + 1
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeActionRepo) CreateDefaults(_ context.Context, teamID int) error {
	for _, key := range models.DefaultActionKeys {
		f.actions = append(f.actions, &models.Action{
			ID:      len(f.actions) + 1,
			TeamID:  teamID,
			Key:     key,
			Name:    key,
			Enabled: true,
			Default: true,
			Status:  models.StatusActive,
		})
	}
	return nil
}

func (f *fakeActionRepo) GetByID(_ context.Context, id int) (*models.Action, error) {
	for _, action := range f.actions {
		if action.ID == id {
			return action, nil
		}
	}
	return nil, repositories.ErrActionNotFound
}

func (f *fakeActionRepo) GetByTeamAndKey(_ context.Context, teamID int, key string) (*models.Action, error) {
	for _, action := range f.actions {
		if action.TeamID == teamID && action.Key == key && action.Status != models.StatusDeleted {
			return action, nil
		}
	}
	return nil, repositories.ErrActionNotFound
}

func (f *fakeActionRepo) ListByTeam(_ context.Context, teamID int) ([]*models.Action, error) {
	actions := make([]*models.Action, 0)
	for _, action := range f.actions {
		if action.TeamID == teamID && action.Status != models.StatusDeleted {
			actions = append(actions, action)
		}
	}
	return actions, nil
}

func (f *fakeActionRepo) Update(_ context.Context, id int, update repositories.ActionUpdate) error {
	action, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	if update.Name != nil {
		action.Name = *update.Name
	}
	if update.Color != nil {
		action.Color = *update.Color
	}
	if update.Enabled != nil {
		action.Enabled = *update.Enabled
	}
	return nil
}

func (f *fakeActionRepo) SetStatus(_ context.Context, id int, status models.EntityStatus) error {
	action, err := f.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	action.Status = status
	return nil
}

type fakeEventRepo struct {
	nextID int
	events []*models.MatchEvent
	clock  func() time.Time
}

func newFakeEventRepo() *fakeEventRepo {
	base := time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)
	offset := 0
	return &fakeEventRepo{
		clock: func() time.Time {
			offset++
			return base.Add(time.Duration(offset) * time.Second)
		},
	}
}

func (f *fakeEventRepo) Create(_ context.Context, event *models.MatchEvent) error {
	f.nextID++
	event.ID = f.nextID
	event.CreatedAt = f.clock()
	event.UpdatedAt = event.CreatedAt
	stored := *event
	f.events = append(f.events, &stored)
	return nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int) (*models.MatchEvent, error) {
	for _, event := range f.events {
		if event.ID == id {
			copied := *event
			return &copied, nil
		}
	}
	return nil, repositories.ErrEventNotFound
}

func (f *fakeEventRepo) ListByMatch(_ context.Context, matchID int, activeOnly bool) ([]*models.MatchEvent, error) {
	events := make([]*models.MatchEvent, 0)
	for _, event := range f.events {
		if event.MatchID != matchID {
			continue
		}
		if activeOnly && event.Status != models.StatusActive {
			continue
		}
		copied := *event
		events = append(events, &copied)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (f *fakeEventRepo) SetDelayStart(_ context.Context, id int, delayStart int) error {
	for _, event := range f.events {
		if event.ID == id {
			event.DelayStart = delayStart
			return nil
		}
	}
	return repositories.ErrEventNotFound
}

func (f *fakeEventRepo) SetDelayStartBulk(_ context.Context, ids []int, delayStart int) error {
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, event := range f.events {
		if !wanted[event.ID] {
			continue
		}
		clamped := delayStart
		if max := int(event.Start); clamped > max {
			clamped = max
		}
		if clamped < 0 {
			clamped = 0
		}
		event.DelayStart = clamped
	}
	return nil
}

func (f *fakeEventRepo) SetStatus(_ context.Context, id int, status models.EntityStatus) error {
	for _, event := range f.events {
		if event.ID == id {
			event.Status = status
			return nil
		}
	}
	return repositories.ErrEventNotFound
}

type fakeInfoRepo struct {
	counters map[string]int
	failNext bool
}

func newFakeInfoRepo() *fakeInfoRepo {
	return &fakeInfoRepo{counters: make(map[string]int)}
}

func (f *fakeInfoRepo) Create(_ context.Context, matchID int) (*models.MatchInfo, error) {
	return &models.MatchInfo{ID: 1, MatchID: matchID}, nil
}

func (f *fakeInfoRepo) GetByID(_ context.Context, id int) (*models.MatchInfo, error) {
	return &models.MatchInfo{ID: id}, nil
}

func (f *fakeInfoRepo) GetByMatch(_ context.Context, matchID int) (*models.MatchInfo, error) {
	return &models.MatchInfo{ID: 1, MatchID: matchID, Goal: f.counters["goal"]}, nil
}

func (f *fakeInfoRepo) IncrementField(_ context.Context, _ int, field string) error {
	if f.failNext {
		f.failNext = false
		return repositories.ErrMatchInfoNotFound
	}
	f.counters[field]++
	return nil
}

func (f *fakeInfoRepo) SetFields(_ context.Context, _ int, fields map[string]int) error {
	for field, value := range fields {
		f.counters[field] = value
	}
	return nil
}

type fakeTimer struct {
	seconds int
	running bool
}

func (f *fakeTimer) Current(_ context.Context, _ int) (int, bool) {
	return f.seconds, f.running
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeBroadcaster) BroadcastToRoom(roomID string, _ interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, roomID)
}

type fakeLineupRepo struct {
	slots []*models.LineupSlot
}

func (f *fakeLineupRepo) ListByMatch(_ context.Context, matchID int) ([]*models.LineupSlot, error) {
	slots := make([]*models.LineupSlot, 0)
	for _, slot := range f.slots {
		if slot.MatchID == matchID {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}

func (f *fakeLineupRepo) ReplaceForMatch(_ context.Context, matchID int, slots []*models.LineupSlot) error {
	kept := make([]*models.LineupSlot, 0)
	for _, slot := range f.slots {
		if slot.MatchID != matchID {
			kept = append(kept, slot)
		}
	}
	for i, slot := range slots {
		slot.ID = i + 1
		slot.MatchID = matchID
		kept = append(kept, slot)
	}
	f.slots = kept
	return nil
}

type fakePlayerRepo struct {
	players map[int]*models.Player
}

func (f *fakePlayerRepo) Create(_ context.Context, player *models.Player) error {
	player.ID = len(f.players) + 1
	f.players[player.ID] = player
	return nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	player, ok := f.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return player, nil
}

func (f *fakePlayerRepo) ListByTeam(_ context.Context, teamID int) ([]*models.Player, error) {
	players := make([]*models.Player, 0)
	for _, player := range f.players {
		if player.TeamID == teamID {
			players = append(players, player)
		}
	}
	return players, nil
}

func (f *fakePlayerRepo) Update(_ context.Context, id int, _ repositories.PlayerUpdate) error {
	if _, ok := f.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	return nil
}

func (f *fakePlayerRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(f.players, id)
	return nil
}
