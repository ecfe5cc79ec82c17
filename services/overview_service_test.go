package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/storage"
	"github.com/onetoc/onetoc-backend/timer"
)

func newOverviewFixture(t *testing.T) (OverviewService, EventService) {
	t.Helper()
	matchRepo := newFakeMatchRepo(&models.Match{ID: 1, TeamID: 10, Name: "vs Rivertown"})
	actionRepo := &fakeActionRepo{}
	require.NoError(t, actionRepo.CreateDefaults(context.Background(), 10))
	eventRepo := newFakeEventRepo()
	infoRepo := newFakeInfoRepo()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	matchService := NewMatchService(matchRepo, infoRepo, storage.NewDisabledUploader(), timer.NewMemoryStore(), logger)
	infoService := NewMatchInfoService(infoRepo)
	eventService := NewEventService(eventRepo, actionRepo, matchRepo, infoRepo,
		&fakeTimer{seconds: 120, running: true}, &fakeBroadcaster{}, logger)

	return NewOverviewService(matchService, infoService, eventService), eventService
}

func TestGetMatchOverviewAggregates(t *testing.T) {
	service, events := newOverviewFixture(t)
	ctx := context.Background()

	for _, key := range []string{"yellow_card", "yellow_card", "corner", "red_card_opponent"} {
		_, err := events.RecordEvent(ctx, 1, key)
		require.NoError(t, err)
	}

	overview, err := service.GetMatchOverview(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, overview.Match)
	require.NotNil(t, overview.Info)
	assert.Equal(t, "vs Rivertown", overview.Match.Name)
	assert.Len(t, overview.Events, 4)

	assert.Equal(t, 2, overview.Stats.Home.YellowCards)
	assert.Equal(t, 1, overview.Stats.Home.Corners)
	assert.Equal(t, 0, overview.Stats.Home.RedCards)
	assert.Equal(t, 1, overview.Stats.Away.RedCards)
	assert.Equal(t, 0, overview.Stats.Away.YellowCards)
}

func TestGetMatchOverviewUnknownMatch(t *testing.T) {
	service, _ := newOverviewFixture(t)

	_, err := service.GetMatchOverview(context.Background(), 99)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestGetMatchOverviewExcludesHiddenEvents(t *testing.T) {
	service, events := newOverviewFixture(t)
	ctx := context.Background()

	recorded, err := events.RecordEvent(ctx, 1, "corner")
	require.NoError(t, err)
	_, err = events.RecordEvent(ctx, 1, "corner")
	require.NoError(t, err)
	require.NoError(t, events.HideEvent(ctx, recorded.Event.ID))

	overview, err := service.GetMatchOverview(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, overview.Events, 1)
	assert.Equal(t, 1, overview.Stats.Home.Corners)
}
