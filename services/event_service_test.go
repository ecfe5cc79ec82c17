package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/onetoc/onetoc-backend/models"
	"github.com/onetoc/onetoc-backend/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventFixture(t *testing.T) (EventService, *fakeEventRepo, *fakeInfoRepo, *fakeTimer, *fakeBroadcaster) {
	t.Helper()
	matchRepo := newFakeMatchRepo(&models.Match{ID: 1, TeamID: 10, Name: "vs Rivertown"})
	actionRepo := &fakeActionRepo{}
	require.NoError(t, actionRepo.CreateDefaults(context.Background(), 10))

	eventRepo := newFakeEventRepo()
	infoRepo := newFakeInfoRepo()
	clock := &fakeTimer{seconds: 63, running: false}
	hub := &fakeBroadcaster{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewEventService(eventRepo, actionRepo, matchRepo, infoRepo, clock, hub, logger)
	return service, eventRepo, infoRepo, clock, hub
}

func TestRecordEventUsesTimerAndDefaultOffset(t *testing.T) {
	service, _, _, _, hub := newEventFixture(t)

	recorded, err := service.RecordEvent(context.Background(), 1, "goal")
	require.NoError(t, err)
	assert.Equal(t, float64(63), recorded.Event.Start)
	assert.Equal(t, DefaultDelayStart, recorded.Event.DelayStart)
	assert.Equal(t, "goal", recorded.Event.Type)
	assert.Equal(t, models.StatusActive, recorded.Event.Status)
	assert.Equal(t, float64(56), recorded.Event.EffectiveStart())
	assert.Equal(t, "00:56", timer.FormatSeconds(int(recorded.Event.EffectiveStart())))
	assert.True(t, recorded.CounterUpdated)
	assert.Equal(t, []string{"match_1"}, hub.messages)
}

func TestRecordEventUnknownActionFailsWithoutWrite(t *testing.T) {
	service, eventRepo, _, _, _ := newEventFixture(t)

	_, err := service.RecordEvent(context.Background(), 1, "throw_in")
	assert.ErrorIs(t, err, ErrActionNotFound)
	assert.Empty(t, eventRepo.events)
}

func TestRecordEventUnknownMatch(t *testing.T) {
	service, _, _, _, _ := newEventFixture(t)

	_, err := service.RecordEvent(context.Background(), 42, "goal")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRecordEventAutomaticSkipsCounter(t *testing.T) {
	service, _, infoRepo, _, _ := newEventFixture(t)

	recorded, err := service.RecordEvent(context.Background(), 1, "automatic")
	require.NoError(t, err)
	assert.False(t, recorded.CounterUpdated)
	assert.Empty(t, infoRepo.counters)
}

func TestRecordEventCounterFailureDoesNotRollBack(t *testing.T) {
	service, eventRepo, infoRepo, _, _ := newEventFixture(t)
	infoRepo.failNext = true

	recorded, err := service.RecordEvent(context.Background(), 1, "yellow_card")
	require.NoError(t, err)
	assert.False(t, recorded.CounterUpdated)
	assert.Len(t, eventRepo.events, 1)
}

func TestRecordEventIncrementsMatchingCounter(t *testing.T) {
	service, _, infoRepo, _, _ := newEventFixture(t)

	_, err := service.RecordEvent(context.Background(), 1, "corner_opponent")
	require.NoError(t, err)
	assert.Equal(t, 1, infoRepo.counters["corner_opponent"])
}

func TestMatchLogOrderedByEffectiveTimeStable(t *testing.T) {
	service, _, _, clock, _ := newEventFixture(t)
	ctx := context.Background()

	clock.seconds = 30
	first, err := service.RecordEvent(ctx, 1, "goal")
	require.NoError(t, err)
	second, err := service.RecordEvent(ctx, 1, "yellow_card") // same effective time
	require.NoError(t, err)
	clock.seconds = 10
	third, err := service.RecordEvent(ctx, 1, "corner")
	require.NoError(t, err)

	log, err := service.ListMatchLog(ctx, 1)
	require.NoError(t, err)
	require.Len(t, log, 3)
	assert.Equal(t, third.Event.ID, log[0].ID)
	// Equal effective timestamps keep creation order.
	assert.Equal(t, first.Event.ID, log[1].ID)
	assert.Equal(t, second.Event.ID, log[2].ID)
}

func TestLiveFeedNewestFirst(t *testing.T) {
	service, _, _, _, _ := newEventFixture(t)
	ctx := context.Background()

	first, err := service.RecordEvent(ctx, 1, "goal")
	require.NoError(t, err)
	second, err := service.RecordEvent(ctx, 1, "corner")
	require.NoError(t, err)

	feed, err := service.ListLiveFeed(ctx, 1)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, second.Event.ID, feed[0].ID)
	assert.Equal(t, first.Event.ID, feed[1].ID)
}

func TestAdjustDelaysUniformWithClamp(t *testing.T) {
	service, eventRepo, _, clock, _ := newEventFixture(t)
	ctx := context.Background()

	ids := make([]int, 0, 3)
	for _, step := range []struct {
		seconds int
		key     string
	}{{5, "goal"}, {40, "corner"}, {90, "yellow_card"}} {
		clock.seconds = step.seconds
		recorded, err := service.RecordEvent(ctx, 1, step.key)
		require.NoError(t, err)
		ids = append(ids, recorded.Event.ID)
	}

	adjusted, err := service.AdjustDelays(ctx, ids, 15)
	require.NoError(t, err)
	require.Len(t, adjusted, 3)
	assert.Len(t, eventRepo.events, 3) // no event count change

	for _, event := range adjusted {
		assert.GreaterOrEqual(t, event.EffectiveStart(), float64(0))
		if int(event.Start) >= 15 {
			assert.Equal(t, 15, event.DelayStart)
		} else {
			// Clamped so the effective timestamp stays non-negative.
			assert.Equal(t, int(event.Start), event.DelayStart)
		}
	}
}

func TestAdjustDelaysRejectsNegative(t *testing.T) {
	service, _, _, _, _ := newEventFixture(t)

	_, err := service.AdjustDelays(context.Background(), []int{1}, -3)
	assert.ErrorIs(t, err, ErrDelayNotNegative)
}

func TestAdjustDelaysEmptyIDs(t *testing.T) {
	service, _, _, _, _ := newEventFixture(t)

	events, err := service.AdjustDelays(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAdjustDelayIsIncrementalAndClamped(t *testing.T) {
	service, _, _, clock, _ := newEventFixture(t)
	ctx := context.Background()

	clock.seconds = 20
	recorded, err := service.RecordEvent(ctx, 1, "goal") // delay 7
	require.NoError(t, err)

	event, err := service.AdjustDelay(ctx, recorded.Event.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 12, event.DelayStart)

	// Pushing past start clamps to start.
	event, err = service.AdjustDelay(ctx, recorded.Event.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 20, event.DelayStart)
	assert.Equal(t, float64(0), event.EffectiveStart())

	// Large negative delta clamps at zero.
	event, err = service.AdjustDelay(ctx, recorded.Event.ID, -99)
	require.NoError(t, err)
	assert.Equal(t, 0, event.DelayStart)
}

func TestAdjustDelayUnknownEvent(t *testing.T) {
	service, _, _, _, _ := newEventFixture(t)

	_, err := service.AdjustDelay(context.Background(), 77, 3)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestHideEventExcludedFromListingsButRetained(t *testing.T) {
	service, eventRepo, _, _, _ := newEventFixture(t)
	ctx := context.Background()

	recorded, err := service.RecordEvent(ctx, 1, "goal")
	require.NoError(t, err)

	require.NoError(t, service.HideEvent(ctx, recorded.Event.ID))

	log, err := service.ListMatchLog(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, log)
	assert.Len(t, eventRepo.events, 1) // retained in storage

	err = service.HideEvent(ctx, recorded.Event.ID)
	assert.ErrorIs(t, err, ErrEventAlreadyHidden)
}
