package timer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKeeper(t *testing.T) (*Keeper, *clockwork.FakeClock, Store) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewKeeper(store, clock, logger), clock, store
}

func TestToggleAccumulatesRunningIntervals(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)
	ctx := context.Background()

	_, err := keeper.Toggle(ctx, 1) // start
	require.NoError(t, err)
	clock.Advance(63 * time.Second)
	state, err := keeper.Toggle(ctx, 1) // pause
	require.NoError(t, err)
	assert.Equal(t, 63, state.ElapsedSeconds)
	assert.False(t, state.Running)

	clock.Advance(5 * time.Minute) // paused time does not count
	_, err = keeper.Toggle(ctx, 1) // start again
	require.NoError(t, err)
	clock.Advance(37 * time.Second)
	state, err = keeper.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 100, state.ElapsedSeconds)
}

func TestToggleRoundsDownSubSecondIntervals(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)
	ctx := context.Background()

	_, err := keeper.Toggle(ctx, 1)
	require.NoError(t, err)
	clock.Advance(2900 * time.Millisecond)
	state, err := keeper.Toggle(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, state.ElapsedSeconds)
}

func TestResetFromAnyState(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)
	ctx := context.Background()

	state, err := keeper.Reset(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, state.ElapsedSeconds)
	assert.False(t, state.Running)

	_, err = keeper.Toggle(ctx, 1)
	require.NoError(t, err)
	clock.Advance(90 * time.Second)
	state, err = keeper.Reset(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, state.ElapsedSeconds)
	assert.False(t, state.Running)
}

func TestCurrentAdvancesWhileRunning(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)
	ctx := context.Background()

	_, err := keeper.Toggle(ctx, 1)
	require.NoError(t, err)

	previous := -1
	for i := 0; i < 10; i++ {
		clock.Advance(700 * time.Millisecond)
		seconds, running := keeper.Current(ctx, 1)
		assert.True(t, running)
		assert.GreaterOrEqual(t, seconds, previous)
		previous = seconds
	}
	assert.Equal(t, 7, previous)
}

func TestRunningClockSurvivesRestart(t *testing.T) {
	keeper, clock, store := newTestKeeper(t)
	ctx := context.Background()

	_, err := keeper.Toggle(ctx, 1)
	require.NoError(t, err)
	clock.Advance(30 * time.Second)
	before, _ := keeper.Current(ctx, 1)

	// A restart keeps only the store contents; the rebuilt keeper must not
	// lose time and must keep counting.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rebuilt := NewKeeper(store, clock, logger)
	after, running := rebuilt.Current(ctx, 1)
	assert.True(t, running)
	assert.GreaterOrEqual(t, after, before)

	clock.Advance(12 * time.Second)
	later, _ := rebuilt.Current(ctx, 1)
	assert.Equal(t, 42, later)
}

func TestStaleStateTreatedAsZero(t *testing.T) {
	keeper, _, _ := newTestKeeper(t)
	seconds, running := keeper.Current(context.Background(), 99)
	assert.Equal(t, 0, seconds)
	assert.False(t, running)
}

func TestWatchStopsOnCancel(t *testing.T) {
	keeper, clock, _ := newTestKeeper(t)
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan int, 64)
	done := make(chan struct{})
	go func() {
		keeper.Watch(ctx, 1, func(seconds int, _ bool) {
			select {
			case ticks <- seconds:
			default:
			}
		})
		close(done)
	}()

	clock.BlockUntil(1)
	clock.Advance(watchInterval)
	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("watch produced no tick")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00", FormatSeconds(0))
	assert.Equal(t, "00:56", FormatSeconds(56))
	assert.Equal(t, "01:03", FormatSeconds(63))
	assert.Equal(t, "45:00", FormatSeconds(2700))
	assert.Equal(t, "00:00", FormatSeconds(-5))
}
