package timer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// watchInterval matches the resynchronization cadence of the original
// recorder UI: frequent enough for a smooth display, cheap enough to run
// continuously.
const watchInterval = 100 * time.Millisecond

// Keeper owns the clocks of all matches. Every transition goes through a
// single mutex so a watch tick can never interleave with a toggle or reset.
type Keeper struct {
	mu     sync.Mutex
	store  Store
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewKeeper(store Store, clock clockwork.Clock, logger *slog.Logger) *Keeper {
	return &Keeper{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// load reconstructs a match clock from the store. Absent or unreadable state
// yields a fresh stopped clock at zero.
func (k *Keeper) load(ctx context.Context, matchID int) State {
	state, ok, err := k.store.Load(ctx, matchID)
	if err != nil {
		k.logger.Warn("failed to load timer state, falling back to zero",
			slog.Int("match_id", matchID), slog.Any("error", err))
		return ResetState(k.clock.Now())
	}
	if !ok {
		return ResetState(k.clock.Now())
	}
	return state
}

// Current returns the displayed elapsed seconds and whether the clock runs.
func (k *Keeper) Current(ctx context.Context, matchID int) (int, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	state := k.load(ctx, matchID)
	return state.CurrentSeconds(k.clock.Now()), state.Running
}

// Toggle starts a stopped clock or pauses a running one, committing the
// checkpoint to the store before returning the new state.
func (k *Keeper) Toggle(ctx context.Context, matchID int) (State, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	next := k.load(ctx, matchID).Toggled(k.clock.Now())
	if err := k.store.Save(ctx, matchID, next); err != nil {
		return State{}, fmt.Errorf("failed to persist timer state for match %d: %w", matchID, err)
	}
	return next, nil
}

// Reset unconditionally returns the clock to stopped-at-zero.
func (k *Keeper) Reset(ctx context.Context, matchID int) (State, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	next := ResetState(k.clock.Now())
	if err := k.store.Save(ctx, matchID, next); err != nil {
		return State{}, fmt.Errorf("failed to persist timer state for match %d: %w", matchID, err)
	}
	return next, nil
}

// Watch invokes fn with the displayed elapsed seconds every 100ms until the
// context is cancelled. It never mutates the persisted checkpoint; the value
// is recomputed from the invariant formula each tick.
func (k *Keeper) Watch(ctx context.Context, matchID int, fn func(seconds int, running bool)) {
	ticker := k.clock.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			seconds, running := k.Current(ctx, matchID)
			fn(seconds, running)
		}
	}
}
