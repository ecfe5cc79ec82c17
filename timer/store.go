package timer

import (
	"context"
	"sync"
)

// Store persists clock checkpoints keyed by match id. Implementations must
// treat missing or unreadable entries as absent, never as a fatal error.
type Store interface {
	Load(ctx context.Context, matchID int) (State, bool, error)
	Save(ctx context.Context, matchID int, state State) error
	Delete(ctx context.Context, matchID int) error
}

type memoryStore struct {
	mu     sync.RWMutex
	states map[int]State
}

// NewMemoryStore returns a Store backed by a process-local map. Useful for
// tests and for deployments that accept losing clocks on restart.
func NewMemoryStore() Store {
	return &memoryStore{states: make(map[int]State)}
}

func (m *memoryStore) Load(_ context.Context, matchID int) (State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.states[matchID]
	return state, ok, nil
}

func (m *memoryStore) Save(_ context.Context, matchID int, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[matchID] = state
	return nil
}

func (m *memoryStore) Delete(_ context.Context, matchID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, matchID)
	return nil
}
