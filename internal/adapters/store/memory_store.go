package store

import (
	"context"
	"sync"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/repositories"
)

// MemoryStore implements AvailabilityStore in process memory. Snapshots do
// not survive a restart; the tracker treats the first Load as a first run.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]*entities.AvailabilityState
}

// NewMemoryStore creates a new in-memory availability store
func NewMemoryStore() repositories.AvailabilityStore {
	return &MemoryStore{}
}

// Load retrieves the persisted availability map
func (s *MemoryStore) Load(ctx context.Context) (map[string]*entities.AvailabilityState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*entities.AvailabilityState, len(s.states))
	for id, state := range s.states {
		copied := state.Clone()
		out[id] = &copied
	}
	return out, nil
}

// Save persists the full availability map
func (s *MemoryStore) Save(ctx context.Context, states map[string]*entities.AvailabilityState) error {
	copied := make(map[string]*entities.AvailabilityState, len(states))
	for id, state := range states {
		c := state.Clone()
		copied[id] = &c
	}

	s.mu.Lock()
	s.states = copied
	s.mu.Unlock()
	return nil
}

// Close releases any underlying resources
func (s *MemoryStore) Close() error {
	return nil
}
