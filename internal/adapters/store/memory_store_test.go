package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
)

func sampleStates() map[string]*entities.AvailabilityState {
	return map[string]*entities.AvailabilityState{
		"sp-1": {
			SpecialistID:         "sp-1",
			Status:               entities.StatusAvailable,
			IsOnline:             true,
			CurrentConsultations: 1,
			MaxConsultations:     entities.MaxConsultations,
			NextAvailable:        time.Date(2026, 8, 27, 14, 0, 0, 0, time.UTC),
			LastUpdated:          time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		},
		"sp-2": {
			SpecialistID:     "sp-2",
			Status:           entities.StatusBusy,
			MaxConsultations: entities.MaxConsultations,
			LastUpdated:      time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestMemoryStore_FirstLoadIsEmpty(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	loaded, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestMemoryStore_SaveLoadRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	states := sampleStates()
	require.NoError(t, s.Save(ctx, states))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, *states["sp-1"], *loaded["sp-1"])
	assert.Equal(t, *states["sp-2"], *loaded["sp-2"])
}

func TestMemoryStore_SaveCopiesInput(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	states := sampleStates()
	require.NoError(t, s.Save(ctx, states))

	// Mutating the caller's map after Save must not leak into the store.
	states["sp-1"].Status = entities.StatusBusy

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusAvailable, loaded["sp-1"].Status)
}

func TestMemoryStore_SaveReplacesSnapshot(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleStates()))
	require.NoError(t, s.Save(ctx, map[string]*entities.AvailabilityState{
		"sp-3": {SpecialistID: "sp-3", Status: entities.StatusPartiallyAvailable},
	}))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Contains(t, loaded, "sp-3")
}
