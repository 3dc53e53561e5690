package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
)

func TestBadgerStore_SaveLoadRoundTrip(t *testing.T) {
	s, err := NewBadgerStore(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	states := sampleStates()
	require.NoError(t, s.Save(ctx, states))

	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, entities.StatusAvailable, loaded["sp-1"].Status)
	assert.True(t, loaded["sp-1"].NextAvailable.Equal(states["sp-1"].NextAvailable))
	assert.Equal(t, entities.StatusBusy, loaded["sp-2"].Status)
}

func TestBadgerStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewBadgerStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, sampleStates()))
	require.NoError(t, s.Close())

	reopened, err := NewBadgerStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "sp-1", loaded["sp-1"].SpecialistID)
}
