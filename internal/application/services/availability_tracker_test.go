package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emmanuelmensahx/specialist-engine/internal/adapters/roster"
	"github.com/emmanuelmensahx/specialist-engine/internal/adapters/store"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/repositories"
)

// recordingBus captures published events for assertions.
type recordingBus struct {
	mu     sync.Mutex
	events []*entities.AvailabilityEvent
	chans  []string
}

func (b *recordingBus) Publish(ctx context.Context, channel string, event *entities.AvailabilityEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	b.chans = append(b.chans, channel)
	return nil
}

func (b *recordingBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AvailabilityEvent, error) {
	return nil, nil
}

func (b *recordingBus) Unsubscribe(ctx context.Context, channel string) error { return nil }
func (b *recordingBus) Close() error                                          { return nil }

func (b *recordingBus) recorded() []*entities.AvailabilityEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*entities.AvailabilityEvent, len(b.events))
	copy(out, b.events)
	return out
}

func weekdayHours(days ...string) entities.WeekHours {
	hours := entities.WeekHours{}
	names := map[string]time.Weekday{
		"monday": time.Monday, "tuesday": time.Tuesday, "wednesday": time.Wednesday,
		"thursday": time.Thursday, "friday": time.Friday, "saturday": time.Saturday,
		"sunday": time.Sunday,
	}
	for _, d := range days {
		hours[names[d]] = &entities.DayHours{Start: "09:00", End: "17:00"}
	}
	return hours
}

func testSpecialist(id string, hours entities.WeekHours) *entities.Specialist {
	return &entities.Specialist{
		ID:              id,
		Name:            "Dr. Test " + id,
		Specialization:  SpecialtyInternalMedicine,
		Location:        "Nairobi, Kenya",
		Country:         "Kenya",
		ExperienceYears: 10,
		Rating:          4.0,
		WorkingHours:    hours,
	}
}

func testTracker(t *testing.T, specialists []*entities.Specialist, bus *recordingBus, opts ...TrackerOption) (*AvailabilityTracker, repositories.AvailabilityStore) {
	t.Helper()
	st := store.NewMemoryStore()
	var tracker *AvailabilityTracker
	var err error
	if bus != nil {
		tracker, err = NewAvailabilityTracker(context.Background(), roster.NewMemoryRoster(specialists), st, bus, opts...)
	} else {
		tracker, err = NewAvailabilityTracker(context.Background(), roster.NewMemoryRoster(specialists), st, nil, opts...)
	}
	require.NoError(t, err)
	return tracker, st
}

func TestNewAvailabilityTracker_SynthesizesFirstRunState(t *testing.T) {
	specialists := []*entities.Specialist{
		testSpecialist("sp-1", weekdayHours("monday", "tuesday", "wednesday", "thursday", "friday")),
		testSpecialist("sp-2", weekdayHours("saturday")),
		testSpecialist("sp-3", entities.WeekHours{}),
	}
	tracker, _ := testTracker(t, specialists, nil, WithRandomSeed(42))

	all := tracker.SnapshotAll()
	require.Len(t, all, 3)
	for id, state := range all {
		assert.Equal(t, id, state.SpecialistID)
		assert.True(t, state.Status.Valid())
		assert.Equal(t, entities.MaxConsultations, state.MaxConsultations)
		assert.GreaterOrEqual(t, state.CurrentConsultations, 0)
		assert.LessOrEqual(t, state.CurrentConsultations, entities.MaxConsultations)
		assert.False(t, state.LastUpdated.IsZero())
	}

	// No working hours on any day means unavailable indefinitely.
	assert.True(t, all["sp-3"].NextAvailable.IsZero())
}

func TestNewAvailabilityTracker_LoadsPersistedState(t *testing.T) {
	ctx := context.Background()
	specialists := []*entities.Specialist{testSpecialist("sp-1", weekdayHours("monday"))}

	st := store.NewMemoryStore()
	persisted := &entities.AvailabilityState{
		SpecialistID:         "sp-1",
		Status:               entities.StatusBusy,
		IsOnline:             true,
		CurrentConsultations: 4,
		MaxConsultations:     entities.MaxConsultations,
		LastUpdated:          time.Now(),
	}
	require.NoError(t, st.Save(ctx, map[string]*entities.AvailabilityState{"sp-1": persisted}))

	tracker, err := NewAvailabilityTracker(ctx, roster.NewMemoryRoster(specialists), st, nil)
	require.NoError(t, err)

	state, ok := tracker.Snapshot("sp-1")
	require.True(t, ok)
	assert.Equal(t, entities.StatusBusy, state.Status)
	assert.Equal(t, 4, state.CurrentConsultations)
}

func TestSnapshot_UnknownID(t *testing.T) {
	tracker, _ := testTracker(t, []*entities.Specialist{testSpecialist("sp-1", nil)}, nil)
	_, ok := tracker.Snapshot("sp-404")
	assert.False(t, ok)
}

func TestSetStatus_UpdatesStateAndPublishes(t *testing.T) {
	bus := &recordingBus{}
	tracker, _ := testTracker(t, []*entities.Specialist{testSpecialist("sp-1", nil)}, bus)

	tracker.SetStatus(context.Background(), "sp-1", entities.StatusBusy, nil)

	state, ok := tracker.Snapshot("sp-1")
	require.True(t, ok)
	assert.Equal(t, entities.StatusBusy, state.Status)

	events := bus.recorded()
	require.Len(t, events, 2) // global channel plus per-specialist channel
	for _, event := range events {
		assert.Equal(t, entities.EventStatusChanged, event.EventType)
		assert.Equal(t, "sp-1", event.SpecialistID)
		assert.Equal(t, entities.StatusBusy, event.NewStatus)
		assert.NotEmpty(t, event.ID)
	}
	assert.ElementsMatch(t, []string{"availability:updates", "availability:specialist:sp-1"}, bus.chans)
}

func TestSetStatus_UnknownIDIsSilentNoOp(t *testing.T) {
	bus := &recordingBus{}
	tracker, _ := testTracker(t, []*entities.Specialist{testSpecialist("sp-1", nil)}, bus)
	before, _ := tracker.Snapshot("sp-1")

	tracker.SetStatus(context.Background(), "sp-404", entities.StatusBusy, nil)

	after, _ := tracker.Snapshot("sp-1")
	assert.Equal(t, before, after)
	assert.Empty(t, bus.recorded())
}

func TestSetStatus_InvalidStatusIgnored(t *testing.T) {
	bus := &recordingBus{}
	tracker, _ := testTracker(t, []*entities.Specialist{testSpecialist("sp-1", nil)}, bus)

	tracker.SetStatus(context.Background(), "sp-1", entities.AvailabilityStatus("on-vacation"), nil)
	assert.Empty(t, bus.recorded())
}

func TestSetStatus_ClampsConsultations(t *testing.T) {
	tracker, _ := testTracker(t, []*entities.Specialist{testSpecialist("sp-1", nil)}, nil)
	ctx := context.Background()

	tracker.SetStatus(ctx, "sp-1", entities.StatusBusy, &StatusUpdate{CurrentConsultations: intPtr(99)})
	state, _ := tracker.Snapshot("sp-1")
	assert.Equal(t, entities.MaxConsultations, state.CurrentConsultations)

	tracker.SetStatus(ctx, "sp-1", entities.StatusAvailable, &StatusUpdate{CurrentConsultations: intPtr(-3)})
	state, _ = tracker.Snapshot("sp-1")
	assert.Equal(t, 0, state.CurrentConsultations)
}

func TestTickStatusDrift_EmitsValidStatusEvents(t *testing.T) {
	bus := &recordingBus{}
	specialists := []*entities.Specialist{
		testSpecialist("sp-1", nil),
		testSpecialist("sp-2", nil),
	}
	tracker, _ := testTracker(t, specialists, bus, WithRandomSeed(7))

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		tracker.TickStatusDrift(ctx)
	}

	events := bus.recorded()
	require.NotEmpty(t, events) // p=0.3 per tick, 100 ticks
	for _, event := range events {
		assert.Equal(t, entities.EventStatusChanged, event.EventType)
		assert.True(t, event.NewStatus.Valid())
	}
	for _, state := range tracker.SnapshotAll() {
		assert.True(t, state.Status.Valid())
	}
}

func TestTickPresenceDrift_EmitsPresenceEvents(t *testing.T) {
	bus := &recordingBus{}
	specialists := []*entities.Specialist{
		testSpecialist("sp-1", nil),
		testSpecialist("sp-2", nil),
		testSpecialist("sp-3", nil),
		testSpecialist("sp-4", nil),
		testSpecialist("sp-5", nil),
	}
	tracker, _ := testTracker(t, specialists, bus, WithRandomSeed(11))

	ctx := context.Background()
	for i := 0; i < 200; i++ {
		tracker.TickPresenceDrift(ctx)
	}

	events := bus.recorded()
	require.NotEmpty(t, events)
	for _, event := range events {
		assert.Equal(t, entities.EventPresenceChanged, event.EventType)
	}
}

func TestTracker_ConcurrentReadsAndWrites(t *testing.T) {
	specialists := []*entities.Specialist{
		testSpecialist("sp-1", nil),
		testSpecialist("sp-2", nil),
		testSpecialist("sp-3", nil),
	}
	tracker, _ := testTracker(t, specialists, &recordingBus{}, WithRandomSeed(5))
	ctx := context.Background()

	statuses := []entities.AvailabilityStatus{
		entities.StatusAvailable, entities.StatusBusy, entities.StatusPartiallyAvailable,
	}

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			tracker.SetStatus(ctx, "sp-1", statuses[i%3], &StatusUpdate{CurrentConsultations: intPtr(i % 6)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			tracker.TickStatusDrift(ctx)
			tracker.TickPresenceDrift(ctx)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			for _, state := range tracker.SnapshotAll() {
				assert.True(t, state.Status.Valid())
				assert.GreaterOrEqual(t, state.CurrentConsultations, 0)
				assert.LessOrEqual(t, state.CurrentConsultations, entities.MaxConsultations)
			}
			if state, ok := tracker.Snapshot("sp-1"); ok {
				assert.True(t, state.Status.Valid())
			}
		}
	}()
	wg.Wait()
}

func TestSetStatus_PerSpecialistEventOrder(t *testing.T) {
	bus := &recordingBus{}
	tracker, _ := testTracker(t, []*entities.Specialist{testSpecialist("sp-1", nil)}, bus)
	ctx := context.Background()

	statuses := []entities.AvailabilityStatus{
		entities.StatusAvailable, entities.StatusBusy, entities.StatusPartiallyAvailable,
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				tracker.SetStatus(ctx, "sp-1", statuses[(g+i)%3], nil)
			}
		}(g)
	}
	wg.Wait()

	// The last event on the per-specialist channel must match the settled
	// state: a subscriber replaying events in order never ends on a stale
	// status.
	var perSpecialist []*entities.AvailabilityEvent
	bus.mu.Lock()
	for i, ch := range bus.chans {
		if ch == "availability:specialist:sp-1" {
			perSpecialist = append(perSpecialist, bus.events[i])
		}
	}
	bus.mu.Unlock()

	require.Len(t, perSpecialist, 200)
	final, ok := tracker.Snapshot("sp-1")
	require.True(t, ok)
	assert.Equal(t, final.Status, perSpecialist[len(perSpecialist)-1].NewStatus)
}

func TestTracker_SeededRunsAreReproducible(t *testing.T) {
	specialists := []*entities.Specialist{
		testSpecialist("sp-1", weekdayHours("monday")),
		testSpecialist("sp-2", weekdayHours("friday")),
	}
	clock := func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }

	build := func() *AvailabilityTracker {
		tracker, _ := testTracker(t, specialists, nil, WithRandomSeed(21), WithClock(clock))
		return tracker
	}
	first := build()
	second := build()

	assert.Equal(t, first.SnapshotAll(), second.SnapshotAll())

	ctx := context.Background()
	for i := 0; i < 20; i++ {
		first.TickStatusDrift(ctx)
		second.TickStatusDrift(ctx)
	}
	assert.Equal(t, first.SnapshotAll(), second.SnapshotAll())
}

func TestEstimateNextAvailable(t *testing.T) {
	// 2026-03-02 is a Monday.
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	tracker, _ := testTracker(t, []*entities.Specialist{testSpecialist("sp-1", nil)}, nil,
		WithRandomSeed(1), WithClock(func() time.Time { return now }))

	t.Run("hours today yields a near-term estimate", func(t *testing.T) {
		s := testSpecialist("sp-a", weekdayHours("monday"))
		next := tracker.EstimateNextAvailable(s, now)
		assert.False(t, next.Before(now))
		assert.False(t, next.After(now.Add(2*time.Hour)))
	})

	t.Run("no hours today yields next working day's start", func(t *testing.T) {
		s := testSpecialist("sp-b", weekdayHours("thursday"))
		next := tracker.EstimateNextAvailable(s, now)
		assert.Equal(t, time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC), next)
	})

	t.Run("no hours at all yields the zero time", func(t *testing.T) {
		s := testSpecialist("sp-c", entities.WeekHours{})
		next := tracker.EstimateNextAvailable(s, now)
		assert.True(t, next.IsZero())
	})
}

func TestTracker_PersistsOnSetStatus(t *testing.T) {
	tracker, st := testTracker(t, []*entities.Specialist{testSpecialist("sp-1", nil)}, nil)
	ctx := context.Background()

	tracker.SetStatus(ctx, "sp-1", entities.StatusPartiallyAvailable, nil)
	tracker.FlushIfDirty(ctx)

	// Persistence is asynchronous; poll the store briefly.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		persisted, err := st.Load(ctx)
		require.NoError(t, err)
		if state, ok := persisted["sp-1"]; ok && state.Status == entities.StatusPartiallyAvailable {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("status change was never persisted")
}
