package services

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/providers"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/repositories"
)

// Simulation constants. The tracker emulates a live presence feed: a slow
// random walk over status plus a faster online/offline drift.
const (
	statusDriftProbability   = 0.3
	presenceDriftProbability = 0.1
	onlineProbability        = 0.8

	statusWeightAvailable = 0.4
	statusWeightBusy      = 0.3

	nextAvailableMaxOffsetMinutes = 120
	nextAvailableScanDays         = 7
)

// AvailabilityTracker owns the live availability state of every specialist.
// It is the only writer: scheduled drift ticks and explicit SetStatus calls
// serialize per specialist id, and readers only ever receive copies.
type AvailabilityTracker struct {
	roster repositories.SpecialistRepository
	store  repositories.AvailabilityStore
	bus    providers.EventBus

	rng *lockedRand
	now func() time.Time

	mu     sync.RWMutex
	states map[string]*entities.AvailabilityState
	locks  map[string]*sync.Mutex
	ids    []string // sorted, for a deterministic uniform draw

	dirtyMu sync.Mutex
	dirty   bool
}

// TrackerOption customizes tracker construction.
type TrackerOption func(*AvailabilityTracker)

// WithRandomSeed makes the simulation's random walk reproducible.
func WithRandomSeed(seed int64) TrackerOption {
	return func(t *AvailabilityTracker) {
		t.rng = newLockedRand(rand.New(rand.NewSource(seed)))
	}
}

// WithClock injects the time source used for timestamps and estimates.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *AvailabilityTracker) {
		t.now = now
	}
}

// NewAvailabilityTracker loads persisted availability (or synthesizes a
// randomized first-run state for every specialist) and returns a ready tracker.
func NewAvailabilityTracker(
	ctx context.Context,
	roster repositories.SpecialistRepository,
	store repositories.AvailabilityStore,
	bus providers.EventBus,
	opts ...TrackerOption,
) (*AvailabilityTracker, error) {
	t := &AvailabilityTracker{
		roster: roster,
		store:  store,
		bus:    bus,
		rng:    newLockedRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
		now:    time.Now,
		states: make(map[string]*entities.AvailabilityState),
		locks:  make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(t)
	}

	specialists, err := roster.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	persisted, err := store.Load(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load persisted availability, starting fresh")
		persisted = nil
	}

	for _, s := range specialists {
		if state, ok := persisted[s.ID]; ok {
			t.states[s.ID] = state
		} else {
			t.states[s.ID] = t.synthesizeState(s)
		}
		t.locks[s.ID] = &sync.Mutex{}
		t.ids = append(t.ids, s.ID)
	}
	sort.Strings(t.ids)

	t.persistAsync(ctx)
	return t, nil
}

// synthesizeState builds a randomized first-run state for a specialist.
func (t *AvailabilityTracker) synthesizeState(s *entities.Specialist) *entities.AvailabilityState {
	status := t.drawStatus()
	consultations := 0
	switch status {
	case entities.StatusPartiallyAvailable:
		consultations = t.rng.Intn(3)
	case entities.StatusBusy:
		consultations = 3 + t.rng.Intn(entities.MaxConsultations-2)
	}

	now := t.now()
	return &entities.AvailabilityState{
		SpecialistID:         s.ID,
		Status:               status,
		IsOnline:             t.rng.Float64() < onlineProbability,
		CurrentConsultations: consultations,
		MaxConsultations:     entities.MaxConsultations,
		NextAvailable:        t.EstimateNextAvailable(s, now),
		LastUpdated:          now,
	}
}

// drawStatus resamples a status with the simulation weights.
func (t *AvailabilityTracker) drawStatus() entities.AvailabilityStatus {
	r := t.rng.Float64()
	switch {
	case r < statusWeightAvailable:
		return entities.StatusAvailable
	case r < statusWeightAvailable+statusWeightBusy:
		return entities.StatusBusy
	default:
		return entities.StatusPartiallyAvailable
	}
}

// Snapshot returns a copy of one specialist's availability. The clone is
// taken under the specialist's own lock so it never observes a half-applied
// update.
func (t *AvailabilityTracker) Snapshot(id string) (entities.AvailabilityState, bool) {
	t.mu.RLock()
	state, ok := t.states[id]
	lock := t.locks[id]
	t.mu.RUnlock()
	if !ok {
		return entities.AvailabilityState{}, false
	}

	lock.Lock()
	defer lock.Unlock()
	return state.Clone(), true
}

// SnapshotAll returns a copy of every specialist's availability. Each entry
// is cloned under its per-specialist lock; the snapshot as a whole is not a
// transaction and state may keep drifting underneath, which is accepted.
func (t *AvailabilityTracker) SnapshotAll() map[string]entities.AvailabilityState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]entities.AvailabilityState, len(t.states))
	for id, state := range t.states {
		lock := t.locks[id]
		lock.Lock()
		out[id] = state.Clone()
		lock.Unlock()
	}
	return out
}

// StatusUpdate carries optional fields merged by SetStatus.
type StatusUpdate struct {
	CurrentConsultations *int
}

// SetStatus overwrites a specialist's status, merges extras, persists
// best-effort and publishes a change event. An unknown id is a silent
// no-op: callers needing existence confirmation must ask the record store.
func (t *AvailabilityTracker) SetStatus(ctx context.Context, id string, status entities.AvailabilityStatus, update *StatusUpdate) {
	if !status.Valid() {
		log.Warn().Str("specialist_id", id).Str("status", string(status)).Msg("ignoring unknown status value")
		return
	}

	t.mu.RLock()
	lock, ok := t.locks[id]
	t.mu.RUnlock()
	if !ok {
		return
	}

	lock.Lock()
	t.mu.RLock()
	state := t.states[id]
	t.mu.RUnlock()

	state.Status = status
	state.LastUpdated = t.now()
	if update != nil && update.CurrentConsultations != nil {
		n := *update.CurrentConsultations
		if n < 0 {
			n = 0
		}
		if n > state.MaxConsultations {
			n = state.MaxConsultations
		}
		state.CurrentConsultations = n
	}
	// Publish before releasing the lock so per-specialist events go out in
	// mutation order.
	t.publish(ctx, t.statusEvent(state))
	lock.Unlock()

	t.persistAsync(ctx)
}

// TickStatusDrift advances the slow random walk one step: one specialist,
// chosen uniformly, resamples its status with probability 0.3. Exposed as a
// manual hook so schedulers and tests share the same entry point.
func (t *AvailabilityTracker) TickStatusDrift(ctx context.Context) {
	t.mu.RLock()
	n := len(t.ids)
	t.mu.RUnlock()
	if n == 0 {
		return
	}

	id := t.ids[t.rng.Intn(n)]
	if t.rng.Float64() >= statusDriftProbability {
		return
	}

	t.mu.RLock()
	lock := t.locks[id]
	state := t.states[id]
	t.mu.RUnlock()

	lock.Lock()
	state.Status = t.drawStatus()
	state.LastUpdated = t.now()
	event := t.statusEvent(state)
	t.publish(ctx, event)
	lock.Unlock()

	log.Debug().Str("specialist_id", id).Str("status", string(event.NewStatus)).Msg("status drift")
	t.persistAsync(ctx)
}

// TickPresenceDrift advances the online/offline drift one step: every
// specialist independently resamples its presence with probability 0.1,
// coming up online with probability 0.8.
func (t *AvailabilityTracker) TickPresenceDrift(ctx context.Context) {
	t.mu.RLock()
	ids := t.ids
	t.mu.RUnlock()

	flipped := 0
	for _, id := range ids {
		if t.rng.Float64() >= presenceDriftProbability {
			continue
		}

		t.mu.RLock()
		lock := t.locks[id]
		state := t.states[id]
		t.mu.RUnlock()

		lock.Lock()
		online := t.rng.Float64() < onlineProbability
		changed := state.IsOnline != online
		state.IsOnline = online
		state.LastUpdated = t.now()
		if changed {
			t.publish(ctx, t.presenceEvent(state))
			flipped++
		}
		lock.Unlock()
	}

	if flipped > 0 {
		t.persistAsync(ctx)
	}
}

// EstimateNextAvailable estimates when a specialist next becomes available.
// Hours today mean "soon": now plus a random offset up to two hours.
// Otherwise the next weekday with configured hours (scanning up to seven
// days ahead) yields that day's start. A specialist with no hours on any
// weekday is unavailable indefinitely, signalled by the zero time.
func (t *AvailabilityTracker) EstimateNextAvailable(s *entities.Specialist, now time.Time) time.Time {
	if s.HoursOn(now.Weekday()) != nil {
		offset := time.Duration(t.rng.Intn(nextAvailableMaxOffsetMinutes+1)) * time.Minute
		return now.Add(offset)
	}

	for ahead := 1; ahead <= nextAvailableScanDays; ahead++ {
		day := now.AddDate(0, 0, ahead)
		hours := s.HoursOn(day.Weekday())
		if hours == nil {
			continue
		}
		start, err := time.Parse("15:04", hours.Start)
		if err != nil {
			continue
		}
		return time.Date(day.Year(), day.Month(), day.Day(), start.Hour(), start.Minute(), 0, 0, now.Location())
	}
	return time.Time{}
}

func (t *AvailabilityTracker) statusEvent(state *entities.AvailabilityState) *entities.AvailabilityEvent {
	return &entities.AvailabilityEvent{
		ID:           uuid.NewString(),
		EventType:    entities.EventStatusChanged,
		SpecialistID: state.SpecialistID,
		NewStatus:    state.Status,
		IsOnline:     state.IsOnline,
		Timestamp:    state.LastUpdated,
	}
}

func (t *AvailabilityTracker) presenceEvent(state *entities.AvailabilityState) *entities.AvailabilityEvent {
	return &entities.AvailabilityEvent{
		ID:           uuid.NewString(),
		EventType:    entities.EventPresenceChanged,
		SpecialistID: state.SpecialistID,
		NewStatus:    state.Status,
		IsOnline:     state.IsOnline,
		Timestamp:    state.LastUpdated,
	}
}

// publish fans an event out on the global and per-specialist channels.
// Callers invoke it while holding the specialist's lock, which is what keeps
// per-specialist emission order aligned with mutation order. Failures are
// logged and dropped: notification is best-effort.
func (t *AvailabilityTracker) publish(ctx context.Context, event *entities.AvailabilityEvent) {
	if t.bus == nil {
		return
	}
	if err := t.bus.Publish(ctx, providers.EventChannelAvailabilityUpdates, event); err != nil {
		log.Warn().Err(err).Str("specialist_id", event.SpecialistID).Msg("failed to publish availability event")
	}
	if err := t.bus.Publish(ctx, providers.GetSpecialistChannel(event.SpecialistID), event); err != nil {
		log.Warn().Err(err).Str("specialist_id", event.SpecialistID).Msg("failed to publish availability event")
	}
}

// persistAsync writes the current snapshot without blocking the caller.
// A failed write marks the tracker dirty and the next tick retries.
func (t *AvailabilityTracker) persistAsync(ctx context.Context) {
	snapshot := t.snapshotPointers()
	go func() {
		if err := t.store.Save(context.WithoutCancel(ctx), snapshot); err != nil {
			log.Warn().Err(err).Msg("failed to persist availability, will retry on next tick")
			t.dirtyMu.Lock()
			t.dirty = true
			t.dirtyMu.Unlock()
			return
		}
		t.dirtyMu.Lock()
		t.dirty = false
		t.dirtyMu.Unlock()
	}()
}

// FlushIfDirty retries a failed persistence write. Called by the scheduler
// alongside the drift ticks.
func (t *AvailabilityTracker) FlushIfDirty(ctx context.Context) {
	t.dirtyMu.Lock()
	dirty := t.dirty
	t.dirtyMu.Unlock()
	if dirty {
		t.persistAsync(ctx)
	}
}

func (t *AvailabilityTracker) snapshotPointers() map[string]*entities.AvailabilityState {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]*entities.AvailabilityState, len(t.states))
	for id, state := range t.states {
		lock := t.locks[id]
		lock.Lock()
		c := state.Clone()
		lock.Unlock()
		out[id] = &c
	}
	return out
}

// lockedRand wraps math/rand for concurrent use by the two drift ticks.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(rng *rand.Rand) *lockedRand {
	return &lockedRand{rng: rng}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Intn(n)
}
