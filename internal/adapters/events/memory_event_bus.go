package events

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/providers"
)

// MemoryEventBus implements the EventBus interface with in-process fan-out.
// Delivery is best-effort: a subscriber whose buffer is full loses the event
// instead of blocking the publisher, so a slow UI consumer can never stall
// the availability tracker's tick.
type MemoryEventBus struct {
	subscribers map[string]map[chan *entities.AvailabilityEvent]struct{}
	mu          sync.RWMutex
	closed      bool
}

// NewMemoryEventBus creates a new in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{
		subscribers: make(map[string]map[chan *entities.AvailabilityEvent]struct{}),
	}
}

// Publish publishes an event to all subscribers of a channel
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.AvailabilityEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- event:
		default:
			// Subscriber channel full, skip event
			log.Debug().
				Str("channel", channel).
				Str("event_id", event.ID).
				Msg("subscriber channel full, dropping event")
		}
	}
	return nil
}

// Subscribe subscribes to events on a channel
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.AvailabilityEvent, error) {
	b.mu.Lock()

	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.AvailabilityEvent]struct{})
	}

	eventChan := make(chan *entities.AvailabilityEvent, 100)
	b.subscribers[channel][eventChan] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *MemoryEventBus) removeSubscriber(channel string, eventChan chan *entities.AvailabilityEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}
	if _, ok := subscribers[eventChan]; !ok {
		return
	}

	delete(subscribers, eventChan)
	close(eventChan)

	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
	}
}

// Unsubscribe unsubscribes all consumers from a channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for subscriber := range b.subscribers[channel] {
		close(subscriber)
	}
	delete(b.subscribers, channel)
	return nil
}

// Close closes the event bus and all subscriptions
func (b *MemoryEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for channel, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}
	return nil
}
