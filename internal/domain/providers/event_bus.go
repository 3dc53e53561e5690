package providers

import (
	"context"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// availability-change events. Delivery is best-effort fan-out: a slow or
// absent subscriber must never block a publisher.
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event *entities.AvailabilityEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.AvailabilityEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event scopes
const (
	// EventChannelAvailabilityUpdates is the channel for all availability updates
	EventChannelAvailabilityUpdates = "availability:updates"

	// EventChannelSpecialistPrefix is the prefix for specialist-specific channels
	EventChannelSpecialistPrefix = "availability:specialist:"
)

// GetSpecialistChannel returns the channel name for a specific specialist
func GetSpecialistChannel(specialistID string) string {
	return EventChannelSpecialistPrefix + specialistID
}
