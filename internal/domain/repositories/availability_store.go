package repositories

import (
	"context"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
)

// AvailabilityStore persists availability snapshots between runs.
// Writes are best-effort: the tracker logs failures and retries on the
// next tick rather than surfacing them to the query path.
type AvailabilityStore interface {
	// Load retrieves the persisted availability map. An empty map with no
	// error means first run; the tracker synthesizes initial state.
	Load(ctx context.Context) (map[string]*entities.AvailabilityState, error)

	// Save persists the full availability map
	Save(ctx context.Context, states map[string]*entities.AvailabilityState) error

	// Close releases any underlying resources
	Close() error
}
