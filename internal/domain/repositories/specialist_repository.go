package repositories

import (
	"context"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
)

// SpecialistRepository defines the interface to the specialist roster
// (the record store). The roster is reference data: the engine only reads it.
type SpecialistRepository interface {
	// GetAll retrieves every specialist in the roster
	GetAll(ctx context.Context) ([]*entities.Specialist, error)

	// GetByID retrieves a specialist by ID
	GetByID(ctx context.Context, id string) (*entities.Specialist, error)

	// ListBySpecialization retrieves specialists whose primary specialization matches
	ListBySpecialization(ctx context.Context, specialization string) ([]*entities.Specialist, error)

	// ListByCountry retrieves specialists practicing in a country
	ListByCountry(ctx context.Context, country string) ([]*entities.Specialist, error)
}
