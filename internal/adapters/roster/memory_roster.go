package roster

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/repositories"
	apperrors "github.com/emmanuelmensahx/specialist-engine/pkg/errors"
)

//go:embed data/specialists.json
var embeddedRoster []byte

// MemoryRoster implements SpecialistRepository over an in-memory roster
// loaded once at startup. The roster is reference data and never mutated.
type MemoryRoster struct {
	byID             map[string]*entities.Specialist
	bySpecialization map[string][]*entities.Specialist
	ordered          []*entities.Specialist
}

// NewMemoryRoster creates a roster from a slice of specialists.
func NewMemoryRoster(specialists []*entities.Specialist) repositories.SpecialistRepository {
	r := &MemoryRoster{
		byID:             make(map[string]*entities.Specialist, len(specialists)),
		bySpecialization: make(map[string][]*entities.Specialist),
		ordered:          specialists,
	}
	for _, s := range specialists {
		r.byID[s.ID] = s
		key := strings.ToLower(s.Specialization)
		r.bySpecialization[key] = append(r.bySpecialization[key], s)
	}
	return r
}

// LoadEmbedded creates a roster from the dataset compiled into the binary.
func LoadEmbedded() (repositories.SpecialistRepository, error) {
	return loadBytes(embeddedRoster)
}

// LoadFile creates a roster from a JSON file on disk, for deployments that
// ship their own dataset.
func LoadFile(path string) (repositories.SpecialistRepository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}
	return loadBytes(data)
}

func loadBytes(data []byte) (repositories.SpecialistRepository, error) {
	var specialists []*entities.Specialist
	if err := json.Unmarshal(data, &specialists); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	return NewMemoryRoster(specialists), nil
}

// GetAll retrieves every specialist in the roster
func (r *MemoryRoster) GetAll(ctx context.Context) ([]*entities.Specialist, error) {
	out := make([]*entities.Specialist, len(r.ordered))
	copy(out, r.ordered)
	return out, nil
}

// GetByID retrieves a specialist by ID
func (r *MemoryRoster) GetByID(ctx context.Context, id string) (*entities.Specialist, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("specialist %s not found", id))
	}
	return s, nil
}

// ListBySpecialization retrieves specialists whose primary specialization matches
func (r *MemoryRoster) ListBySpecialization(ctx context.Context, specialization string) ([]*entities.Specialist, error) {
	matches := r.bySpecialization[strings.ToLower(specialization)]
	out := make([]*entities.Specialist, len(matches))
	copy(out, matches)
	return out, nil
}

// ListByCountry retrieves specialists practicing in a country
func (r *MemoryRoster) ListByCountry(ctx context.Context, country string) ([]*entities.Specialist, error) {
	var out []*entities.Specialist
	for _, s := range r.ordered {
		if strings.EqualFold(s.Country, country) {
			out = append(out, s)
		}
	}
	return out, nil
}
