package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/repositories"
	redisclient "github.com/emmanuelmensahx/specialist-engine/internal/infrastructure/clients/redis"
)

const redisHashKey = "specialist:availability"

// RedisStore implements AvailabilityStore on a Redis hash keyed by
// specialist id, for deployments sharing availability across instances.
type RedisStore struct {
	client *redisclient.Client
}

// NewRedisStore creates a new Redis-backed availability store
func NewRedisStore(client *redisclient.Client) repositories.AvailabilityStore {
	return &RedisStore{client: client}
}

// Load retrieves the persisted availability map
func (s *RedisStore) Load(ctx context.Context) (map[string]*entities.AvailabilityState, error) {
	fields, err := s.client.Client().HGetAll(ctx, redisHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}

	states := make(map[string]*entities.AvailabilityState, len(fields))
	for id, raw := range fields {
		var state entities.AvailabilityState
		if err := json.Unmarshal([]byte(raw), &state); err != nil {
			return nil, fmt.Errorf("failed to decode state for %s: %w", id, err)
		}
		states[id] = &state
	}
	return states, nil
}

// Save persists the full availability map
func (s *RedisStore) Save(ctx context.Context, states map[string]*entities.AvailabilityState) error {
	if len(states) == 0 {
		return nil
	}

	fields := make(map[string]interface{}, len(states))
	for id, state := range states {
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to encode state for %s: %w", id, err)
		}
		fields[id] = data
	}

	if err := s.client.Client().HSet(ctx, redisHashKey, fields).Err(); err != nil {
		return fmt.Errorf("failed to persist availability: %w", err)
	}
	return nil
}

// Close releases the underlying client (owned by the caller)
func (s *RedisStore) Close() error {
	return nil
}
