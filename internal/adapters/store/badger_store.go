package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/emmanuelmensahx/specialist-engine/internal/domain/entities"
	"github.com/emmanuelmensahx/specialist-engine/internal/domain/repositories"
)

const badgerKeyPrefix = "availability:"

// BadgerStore implements AvailabilityStore on an embedded Badger database,
// one key per specialist so partial writes never corrupt the snapshot.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at path
func NewBadgerStore(path string) (repositories.AvailabilityStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Load retrieves the persisted availability map
func (s *BadgerStore) Load(ctx context.Context) (map[string]*entities.AvailabilityState, error) {
	states := make(map[string]*entities.AvailabilityState)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), badgerKeyPrefix)
			err := item.Value(func(val []byte) error {
				var state entities.AvailabilityState
				if err := json.Unmarshal(val, &state); err != nil {
					return fmt.Errorf("failed to decode state for %s: %w", id, err)
				}
				states[id] = &state
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load availability: %w", err)
	}
	return states, nil
}

// Save persists the full availability map
func (s *BadgerStore) Save(ctx context.Context, states map[string]*entities.AvailabilityState) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()

	for id, state := range states {
		data, err := json.Marshal(state)
		if err != nil {
			return fmt.Errorf("failed to encode state for %s: %w", id, err)
		}
		if err := wb.Set([]byte(badgerKeyPrefix+id), data); err != nil {
			return fmt.Errorf("failed to queue state for %s: %w", id, err)
		}
	}

	if err := wb.Flush(); err != nil {
		return fmt.Errorf("failed to persist availability: %w", err)
	}
	return nil
}

// Close releases the underlying database
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
