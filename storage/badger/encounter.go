// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/medseq/core"
	"github.com/poiesic/medseq/storage"
)

// EncounterRepository implements storage.EncounterRepository for BadgerDB.
type EncounterRepository struct {
	backend *Backend
}

var _ storage.EncounterRepository = (*EncounterRepository)(nil)

// NewEncounterRepository creates a new EncounterRepository.
func NewEncounterRepository(backend *Backend) (storage.EncounterRepository, error) {
	return newEncounterRepository(backend)
}

func newEncounterRepository(backend *Backend) (*EncounterRepository, error) {
	if backend == nil {
		return nil, errors.New("badger: backend is required")
	}
	return &EncounterRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *EncounterRepository) Close() error {
	return nil
}

// AddEncounters stores encounters, replacing existing ones with the same Id.
func (r *EncounterRepository) AddEncounters(ctx context.Context, encounters ...*core.Encounter) error {
	for _, enc := range encounters {
		if err := core.ValidateEncounter(enc); err != nil {
			return err
		}
	}

	// WriteBatch splits large imports across transactions.
	wb := r.backend.db.NewWriteBatch()
	defer wb.Cancel()
	for _, enc := range encounters {
		if err := wb.Set(makeEncounterKey(enc.Id), storage.MarshalEncounter(enc)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

// GetEncounter retrieves a single encounter by Id.
func (r *EncounterRepository) GetEncounter(ctx context.Context, id core.EncounterID) (*core.Encounter, error) {
	var enc *core.Encounter
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		enc, err = r.readEncounter(tx, id)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("encounter %s: %w", id, storage.ErrNotFound)
	}
	return enc, nil
}

// GetEncounters retrieves the encounters that exist among ids, in order.
func (r *EncounterRepository) GetEncounters(ctx context.Context, ids ...core.EncounterID) ([]*core.Encounter, error) {
	result := make([]*core.Encounter, 0, len(ids))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			enc, err := r.readEncounter(tx, id)
			if err != nil {
				return err
			}
			if enc != nil {
				result = append(result, enc)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ForEachEncounter calls fn for every encounter in key order.
func (r *EncounterRepository) ForEachEncounter(ctx context.Context, fn func(*core.Encounter) error) error {
	return r.backend.ForEachPrefix(ctx, []byte(encounterPrefix), func(key, val []byte) error {
		enc, err := storage.UnmarshalEncounter(val)
		if err != nil {
			return err
		}
		if id := encounterIDFromKey(key); enc.Id != id {
			return fmt.Errorf("%w: key %s holds encounter %s", storage.ErrSerializationFailed, id, enc.Id)
		}
		return fn(enc)
	})
}

// CountEncounters returns the number of stored encounters.
func (r *EncounterRepository) CountEncounters(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(encounterPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()
		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// DeleteEncounters removes encounters by Id.
func (r *EncounterRepository) DeleteEncounters(ctx context.Context, ids ...core.EncounterID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeEncounterKey(id)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return fmt.Errorf("encounter %s: %w", id, storage.ErrNotFound)
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readEncounter returns nil, nil when the encounter does not exist.
func (r *EncounterRepository) readEncounter(tx *badger.Txn, id core.EncounterID) (*core.Encounter, error) {
	item, err := tx.Get(makeEncounterKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var enc *core.Encounter
	err = item.Value(func(val []byte) error {
		var err error
		enc, err = storage.UnmarshalEncounter(val)
		return err
	})
	return enc, err
}
