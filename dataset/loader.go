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


package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/poiesic/medseq/core"
	"github.com/poiesic/medseq/storage"
)

// Loader reads encounters from a repository and builds example lists.
type Loader struct {
	repo   storage.EncounterRepository
	logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets the logger used by the loader.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		l.logger = logger
		return nil
	}
}

// NewLoader creates a Loader over repo.
func NewLoader(repo storage.EncounterRepository, opts ...Option) (*Loader, error) {
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	l := &Loader{
		repo:   repo,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	l.logger = l.logger.With("component", "dataset")
	return l, nil
}

// Load builds example lists. A nil restrict loads every encounter; otherwise
// only the named encounters are loaded, in the given order.
func (l *Loader) Load(ctx context.Context, restrict []core.EncounterID) (*Lists, error) {
	lists := &Lists{}
	add := func(enc *core.Encounter) error {
		for _, ex := range enc.Examples() {
			lists.Append(ex)
		}
		return nil
	}

	if restrict == nil {
		if err := l.repo.ForEachEncounter(ctx, add); err != nil {
			return nil, fmt.Errorf("failed to load encounters: %w", err)
		}
	} else {
		encounters, err := l.repo.GetEncounters(ctx, restrict...)
		if err != nil {
			return nil, fmt.Errorf("failed to load restricted encounters: %w", err)
		}
		if len(encounters) != len(restrict) {
			return nil, fmt.Errorf("%w: found %d of %d", ErrMissingEncounters, len(encounters), len(restrict))
		}
		for _, enc := range encounters {
			if err := add(enc); err != nil {
				return nil, err
			}
		}
	}

	if lists.Len() == 0 {
		return nil, ErrEmptyDataset
	}
	l.logger.Debug("loaded examples", "examples", lists.Len(), "restricted", restrict != nil)
	return lists, nil
}

// Corpus returns the drug sequence of every stored encounter, one sentence
// per encounter, for embedding training.
func (l *Loader) Corpus(ctx context.Context) ([][]string, error) {
	var corpus [][]string
	err := l.repo.ForEachEncounter(ctx, func(enc *core.Encounter) error {
		corpus = append(corpus, enc.Drugs())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	if len(corpus) == 0 {
		return nil, ErrEmptyDataset
	}
	return corpus, nil
}

// Sample draws n distinct encounter ids using seed. The result is sorted so
// the same seed always restricts to the same list. If n covers the whole
// corpus every id is returned.
func (l *Loader) Sample(ctx context.Context, n int, seed uint64) ([]core.EncounterID, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleSize, n)
	}
	var ids []core.EncounterID
	err := l.repo.ForEachEncounter(ctx, func(enc *core.Encounter) error {
		ids = append(ids, enc.Id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list encounters: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrEmptyDataset
	}

	if n < len(ids) {
		rng := rand.New(rand.NewPCG(seed, seed))
		rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		ids = ids[:n]
	}
	slices.Sort(ids)
	return ids, nil
}
