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


// Package medseq trains medication-sequence models from a corpus of
// hospital encounters.
//
// A Database wraps the encounter store and hands out the pieces that work
// on it: loaders, the embedding explorer, and the trainer and resumer for
// next-drug models.
package medseq

import (
	"context"
	"log/slog"

	"github.com/poiesic/medseq/checkpoint"
	"github.com/poiesic/medseq/core"
	"github.com/poiesic/medseq/dataset"
	"github.com/poiesic/medseq/embedding"
	"github.com/poiesic/medseq/explore"
	"github.com/poiesic/medseq/report"
	"github.com/poiesic/medseq/storage"
	"github.com/poiesic/medseq/storage/badger"
	"github.com/poiesic/medseq/training"
)

type Database struct {
	backend    *badger.Backend
	encounters storage.EncounterRepository
	logger     *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory keeps the store in memory. The path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger handed to every component.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	encounters, err := badger.NewEncounterRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:    backend,
		encounters: encounters,
		logger:     options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.encounters.Close(); err != nil {
		db.logger.Error("error closing encounter repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) EncounterRepository() storage.EncounterRepository {
	return db.encounters
}

func (db *Database) NewLoader() (*dataset.Loader, error) {
	return dataset.NewLoader(db.encounters, dataset.WithLogger(db.logger))
}

// NewTrainer starts a new run in dir.
func (db *Database) NewTrainer(dir *checkpoint.Dir, hp core.Hyperparameters, opts ...training.Option) (*training.Trainer, error) {
	loader, err := db.NewLoader()
	if err != nil {
		return nil, err
	}
	opts = append([]training.Option{training.WithLogger(db.logger)}, opts...)
	return training.NewTrainer(dir, loader, hp, opts...)
}

// NewResumer continues the run stored in dir.
func (db *Database) NewResumer(dir *checkpoint.Dir, opts ...training.Option) (*training.Resumer, error) {
	loader, err := db.NewLoader()
	if err != nil {
		return nil, err
	}
	opts = append([]training.Option{training.WithLogger(db.logger)}, opts...)
	return training.NewResumer(dir, loader, opts...)
}

// Explore runs the embedding and clustering search over every stored
// encounter.
func (db *Database) Explore(ctx context.Context, cfg *explore.Config, analogies []embedding.AnalogySection, sink report.Sink) (*explore.Report, error) {
	explorer, err := explore.New(cfg, analogies, sink, explore.WithLogger(db.logger))
	if err != nil {
		return nil, err
	}
	loader, err := db.NewLoader()
	if err != nil {
		return nil, err
	}
	corpus, err := loader.Corpus(ctx)
	if err != nil {
		return nil, err
	}
	return explorer.Run(ctx, corpus)
}
