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


package explore

import (
	"fmt"
	"runtime"

	"github.com/poiesic/medseq/embedding"
	"github.com/poiesic/medseq/gridsearch"
)

// Config holds the search configuration.
type Config struct {
	// OutputDir receives the CSV tables.
	OutputDir string

	// Folds is the number of cross-validation folds for both searches.
	Folds int

	// PoolSize is the number of concurrent fold evaluations.
	PoolSize int

	// Components is the dimensionality of the projection that is
	// clustered and plotted.
	Components int

	// Embedding is the base word2vec configuration. Grid parameters
	// override its fields.
	Embedding *embedding.Config

	// Grids is the search space.
	Grids *gridsearch.Grids
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithOutputDir sets the table output directory.
func WithOutputDir(dir string) ConfigOption {
	return func(c *Config) {
		c.OutputDir = dir
	}
}

// WithFolds sets the number of cross-validation folds.
func WithFolds(folds int) ConfigOption {
	return func(c *Config) {
		c.Folds = folds
	}
}

// WithPoolSize sets the number of concurrent evaluations.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithEmbedding sets the base word2vec configuration.
func WithEmbedding(cfg *embedding.Config) ConfigOption {
	return func(c *Config) {
		c.Embedding = cfg
	}
}

// WithGrids sets the search space.
func WithGrids(grids *gridsearch.Grids) ConfigOption {
	return func(c *Config) {
		c.Grids = grids
	}
}

// DefaultConfig returns a configuration with 3 folds, a pool of all but one
// CPU, a 3-D projection and the built-in grids.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:  ".",
		Folds:      3,
		PoolSize:   max(runtime.NumCPU()-1, 1),
		Components: 3,
		Embedding:  embedding.DefaultConfig(),
		Grids:      gridsearch.DefaultGrids(),
	}
}

// NewConfig creates a configuration with the given options applied.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output directory is empty", ErrInvalidConfig)
	}
	if c.Folds < 2 {
		return fmt.Errorf("%w: folds must be at least 2", ErrInvalidConfig)
	}
	if c.PoolSize < 1 {
		return fmt.Errorf("%w: pool size must be positive", ErrInvalidConfig)
	}
	if c.Components < 2 {
		return fmt.Errorf("%w: components must be at least 2", ErrInvalidConfig)
	}
	if c.Embedding == nil || c.Grids == nil {
		return fmt.Errorf("%w: embedding config and grids are required", ErrInvalidConfig)
	}
	if err := c.Embedding.Validate(); err != nil {
		return err
	}
	return c.Grids.Validate()
}
