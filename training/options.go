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


package training

import (
	"log/slog"

	"github.com/poiesic/medseq/embedding"
	"github.com/poiesic/medseq/network"
)

type options struct {
	logger   *slog.Logger
	progress network.Progress
	w2v      *embedding.Config
	hidden   int
	sample   int
	seed     uint64
}

func defaultOptions() *options {
	return &options{
		logger: slog.Default(),
		hidden: 64,
		seed:   1,
	}
}

// Option configures a Trainer or a Resumer.
type Option func(*options) error

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithProgress sets where per-batch and per-epoch progress is reported.
func WithProgress(progress network.Progress) Option {
	return func(o *options) error {
		o.progress = progress
		return nil
	}
}

// WithEmbeddingConfig sets the word2vec configuration of a new run. Its
// Size is overridden by the run's EmbeddingDim.
func WithEmbeddingConfig(cfg *embedding.Config) Option {
	return func(o *options) error {
		o.w2v = cfg
		return nil
	}
}

// WithHidden sets the recurrent layer width of a new run.
func WithHidden(hidden int) Option {
	return func(o *options) error {
		if hidden <= 0 {
			return network.ErrInvalidArchitecture
		}
		o.hidden = hidden
		return nil
	}
}

// WithSample restricts a new run to n randomly drawn encounters. Zero
// trains on the whole corpus.
func WithSample(n int) Option {
	return func(o *options) error {
		o.sample = n
		return nil
	}
}

// WithSeed sets the seed used for sampling and initialization.
func WithSeed(seed uint64) Option {
	return func(o *options) error {
		o.seed = seed
		return nil
	}
}

func applyOptions(opts []Option) (*options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}
