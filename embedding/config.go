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


package embedding

import (
	"fmt"
	"math"
)

// Config holds word2vec training parameters.
type Config struct {
	// Alpha is the initial learning rate. It decays linearly to MinAlpha.
	Alpha    float64
	MinAlpha float64

	// Epochs is the number of passes over the corpus.
	Epochs int

	// Size is the dimensionality of the vectors.
	Size int

	// Window is the maximum distance between the current and predicted token.
	Window int

	// MinCount drops tokens seen fewer times than this.
	MinCount int

	// Negative is the number of noise tokens drawn per prediction. Zero
	// disables negative sampling, which requires HS.
	Negative int

	// HS enables hierarchical softmax.
	HS bool

	// SG selects skip-gram. CBOW is used otherwise.
	SG bool

	// Sample is the frequent-token downsampling threshold. Zero disables it.
	Sample float64

	// Seed makes training reproducible.
	Seed uint64
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAlpha sets the initial learning rate.
func WithAlpha(alpha float64) ConfigOption {
	return func(c *Config) {
		c.Alpha = alpha
	}
}

// WithEpochs sets the number of training passes.
func WithEpochs(epochs int) ConfigOption {
	return func(c *Config) {
		c.Epochs = epochs
	}
}

// WithSize sets the vector dimensionality.
func WithSize(size int) ConfigOption {
	return func(c *Config) {
		c.Size = size
	}
}

// WithWindow sets the context window.
func WithWindow(window int) ConfigOption {
	return func(c *Config) {
		c.Window = window
	}
}

// WithMinCount sets the vocabulary frequency cutoff.
func WithMinCount(n int) ConfigOption {
	return func(c *Config) {
		c.MinCount = n
	}
}

// WithNegative sets the number of negative samples.
func WithNegative(n int) ConfigOption {
	return func(c *Config) {
		c.Negative = n
	}
}

// WithHS toggles hierarchical softmax.
func WithHS(hs bool) ConfigOption {
	return func(c *Config) {
		c.HS = hs
	}
}

// WithSG toggles skip-gram.
func WithSG(sg bool) ConfigOption {
	return func(c *Config) {
		c.SG = sg
	}
}

// WithSample sets the downsampling threshold.
func WithSample(sample float64) ConfigOption {
	return func(c *Config) {
		c.Sample = sample
	}
}

// WithSeed sets the random seed.
func WithSeed(seed uint64) ConfigOption {
	return func(c *Config) {
		c.Seed = seed
	}
}

// DefaultConfig returns the customary word2vec defaults.
func DefaultConfig() *Config {
	return &Config{
		Alpha:    0.025,
		MinAlpha: 0.0001,
		Epochs:   5,
		Size:     100,
		Window:   5,
		MinCount: 5,
		Negative: 5,
		Sample:   1e-3,
		Seed:     1,
	}
}

// NewConfig creates a Config with the default values and applies opts.
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Validate checks that the configuration can train.
func (c *Config) Validate() error {
	switch {
	case c.Alpha <= 0:
		return fmt.Errorf("%w: alpha must be > 0", ErrInvalidConfig)
	case c.MinAlpha < 0 || c.MinAlpha > c.Alpha:
		return fmt.Errorf("%w: min alpha must be in [0, alpha]", ErrInvalidConfig)
	case c.Epochs <= 0:
		return fmt.Errorf("%w: epochs must be > 0", ErrInvalidConfig)
	case c.Size <= 0:
		return fmt.Errorf("%w: size must be > 0", ErrInvalidConfig)
	case c.Window <= 0:
		return fmt.Errorf("%w: window must be > 0", ErrInvalidConfig)
	case c.MinCount < 1:
		return fmt.Errorf("%w: min count must be >= 1", ErrInvalidConfig)
	case c.Negative < 0:
		return fmt.Errorf("%w: negative must be >= 0", ErrInvalidConfig)
	case !c.HS && c.Negative == 0:
		return fmt.Errorf("%w: either hs or negative sampling is required", ErrInvalidConfig)
	case c.Sample < 0:
		return fmt.Errorf("%w: sample must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// WithParams returns a copy of c with grid parameters applied. Keys use the
// usual word2vec names: alpha, iter, size, window, min_count, negative, hs, sg,
// sample and seed.
func (c *Config) WithParams(params map[string]float64) (*Config, error) {
	out := *c
	for name, v := range params {
		switch name {
		case "alpha":
			out.Alpha = v
		case "iter", "epochs":
			out.Epochs = int(v)
		case "size", "vector_size":
			out.Size = int(v)
		case "window":
			out.Window = int(v)
		case "min_count":
			out.MinCount = int(v)
		case "negative":
			out.Negative = int(v)
		case "hs":
			out.HS = v != 0
		case "sg":
			out.SG = v != 0
		case "sample":
			out.Sample = v
		case "seed":
			out.Seed = uint64(math.Max(v, 0))
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
		}
	}
	if out.MinAlpha > out.Alpha {
		out.MinAlpha = out.Alpha
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return &out, nil
}
