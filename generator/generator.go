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


// Package generator lazily turns example lists into network-ready batches.
//
// Only the batch being requested is transformed, so memory stays bounded by
// the batch size regardless of corpus size. Drug sequences are embedded token
// by token through a langchaingo Embedder, left-padded with zero vectors and
// truncated to their most recent SequenceLength tokens.
package generator

import (
	"context"
	"errors"
	"fmt"

	"github.com/poiesic/medseq/dataset"
	"github.com/poiesic/medseq/features"
	"github.com/tmc/langchaingo/embeddings"
)

var (
	// ErrMissingCollaborator is returned when a required encoder is nil.
	ErrMissingCollaborator = errors.New("generator collaborator is required")

	// ErrInvalidConfig is returned for non-positive sizes.
	ErrInvalidConfig = errors.New("invalid generator config")

	// ErrBatchOutOfRange is returned for batch indices outside [0, Len).
	ErrBatchOutOfRange = errors.New("batch index out of range")

	// ErrDimensionMismatch is returned when the embedder produces vectors of
	// an unexpected width.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Config sizes the generated batches.
type Config struct {
	BatchSize      int
	SequenceLength int
	EmbeddingDim   int
}

// Batch is one transformed slice of examples.
type Batch struct {
	// Sequences is [example][timestep][embedding].
	Sequences [][][]float32
	// Profiles is [example][profile feature].
	Profiles [][]float32
	// Labels holds class indices.
	Labels []int
}

// Size returns the number of examples in the batch.
func (b *Batch) Size() int {
	return len(b.Labels)
}

// Transformed is a batch source over raw example lists.
type Transformed struct {
	lists    *dataset.Lists
	embedder embeddings.Embedder
	pse      *features.ProfileStateEncoder
	le       *features.LabelEncoder
	cfg      Config
}

// NewTransformed creates a generator. The encoders must already be fitted.
func NewTransformed(lists *dataset.Lists, embedder embeddings.Embedder, pse *features.ProfileStateEncoder,
	le *features.LabelEncoder, cfg Config) (*Transformed, error) {
	switch {
	case lists == nil:
		return nil, fmt.Errorf("%w: example lists", ErrMissingCollaborator)
	case embedder == nil:
		return nil, fmt.Errorf("%w: embedder", ErrMissingCollaborator)
	case pse == nil || !pse.Fitted():
		return nil, fmt.Errorf("%w: fitted profile state encoder", ErrMissingCollaborator)
	case le == nil || le.NumClasses() == 0:
		return nil, fmt.Errorf("%w: fitted label encoder", ErrMissingCollaborator)
	}
	if cfg.BatchSize <= 0 || cfg.SequenceLength <= 0 || cfg.EmbeddingDim <= 0 {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidConfig, cfg)
	}
	return &Transformed{
		lists:    lists,
		embedder: embedder,
		pse:      pse,
		le:       le,
		cfg:      cfg,
	}, nil
}

// Len returns the number of batches.
func (g *Transformed) Len() int {
	return (g.lists.Len() + g.cfg.BatchSize - 1) / g.cfg.BatchSize
}

// Examples returns the number of examples.
func (g *Transformed) Examples() int {
	return g.lists.Len()
}

// SequenceLength returns the number of timesteps per example.
func (g *Transformed) SequenceLength() int {
	return g.cfg.SequenceLength
}

// EmbeddingDim returns the width of each timestep.
func (g *Transformed) EmbeddingDim() int {
	return g.cfg.EmbeddingDim
}

// ProfileDim returns the width of the profile features.
func (g *Transformed) ProfileDim() int {
	return g.pse.Dim()
}

// NumClasses returns the number of target classes.
func (g *Transformed) NumClasses() int {
	return g.le.NumClasses()
}

// Batch transforms batch i.
func (g *Transformed) Batch(ctx context.Context, i int) (*Batch, error) {
	if i < 0 || i >= g.Len() {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrBatchOutOfRange, i, g.Len())
	}
	start := i * g.cfg.BatchSize
	end := min(start+g.cfg.BatchSize, g.lists.Len())

	vectors, err := g.embedTokens(ctx, start, end)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		Sequences: make([][][]float32, 0, end-start),
		Profiles:  make([][]float32, 0, end-start),
		Labels:    make([]int, 0, end-start),
	}
	for j := start; j < end; j++ {
		ex := g.lists.Example(j)
		label, err := g.le.Transform(ex.Target)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", j, err)
		}
		profile, err := g.pse.Transform(ex.ActiveMeds, ex.Department)
		if err != nil {
			return nil, fmt.Errorf("example %d: %w", j, err)
		}
		batch.Sequences = append(batch.Sequences, g.padSequence(ex.Sequence, vectors))
		batch.Profiles = append(batch.Profiles, profile)
		batch.Labels = append(batch.Labels, label)
	}
	return batch, nil
}

// ForEach transforms every batch in order and passes it to fn.
func (g *Transformed) ForEach(ctx context.Context, fn func(i int, b *Batch) error) error {
	for i := 0; i < g.Len(); i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		b, err := g.Batch(ctx, i)
		if err != nil {
			return err
		}
		if err := fn(i, b); err != nil {
			return err
		}
	}
	return nil
}

// embedTokens embeds the distinct tokens visible in examples [start, end).
func (g *Transformed) embedTokens(ctx context.Context, start, end int) (map[string][]float32, error) {
	seen := make(map[string]struct{})
	var tokens []string
	for j := start; j < end; j++ {
		for _, tok := range g.window(g.lists.Sequences[j]) {
			if _, ok := seen[tok]; !ok {
				seen[tok] = struct{}{}
				tokens = append(tokens, tok)
			}
		}
	}
	vectors := make(map[string][]float32, len(tokens))
	if len(tokens) == 0 {
		return vectors, nil
	}

	embedded, err := g.embedder.EmbedDocuments(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("failed to embed sequence tokens: %w", err)
	}
	if len(embedded) != len(tokens) {
		return nil, fmt.Errorf("%w: %d vectors for %d tokens", ErrDimensionMismatch, len(embedded), len(tokens))
	}
	for k, tok := range tokens {
		if len(embedded[k]) != g.cfg.EmbeddingDim {
			return nil, fmt.Errorf("%w: %q has %d, want %d", ErrDimensionMismatch, tok, len(embedded[k]), g.cfg.EmbeddingDim)
		}
		vectors[tok] = embedded[k]
	}
	return vectors, nil
}

// window returns the most recent SequenceLength tokens.
func (g *Transformed) window(seq []string) []string {
	if len(seq) > g.cfg.SequenceLength {
		return seq[len(seq)-g.cfg.SequenceLength:]
	}
	return seq
}

func (g *Transformed) padSequence(seq []string, vectors map[string][]float32) [][]float32 {
	seq = g.window(seq)
	out := make([][]float32, g.cfg.SequenceLength)
	pad := g.cfg.SequenceLength - len(seq)
	for t := range out {
		if t < pad {
			out[t] = make([]float32, g.cfg.EmbeddingDim)
			continue
		}
		out[t] = vectors[seq[t-pad]]
	}
	return out
}
