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
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"gonum.org/v1/gonum/blas/blas32"
)

// Model is a trained set of token vectors.
type Model struct {
	words   []string
	counts  []int
	vectors [][]float32
	index   map[string]int

	normed [][]float32
}

var _ embeddings.EmbedderClient = (*Model)(nil)

func newModel(words []string, counts []int, vectors [][]float32) *Model {
	m := &Model{
		words:   words,
		counts:  counts,
		vectors: vectors,
		index:   make(map[string]int, len(words)),
	}
	for i, w := range words {
		m.index[w] = i
	}
	m.normed = make([][]float32, len(vectors))
	for i, v := range vectors {
		m.normed[i] = normalize(v)
	}
	return m
}

func normalize(v []float32) []float32 {
	out := slices.Clone(v)
	if n := blas32.Nrm2(vec(out)); n > 0 {
		blas32.Scal(1/n, vec(out))
	}
	return out
}

// Len returns the vocabulary size.
func (m *Model) Len() int {
	return len(m.words)
}

// Dim returns the vector dimensionality.
func (m *Model) Dim() int {
	if len(m.vectors) == 0 {
		return 0
	}
	return len(m.vectors[0])
}

// Words returns the vocabulary, most frequent first.
func (m *Model) Words() []string {
	return m.words
}

// Count returns how often word occurred in the training corpus.
func (m *Model) Count(word string) int {
	if i, ok := m.index[word]; ok {
		return m.counts[i]
	}
	return 0
}

// Contains reports whether word is in the vocabulary.
func (m *Model) Contains(word string) bool {
	_, ok := m.index[word]
	return ok
}

// Vector returns the raw vector for word.
func (m *Model) Vector(word string) ([]float32, bool) {
	i, ok := m.index[word]
	if !ok {
		return nil, false
	}
	return m.vectors[i], true
}

// Normalized returns every vector scaled to unit length, in vocabulary order.
func (m *Model) Normalized() [][]float32 {
	return m.normed
}

// Similarity returns the cosine similarity of two in-vocabulary words.
func (m *Model) Similarity(a, b string) (float32, bool) {
	i, ok := m.index[a]
	if !ok {
		return 0, false
	}
	j, ok := m.index[b]
	if !ok {
		return 0, false
	}
	return blas32.Dot(vec(m.normed[i]), vec(m.normed[j])), true
}

// Neighbor is a vocabulary word with its cosine similarity to a query.
type Neighbor struct {
	Word       string
	Similarity float32
}

// MostSimilar ranks the vocabulary by cosine similarity to the mean of the
// normalized positive vectors minus the negative ones. Query words are
// excluded from the result. Unknown words are ignored.
func (m *Model) MostSimilar(positive, negative []string, topn int) []Neighbor {
	query := make([]float32, m.Dim())
	exclude := make(map[int]struct{})
	terms := 0
	for _, w := range positive {
		if i, ok := m.index[w]; ok {
			blas32.Axpy(1, vec(m.normed[i]), vec(query))
			exclude[i] = struct{}{}
			terms++
		}
	}
	for _, w := range negative {
		if i, ok := m.index[w]; ok {
			blas32.Axpy(-1, vec(m.normed[i]), vec(query))
			exclude[i] = struct{}{}
			terms++
		}
	}
	if terms == 0 {
		return nil
	}
	query = normalize(query)

	neighbors := make([]Neighbor, 0, m.Len())
	for i, v := range m.normed {
		if _, skip := exclude[i]; skip {
			continue
		}
		neighbors = append(neighbors, Neighbor{Word: m.words[i], Similarity: blas32.Dot(vec(query), vec(v))})
	}
	// stable so equal scores keep vocabulary order
	slices.SortStableFunc(neighbors, func(a, b Neighbor) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	if topn > 0 && len(neighbors) > topn {
		neighbors = neighbors[:topn]
	}
	return neighbors
}

// CreateEmbedding embeds each text. A text that is itself a vocabulary
// entry, spaces included, gets a copy of its raw vector. Any other text
// embeds as the unit-length mean of its known whitespace separated tokens,
// or as zeros when none is known.
func (m *Model) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if v, ok := m.Vector(text); ok {
			out[i] = slices.Clone(v)
			continue
		}
		var vectors [][]float32
		var weights []int
		for _, tok := range strings.Fields(text) {
			if v, ok := m.Vector(tok); ok {
				vectors = append(vectors, v)
				weights = append(weights, 1)
			}
		}
		if len(vectors) == 0 {
			out[i] = make([]float32, m.Dim())
			continue
		}
		combined, err := embeddings.CombineVectors(vectors, weights)
		if err != nil {
			return nil, err
		}
		out[i] = combined
	}
	return out, nil
}

// Embedder wraps the model in a langchaingo Embedder.
func (m *Model) Embedder(opts ...embeddings.Option) (embeddings.Embedder, error) {
	opts = append([]embeddings.Option{embeddings.WithStripNewLines(true)}, opts...)
	return embeddings.NewEmbedder(m, opts...)
}
