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
	"context"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/blas/blas32"
)

// maxExp bounds the logits for which hierarchical softmax updates are made.
const maxExp = 6

// Word2Vec trains embedding models.
type Word2Vec struct {
	config *Config
	logger *slog.Logger
}

// Option configures a Word2Vec trainer.
type Option func(*Word2Vec)

// WithLogger sets the logger used during training.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Word2Vec) {
		w.logger = logger
	}
}

// New creates a trainer for cfg.
func New(cfg *Config, opts ...Option) (*Word2Vec, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &Word2Vec{
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("component", "word2vec")
	return w, nil
}

// Config returns the trainer's configuration.
func (w *Word2Vec) Config() *Config {
	return w.config
}

// trainer holds the mutable state of one training run.
type trainer struct {
	cfg     *Config
	vocab   *vocab
	rng     *rand.Rand
	syn0    [][]float32
	syn1    [][]float32
	syn1neg [][]float32
	noise   *noiseTable
	neu1    []float32
	neu1e   []float32
}

func vec(v []float32) blas32.Vector {
	return blas32.Vector{N: len(v), Inc: 1, Data: v}
}

// Fit trains a model on sentences. Training is single threaded and fully
// determined by the configured seed.
func (w *Word2Vec) Fit(ctx context.Context, sentences [][]string) (*Model, error) {
	cfg := w.config
	voc := buildVocab(sentences, cfg.MinCount)
	if voc.size() == 0 {
		return nil, ErrEmptyVocabulary
	}

	t := &trainer{
		cfg:   cfg,
		vocab: voc,
		rng:   rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		neu1:  make([]float32, cfg.Size),
		neu1e: make([]float32, cfg.Size),
	}
	t.syn0 = make([][]float32, voc.size())
	for i := range t.syn0 {
		row := make([]float32, cfg.Size)
		for j := range row {
			row[j] = (t.rng.Float32() - 0.5) / float32(cfg.Size)
		}
		t.syn0[i] = row
	}
	if cfg.HS {
		voc.buildHuffman()
		t.syn1 = zeros(max(voc.size()-1, 1), cfg.Size)
	}
	if cfg.Negative > 0 {
		t.syn1neg = zeros(voc.size(), cfg.Size)
		t.noise = newNoiseTable(voc.counts)
	}

	keep := voc.keepProbs(cfg.Sample)
	totalWork := float64(cfg.Epochs) * float64(voc.total)
	done := 0.0
	indexed := make([]int, 0, 64)

	w.logger.Debug("training word2vec",
		"vocab", voc.size(), "tokens", voc.total, "epochs", cfg.Epochs,
		"size", cfg.Size, "sg", cfg.SG, "hs", cfg.HS, "negative", cfg.Negative)

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		for _, sentence := range sentences {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			indexed = indexed[:0]
			for _, tok := range sentence {
				i, ok := voc.index[tok]
				if !ok {
					continue
				}
				done++
				if keep[i] < 1 && keep[i] < t.rng.Float64() {
					continue
				}
				indexed = append(indexed, i)
			}

			alpha := cfg.Alpha - (cfg.Alpha-cfg.MinAlpha)*done/totalWork
			alpha = math.Max(alpha, cfg.MinAlpha)
			if cfg.SG {
				t.trainSkipGram(indexed, float32(alpha))
			} else {
				t.trainCBOW(indexed, float32(alpha))
			}
		}
	}

	return newModel(voc.words, voc.counts, t.syn0), nil
}

func zeros(rows, cols int) [][]float32 {
	m := make([][]float32, rows)
	for i := range m {
		m[i] = make([]float32, cols)
	}
	return m
}

func (t *trainer) trainSkipGram(sentence []int, alpha float32) {
	window := t.cfg.Window
	for pos, word := range sentence {
		reduced := t.rng.IntN(window)
		start := max(0, pos-window+reduced)
		end := min(len(sentence), pos+window+1-reduced)
		for c := start; c < end; c++ {
			if c == pos {
				continue
			}
			l1 := t.syn0[sentence[c]]
			clear(t.neu1e)
			t.predict(l1, word, alpha)
			blas32.Axpy(1, vec(t.neu1e), vec(l1))
		}
	}
}

func (t *trainer) trainCBOW(sentence []int, alpha float32) {
	window := t.cfg.Window
	for pos, word := range sentence {
		reduced := t.rng.IntN(window)
		start := max(0, pos-window+reduced)
		end := min(len(sentence), pos+window+1-reduced)

		clear(t.neu1)
		n := 0
		for c := start; c < end; c++ {
			if c == pos {
				continue
			}
			blas32.Axpy(1, vec(t.syn0[sentence[c]]), vec(t.neu1))
			n++
		}
		if n == 0 {
			continue
		}
		blas32.Scal(1/float32(n), vec(t.neu1))

		clear(t.neu1e)
		t.predict(t.neu1, word, alpha)
		for c := start; c < end; c++ {
			if c == pos {
				continue
			}
			blas32.Axpy(1, vec(t.neu1e), vec(t.syn0[sentence[c]]))
		}
	}
}

// predict trains the output layer to predict word from the hidden vector l1
// and accumulates the hidden layer error in t.neu1e.
func (t *trainer) predict(l1 []float32, word int, alpha float32) {
	h := vec(l1)
	errv := vec(t.neu1e)

	if t.cfg.HS {
		codes := t.vocab.codes[word]
		for d, node := range t.vocab.points[word] {
			out := t.syn1[node]
			f := blas32.Dot(h, vec(out))
			if f <= -maxExp || f >= maxExp {
				continue
			}
			g := (1 - float32(codes[d]) - sigmoid(f)) * alpha
			blas32.Axpy(g, vec(out), errv)
			blas32.Axpy(g, h, vec(out))
		}
	}

	for d := 0; d <= t.cfg.Negative && t.cfg.Negative > 0; d++ {
		target, label := word, float32(1)
		if d > 0 {
			target = t.noise.draw(t.rng.Float64())
			if target == word {
				continue
			}
			label = 0
		}
		out := t.syn1neg[target]
		f := blas32.Dot(h, vec(out))
		g := (label - sigmoid(f)) * alpha
		blas32.Axpy(g, vec(out), errv)
		blas32.Axpy(g, h, vec(out))
	}
}

func sigmoid(x float32) float32 {
	return float32(1 / (1 + math.Exp(-float64(x))))
}
