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
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/medseq/checkpoint"
	"github.com/poiesic/medseq/core"
	"github.com/poiesic/medseq/dataset"
	"github.com/poiesic/medseq/embedding"
	"github.com/poiesic/medseq/features"
	"github.com/poiesic/medseq/generator"
	"github.com/poiesic/medseq/network"
)

// Trainer starts a new run in an empty checkpoint directory.
type Trainer struct {
	dir    *checkpoint.Dir
	loader *dataset.Loader
	hp     core.Hyperparameters
	opts   *options
	logger *slog.Logger
}

// NewTrainer creates a Trainer for a run with hyperparameters hp.
func NewTrainer(dir *checkpoint.Dir, loader *dataset.Loader, hp core.Hyperparameters, opts ...Option) (*Trainer, error) {
	if dir == nil {
		return nil, ErrCheckpointRequired
	}
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if err := core.ValidateHyperparameters(hp); err != nil {
		return nil, err
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Trainer{
		dir:    dir,
		loader: loader,
		hp:     hp,
		opts:   o,
		logger: o.logger.With("component", "trainer"),
	}, nil
}

// Run fits the embedding and encoders, writes every run artifact and
// trains all epochs.
//
// The hyperparameters mark a started run, so they are written last, right
// before the epoch counter. A Run that fails earlier leaves a directory
// that a later Run may start over in.
func (t *Trainer) Run(ctx context.Context) (*Summary, error) {
	if t.dir.Has(checkpoint.HyperparametersFile) {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointExists, t.dir.Path())
	}

	var restrict []core.EncounterID
	if t.opts.sample > 0 {
		var err error
		restrict, err = t.loader.Sample(ctx, t.opts.sample, t.opts.seed)
		if err != nil {
			return nil, err
		}
		if err := t.dir.SaveRestriction(restrict); err != nil {
			return nil, err
		}
		t.logger.Info("restricted run to sampled encounters", "encounters", len(restrict))
	} else if err := t.dir.ClearRestriction(); err != nil {
		return nil, err
	}
	lists, err := t.loader.Load(ctx, restrict)
	if err != nil {
		return nil, err
	}

	w2v, pse, le, err := t.fitEncoders(ctx, lists)
	if err != nil {
		return nil, err
	}

	embedder, err := w2v.Embedder()
	if err != nil {
		return nil, err
	}
	gen, err := generator.NewTransformed(lists, embedder, pse, le, generatorConfig(t.hp))
	if err != nil {
		return nil, err
	}
	model, err := network.New(network.Architecture{
		SequenceLength: t.hp.SequenceLength,
		InputDim:       t.hp.EmbeddingDim,
		ProfileDim:     pse.Dim(),
		Hidden:         t.opts.hidden,
		Classes:        le.NumClasses(),
	}, network.WithSeed(t.opts.seed))
	if err != nil {
		return nil, err
	}
	if err := t.dir.SavePartialModel(model); err != nil {
		return nil, err
	}
	if err := t.dir.SaveHyperparameters(t.hp); err != nil {
		return nil, err
	}
	if err := t.dir.SaveDoneEpochs(0); err != nil {
		return nil, err
	}

	t.logger.Info("starting training",
		"epochs", t.hp.Epochs, "examples", lists.Len(), "classes", le.NumClasses(), "batches", gen.Len())
	history, err := model.Fit(ctx, gen, network.FitOptions{
		Epochs:    t.hp.Epochs,
		Callbacks: checkpoint.Callbacks(t.dir, false, t.hp.Epochs, t.logger),
		Progress:  t.opts.progress,
	})
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}
	if err := t.dir.SaveFinalModel(model); err != nil {
		return nil, err
	}
	t.logger.Info("training complete", "model", checkpoint.FinalModelFile)

	return &Summary{
		Hyperparameters: t.hp,
		EpochsTrained:   len(history.Epochs),
		Restricted:      restrict != nil,
		Examples:        lists.Len(),
		History:         history,
	}, nil
}

func (t *Trainer) fitEncoders(ctx context.Context, lists *dataset.Lists) (*embedding.Model, *features.ProfileStateEncoder, *features.LabelEncoder, error) {
	cfg := t.opts.w2v
	if cfg == nil {
		cfg = embedding.DefaultConfig()
	}
	sized := *cfg
	sized.Size = t.hp.EmbeddingDim
	if t.opts.w2v == nil {
		sized.Seed = t.opts.seed
	}
	w2vTrainer, err := embedding.New(&sized, embedding.WithLogger(t.logger))
	if err != nil {
		return nil, nil, nil, err
	}
	w2v, err := w2vTrainer.Fit(ctx, lists.Sentences())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to fit word2vec: %w", err)
	}

	pse := features.NewProfileStateEncoder()
	if err := pse.Fit(lists.ActiveMeds, lists.Departments); err != nil {
		return nil, nil, nil, err
	}
	le := features.NewLabelEncoder()
	if err := le.Fit(lists.Targets); err != nil {
		return nil, nil, nil, err
	}

	if err := t.dir.SaveEmbedding(w2v); err != nil {
		return nil, nil, nil, err
	}
	if err := t.dir.SaveProfileEncoder(pse); err != nil {
		return nil, nil, nil, err
	}
	if err := t.dir.SaveLabelEncoder(le); err != nil {
		return nil, nil, nil, err
	}
	t.logger.Info("fitted encoders", "vocab", w2v.Len(), "profile_dim", pse.Dim(), "classes", le.NumClasses())
	return w2v, pse, le, nil
}
