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
	"github.com/poiesic/medseq/generator"
	"github.com/poiesic/medseq/network"
	"github.com/poiesic/medseq/storage"
)

// Summary describes a finished Trainer or Resumer run.
type Summary struct {
	Hyperparameters core.Hyperparameters
	// DoneBefore is the completed epoch count the run started from.
	DoneBefore int
	// EpochsTrained is the number of epochs trained by this run.
	EpochsTrained int
	Restricted    bool
	Examples      int
	History       *network.History
}

// Resumer continues an interrupted run from its checkpoint directory.
type Resumer struct {
	dir    *checkpoint.Dir
	loader *dataset.Loader
	opts   *options
	logger *slog.Logger
}

// NewResumer creates a Resumer for the run stored in dir.
func NewResumer(dir *checkpoint.Dir, loader *dataset.Loader, opts ...Option) (*Resumer, error) {
	if dir == nil {
		return nil, ErrCheckpointRequired
	}
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Resumer{
		dir:    dir,
		loader: loader,
		opts:   o,
		logger: o.logger.With("component", "resumer"),
	}, nil
}

// Run resumes training for the epochs left between the stored counter and
// the stored epoch target, then writes the final model. A run that is
// already complete trains nothing and writes the loaded model unchanged.
func (r *Resumer) Run(ctx context.Context) (*Summary, error) {
	hp, err := r.dir.LoadHyperparameters()
	if err != nil {
		return nil, err
	}

	var restrict []core.EncounterID
	if r.dir.HasRestriction() {
		restrict, err = r.dir.LoadRestriction()
		if err != nil {
			return nil, err
		}
	}
	lists, err := r.loader.Load(ctx, restrict)
	if err != nil {
		return nil, err
	}
	if restrict != nil {
		r.logger.Info("loaded partially completed experiment with RESTRICTED DATA",
			"encounters", len(restrict), "examples", lists.Len())
	}

	w2v, err := r.dir.LoadEmbedding()
	if err != nil {
		return nil, err
	}
	pse, err := r.dir.LoadProfileEncoder()
	if err != nil {
		return nil, err
	}
	le, err := r.dir.LoadLabelEncoder()
	if err != nil {
		return nil, err
	}

	done, err := r.dir.LoadDoneEpochs()
	if err != nil {
		return nil, err
	}
	if err := core.ValidateEpochCount(hp, done); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrCorruptArtifact, checkpoint.DoneEpochsFile, err)
	}

	embedder, err := w2v.Embedder()
	if err != nil {
		return nil, err
	}
	gen, err := generator.NewTransformed(lists, embedder, pse, le, generatorConfig(hp))
	if err != nil {
		return nil, err
	}

	model, err := r.dir.LoadPartialModel()
	if err != nil {
		return nil, err
	}
	if err := checkArchitecture(model.Architecture(), gen); err != nil {
		return nil, err
	}

	r.logger.Info("resuming training",
		"done", done, "total", hp.Epochs, "remaining", hp.Remaining(done), "examples", lists.Len())
	history, err := model.Fit(ctx, gen, network.FitOptions{
		InitialEpoch: done,
		Epochs:       hp.Epochs,
		Callbacks:    checkpoint.Callbacks(r.dir, true, hp.Epochs, r.logger),
		Progress:     r.opts.progress,
	})
	if err != nil {
		return nil, fmt.Errorf("training failed: %w", err)
	}

	if err := r.dir.SaveFinalModel(model); err != nil {
		return nil, err
	}
	r.logger.Info("training complete", "epochs_trained", len(history.Epochs), "model", checkpoint.FinalModelFile)

	return &Summary{
		Hyperparameters: hp,
		DoneBefore:      done,
		EpochsTrained:   len(history.Epochs),
		Restricted:      restrict != nil,
		Examples:        lists.Len(),
		History:         history,
	}, nil
}

func generatorConfig(hp core.Hyperparameters) generator.Config {
	return generator.Config{
		BatchSize:      hp.BatchSize,
		SequenceLength: hp.SequenceLength,
		EmbeddingDim:   hp.EmbeddingDim,
	}
}

func checkArchitecture(arch network.Architecture, gen *generator.Transformed) error {
	if arch.SequenceLength != gen.SequenceLength() || arch.InputDim != gen.EmbeddingDim() ||
		arch.ProfileDim != gen.ProfileDim() || arch.Classes != gen.NumClasses() {
		return fmt.Errorf("%w: model %+v, data seq=%d emb=%d profile=%d classes=%d", ErrArchitectureMismatch,
			arch, gen.SequenceLength(), gen.EmbeddingDim(), gen.ProfileDim(), gen.NumClasses())
	}
	return nil
}
