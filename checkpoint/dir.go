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


package checkpoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/poiesic/medseq/core"
	"github.com/poiesic/medseq/embedding"
	"github.com/poiesic/medseq/features"
	"github.com/poiesic/medseq/network"
	"github.com/poiesic/medseq/storage"
)

// Artifact file names.
const (
	HyperparametersFile = "hp.mus"
	RestrictionFile     = "sampled_encs.mus"
	EmbeddingFile       = "w2v.mus"
	ProfileEncoderFile  = "pse.mus"
	LabelEncoderFile    = "le.mus"
	DoneEpochsFile      = "done_epochs.mus"
	PartialModelFile    = "partially_trained_model.mus"
	FinalModelFile      = "model.mus"
)

const (
	hyperparametersKind = "hp"
	restrictionKind     = "sampled_encs"
	doneEpochsKind      = "done_epochs"
)

// Dir is a checkpoint directory.
type Dir struct {
	path string
}

// Open opens an existing checkpoint directory.
func Open(path string) (*Dir, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: directory %s", ErrArtifactMissing, path)
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return &Dir{path: path}, nil
}

// Create creates the checkpoint directory if needed and opens it.
func Create(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create checkpoint directory: %w", err)
	}
	return Open(path)
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// Has reports whether the named artifact exists.
func (d *Dir) Has(name string) bool {
	_, err := os.Stat(filepath.Join(d.path, name))
	return err == nil
}

func (d *Dir) read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(d.path, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactMissing, name)
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// write replaces name atomically.
func (d *Dir) write(name string, data []byte) error {
	tmp, err := os.CreateTemp(d.path, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.path, name)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}

func wrapDecode(name string, err error) error {
	return fmt.Errorf("failed to decode %s: %w", name, err)
}

// SaveHyperparameters writes the run's hyperparameters.
func (d *Dir) SaveHyperparameters(hp core.Hyperparameters) error {
	if err := core.ValidateHyperparameters(hp); err != nil {
		return err
	}
	return d.write(HyperparametersFile, storage.SealValue(hyperparametersKind, 1, core.HyperparametersMUS, hp))
}

// LoadHyperparameters reads the run's hyperparameters.
func (d *Dir) LoadHyperparameters() (core.Hyperparameters, error) {
	data, err := d.read(HyperparametersFile)
	if err != nil {
		return core.Hyperparameters{}, err
	}
	hp, err := storage.OpenValue[core.Hyperparameters](hyperparametersKind, 1, core.HyperparametersMUS, data)
	if err != nil {
		return core.Hyperparameters{}, wrapDecode(HyperparametersFile, err)
	}
	if err := core.ValidateHyperparameters(hp); err != nil {
		return core.Hyperparameters{}, fmt.Errorf("%w: %w", storage.ErrCorruptArtifact, err)
	}
	return hp, nil
}

// HasRestriction reports whether the run was restricted to sampled encounters.
func (d *Dir) HasRestriction() bool {
	return d.Has(RestrictionFile)
}

// SaveRestriction records the encounters a restricted run trains on.
func (d *Dir) SaveRestriction(ids []core.EncounterID) error {
	tokens := make([]string, len(ids))
	for i, id := range ids {
		tokens[i] = string(id)
	}
	return d.write(RestrictionFile, storage.SealValue(restrictionKind, 1, storage.StringsMUS, tokens))
}

// ClearRestriction removes a restriction left by an earlier attempt.
func (d *Dir) ClearRestriction() error {
	err := os.Remove(filepath.Join(d.path, RestrictionFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", RestrictionFile, err)
	}
	return nil
}

// LoadRestriction reads the restricted encounter list.
func (d *Dir) LoadRestriction() ([]core.EncounterID, error) {
	data, err := d.read(RestrictionFile)
	if err != nil {
		return nil, err
	}
	tokens, err := storage.OpenValue(restrictionKind, 1, storage.StringsMUS, data)
	if err != nil {
		return nil, wrapDecode(RestrictionFile, err)
	}
	ids := make([]core.EncounterID, len(tokens))
	for i, tok := range tokens {
		ids[i] = core.EncounterID(tok)
	}
	return ids, nil
}

// SaveEmbedding writes the fitted word2vec model.
func (d *Dir) SaveEmbedding(m *embedding.Model) error {
	return d.write(EmbeddingFile, embedding.MarshalModel(m))
}

// LoadEmbedding reads the fitted word2vec model.
func (d *Dir) LoadEmbedding() (*embedding.Model, error) {
	data, err := d.read(EmbeddingFile)
	if err != nil {
		return nil, err
	}
	m, err := embedding.UnmarshalModel(data)
	if err != nil {
		return nil, wrapDecode(EmbeddingFile, err)
	}
	return m, nil
}

// SaveProfileEncoder writes the fitted profile state encoder.
func (d *Dir) SaveProfileEncoder(p *features.ProfileStateEncoder) error {
	data, err := features.MarshalProfileStateEncoder(p)
	if err != nil {
		return err
	}
	return d.write(ProfileEncoderFile, data)
}

// LoadProfileEncoder reads the fitted profile state encoder.
func (d *Dir) LoadProfileEncoder() (*features.ProfileStateEncoder, error) {
	data, err := d.read(ProfileEncoderFile)
	if err != nil {
		return nil, err
	}
	p, err := features.UnmarshalProfileStateEncoder(data)
	if err != nil {
		return nil, wrapDecode(ProfileEncoderFile, err)
	}
	return p, nil
}

// SaveLabelEncoder writes the fitted label encoder.
func (d *Dir) SaveLabelEncoder(l *features.LabelEncoder) error {
	data, err := features.MarshalLabelEncoder(l)
	if err != nil {
		return err
	}
	return d.write(LabelEncoderFile, data)
}

// LoadLabelEncoder reads the fitted label encoder.
func (d *Dir) LoadLabelEncoder() (*features.LabelEncoder, error) {
	data, err := d.read(LabelEncoderFile)
	if err != nil {
		return nil, err
	}
	l, err := features.UnmarshalLabelEncoder(data)
	if err != nil {
		return nil, wrapDecode(LabelEncoderFile, err)
	}
	return l, nil
}

// SaveDoneEpochs writes the completed epoch counter.
func (d *Dir) SaveDoneEpochs(done int) error {
	if done < 0 {
		return fmt.Errorf("%w: %d", core.ErrInvalidEpochCount, done)
	}
	return d.write(DoneEpochsFile, storage.SealValue(doneEpochsKind, 1, storage.CounterMUS, done))
}

// LoadDoneEpochs reads the completed epoch counter. Range checks against
// the epoch target are left to the caller.
func (d *Dir) LoadDoneEpochs() (int, error) {
	data, err := d.read(DoneEpochsFile)
	if err != nil {
		return 0, err
	}
	done, err := storage.OpenValue(doneEpochsKind, 1, storage.CounterMUS, data)
	if err != nil {
		return 0, wrapDecode(DoneEpochsFile, err)
	}
	return done, nil
}

// SavePartialModel writes the in-progress model weights.
func (d *Dir) SavePartialModel(m *network.Model) error {
	return d.write(PartialModelFile, network.MarshalModel(m))
}

// LoadPartialModel reads the in-progress model weights.
func (d *Dir) LoadPartialModel() (*network.Model, error) {
	return d.loadModel(PartialModelFile)
}

// SaveFinalModel writes the final model weights.
func (d *Dir) SaveFinalModel(m *network.Model) error {
	return d.write(FinalModelFile, network.MarshalModel(m))
}

// LoadFinalModel reads the final model weights.
func (d *Dir) LoadFinalModel() (*network.Model, error) {
	return d.loadModel(FinalModelFile)
}

func (d *Dir) loadModel(name string) (*network.Model, error) {
	data, err := d.read(name)
	if err != nil {
		return nil, err
	}
	m, err := network.UnmarshalModel(data)
	if err != nil {
		return nil, wrapDecode(name, err)
	}
	return m, nil
}
