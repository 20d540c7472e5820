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


package network

import (
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/medseq/storage"
)

// ArtifactKind tags sealed network models.
const ArtifactKind = "model"

const artifactVersion = 1

var modelMUS mus.Serializer[*Model] = modelSer{}

type modelSer struct{}

func (modelSer) archInts(m *Model) []int {
	a := m.arch
	return []int{a.SequenceLength, a.InputDim, a.ProfileDim, a.Hidden, a.Classes}
}

func (modelSer) adamFloats(m *Model) []float64 {
	ad := m.adam
	return []float64{ad.LearningRate, ad.Beta1, ad.Beta2, ad.Epsilon}
}

func (s modelSer) Marshal(m *Model, bs []byte) (n int) {
	n = storage.IntsMUS.Marshal(s.archInts(m), bs)
	n += storage.Float64sMUS.Marshal(s.adamFloats(m), bs[n:])
	n += varint.PositiveInt.Marshal(m.step, bs[n:])
	n += storage.MatrixMUS.Marshal(m.params, bs[n:])
	n += storage.MatrixMUS.Marshal(m.m, bs[n:])
	n += storage.MatrixMUS.Marshal(m.v, bs[n:])
	return
}

func (modelSer) Unmarshal(bs []byte) (m *Model, n int, err error) {
	arch, n, err := storage.IntsMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	if len(arch) != 5 {
		return nil, n, fmt.Errorf("architecture has %d fields", len(arch))
	}
	var n1 int
	adam, n1, err := storage.Float64sMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	if len(adam) != 4 {
		return nil, n, fmt.Errorf("optimizer has %d fields", len(adam))
	}
	m = &Model{
		arch: Architecture{SequenceLength: arch[0], InputDim: arch[1], ProfileDim: arch[2], Hidden: arch[3], Classes: arch[4]},
		adam: Adam{LearningRate: adam[0], Beta1: adam[1], Beta2: adam[2], Epsilon: adam[3]},
	}
	m.step, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	for _, dst := range []*[][]float64{&m.params, &m.m, &m.v} {
		*dst, n1, err = storage.MatrixMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s modelSer) Size(m *Model) int {
	return storage.IntsMUS.Size(s.archInts(m)) + storage.Float64sMUS.Size(s.adamFloats(m)) +
		varint.PositiveInt.Size(m.step) + storage.MatrixMUS.Size(m.params) +
		storage.MatrixMUS.Size(m.m) + storage.MatrixMUS.Size(m.v)
}

func (s modelSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// MarshalModel seals m, including its optimizer state, as a versioned artifact.
func MarshalModel(m *Model) []byte {
	return storage.SealValue(ArtifactKind, artifactVersion, modelMUS, m)
}

// UnmarshalModel opens an artifact written by MarshalModel.
func UnmarshalModel(data []byte) (*Model, error) {
	m, err := storage.OpenValue(ArtifactKind, artifactVersion, modelMUS, data)
	if err != nil {
		return nil, err
	}
	if err := m.checkShapes(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", storage.ErrCorruptArtifact, ArtifactKind, err)
	}
	return m, nil
}

func (m *Model) checkShapes() error {
	if err := m.arch.Validate(); err != nil {
		return err
	}
	a := m.arch
	want := []int{
		a.Hidden * a.InputDim,
		a.Hidden * a.Hidden,
		a.Hidden,
		a.Classes * (a.Hidden + a.ProfileDim),
		a.Classes,
	}
	for _, set := range [][][]float64{m.params, m.m, m.v} {
		if len(set) != numParams {
			return fmt.Errorf("%d parameter tensors, want %d", len(set), numParams)
		}
		for i, p := range set {
			if len(p) != want[i] {
				return fmt.Errorf("parameter %d has %d values, want %d", i, len(p), want[i])
			}
		}
	}
	return nil
}
