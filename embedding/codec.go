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

	"github.com/mus-format/mus-go"
	"github.com/poiesic/medseq/storage"
)

const (
	// ArtifactKind tags sealed embedding models.
	ArtifactKind    = "w2v"
	artifactVersion = 1
)

type modelData struct {
	words   []string
	counts  []int
	vectors [][]float32
}

var modelMUS mus.Serializer[modelData] = modelSer{}

type modelSer struct{}

func (modelSer) Marshal(v modelData, bs []byte) (n int) {
	n = storage.StringsMUS.Marshal(v.words, bs)
	n += storage.IntsMUS.Marshal(v.counts, bs[n:])
	n += storage.VectorsMUS.Marshal(v.vectors, bs[n:])
	return
}

func (modelSer) Unmarshal(bs []byte) (v modelData, n int, err error) {
	v.words, n, err = storage.StringsMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.counts, n1, err = storage.IntsMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.vectors, n1, err = storage.VectorsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (modelSer) Size(v modelData) int {
	return storage.StringsMUS.Size(v.words) + storage.IntsMUS.Size(v.counts) +
		storage.VectorsMUS.Size(v.vectors)
}

func (s modelSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}

// MarshalModel seals m as a versioned artifact.
func MarshalModel(m *Model) []byte {
	return storage.SealValue(ArtifactKind, artifactVersion, modelMUS,
		modelData{words: m.words, counts: m.counts, vectors: m.vectors})
}

// UnmarshalModel opens an artifact written by MarshalModel.
func UnmarshalModel(data []byte) (*Model, error) {
	d, err := storage.OpenValue(ArtifactKind, artifactVersion, modelMUS, data)
	if err != nil {
		return nil, err
	}
	if len(d.words) != len(d.counts) || len(d.words) != len(d.vectors) {
		return nil, fmt.Errorf("%w: %s: %d words, %d counts, %d vectors",
			storage.ErrCorruptArtifact, ArtifactKind, len(d.words), len(d.counts), len(d.vectors))
	}
	for _, v := range d.vectors {
		if len(v) != len(d.vectors[0]) {
			return nil, fmt.Errorf("%w: %s: ragged vectors", storage.ErrCorruptArtifact, ArtifactKind)
		}
	}
	return newModel(d.words, d.counts, d.vectors), nil
}
