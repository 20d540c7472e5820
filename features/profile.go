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


// Package features encodes the non-sequence inputs of the next-drug model:
// the medication profile state at order time and the prediction target.
package features

import (
	"fmt"
	"slices"

	"github.com/poiesic/medseq/core"
	"github.com/poiesic/medseq/storage"
)

// ProfileArtifactKind tags sealed profile state encoders.
const ProfileArtifactKind = "pse"

// ProfileStateEncoder turns the active medication list and the ordering
// department into a fixed-width count vector. Active medications occupy the
// first columns, departments the rest. Tokens unseen during Fit are ignored.
type ProfileStateEncoder struct {
	meds        []string
	departments []string
	medIndex    map[string]int
	deptIndex   map[string]int
}

// NewProfileStateEncoder returns an unfitted encoder.
func NewProfileStateEncoder() *ProfileStateEncoder {
	return &ProfileStateEncoder{}
}

// Fit learns the medication and department vocabularies.
func (p *ProfileStateEncoder) Fit(activeMeds [][]string, departments []string) error {
	if len(activeMeds) == 0 && len(departments) == 0 {
		return ErrEmptyInput
	}
	var meds []string
	for _, list := range activeMeds {
		meds = append(meds, list...)
	}
	p.setVocab(uniqueSorted(meds), uniqueSorted(departments))
	return nil
}

func (p *ProfileStateEncoder) setVocab(meds, departments []string) {
	p.meds = meds
	p.departments = departments
	p.medIndex = indexOf(meds)
	p.deptIndex = indexOf(departments)
}

// Dim returns the width of encoded vectors.
func (p *ProfileStateEncoder) Dim() int {
	return len(p.meds) + len(p.departments)
}

// Fitted reports whether Fit has been called.
func (p *ProfileStateEncoder) Fitted() bool {
	return p.medIndex != nil
}

// Transform encodes one profile state.
func (p *ProfileStateEncoder) Transform(activeMeds []string, department string) ([]float32, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	out := make([]float32, p.Dim())
	for _, m := range activeMeds {
		if i, ok := p.medIndex[m]; ok {
			out[i]++
		}
	}
	if i, ok := p.deptIndex[department]; ok {
		out[len(p.meds)+i]++
	}
	return out, nil
}

// MarshalProfileStateEncoder seals a fitted encoder as a versioned artifact.
func MarshalProfileStateEncoder(p *ProfileStateEncoder) ([]byte, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	return storage.SealValue(ProfileArtifactKind, 1, core.ProfileVocabularyMUS,
		core.ProfileVocabulary{Meds: p.meds, Departments: p.departments}), nil
}

// UnmarshalProfileStateEncoder opens an artifact written by
// MarshalProfileStateEncoder.
func UnmarshalProfileStateEncoder(data []byte) (*ProfileStateEncoder, error) {
	d, err := storage.OpenValue[core.ProfileVocabulary](ProfileArtifactKind, 1, core.ProfileVocabularyMUS, data)
	if err != nil {
		return nil, err
	}
	if !slices.IsSorted(d.Meds) || !slices.IsSorted(d.Departments) {
		return nil, fmt.Errorf("%w: %s: vocabulary not sorted", storage.ErrCorruptArtifact, ProfileArtifactKind)
	}
	p := NewProfileStateEncoder()
	p.setVocab(d.Meds, d.Departments)
	return p, nil
}

func uniqueSorted(values []string) []string {
	out := slices.Clone(values)
	slices.Sort(out)
	out = slices.Compact(out)
	if out == nil {
		out = []string{}
	}
	return out
}

func indexOf(values []string) map[string]int {
	idx := make(map[string]int, len(values))
	for i, v := range values {
		idx[v] = i
	}
	return idx
}
