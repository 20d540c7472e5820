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


package core

//go:generate go run ../cmd/musgen

import "slices"

// EncounterID identifies a single hospital stay.
type EncounterID string

// Order is one medication order within an encounter.
type Order struct {
	Drug       string   `json:"drug"`                  // Drug token, e.g. a formulary code
	Department string   `json:"department"`            // Department the patient was in when the order was placed
	ActiveMeds []string `json:"active_meds,omitempty"` // Drugs active on the profile at the time of the order
}

// Encounter is the ordered medication profile of one hospital stay.
type Encounter struct {
	Id     EncounterID `json:"id"`
	Orders []Order     `json:"orders"`
}

// Drugs returns the drug tokens of the encounter in order.
func (e *Encounter) Drugs() []string {
	drugs := make([]string, len(e.Orders))
	for i, o := range e.Orders {
		drugs[i] = o.Drug
	}
	return drugs
}

// Hyperparameters identify a training run. They are written once when the run
// starts and read back verbatim on every resume.
type Hyperparameters struct {
	Epochs         int // Total epoch target
	BatchSize      int
	SequenceLength int // Number of previous orders fed to the network
	EmbeddingDim   int // Word2vec vector size
}

// Remaining returns the number of epochs left given the completed count.
func (hp Hyperparameters) Remaining(done int) int {
	if done >= hp.Epochs {
		return 0
	}
	return hp.Epochs - done
}

// Example is one supervised training example: predict Target from the
// orders that preceded it.
type Example struct {
	Encounter  EncounterID
	Target     string
	Sequence   []string
	ActiveMeds []string
	Department string
}

// Examples builds one example per order of the encounter.
func (e *Encounter) Examples() []Example {
	examples := make([]Example, len(e.Orders))
	drugs := e.Drugs()
	for i, o := range e.Orders {
		examples[i] = Example{
			Encounter:  e.Id,
			Target:     o.Drug,
			Sequence:   slices.Clone(drugs[:i]),
			ActiveMeds: o.ActiveMeds,
			Department: o.Department,
		}
	}
	return examples
}

// ProfileVocabulary is the fitted state of a profile encoder: the sorted
// active medication and department vocabularies.
type ProfileVocabulary struct {
	Meds        []string
	Departments []string
}
