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


package dataset

import (
	"slices"

	"github.com/poiesic/medseq/core"
)

// Lists holds examples column-wise. All slices have the same length.
type Lists struct {
	Encounters  []core.EncounterID
	Targets     []string
	Sequences   [][]string
	ActiveMeds  [][]string
	Departments []string
}

// Len returns the number of examples.
func (l *Lists) Len() int {
	return len(l.Targets)
}

// Append adds one example.
func (l *Lists) Append(ex core.Example) {
	l.Encounters = append(l.Encounters, ex.Encounter)
	l.Targets = append(l.Targets, ex.Target)
	l.Sequences = append(l.Sequences, ex.Sequence)
	l.ActiveMeds = append(l.ActiveMeds, ex.ActiveMeds)
	l.Departments = append(l.Departments, ex.Department)
}

// Example returns the i-th example.
func (l *Lists) Example(i int) core.Example {
	return core.Example{
		Encounter:  l.Encounters[i],
		Target:     l.Targets[i],
		Sequence:   l.Sequences[i],
		ActiveMeds: l.ActiveMeds[i],
		Department: l.Departments[i],
	}
}

// EncounterSet returns the distinct encounter ids in first-seen order.
func (l *Lists) EncounterSet() []core.EncounterID {
	seen := make(map[core.EncounterID]struct{})
	var ids []core.EncounterID
	for _, id := range l.Encounters {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

// Sentences rebuilds the full drug sequence of every encounter, in the
// order encounters appear. The last example of an encounter carries all its
// earlier drugs plus its own target.
func (l *Lists) Sentences() [][]string {
	var sentences [][]string
	for i := range l.Targets {
		if i+1 < len(l.Targets) && l.Encounters[i+1] == l.Encounters[i] {
			continue
		}
		sentence := append(slices.Clone(l.Sequences[i]), l.Targets[i])
		sentences = append(sentences, sentence)
	}
	return sentences
}
