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

import "fmt"

// ValidateEncounter validates an Encounter according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - At least one order must be present
//   - Every order must name a drug
//
// Department and ActiveMeds may be empty.
func ValidateEncounter(enc *Encounter) error {
	if enc == nil {
		return fmt.Errorf("%w: encounter is nil", ErrInvalidEncounter)
	}

	if enc.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEncounter, ErrEmptyEncounterID)
	}

	if len(enc.Orders) == 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidEncounter, enc.Id, ErrNoOrders)
	}

	for i, o := range enc.Orders {
		if o.Drug == "" {
			return fmt.Errorf("%w: %s order %d: %w", ErrInvalidEncounter, enc.Id, i, ErrEmptyDrug)
		}
	}

	return nil
}

// ValidateHyperparameters checks that every field is strictly positive.
func ValidateHyperparameters(hp Hyperparameters) error {
	switch {
	case hp.Epochs <= 0:
		return fmt.Errorf("%w: epochs must be > 0, got %d", ErrInvalidHyperparameters, hp.Epochs)
	case hp.BatchSize <= 0:
		return fmt.Errorf("%w: batch size must be > 0, got %d", ErrInvalidHyperparameters, hp.BatchSize)
	case hp.SequenceLength <= 0:
		return fmt.Errorf("%w: sequence length must be > 0, got %d", ErrInvalidHyperparameters, hp.SequenceLength)
	case hp.EmbeddingDim <= 0:
		return fmt.Errorf("%w: embedding dim must be > 0, got %d", ErrInvalidHyperparameters, hp.EmbeddingDim)
	}
	return nil
}

// ValidateEpochCount enforces 0 <= done <= hp.Epochs.
func ValidateEpochCount(hp Hyperparameters, done int) error {
	if done < 0 || done > hp.Epochs {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrInvalidEpochCount, done, hp.Epochs)
	}
	return nil
}
