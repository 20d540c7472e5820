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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEncounter indicates an Encounter failed validation.
	ErrInvalidEncounter = errors.New("invalid encounter")

	// ErrEmptyEncounterID indicates the encounter Id field is empty.
	ErrEmptyEncounterID = errors.New("encounter id cannot be empty")

	// ErrNoOrders indicates an encounter without any orders.
	ErrNoOrders = errors.New("encounter has no orders")

	// ErrEmptyDrug indicates an order without a drug token.
	ErrEmptyDrug = errors.New("order drug cannot be empty")

	// ErrInvalidHyperparameters indicates a Hyperparameters value failed validation.
	ErrInvalidHyperparameters = errors.New("invalid hyperparameters")

	// ErrInvalidEpochCount indicates a completed-epoch counter outside [0, total].
	ErrInvalidEpochCount = errors.New("completed epochs out of range")
)
