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

import "errors"

var (
	// ErrRepositoryRequired is returned when no encounter repository is supplied.
	ErrRepositoryRequired = errors.New("encounter repository is required")

	// ErrMissingEncounters is returned when a restricted load names encounters
	// the repository no longer holds.
	ErrMissingEncounters = errors.New("restricted encounters missing from corpus")

	// ErrInvalidSampleSize is returned when a sample of fewer than one
	// encounter is requested.
	ErrInvalidSampleSize = errors.New("sample size must be positive")

	// ErrEmptyDataset is returned when loading produces no examples.
	ErrEmptyDataset = errors.New("dataset is empty")
)
