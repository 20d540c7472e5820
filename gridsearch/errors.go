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


package gridsearch

import "errors"

var (
	// ErrEmptyGrid is returned when a grid has no keys or a key has no values.
	ErrEmptyGrid = errors.New("grid is empty")

	// ErrEvaluatorRequired is returned when no evaluator is supplied.
	ErrEvaluatorRequired = errors.New("evaluator is required")

	// ErrTooFewSamples is returned when there are fewer samples than folds.
	ErrTooFewSamples = errors.New("fewer samples than folds")

	// ErrInvalidFolds is returned when fewer than two folds are requested.
	ErrInvalidFolds = errors.New("at least two folds are required")

	// ErrNoValidCandidate is returned when every candidate errored.
	ErrNoValidCandidate = errors.New("no candidate completed without error")

	// ErrEvaluationPanic wraps a recovered panic from an evaluator.
	ErrEvaluationPanic = errors.New("evaluation panicked")
)
