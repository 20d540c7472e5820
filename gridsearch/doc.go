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


// Package gridsearch evaluates every combination of a hyperparameter grid
// with K-fold cross-validation and ranks the candidates by mean score.
//
// Evaluations run concurrently on an ants worker pool. A candidate whose
// evaluation fails on any fold keeps the configured error score for that
// fold and is never selected as best.
package gridsearch
