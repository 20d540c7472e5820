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


package explore

import "errors"

var (
	// ErrAnalogiesRequired is returned when no analogy questions are supplied.
	ErrAnalogiesRequired = errors.New("analogy questions are required")

	// ErrSinkRequired is returned when no figure sink is supplied.
	ErrSinkRequired = errors.New("report sink is required")

	// ErrEmptyCorpus is returned when the corpus has no sentences.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid explore configuration")

	// ErrUnknownParam is returned for a clustering grid key other than
	// n_clusters.
	ErrUnknownParam = errors.New("unknown clustering parameter")
)
