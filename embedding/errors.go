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

import "errors"

var (
	// ErrEmptyVocabulary is returned when no token reaches the minimum count.
	ErrEmptyVocabulary = errors.New("no token reaches the minimum count")

	// ErrUnknownParam is returned when a grid parameter has no Config field.
	ErrUnknownParam = errors.New("unknown word2vec parameter")

	// ErrInvalidConfig is returned by Config.Validate.
	ErrInvalidConfig = errors.New("invalid word2vec config")

	// ErrMalformedAnalogy is returned for analogy lines that are not four tokens.
	ErrMalformedAnalogy = errors.New("malformed analogy line")

	// ErrNoAnalogies is returned when no analogy question could be attempted.
	ErrNoAnalogies = errors.New("no analogy question had all tokens in vocabulary")
)
