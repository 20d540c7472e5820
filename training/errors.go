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


package training

import "errors"

var (
	// ErrCheckpointRequired is returned when no checkpoint directory is supplied.
	ErrCheckpointRequired = errors.New("checkpoint directory is required")

	// ErrLoaderRequired is returned when no dataset loader is supplied.
	ErrLoaderRequired = errors.New("dataset loader is required")

	// ErrCheckpointExists is returned when a new run would overwrite an
	// existing one.
	ErrCheckpointExists = errors.New("checkpoint directory already holds a run")

	// ErrArchitectureMismatch is returned when the stored model does not fit
	// the stored encoders and hyperparameters.
	ErrArchitectureMismatch = errors.New("model does not match checkpoint encoders")
)
