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


package checkpoint

import "errors"

var (
	// ErrArtifactMissing is returned when a required checkpoint file does not exist.
	ErrArtifactMissing = errors.New("checkpoint artifact missing")

	// ErrNotDirectory is returned when the checkpoint path is not a directory.
	ErrNotDirectory = errors.New("checkpoint path is not a directory")

	// ErrCounterRegression is returned when a resumed run would move the
	// completed epoch counter backwards or skip an epoch.
	ErrCounterRegression = errors.New("epoch counter out of sequence")
)
