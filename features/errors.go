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


package features

import "errors"

var (
	// ErrNotFitted is returned when an encoder is used before Fit.
	ErrNotFitted = errors.New("encoder is not fitted")

	// ErrUnknownLabel is returned when a label was not seen during Fit.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrEmptyInput is returned when Fit receives no data.
	ErrEmptyInput = errors.New("no data to fit")
)
