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


package network

import "errors"

var (
	// ErrInvalidArchitecture is returned for non-positive layer sizes.
	ErrInvalidArchitecture = errors.New("invalid network architecture")

	// ErrInputMismatch is returned when a batch does not match the architecture.
	ErrInputMismatch = errors.New("batch does not match network input")

	// ErrInvalidEpochRange is returned when Fit is given a negative initial epoch.
	ErrInvalidEpochRange = errors.New("invalid epoch range")
)
