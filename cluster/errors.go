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


package cluster

import "errors"

var (
	// ErrInvalidClusterCount is returned when the requested cluster count is
	// not in [1, number of points].
	ErrInvalidClusterCount = errors.New("invalid cluster count")

	// ErrInvalidLabelCount is returned when a silhouette is requested for
	// fewer than two or more than n-1 distinct labels.
	ErrInvalidLabelCount = errors.New("silhouette needs 2 <= labels <= samples-1")

	// ErrRaggedInput is returned when points have differing dimensions.
	ErrRaggedInput = errors.New("points have differing dimensions")

	// ErrInsufficientData is returned when there are too few points or
	// dimensions for the requested projection.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrDecompositionFailed is returned when the SVD does not converge.
	ErrDecompositionFailed = errors.New("singular value decomposition failed")
)
