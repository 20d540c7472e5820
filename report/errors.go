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


package report

import "errors"

var (
	// ErrNoData is returned when a figure has nothing to draw.
	ErrNoData = errors.New("no data to plot")

	// ErrLabelMismatch is returned when labels and values differ in length.
	ErrLabelMismatch = errors.New("labels and values differ in length")

	// ErrOutputDirRequired is returned by NewFileSink for an empty directory.
	ErrOutputDirRequired = errors.New("output directory is required")
)
