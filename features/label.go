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

import (
	"fmt"
	"slices"

	"github.com/poiesic/medseq/storage"
)

// LabelArtifactKind tags sealed label encoders.
const LabelArtifactKind = "le"

// LabelEncoder maps target drugs to dense class indices in sorted order.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// NewLabelEncoder returns an unfitted encoder.
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{}
}

// Fit learns the classes present in labels.
func (l *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return ErrEmptyInput
	}
	l.setClasses(uniqueSorted(labels))
	return nil
}

func (l *LabelEncoder) setClasses(classes []string) {
	l.classes = classes
	l.index = indexOf(classes)
}

// Classes returns the known classes in index order.
func (l *LabelEncoder) Classes() []string {
	return l.classes
}

// NumClasses returns the number of known classes.
func (l *LabelEncoder) NumClasses() int {
	return len(l.classes)
}

// Transform returns the class index of label.
func (l *LabelEncoder) Transform(label string) (int, error) {
	if l.index == nil {
		return 0, ErrNotFitted
	}
	i, ok := l.index[label]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, label)
	}
	return i, nil
}

// Inverse returns the label of class index i.
func (l *LabelEncoder) Inverse(i int) (string, error) {
	if l.index == nil {
		return "", ErrNotFitted
	}
	if i < 0 || i >= len(l.classes) {
		return "", fmt.Errorf("%w: index %d", ErrUnknownLabel, i)
	}
	return l.classes[i], nil
}

// MarshalLabelEncoder seals a fitted encoder as a versioned artifact.
func MarshalLabelEncoder(l *LabelEncoder) ([]byte, error) {
	if l.index == nil {
		return nil, ErrNotFitted
	}
	return storage.SealValue(LabelArtifactKind, 1, storage.StringsMUS, l.classes), nil
}

// UnmarshalLabelEncoder opens an artifact written by MarshalLabelEncoder.
func UnmarshalLabelEncoder(data []byte) (*LabelEncoder, error) {
	classes, err := storage.OpenValue(LabelArtifactKind, 1, storage.StringsMUS, data)
	if err != nil {
		return nil, err
	}
	if len(classes) == 0 || !slices.IsSorted(classes) {
		return nil, fmt.Errorf("%w: %s: classes empty or unsorted", storage.ErrCorruptArtifact, LabelArtifactKind)
	}
	l := NewLabelEncoder()
	l.setClasses(classes)
	return l, nil
}
