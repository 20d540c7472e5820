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


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/medseq/core"
)

// Shared slice serializers used by the domain codecs.
var (
	StringsMUS  = ord.NewSliceSer[string](ord.String)
	Float32sMUS = ord.NewSliceSer[float32](raw.Float32)
	Float64sMUS = ord.NewSliceSer[float64](raw.Float64)
	MatrixMUS   = ord.NewSliceSer[[]float64](Float64sMUS)
	VectorsMUS  = ord.NewSliceSer[[]float32](Float32sMUS)
	IntsMUS     = ord.NewSliceSer[int](varint.Int)
)

// CounterMUS serializes a non-negative counter.
var CounterMUS mus.Serializer[int] = varint.PositiveInt

// Marshal encodes v with ser into a freshly allocated buffer.
func Marshal[T any](ser mus.Serializer[T], v T) []byte {
	buf := make([]byte, ser.Size(v))
	ser.Marshal(v, buf)
	return buf
}

// Unmarshal decodes a value from data and requires that all of data is consumed.
func Unmarshal[T any](ser mus.Serializer[T], data []byte) (T, error) {
	v, n, err := ser.Unmarshal(data)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	if n != len(data) {
		var zero T
		return zero, fmt.Errorf("%w: %w: %d of %d bytes used", ErrSerializationFailed, ErrTrailingData, n, len(data))
	}
	return v, nil
}

// MarshalEncounter serializes an Encounter to bytes.
func MarshalEncounter(enc *core.Encounter) []byte {
	return Marshal(core.EncounterMUS, *enc)
}

// UnmarshalEncounter deserializes an Encounter from bytes.
func UnmarshalEncounter(data []byte) (*core.Encounter, error) {
	enc, err := Unmarshal[core.Encounter](core.EncounterMUS, data)
	if err != nil {
		return nil, err
	}
	return &enc, nil
}
