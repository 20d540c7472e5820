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
	"bytes"
	"fmt"

	"github.com/go-crypt/x/blake2b"
	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

const (
	artifactMagic = "MSQA"
	checksumSize  = 32
)

// ArtifactHeader describes a sealed artifact.
type ArtifactHeader struct {
	Kind    string
	Version int
}

// checksum returns the blake2b-256 digest of payload.
func checksum(payload []byte) []byte {
	h, _ := blake2b.New(checksumSize, nil)
	h.Write(payload)
	return h.Sum(nil)
}

// SealArtifact wraps payload in a versioned, checksummed envelope.
func SealArtifact(kind string, version int, payload []byte) []byte {
	sum := checksum(payload)
	size := len(artifactMagic) + ord.String.Size(kind) + varint.PositiveInt.Size(version) +
		ord.ByteSlice.Size(sum) + ord.ByteSlice.Size(payload)
	buf := make([]byte, size)
	n := copy(buf, artifactMagic)
	n += ord.String.Marshal(kind, buf[n:])
	n += varint.PositiveInt.Marshal(version, buf[n:])
	n += ord.ByteSlice.Marshal(sum, buf[n:])
	ord.ByteSlice.Marshal(payload, buf[n:])
	return buf
}

// ReadArtifactHeader decodes only the envelope header of data.
func ReadArtifactHeader(data []byte) (ArtifactHeader, error) {
	hdr, _, err := readHeader(data)
	return hdr, err
}

func readHeader(data []byte) (hdr ArtifactHeader, n int, err error) {
	if len(data) < len(artifactMagic) || !bytes.Equal(data[:len(artifactMagic)], []byte(artifactMagic)) {
		return hdr, 0, fmt.Errorf("%w: bad magic", ErrCorruptArtifact)
	}
	n = len(artifactMagic)
	kind, n1, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return hdr, 0, fmt.Errorf("%w: kind: %w", ErrCorruptArtifact, err)
	}
	n += n1
	version, n1, err := varint.PositiveInt.Unmarshal(data[n:])
	if err != nil {
		return hdr, 0, fmt.Errorf("%w: version: %w", ErrCorruptArtifact, err)
	}
	n += n1
	return ArtifactHeader{Kind: kind, Version: version}, n, nil
}

// OpenArtifact verifies the envelope of data and returns its payload.
// The artifact must be of the given kind and its version must be in
// [1, maxVersion].
func OpenArtifact(kind string, maxVersion int, data []byte) ([]byte, ArtifactHeader, error) {
	hdr, n, err := readHeader(data)
	if err != nil {
		return nil, hdr, err
	}
	if hdr.Kind != kind {
		return nil, hdr, fmt.Errorf("%w: kind %q, want %q", ErrIncompatibleArtifact, hdr.Kind, kind)
	}
	if hdr.Version < 1 || hdr.Version > maxVersion {
		return nil, hdr, fmt.Errorf("%w: %s version %d not supported (max %d)", ErrIncompatibleArtifact, kind, hdr.Version, maxVersion)
	}

	sum, n1, err := ord.ByteSlice.Unmarshal(data[n:])
	if err != nil {
		return nil, hdr, fmt.Errorf("%w: checksum: %w", ErrCorruptArtifact, err)
	}
	n += n1
	payload, n1, err := ord.ByteSlice.Unmarshal(data[n:])
	if err != nil {
		return nil, hdr, fmt.Errorf("%w: payload: %w", ErrCorruptArtifact, err)
	}
	n += n1
	if n != len(data) {
		return nil, hdr, fmt.Errorf("%w: %d trailing bytes", ErrCorruptArtifact, len(data)-n)
	}
	if !bytes.Equal(sum, checksum(payload)) {
		return nil, hdr, fmt.Errorf("%w: %s checksum mismatch", ErrCorruptArtifact, kind)
	}
	return payload, hdr, nil
}

// SealValue serializes v with ser and seals it as an artifact.
func SealValue[T any](kind string, version int, ser mus.Serializer[T], v T) []byte {
	return SealArtifact(kind, version, Marshal(ser, v))
}

// OpenValue opens an artifact and deserializes its payload with ser.
func OpenValue[T any](kind string, maxVersion int, ser mus.Serializer[T], data []byte) (T, error) {
	payload, _, err := OpenArtifact(kind, maxVersion, data)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := Unmarshal(ser, payload)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", ErrCorruptArtifact, kind, err)
	}
	return v, nil
}
