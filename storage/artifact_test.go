package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpenArtifact(t *testing.T) {
	payload := []byte("fitted label encoder")
	data := SealArtifact("le", 1, payload)

	got, hdr, err := OpenArtifact("le", 1, data)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, ArtifactHeader{Kind: "le", Version: 1}, hdr)
}

func TestOpenArtifact_EmptyPayload(t *testing.T) {
	data := SealArtifact("done_epochs", 1, []byte{})

	got, _, err := OpenArtifact("done_epochs", 1, data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenArtifact_Errors(t *testing.T) {
	good := SealArtifact("w2v", 2, []byte{1, 2, 3, 4})

	flipped := make([]byte, len(good))
	copy(flipped, good)
	flipped[len(flipped)-1] ^= 0xFF

	tests := []struct {
		name       string
		kind       string
		maxVersion int
		data       []byte
		wantErr    error
	}{
		{"empty", "w2v", 2, nil, ErrCorruptArtifact},
		{"bad magic", "w2v", 2, []byte("NOPE...."), ErrCorruptArtifact},
		{"wrong kind", "pse", 2, good, ErrIncompatibleArtifact},
		{"newer version", "w2v", 1, good, ErrIncompatibleArtifact},
		{"flipped payload byte", "w2v", 2, flipped, ErrCorruptArtifact},
		{"truncated", "w2v", 2, good[:len(good)-2], ErrCorruptArtifact},
		{"trailing bytes", "w2v", 2, append(append([]byte{}, good...), 0), ErrCorruptArtifact},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := OpenArtifact(tt.kind, tt.maxVersion, tt.data)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestReadArtifactHeader(t *testing.T) {
	hdr, err := ReadArtifactHeader(SealArtifact("model", 3, []byte("weights")))
	require.NoError(t, err)
	assert.Equal(t, "model", hdr.Kind)
	assert.Equal(t, 3, hdr.Version)
}
