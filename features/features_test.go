package features

import (
	"testing"

	"github.com/poiesic/medseq/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileStateEncoder(t *testing.T) {
	p := NewProfileStateEncoder()

	_, err := p.Transform(nil, "icu")
	assert.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, p.Fit([][]string{{"b", "a"}, {"c"}}, []string{"icu", "er", "icu"}))
	assert.Equal(t, 5, p.Dim())

	got, err := p.Transform([]string{"a", "c", "c", "zzz"}, "icu")
	require.NoError(t, err)
	// columns: a b c | er icu
	assert.Equal(t, []float32{1, 0, 2, 0, 1}, got)

	got, err = p.Transform(nil, "unknown")
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 0, 0}, got)
}

func TestProfileStateEncoder_FitEmpty(t *testing.T) {
	assert.ErrorIs(t, NewProfileStateEncoder().Fit(nil, nil), ErrEmptyInput)
}

func TestProfileStateEncoderArtifact(t *testing.T) {
	p := NewProfileStateEncoder()
	_, err := MarshalProfileStateEncoder(p)
	assert.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, p.Fit([][]string{{"x", "y"}}, []string{"d"}))
	data, err := MarshalProfileStateEncoder(p)
	require.NoError(t, err)

	loaded, err := UnmarshalProfileStateEncoder(data)
	require.NoError(t, err)
	want, _ := p.Transform([]string{"y"}, "d")
	got, err := loaded.Transform([]string{"y"}, "d")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = UnmarshalLabelEncoder(data)
	assert.ErrorIs(t, err, storage.ErrIncompatibleArtifact)
}

func TestLabelEncoder(t *testing.T) {
	l := NewLabelEncoder()
	_, err := l.Transform("a")
	assert.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, l.Fit([]string{"c", "a", "b", "a"}))
	assert.Equal(t, []string{"a", "b", "c"}, l.Classes())
	assert.Equal(t, 3, l.NumClasses())

	i, err := l.Transform("c")
	require.NoError(t, err)
	assert.Equal(t, 2, i)

	_, err = l.Transform("d")
	assert.ErrorIs(t, err, ErrUnknownLabel)

	label, err := l.Inverse(1)
	require.NoError(t, err)
	assert.Equal(t, "b", label)

	_, err = l.Inverse(3)
	assert.ErrorIs(t, err, ErrUnknownLabel)
}

func TestLabelEncoderArtifact(t *testing.T) {
	l := NewLabelEncoder()
	require.NoError(t, l.Fit([]string{"x", "y"}))

	data, err := MarshalLabelEncoder(l)
	require.NoError(t, err)
	loaded, err := UnmarshalLabelEncoder(data)
	require.NoError(t, err)
	assert.Equal(t, l.Classes(), loaded.Classes())

	data[len(data)-1] ^= 0x01
	_, err = UnmarshalLabelEncoder(data)
	assert.ErrorIs(t, err, storage.ErrCorruptArtifact)
}
