package storage

import (
	"testing"

	"github.com/poiesic/medseq/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalEncounter(t *testing.T) {
	tests := []struct {
		name string
		enc  *core.Encounter
	}{
		{
			name: "single order",
			enc:  &core.Encounter{Id: "1", Orders: []core.Order{{Drug: "12345"}}},
		},
		{
			name: "orders with context",
			enc: &core.Encounter{
				Id: "20190813",
				Orders: []core.Order{
					{Drug: "a", Department: "icu"},
					{Drug: "b", Department: "icu", ActiveMeds: []string{"a"}},
					{Drug: "c", Department: "surgery", ActiveMeds: []string{"a", "b"}},
				},
			},
		},
		{
			name: "unicode tokens",
			enc:  &core.Encounter{Id: "é", Orders: []core.Order{{Drug: "héparine", Department: "soins intensifs"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalEncounter(tt.enc)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalEncounter(data)
			require.NoError(t, err)
			require.NotNil(t, decoded)

			assert.Equal(t, tt.enc.Id, decoded.Id)
			require.Len(t, decoded.Orders, len(tt.enc.Orders))
			for i, o := range tt.enc.Orders {
				assert.Equal(t, o.Drug, decoded.Orders[i].Drug)
				assert.Equal(t, o.Department, decoded.Orders[i].Department)
				if len(o.ActiveMeds) == 0 {
					assert.Empty(t, decoded.Orders[i].ActiveMeds)
				} else {
					assert.Equal(t, o.ActiveMeds, decoded.Orders[i].ActiveMeds)
				}
			}
		})
	}
}

func TestUnmarshalEncounter_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"invalid data", []byte{0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalEncounter(tt.data)
			assert.ErrorIs(t, err, ErrSerializationFailed)
		})
	}
}

func TestUnmarshal_TrailingData(t *testing.T) {
	hp := core.Hyperparameters{Epochs: 5, BatchSize: 256, SequenceLength: 30, EmbeddingDim: 64}
	data := append(Marshal(core.HyperparametersMUS, hp), 0x01)

	_, err := Unmarshal[core.Hyperparameters](core.HyperparametersMUS, data)
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestHyperparametersMUS(t *testing.T) {
	hp := core.Hyperparameters{Epochs: 5, BatchSize: 256, SequenceLength: 30, EmbeddingDim: 64}

	decoded, err := Unmarshal[core.Hyperparameters](core.HyperparametersMUS, Marshal(core.HyperparametersMUS, hp))
	require.NoError(t, err)
	assert.Equal(t, hp, decoded)
}
