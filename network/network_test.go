package network

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/poiesic/medseq/generator"
	"github.com/poiesic/medseq/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource []*generator.Batch

func (s sliceSource) Len() int { return len(s) }

func (s sliceSource) Batch(_ context.Context, i int) (*generator.Batch, error) {
	return s[i], nil
}

var testArch = Architecture{SequenceLength: 2, InputDim: 2, ProfileDim: 1, Hidden: 4, Classes: 2}

// separable labels each example by which one-hot token it saw last.
func separable() sliceSource {
	mk := func(label int) ([][]float32, []float32) {
		x := []float32{0, 0}
		x[label] = 1
		return [][]float32{{0, 0}, x}, []float32{1}
	}
	var batches sliceSource
	for b := 0; b < 4; b++ {
		batch := &generator.Batch{}
		for j := 0; j < 4; j++ {
			label := (b + j) % 2
			seq, prof := mk(label)
			batch.Sequences = append(batch.Sequences, seq)
			batch.Profiles = append(batch.Profiles, prof)
			batch.Labels = append(batch.Labels, label)
		}
		batches = append(batches, batch)
	}
	return batches
}

func TestNew_InvalidArchitecture(t *testing.T) {
	_, err := New(Architecture{SequenceLength: 1, InputDim: 1, Hidden: 0, Classes: 2})
	assert.ErrorIs(t, err, ErrInvalidArchitecture)
}

func TestFit_Learns(t *testing.T) {
	m, err := New(testArch, WithAdam(Adam{LearningRate: 0.05, Beta1: 0.9, Beta2: 0.999, Epsilon: 1e-7}))
	require.NoError(t, err)

	history, err := m.Fit(context.Background(), separable(), FitOptions{Epochs: 30})
	require.NoError(t, err)
	require.Len(t, history.Metrics, 30)

	first, last := history.Metrics[0], history.Metrics[29]
	assert.Less(t, last.Loss, first.Loss)
	assert.Equal(t, 1.0, last.Accuracy)
	assert.Equal(t, 1.0, last.Top10, "two classes are always within the top 10")
	assert.Equal(t, 16, last.Examples)
	assert.Equal(t, 120, m.Steps())
}

func TestFit_EpochRange(t *testing.T) {
	tests := []struct {
		name    string
		initial int
		total   int
		want    []int
	}{
		{"fresh", 0, 3, []int{0, 1, 2}},
		{"resume midway", 3, 5, []int{3, 4}},
		{"complete", 5, 5, nil},
		{"past the end", 6, 5, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(testArch)
			require.NoError(t, err)
			before := MarshalModel(m)

			var seen []int
			cb := CallbackFunc(func(_ context.Context, epoch int, _ *Model, _ Metrics) error {
				seen = append(seen, epoch)
				return nil
			})
			history, err := m.Fit(context.Background(), separable(), FitOptions{
				InitialEpoch: tt.initial,
				Epochs:       tt.total,
				Callbacks:    []Callback{cb},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.want, seen)
			assert.Equal(t, tt.want, history.Epochs)
			if tt.want == nil {
				assert.Equal(t, before, MarshalModel(m), "no epochs must leave the model unchanged")
			}
		})
	}
}

func TestFit_NegativeInitialEpoch(t *testing.T) {
	m, err := New(testArch)
	require.NoError(t, err)
	_, err = m.Fit(context.Background(), separable(), FitOptions{InitialEpoch: -1, Epochs: 1})
	assert.ErrorIs(t, err, ErrInvalidEpochRange)
}

func TestFit_CallbackErrorStops(t *testing.T) {
	m, err := New(testArch)
	require.NoError(t, err)
	boom := errors.New("boom")

	history, err := m.Fit(context.Background(), separable(), FitOptions{
		Epochs: 3,
		Callbacks: []Callback{CallbackFunc(func(context.Context, int, *Model, Metrics) error {
			return boom
		})},
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{0}, history.Epochs)
}

func TestFit_Canceled(t *testing.T) {
	m, err := New(testArch)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = m.Fit(ctx, separable(), FitOptions{Epochs: 1})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, m.Steps())
}

func TestFit_ResumeMatchesUninterrupted(t *testing.T) {
	ctx := context.Background()
	straight, err := New(testArch, WithSeed(9))
	require.NoError(t, err)
	_, err = straight.Fit(ctx, separable(), FitOptions{Epochs: 4})
	require.NoError(t, err)

	interrupted, err := New(testArch, WithSeed(9))
	require.NoError(t, err)
	_, err = interrupted.Fit(ctx, separable(), FitOptions{Epochs: 2})
	require.NoError(t, err)

	resumed, err := UnmarshalModel(MarshalModel(interrupted))
	require.NoError(t, err)
	_, err = resumed.Fit(ctx, separable(), FitOptions{InitialEpoch: 2, Epochs: 4})
	require.NoError(t, err)

	assert.Equal(t, MarshalModel(straight), MarshalModel(resumed))
}

func TestBackward_MatchesFiniteDifferences(t *testing.T) {
	m, err := New(testArch, WithSeed(5))
	require.NoError(t, err)
	seq := [][]float32{{0.3, -0.2}, {0.5, 0.1}}
	profile := []float32{0.7}
	label := 1

	loss := func() float64 {
		_, probs := m.forward(seq, profile)
		return -math.Log(probs[label])
	}

	grads := zerosLike(m.params)
	hs, probs := m.forward(seq, profile)
	m.backward(seq, profile, label, hs, probs, grads)

	const eps = 1e-6
	for p := range m.params {
		for i := range m.params[p] {
			orig := m.params[p][i]
			m.params[p][i] = orig + eps
			up := loss()
			m.params[p][i] = orig - eps
			down := loss()
			m.params[p][i] = orig
			assert.InDelta(t, (up-down)/(2*eps), grads[p][i], 1e-5, "param %d index %d", p, i)
		}
	}
}

func TestTrainBatch_InputMismatch(t *testing.T) {
	m, err := New(testArch)
	require.NoError(t, err)

	_, err = m.TrainBatch(&generator.Batch{
		Sequences: [][][]float32{{{1, 0}}},
		Profiles:  [][]float32{{1}},
		Labels:    []int{0},
	})
	assert.ErrorIs(t, err, ErrInputMismatch)

	_, err = m.TrainBatch(&generator.Batch{
		Sequences: [][][]float32{{{1, 0}, {0, 1}}},
		Profiles:  [][]float32{{1}},
		Labels:    []int{7},
	})
	assert.ErrorIs(t, err, ErrInputMismatch)
}

func TestInTopK(t *testing.T) {
	probs := []float64{0.1, 0.5, 0.3, 0.1}
	assert.True(t, inTopK(probs, 1, 1))
	assert.False(t, inTopK(probs, 2, 1))
	assert.True(t, inTopK(probs, 2, 2))
	assert.True(t, inTopK(probs, 0, 10))
}

func TestEvaluate(t *testing.T) {
	m, err := New(testArch)
	require.NoError(t, err)
	before := MarshalModel(m)

	metrics, err := m.Evaluate(context.Background(), separable())
	require.NoError(t, err)
	assert.Equal(t, 16, metrics.Examples)
	assert.Positive(t, metrics.Loss)
	assert.Equal(t, before, MarshalModel(m))
}

func TestModelArtifact(t *testing.T) {
	m, err := New(testArch)
	require.NoError(t, err)
	_, err = m.Fit(context.Background(), separable(), FitOptions{Epochs: 1})
	require.NoError(t, err)

	data := MarshalModel(m)
	loaded, err := UnmarshalModel(data)
	require.NoError(t, err)
	assert.Equal(t, m.Architecture(), loaded.Architecture())
	assert.Equal(t, m.Steps(), loaded.Steps())

	probs, err := m.Predict(separable()[0].Sequences[0], []float32{1})
	require.NoError(t, err)
	loadedProbs, err := loaded.Predict(separable()[0].Sequences[0], []float32{1})
	require.NoError(t, err)
	assert.Equal(t, probs, loadedProbs)

	data[len(data)-3] ^= 0x10
	_, err = UnmarshalModel(data)
	assert.ErrorIs(t, err, storage.ErrCorruptArtifact)
}
