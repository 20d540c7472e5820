package checkpoint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/medseq/core"
	"github.com/poiesic/medseq/features"
	"github.com/poiesic/medseq/network"
	"github.com/poiesic/medseq/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDir(t *testing.T) *Dir {
	t.Helper()
	dir, err := Create(filepath.Join(t.TempDir(), "run"))
	require.NoError(t, err)
	return dir
}

func newModel(t *testing.T) *network.Model {
	t.Helper()
	m, err := network.New(network.Architecture{SequenceLength: 1, InputDim: 2, ProfileDim: 1, Hidden: 2, Classes: 2})
	require.NoError(t, err)
	return m
}

func TestOpen(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, ErrArtifactMissing)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = Open(file)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestHyperparameters(t *testing.T) {
	dir := newDir(t)
	hp := core.Hyperparameters{Epochs: 5, BatchSize: 32, SequenceLength: 10, EmbeddingDim: 64}

	_, err := dir.LoadHyperparameters()
	assert.ErrorIs(t, err, ErrArtifactMissing)

	require.NoError(t, dir.SaveHyperparameters(hp))
	got, err := dir.LoadHyperparameters()
	require.NoError(t, err)
	assert.Equal(t, hp, got)

	assert.ErrorIs(t, dir.SaveHyperparameters(core.Hyperparameters{}), core.ErrInvalidHyperparameters)
}

func TestRestriction(t *testing.T) {
	dir := newDir(t)
	assert.False(t, dir.HasRestriction())

	ids := []core.EncounterID{"a", "b"}
	require.NoError(t, dir.SaveRestriction(ids))
	assert.True(t, dir.HasRestriction())

	got, err := dir.LoadRestriction()
	require.NoError(t, err)
	assert.Equal(t, ids, got)

	require.NoError(t, dir.ClearRestriction())
	assert.False(t, dir.HasRestriction())
	require.NoError(t, dir.ClearRestriction())
}

func TestDoneEpochs(t *testing.T) {
	dir := newDir(t)

	_, err := dir.LoadDoneEpochs()
	assert.ErrorIs(t, err, ErrArtifactMissing)

	require.NoError(t, dir.SaveDoneEpochs(3))
	done, err := dir.LoadDoneEpochs()
	require.NoError(t, err)
	assert.Equal(t, 3, done)

	assert.ErrorIs(t, dir.SaveDoneEpochs(-1), core.ErrInvalidEpochCount)
}

func TestCorruptCounter(t *testing.T) {
	dir := newDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir.Path(), DoneEpochsFile), []byte("3\n"), 0644))

	_, err := dir.LoadDoneEpochs()
	assert.ErrorIs(t, err, storage.ErrCorruptArtifact)
}

func TestWrongKindInSlot(t *testing.T) {
	dir := newDir(t)
	require.NoError(t, dir.SaveDoneEpochs(1))
	data, err := os.ReadFile(filepath.Join(dir.Path(), DoneEpochsFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir.Path(), LabelEncoderFile), data, 0644))

	_, err = dir.LoadLabelEncoder()
	assert.ErrorIs(t, err, storage.ErrIncompatibleArtifact)
}

func TestEncoders(t *testing.T) {
	dir := newDir(t)

	pse := features.NewProfileStateEncoder()
	require.NoError(t, pse.Fit([][]string{{"a"}}, []string{"icu"}))
	require.NoError(t, dir.SaveProfileEncoder(pse))
	loadedPSE, err := dir.LoadProfileEncoder()
	require.NoError(t, err)
	assert.Equal(t, pse.Dim(), loadedPSE.Dim())

	le := features.NewLabelEncoder()
	require.NoError(t, le.Fit([]string{"x", "y"}))
	require.NoError(t, dir.SaveLabelEncoder(le))
	loadedLE, err := dir.LoadLabelEncoder()
	require.NoError(t, err)
	assert.Equal(t, le.Classes(), loadedLE.Classes())

	assert.ErrorIs(t, dir.SaveLabelEncoder(features.NewLabelEncoder()), features.ErrNotFitted)
}

func TestModels(t *testing.T) {
	dir := newDir(t)
	m := newModel(t)

	_, err := dir.LoadPartialModel()
	assert.ErrorIs(t, err, ErrArtifactMissing)

	require.NoError(t, dir.SavePartialModel(m))
	require.NoError(t, dir.SaveFinalModel(m))
	partial, err := dir.LoadPartialModel()
	require.NoError(t, err)
	final, err := dir.LoadFinalModel()
	require.NoError(t, err)
	assert.Equal(t, network.MarshalModel(partial), network.MarshalModel(final))
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := newDir(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, dir.SaveDoneEpochs(i))
	}
	entries, err := os.ReadDir(dir.Path())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, DoneEpochsFile, entries[0].Name())
}

func TestEpochSaver(t *testing.T) {
	ctx := context.Background()
	dir := newDir(t)
	m := newModel(t)

	saver := NewEpochSaver(dir, false)
	require.NoError(t, saver.OnEpochEnd(ctx, 0, m, network.Metrics{}))
	done, err := dir.LoadDoneEpochs()
	require.NoError(t, err)
	assert.Equal(t, 1, done)
	assert.True(t, dir.Has(PartialModelFile))

	resumed := NewEpochSaver(dir, true)
	require.NoError(t, resumed.OnEpochEnd(ctx, 1, m, network.Metrics{}))
	done, err = dir.LoadDoneEpochs()
	require.NoError(t, err)
	assert.Equal(t, 2, done)

	err = resumed.OnEpochEnd(ctx, 5, m, network.Metrics{})
	assert.ErrorIs(t, err, ErrCounterRegression)
}

func TestCallbacks(t *testing.T) {
	cbs := Callbacks(newDir(t), false, 3, nil)
	require.Len(t, cbs, 2)
	assert.IsType(t, &EpochSaver{}, cbs[0])
	assert.IsType(t, &EpochLogger{}, cbs[1])
	assert.NoError(t, cbs[1].OnEpochEnd(context.Background(), 0, nil, network.Metrics{}))
}
