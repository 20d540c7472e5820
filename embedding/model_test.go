package embedding

import (
	"context"
	"strings"
	"testing"

	"github.com/poiesic/medseq/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureModel() *Model {
	return newModel(
		[]string{"man", "woman", "king", "queen", "apple"},
		[]int{5, 4, 3, 2, 1},
		[][]float32{
			{1, 0, 0},
			{0, 1, 0},
			{1, 0, 1},
			{0, 1, 1},
			{0.5, 0.5, -1},
		},
	)
}

const analogyFixture = `: royalty
man woman king queen
man woman king apple
man woman king prince

# comment
: empty
`

func TestParseAnalogies(t *testing.T) {
	sections, err := ParseAnalogies(strings.NewReader(analogyFixture))
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "royalty", sections[0].Name)
	assert.Len(t, sections[0].Questions, 3)
	assert.Equal(t, AnalogyQuestion{A: "man", B: "woman", C: "king", Expected: "queen"}, sections[0].Questions[0])
	assert.Empty(t, sections[1].Questions)
}

func TestParseAnalogies_Malformed(t *testing.T) {
	_, err := ParseAnalogies(strings.NewReader(": s\na b c\n"))
	assert.ErrorIs(t, err, ErrMalformedAnalogy)

	_, err = ParseAnalogies(strings.NewReader("a b c d\n"))
	assert.ErrorIs(t, err, ErrMalformedAnalogy)
}

func TestEvaluateAnalogies(t *testing.T) {
	m := fixtureModel()
	sections, err := ParseAnalogies(strings.NewReader(analogyFixture))
	require.NoError(t, err)

	res := m.EvaluateAnalogies(sections)
	assert.Equal(t, 1, res.Correct)
	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 1, res.Skipped)
	assert.InDelta(t, 0.5, res.Accuracy(), 1e-9)
	assert.Equal(t, SectionScore{Name: "royalty", Correct: 1, Incorrect: 1}, res.Sections[0])

	acc, err := m.AnalogyAccuracy(sections)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, acc, 1e-9)
}

func TestAnalogyAccuracy_NothingAttempted(t *testing.T) {
	m := fixtureModel()
	sections := []AnalogySection{{Name: "s", Questions: []AnalogyQuestion{{"x", "y", "z", "w"}}}}

	_, err := m.AnalogyAccuracy(sections)
	assert.ErrorIs(t, err, ErrNoAnalogies)
	assert.Equal(t, 0.0, AnalogyResult{}.Accuracy())
}

func TestMostSimilar(t *testing.T) {
	m := fixtureModel()

	got := m.MostSimilar([]string{"king"}, nil, 2)
	require.Len(t, got, 2)
	assert.NotEqual(t, "king", got[0].Word)
	assert.Nil(t, m.MostSimilar([]string{"unknown"}, nil, 2))
}

func TestCreateEmbedding(t *testing.T) {
	m := fixtureModel()

	vectors, err := m.CreateEmbedding(context.Background(), []string{"man woman", "unknown tokens"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.7071, vectors[0][0], 1e-3)
	assert.InDelta(t, 0.7071, vectors[0][1], 1e-3)
	assert.Equal(t, []float32{0, 0, 0}, vectors[1])

	embedder, err := m.Embedder()
	require.NoError(t, err)
	q, err := embedder.EmbedQuery(context.Background(), "king")
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 1}, q)

	q[0] = 42
	raw, _ := m.Vector("king")
	assert.Equal(t, float32(1), raw[0])
}

func TestCreateEmbedding_MultiWordToken(t *testing.T) {
	corpus := [][]string{
		{"insulin glargine", "heparin", "acetaminophen 500mg"},
		{"heparin", "insulin glargine", "acetaminophen 500mg"},
		{"acetaminophen 500mg", "heparin", "insulin glargine"},
	}
	w2v, err := New(NewConfig(WithSize(8), WithEpochs(2), WithMinCount(1), WithSample(0), WithSeed(5)))
	require.NoError(t, err)
	model, err := w2v.Fit(context.Background(), corpus)
	require.NoError(t, err)

	embedder, err := model.Embedder()
	require.NoError(t, err)
	got, err := embedder.EmbedDocuments(context.Background(), []string{"insulin glargine", "heparin", "acetaminophen 500mg"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	for i, tok := range []string{"insulin glargine", "heparin", "acetaminophen 500mg"} {
		raw, ok := model.Vector(tok)
		require.True(t, ok, tok)
		assert.Equal(t, raw, got[i], tok)
		assert.NotEqual(t, make([]float32, 8), got[i], tok)
	}
}

func TestModelArtifact(t *testing.T) {
	m := fixtureModel()
	data := MarshalModel(m)

	got, err := UnmarshalModel(data)
	require.NoError(t, err)
	assert.Equal(t, m.Words(), got.Words())
	assert.Equal(t, 3, got.Count("king"))
	v, ok := got.Vector("queen")
	require.True(t, ok)
	assert.Equal(t, []float32{0, 1, 1}, v)

	corrupt := append([]byte(nil), data...)
	corrupt[len(corrupt)-1] ^= 0xff
	_, err = UnmarshalModel(corrupt)
	assert.ErrorIs(t, err, storage.ErrCorruptArtifact)

	_, err = UnmarshalModel(storage.SealArtifact("pse", 1, []byte{0}))
	assert.ErrorIs(t, err, storage.ErrIncompatibleArtifact)
}
