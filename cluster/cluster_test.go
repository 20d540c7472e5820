package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(values ...float64) [][]float64 {
	points := make([][]float64, len(values))
	for i, v := range values {
		points[i] = []float64{v, 0}
	}
	return points
}

func TestAgglomerative_Line(t *testing.T) {
	points := line(0, 1, 5, 6, 20)

	labels, err := Agglomerative{NClusters: 3}.FitPredict(points)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 1, 1, 2}, labels)

	labels, err = Agglomerative{NClusters: 2}.FitPredict(points)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 1}, labels)

	labels, err = Agglomerative{NClusters: 5}.FitPredict(points)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, labels)

	labels, err = Agglomerative{NClusters: 1}.FitPredict(points)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 0}, labels)
}

func TestAgglomerative_InvalidCount(t *testing.T) {
	_, err := Agglomerative{NClusters: 0}.FitPredict(line(1, 2))
	assert.ErrorIs(t, err, ErrInvalidClusterCount)

	_, err = Agglomerative{NClusters: 3}.FitPredict(line(1, 2))
	assert.ErrorIs(t, err, ErrInvalidClusterCount)
}

func TestAgglomerative_Ragged(t *testing.T) {
	_, err := Agglomerative{NClusters: 1}.FitPredict([][]float64{{1, 2}, {1}})
	assert.ErrorIs(t, err, ErrRaggedInput)
}

func TestWardTree(t *testing.T) {
	merges, err := WardTree(line(0, 1, 5, 6, 20))
	require.NoError(t, err)
	require.Len(t, merges, 4)
	for i := 1; i < len(merges); i++ {
		assert.LessOrEqual(t, merges[i-1].Height, merges[i].Height)
	}
	// two singletons one apart merge at Ward height 1
	assert.InDelta(t, 1.0, merges[0].Height, 1e-9)
}

func TestSilhouette(t *testing.T) {
	points := [][]float64{{1, 0}, {1, 0.1}, {0, 1}, {0.1, 1}}

	score, err := Silhouette(points, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.Greater(t, score, 0.9)

	bad, err := Silhouette(points, []int{0, 1, 0, 1})
	require.NoError(t, err)
	assert.Less(t, bad, 0.0)
}

func TestSilhouetteSamples_Singleton(t *testing.T) {
	points := [][]float64{{1, 0}, {1, 0.1}, {0, 1}}

	scores, err := SilhouetteSamples(points, []int{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, scores[2])
	assert.Greater(t, scores[0], 0.0)
}

func TestSilhouette_InvalidLabels(t *testing.T) {
	points := [][]float64{{1, 0}, {0, 1}, {1, 1}}

	_, err := Silhouette(points, []int{0, 0, 0})
	assert.ErrorIs(t, err, ErrInvalidLabelCount)

	_, err = Silhouette(points, []int{0, 1, 2})
	assert.ErrorIs(t, err, ErrInvalidLabelCount)

	_, err = Silhouette(points, []int{0, 1})
	assert.ErrorIs(t, err, ErrInvalidLabelCount)
}

func TestCosineDistance(t *testing.T) {
	assert.InDelta(t, 0.0, CosineDistance([]float64{1, 1}, []float64{2, 2}), 1e-12)
	assert.InDelta(t, 1.0, CosineDistance([]float64{1, 0}, []float64{0, 3}), 1e-12)
	assert.InDelta(t, 2.0, CosineDistance([]float64{1, 0}, []float64{-1, 0}), 1e-12)
	assert.Equal(t, 1.0, CosineDistance([]float64{0, 0}, []float64{1, 0}))
}

func TestPCA(t *testing.T) {
	// points on the line t*(1,2,2) plus a small offset on one axis
	points := [][]float64{
		{1, 2, 2},
		{2, 4, 4},
		{3, 6, 6.1},
		{4, 8, 8},
		{-1, -2, -2},
	}

	out, err := PCA{Components: 3}.FitTransform(points)
	require.NoError(t, err)
	require.Len(t, out, 5)

	var first, second float64
	for _, row := range out {
		require.Len(t, row, 3)
		first += row[0] * row[0]
		second += row[1] * row[1]
	}
	assert.Greater(t, first, 100*second, "the first component carries almost all variance")

	// largest magnitude projection on the first component is positive
	assert.Greater(t, out[4][0], 0.0)
	assert.Less(t, out[3][0], 0.0)

	again, err := PCA{Components: 3}.FitTransform(points)
	require.NoError(t, err)
	for i := range out {
		for j := range out[i] {
			assert.InDelta(t, out[i][j], again[i][j], 1e-12)
		}
	}
	assert.False(t, math.IsNaN(out[0][2]))
}

func TestPCA_InsufficientData(t *testing.T) {
	_, err := PCA{Components: 3}.FitTransform([][]float64{{1, 2, 3}})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = PCA{Components: 3}.FitTransform([][]float64{{1, 2}, {3, 4}})
	assert.ErrorIs(t, err, ErrInsufficientData)
}
