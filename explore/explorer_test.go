package explore

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/poiesic/medseq/embedding"
	"github.com/poiesic/medseq/gridsearch"
	"github.com/poiesic/medseq/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu    sync.Mutex
	names []string
}

func (s *recordingSink) Emit(name string, _ report.Figure) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, name)
	return nil
}

func corpus() [][]string {
	rng := rand.New(rand.NewPCG(11, 11))
	var out [][]string
	for i := range 300 {
		topic := i % 3
		sentence := make([]string, 8)
		for j := range sentence {
			sentence[j] = fmt.Sprintf("t%d_%d", topic, rng.IntN(5))
		}
		out = append(out, sentence)
	}
	return out
}

func analogies(t *testing.T) []embedding.AnalogySection {
	t.Helper()
	sections, err := embedding.ParseAnalogies(strings.NewReader(
		": same topic\nt0_0 t0_1 t1_0 t1_1\nt1_2 t1_3 t2_2 t2_3\nt0_0 t0_1 zz_0 zz_1\n"))
	require.NoError(t, err)
	return sections
}

func testConfig(t *testing.T) *Config {
	return NewConfig(
		WithOutputDir(t.TempDir()),
		WithPoolSize(2),
		WithEmbedding(embedding.NewConfig(embedding.WithWindow(3), embedding.WithSeed(5))),
		WithGrids(&gridsearch.Grids{
			Word2Vec: gridsearch.Grid{
				"size":      {8},
				"iter":      {3},
				"min_count": {1},
				"sample":    {0},
				"hs":        {0, 1},
			},
			Clustering: gridsearch.Grid{"n_clusters": {2, 5}},
		}),
	)
}

func TestExplorer_Run(t *testing.T) {
	cfg := testConfig(t)
	sink := &recordingSink{}
	explorer, err := New(cfg, analogies(t), sink)
	require.NoError(t, err)

	rep, err := explorer.Run(context.Background(), corpus())
	require.NoError(t, err)

	assert.Len(t, rep.Embedding.Candidates, 2)
	assert.Contains(t, []float64{0, 1}, rep.BestEmbedding["hs"])
	assert.Equal(t, 15, rep.Model.Len())
	assert.Equal(t, 8, rep.Model.Dim())

	// five points per test fold cannot carry five clusters
	require.Len(t, rep.Clustering.Candidates, 2)
	assert.Error(t, rep.Clustering.Candidates[1].Err)
	assert.Equal(t, 2, rep.BestClusters)

	require.Len(t, rep.Points, 15)
	assert.True(t, slices.IsSortedFunc(rep.Points, func(a, b Point) int { return a.Cluster - b.Cluster }))
	for _, p := range rep.Points {
		assert.Len(t, p.Coords, 3)
		assert.True(t, rep.Model.Contains(p.Entity))
	}
	assert.GreaterOrEqual(t, rep.FinalAccuracy, 0.0)
	assert.LessOrEqual(t, rep.FinalAccuracy, 1.0)

	assert.ElementsMatch(t, []string{
		EmbeddingPlotFile, ClusteringPlotFile, SilhouettePlotFile, ClusteredPlotFile,
	}, sink.names)

	for _, name := range []string{EmbeddingResultsFile, ClusteringResultsFile} {
		_, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		assert.NoError(t, err, name)
	}

	f, err := os.Open(filepath.Join(cfg.OutputDir, GraphDataFile))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 16)
	assert.Equal(t, []string{"x", "y", "z", "cluster", "entity"}, rows[0])
	prev := -1
	for _, row := range rows[1:] {
		c, err := strconv.Atoi(row[3])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
}

func TestExplorer_Run_EmptyCorpus(t *testing.T) {
	explorer, err := New(testConfig(t), analogies(t), report.Discard)
	require.NoError(t, err)

	_, err = explorer.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestExplorer_Run_NoAnswerableAnalogies(t *testing.T) {
	sections, err := embedding.ParseAnalogies(strings.NewReader(": none\nq r s u\n"))
	require.NoError(t, err)

	explorer, err := New(testConfig(t), sections, report.Discard)
	require.NoError(t, err)

	_, err = explorer.Run(context.Background(), corpus())
	assert.ErrorIs(t, err, gridsearch.ErrNoValidCandidate)
}

func TestNew_Validation(t *testing.T) {
	cfg := testConfig(t)

	_, err := New(cfg, nil, report.Discard)
	assert.ErrorIs(t, err, ErrAnalogiesRequired)

	_, err = New(cfg, analogies(t), nil)
	assert.ErrorIs(t, err, ErrSinkRequired)

	bad := testConfig(t)
	bad.Grids.Clustering = gridsearch.Grid{"linkage": {1}}
	_, err = New(bad, analogies(t), report.Discard)
	assert.ErrorIs(t, err, ErrUnknownParam)

	bad = testConfig(t)
	bad.Folds = 1
	_, err = New(bad, analogies(t), report.Discard)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
