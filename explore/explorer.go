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


package explore

import (
	"cmp"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/poiesic/medseq/cluster"
	"github.com/poiesic/medseq/embedding"
	"github.com/poiesic/medseq/gridsearch"
	"github.com/poiesic/medseq/report"
)

// Output file names.
const (
	EmbeddingResultsFile  = "word2vec_gridsearch_results.csv"
	EmbeddingPlotFile     = "word2vec_grid_search_results.png"
	ClusteringResultsFile = "clustering_grid_search_results.csv"
	ClusteringPlotFile    = "cluster_grid_search_results.png"
	SilhouettePlotFile    = "silhouette_plot.png"
	ClusteredPlotFile     = "clustered_embeddings_plot.png"
	GraphDataFile         = "graph_dataframe.csv"
	clusterCountParam     = "n_clusters"
	embeddingMetricLabel  = "Test analogy score"
	clusteringMetricLabel = "Test silhouette"
)

// Point is one vocabulary entry in the projected space.
type Point struct {
	Coords  []float64
	Cluster int
	Entity  string
}

// Report summarizes a run.
type Report struct {
	Embedding     *gridsearch.Results
	Clustering    *gridsearch.Results
	BestEmbedding gridsearch.Params
	BestClusters  int
	FinalAccuracy float64
	Silhouette    float64
	Model         *embedding.Model
	Points        []Point // sorted by cluster
}

// Explorer runs the embedding and clustering searches.
type Explorer struct {
	cfg       *Config
	analogies []embedding.AnalogySection
	sink      report.Sink
	logger    *slog.Logger
}

// Option configures an Explorer.
type Option func(*Explorer) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Explorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// New creates an Explorer scoring embeddings against analogies and sending
// figures to sink.
func New(cfg *Config, analogies []embedding.AnalogySection, sink report.Sink, opts ...Option) (*Explorer, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(analogies) == 0 {
		return nil, ErrAnalogiesRequired
	}
	if sink == nil {
		return nil, ErrSinkRequired
	}
	for name := range cfg.Grids.Clustering {
		if name != clusterCountParam {
			return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
		}
	}

	e := &Explorer{
		cfg:       cfg,
		analogies: analogies,
		sink:      sink,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	e.logger = e.logger.With("component", "explore")
	return e, nil
}

// Run explores corpus and writes every table and figure.
func (e *Explorer) Run(ctx context.Context, corpus [][]string) (*Report, error) {
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	rep := &Report{}

	e.logger.Info("performing grid search for word2vec embeddings", "sentences", len(corpus))
	results, err := gridsearch.Search(ctx, corpus, e.cfg.Grids.Word2Vec, e.scoreEmbedding, e.searchOptions()...)
	if err != nil {
		return nil, fmt.Errorf("word2vec search: %w", err)
	}
	rep.Embedding = results
	rep.BestEmbedding = results.Best().Params
	if err := e.writeTable(EmbeddingResultsFile, results.WriteCSV); err != nil {
		return nil, err
	}
	fig, err := report.RankScores(results, "Word2vec grid search", embeddingMetricLabel)
	if err != nil {
		return nil, err
	}
	if err := e.sink.Emit(EmbeddingPlotFile, fig); err != nil {
		return nil, err
	}

	e.logger.Info("refitting best word2vec embeddings", "params", rep.BestEmbedding.String())
	model, err := e.fitEmbedding(ctx, rep.BestEmbedding, corpus)
	if err != nil {
		return nil, fmt.Errorf("refit word2vec: %w", err)
	}
	rep.Model = model

	e.logger.Info("reducing dimensionality of word2vec embeddings", "words", model.Len(), "components", e.cfg.Components)
	points, err := e.project(model)
	if err != nil {
		return nil, err
	}

	e.logger.Info("performing grid search for clustering")
	results, err = gridsearch.Search(ctx, points, e.cfg.Grids.Clustering, scoreClustering, e.searchOptions()...)
	if err != nil {
		return nil, fmt.Errorf("clustering search: %w", err)
	}
	rep.Clustering = results
	rep.BestClusters = results.Best().Params.Int(clusterCountParam)
	if err := e.writeTable(ClusteringResultsFile, results.WriteCSV); err != nil {
		return nil, err
	}
	fig, err = report.ParamScores(results, clusterCountParam, "Clustering grid search", clusteringMetricLabel)
	if err != nil {
		return nil, err
	}
	if err := e.sink.Emit(ClusteringPlotFile, fig); err != nil {
		return nil, err
	}

	acc, err := model.AnalogyAccuracy(e.analogies)
	if err != nil {
		e.logger.Warn("final analogy accuracy unavailable", "error", err)
	}
	rep.FinalAccuracy = acc
	e.logger.Info("final word2vec embeddings", "accuracy", acc)

	if err := e.final(rep, points); err != nil {
		return nil, err
	}

	e.logger.Info("best hyperparameters",
		"word2vec", rep.BestEmbedding.String(),
		"n_clusters", rep.BestClusters,
		"silhouette", rep.Silhouette)
	return rep, nil
}

func (e *Explorer) searchOptions() []gridsearch.Option {
	return []gridsearch.Option{
		gridsearch.WithFolds(e.cfg.Folds),
		gridsearch.WithPoolSize(e.cfg.PoolSize),
		gridsearch.WithLogger(e.logger),
	}
}

func (e *Explorer) fitEmbedding(ctx context.Context, params gridsearch.Params, sentences [][]string) (*embedding.Model, error) {
	cfg, err := e.cfg.Embedding.WithParams(params)
	if err != nil {
		return nil, err
	}
	w2v, err := embedding.New(cfg, embedding.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	return w2v.Fit(ctx, sentences)
}

// scoreEmbedding fits on the training folds and scores the vectors against
// the analogy questions. The held-out sentences are not used.
func (e *Explorer) scoreEmbedding(ctx context.Context, params gridsearch.Params, train, _ [][]string) (float64, error) {
	model, err := e.fitEmbedding(ctx, params, train)
	if err != nil {
		return 0, err
	}
	return model.AnalogyAccuracy(e.analogies)
}

// scoreClustering clusters the held-out points and scores that labeling.
func scoreClustering(_ context.Context, params gridsearch.Params, _, test [][]float64) (float64, error) {
	labels, err := cluster.Agglomerative{NClusters: params.Int(clusterCountParam)}.FitPredict(test)
	if err != nil {
		return 0, err
	}
	return cluster.Silhouette(test, labels)
}

func (e *Explorer) project(model *embedding.Model) ([][]float64, error) {
	normed := model.Normalized()
	vectors := make([][]float64, len(normed))
	for i, v := range normed {
		row := make([]float64, len(v))
		for j, x := range v {
			row[j] = float64(x)
		}
		vectors[i] = row
	}
	points, err := cluster.PCA{Components: e.cfg.Components}.FitTransform(vectors)
	if err != nil {
		return nil, fmt.Errorf("project embeddings: %w", err)
	}
	return points, nil
}

func (e *Explorer) final(rep *Report, points [][]float64) error {
	e.logger.Info("performing clustering", "n_clusters", rep.BestClusters)
	labels, err := cluster.Agglomerative{NClusters: rep.BestClusters}.FitPredict(points)
	if err != nil {
		return fmt.Errorf("final clustering: %w", err)
	}
	samples, err := cluster.SilhouetteSamples(points, labels)
	if err != nil {
		return fmt.Errorf("final silhouette: %w", err)
	}
	rep.Silhouette, err = cluster.Silhouette(points, labels)
	if err != nil {
		return fmt.Errorf("final silhouette: %w", err)
	}

	fig, err := report.Silhouette(samples, labels)
	if err != nil {
		return err
	}
	if err := e.sink.Emit(SilhouettePlotFile, fig); err != nil {
		return err
	}

	words := rep.Model.Words()
	rep.Points = make([]Point, len(points))
	for i, p := range points {
		rep.Points[i] = Point{Coords: p, Cluster: labels[i], Entity: words[i]}
	}
	slices.SortStableFunc(rep.Points, func(a, b Point) int {
		return cmp.Compare(a.Cluster, b.Cluster)
	})
	if err := e.writeTable(GraphDataFile, func(w io.Writer) error {
		return writePoints(w, rep.Points)
	}); err != nil {
		return err
	}

	fig, err = report.Projection(points, labels)
	if err != nil {
		return err
	}
	return e.sink.Emit(ClusteredPlotFile, fig)
}

func (e *Explorer) writeTable(name string, write func(io.Writer) error) (err error) {
	path := filepath.Join(e.cfg.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := write(f); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	e.logger.Info("saved table", "path", path)
	return nil
}

var axisNames = []string{"x", "y", "z"}

func writePoints(w io.Writer, points []Point) error {
	cw := csv.NewWriter(w)
	var header []string
	if len(points) > 0 {
		for i := range points[0].Coords {
			if i < len(axisNames) {
				header = append(header, axisNames[i])
			} else {
				header = append(header, "c"+strconv.Itoa(i))
			}
		}
	}
	header = append(header, "cluster", "entity")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range points {
		row := make([]string, 0, len(header))
		for _, c := range p.Coords {
			row = append(row, strconv.FormatFloat(c, 'g', -1, 64))
		}
		row = append(row, strconv.Itoa(p.Cluster), p.Entity)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
