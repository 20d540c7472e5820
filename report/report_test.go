package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/medseq/gridsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

var errRender = errors.New("render failed")

// brokenFigure writes part of an image and then fails.
type brokenFigure struct{}

func (brokenFigure) WritePNG(w io.Writer) error {
	if _, err := w.Write(pngMagic); err != nil {
		return err
	}
	return errRender
}

func searchResults(t *testing.T) *gridsearch.Results {
	t.Helper()
	eval := func(_ context.Context, p gridsearch.Params, _, test []int) (float64, error) {
		return p["k"]/10 + float64(test[0])/100, nil
	}
	data := []int{0, 1, 2, 3, 4, 5}
	results, err := gridsearch.Search(context.Background(), data, gridsearch.Grid{"k": {3, 2, 4}}, eval)
	require.NoError(t, err)
	return results
}

func render(t *testing.T, fig Figure) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fig.WritePNG(&buf))
	return buf.Bytes()
}

func TestRankScores(t *testing.T) {
	fig, err := RankScores(searchResults(t), "word2vec", "analogy accuracy")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(render(t, fig), pngMagic))
}

func TestParamScores(t *testing.T) {
	fig, err := ParamScores(searchResults(t), "k", "clustering", "silhouette")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(render(t, fig), pngMagic))
}

func TestScores_NoData(t *testing.T) {
	_, err := RankScores(nil, "", "")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParamScores(&gridsearch.Results{}, "k", "", "")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSilhouette(t *testing.T) {
	fig, err := Silhouette([]float64{0.8, 0.6, -0.1, 0.5, 0.7}, []int{0, 0, 1, 1, 1})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(render(t, fig), pngMagic))

	_, err = Silhouette([]float64{0.1}, []int{0, 1})
	assert.ErrorIs(t, err, ErrLabelMismatch)

	_, err = Silhouette(nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestProjection(t *testing.T) {
	points := [][]float64{{0, 0, 0}, {1, 1, 1}, {5, 5, 4}, {6, 5, 5}}
	fig, err := Projection(points, []int{0, 0, 1, 1})
	require.NoError(t, err)

	panels, ok := fig.(*Panels)
	require.True(t, ok)
	assert.Len(t, panels.Plots, 3)
	assert.True(t, bytes.HasPrefix(render(t, fig), pngMagic))
}

func TestProjection_TwoDimensions(t *testing.T) {
	fig, err := Projection([][]float64{{0, 0}, {1, 1}}, []int{0, 1})
	require.NoError(t, err)
	assert.Len(t, fig.(*Panels).Plots, 1)
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	sink, err := NewFileSink(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, dir, sink.Dir())

	fig, err := Silhouette([]float64{0.5, 0.4}, []int{0, 1})
	require.NoError(t, err)
	require.NoError(t, sink.Emit("silhouette_plot.png", fig))

	data, err := os.ReadFile(filepath.Join(dir, "silhouette_plot.png"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	_, err = NewFileSink("", nil)
	assert.ErrorIs(t, err, ErrOutputDirRequired)
}

func TestDisplaySink(t *testing.T) {
	var opened string
	sink := NewDisplaySink(nil)
	sink.open = func(path string) error {
		opened = path
		return nil
	}

	fig, err := Silhouette([]float64{0.5, 0.4}, []int{0, 1})
	require.NoError(t, err)
	require.NoError(t, sink.Emit("plot.png", fig))
	t.Cleanup(func() { os.Remove(opened) })

	require.NotEmpty(t, opened)
	assert.Contains(t, filepath.Base(opened), "plot.png")
	data, err := os.ReadFile(opened)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))
}

func TestFileSink_RenderErrorLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir, nil)
	require.NoError(t, err)

	err = sink.Emit("broken.png", brokenFigure{})
	assert.ErrorIs(t, err, errRender)
	assert.NoFileExists(t, filepath.Join(dir, "broken.png"))
}

func TestDisplaySink_RenderErrorLeavesNoFile(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)

	opened := false
	sink := NewDisplaySink(nil)
	sink.open = func(string) error {
		opened = true
		return nil
	}

	err := sink.Emit("broken.png", brokenFigure{})
	assert.ErrorIs(t, err, errRender)
	assert.False(t, opened)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDetectSink(t *testing.T) {
	sink, err := DetectSink(true, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &DisplaySink{}, sink)

	sink, err = DetectSink(false, t.TempDir(), nil)
	require.NoError(t, err)
	assert.IsType(t, &FileSink{}, sink)
}

func TestDetectInteractive_File(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, DetectInteractive(f))
}
