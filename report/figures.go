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


package report

import (
	"cmp"
	"fmt"
	"image/color"
	"io"
	"slices"
	"strconv"

	"github.com/poiesic/medseq/gridsearch"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Figure is something that renders to PNG.
type Figure interface {
	WritePNG(w io.Writer) error
}

const (
	defaultWidth  = 8 * vg.Inch
	defaultHeight = 6 * vg.Inch
)

// Single is a figure holding one plot.
type Single struct {
	Plot   *plot.Plot
	Width  vg.Length
	Height vg.Length
}

// WritePNG renders the plot.
func (s *Single) WritePNG(w io.Writer) error {
	wt, err := s.Plot.WriterTo(s.Width, s.Height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// Panels is a figure holding a row of aligned plots.
type Panels struct {
	Plots  []*plot.Plot
	Width  vg.Length
	Height vg.Length
}

// WritePNG renders the panels side by side.
func (p *Panels) WritePNG(w io.Writer) error {
	img := vgimg.New(p.Width, p.Height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: 1,
		Cols: len(p.Plots),
		PadX: vg.Millimeter * 4,
		PadY: vg.Millimeter * 4,
	}
	canvases := plot.Align([][]*plot.Plot{p.Plots}, tiles, dc)
	for i, pl := range p.Plots {
		pl.Draw(canvases[0][i])
	}
	_, err := vgimg.PngCanvas{Canvas: img}.WriteTo(w)
	return err
}

// RankScores plots each fold's test score against the candidate's rank,
// one series per fold.
func RankScores(results *gridsearch.Results, title, metric string) (Figure, error) {
	if results == nil || len(results.Candidates) == 0 {
		return nil, ErrNoData
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Rank"
	p.Y.Label.Text = metric

	series := make([]any, 0, 2*results.Folds)
	for f := range results.Folds {
		xys := make(plotter.XYs, len(results.Candidates))
		for i, c := range results.Candidates {
			xys[i] = plotter.XY{X: float64(c.Rank), Y: c.Scores[f]}
		}
		series = append(series, fmt.Sprintf("split %d", f), xys)
	}
	if err := plotutil.AddScatters(p, series...); err != nil {
		return nil, err
	}
	return &Single{Plot: p, Width: defaultWidth, Height: defaultHeight}, nil
}

// ParamScores plots each fold's test score against the value of one
// parameter, one line per fold.
func ParamScores(results *gridsearch.Results, key, title, metric string) (Figure, error) {
	if results == nil || len(results.Candidates) == 0 {
		return nil, ErrNoData
	}
	candidates := slices.Clone(results.Candidates)
	slices.SortStableFunc(candidates, func(a, b gridsearch.Candidate) int {
		return cmp.Compare(a.Params[key], b.Params[key])
	})

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = key
	p.Y.Label.Text = metric

	series := make([]any, 0, 2*results.Folds)
	for f := range results.Folds {
		xys := make(plotter.XYs, len(candidates))
		for i, c := range candidates {
			xys[i] = plotter.XY{X: c.Params[key], Y: c.Scores[f]}
		}
		series = append(series, fmt.Sprintf("split %d", f), xys)
	}
	if err := plotutil.AddLinePoints(p, series...); err != nil {
		return nil, err
	}
	return &Single{Plot: p, Width: defaultWidth, Height: defaultHeight}, nil
}

// Silhouette draws per-sample silhouette values as horizontal bars grouped
// by cluster and sorted within each cluster, with the mean marked.
func Silhouette(samples []float64, labels []int) (Figure, error) {
	if len(samples) == 0 {
		return nil, ErrNoData
	}
	if len(samples) != len(labels) {
		return nil, ErrLabelMismatch
	}

	byCluster := map[int][]float64{}
	for i, l := range labels {
		byCluster[l] = append(byCluster[l], samples[i])
	}
	clusters := make([]int, 0, len(byCluster))
	for l := range byCluster {
		clusters = append(clusters, l)
	}
	slices.Sort(clusters)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Silhouette plot for %d clusters", len(clusters))
	p.X.Label.Text = "Silhouette coefficient"
	p.Y.Label.Text = "Cluster"

	const gap = 10
	var ticks []plot.Tick
	offset := 0
	for i, l := range clusters {
		values := byCluster[l]
		slices.Sort(values)
		bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(1))
		if err != nil {
			return nil, err
		}
		bars.Horizontal = true
		bars.XMin = float64(offset)
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Color = plotutil.Color(i)
		p.Add(bars)

		ticks = append(ticks, plot.Tick{
			Value: float64(offset) + float64(len(values))/2,
			Label: strconv.Itoa(l),
		})
		offset += len(values) + gap
	}
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	avg := stat.Mean(samples, nil)
	mean, err := plotter.NewLine(plotter.XYs{{X: avg, Y: 0}, {X: avg, Y: float64(offset)}})
	if err != nil {
		return nil, err
	}
	mean.LineStyle.Color = color.RGBA{R: 220, A: 255}
	mean.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	p.Add(mean)
	p.Legend.Add(fmt.Sprintf("mean %.3f", avg), mean)

	return &Single{Plot: p, Width: defaultWidth, Height: defaultHeight}, nil
}

// Projection draws 3-D points coloured by cluster as three aligned
// pairwise scatter panels.
func Projection(points [][]float64, labels []int) (Figure, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	if len(points) != len(labels) {
		return nil, ErrLabelMismatch
	}

	axes := [][2]int{{0, 1}, {0, 2}, {1, 2}}
	names := []string{"x", "y", "z"}
	dims := len(points[0])

	var panels []*plot.Plot
	for _, ax := range axes {
		if ax[1] >= dims {
			continue
		}
		p, err := clusterScatter(points, labels, ax[0], ax[1])
		if err != nil {
			return nil, err
		}
		p.X.Label.Text = names[ax[0]]
		p.Y.Label.Text = names[ax[1]]
		panels = append(panels, p)
	}
	if len(panels) == 0 {
		return nil, ErrNoData
	}
	panels[0].Title.Text = "Clustered embeddings"
	return &Panels{Plots: panels, Width: defaultWidth * 2, Height: defaultHeight}, nil
}

func clusterScatter(points [][]float64, labels []int, xi, yi int) (*plot.Plot, error) {
	byCluster := map[int]plotter.XYs{}
	for i, pt := range points {
		byCluster[labels[i]] = append(byCluster[labels[i]], plotter.XY{X: pt[xi], Y: pt[yi]})
	}
	clusters := make([]int, 0, len(byCluster))
	for l := range byCluster {
		clusters = append(clusters, l)
	}
	slices.Sort(clusters)

	p := plot.New()
	for i, l := range clusters {
		s, err := plotter.NewScatter(byCluster[l])
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add("cluster "+strconv.Itoa(l), s)
	}
	return p, nil
}
